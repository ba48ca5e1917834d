package storage

import "errors"

// Sentinel errors every store implementation maps its backend failures to.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)
