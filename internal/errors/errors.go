// Package errors defines the service error taxonomy shared by every HTTP
// handler. Each error carries a closed kind, a client-safe message, optional
// structured details, and the underlying cause for server-side logging.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of error categories surfaced to clients.
type Kind string

const (
	KindBadRequest      Kind = "BAD_REQUEST"
	KindValidation      Kind = "VALIDATION_ERROR"
	KindUnauthorized    Kind = "UNAUTHORIZED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindTooManyRequests Kind = "TOO_MANY_REQUESTS"
	KindInternal        Kind = "INTERNAL_ERROR"
)

// httpStatus maps each kind to its canonical HTTP status.
var httpStatus = map[Kind]int{
	KindBadRequest:      http.StatusBadRequest,
	KindValidation:      http.StatusBadRequest,
	KindUnauthorized:    http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindTooManyRequests: http.StatusTooManyRequests,
	KindInternal:        http.StatusInternalServerError,
}

// internalMessage is the only message clients ever see for internal errors.
const internalMessage = "an internal error occurred"

// Error is a classified service error. Message and Details are client-safe;
// cause is logged server-side and never serialized.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any

	// status overrides the canonical mapping when non-zero. Used only where
	// one kind must surface at a non-default status.
	status int
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the cause to errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus returns the status the error should be served with.
func (e *Error) HTTPStatus() int {
	if e.status != 0 {
		return e.status
	}
	if s, ok := httpStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Cause returns the wrapped underlying error, if any.
func (e *Error) Cause() error { return e.cause }

// WithDetails returns a copy of the error with the key/value added to its
// details. The receiver is not mutated.
func (e *Error) WithDetails(key string, value any) *Error {
	clone := *e
	clone.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		clone.Details[k] = v
	}
	clone.Details[key] = value
	return &clone
}

// WithStatus returns a copy of the error served at a non-canonical status.
func (e *Error) WithStatus(status int) *Error {
	clone := *e
	clone.status = status
	return &clone
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// BadRequest signals a malformed request shape.
func BadRequest(message string) *Error { return newError(KindBadRequest, message) }

// Validation signals a specific field failing a declared constraint. The
// offending field is recorded in details so clients can attribute the error.
func Validation(field, message string) *Error {
	return newError(KindValidation, fmt.Sprintf("%s: %s", field, message)).
		WithDetails("field", field)
}

// Unauthorized signals missing or invalid credentials.
func Unauthorized(message string) *Error { return newError(KindUnauthorized, message) }

// Forbidden signals an authenticated but unpermitted request.
func Forbidden(message string) *Error { return newError(KindForbidden, message) }

// NotFound signals an absent resource.
func NotFound(resource, id string) *Error {
	msg := resource + " not found"
	if id != "" {
		msg = fmt.Sprintf("%s %q not found", resource, id)
	}
	return newError(KindNotFound, msg)
}

// Conflict signals a state conflict such as a duplicate or an illegal
// transition.
func Conflict(message string) *Error { return newError(KindConflict, message) }

// TooManyRequests signals a rate limiter rejection.
func TooManyRequests(message string) *Error {
	if message == "" {
		message = "rate limit exceeded"
	}
	return newError(KindTooManyRequests, message)
}

// Internal wraps an unclassified failure. The cause is retained for logging;
// clients only ever see the fixed internal message unless a safe one is given.
func Internal(message string, cause error) *Error {
	if message == "" {
		message = internalMessage
	}
	e := newError(KindInternal, message)
	e.cause = cause
	return e
}

// Normalize turns any error into a taxonomy error. Errors already classified
// pass through unchanged; everything else becomes an Internal error carrying
// the fallback message, with the original retained as cause for logging only.
func Normalize(err error, fallback string) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	if fallback == "" {
		fallback = internalMessage
	}
	return Internal(fallback, err)
}

// IsKind reports whether err is a taxonomy error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return stderrors.As(err, &apiErr) && apiErr.Kind == kind
}
