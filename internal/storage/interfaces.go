// Package storage declares the persistence interfaces the services depend
// on.
package storage

import (
	"context"

	"github.com/Commitlabs-Org/commitlabs/internal/domain/commitment"
)

// CommitmentStore persists commitment records. List enumerates every record;
// callers sort, filter, and paginate the result themselves.
type CommitmentStore interface {
	CreateCommitment(ctx context.Context, c commitment.Commitment) (commitment.Commitment, error)
	UpdateCommitment(ctx context.Context, c commitment.Commitment) (commitment.Commitment, error)
	GetCommitment(ctx context.Context, id string) (commitment.Commitment, error)
	ListCommitments(ctx context.Context) ([]commitment.Commitment, error)
	DeleteCommitment(ctx context.Context, id string) error
}
