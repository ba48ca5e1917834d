// Package memory is the in-memory implementation of the storage interfaces.
// It is safe for concurrent use and serves tests and local development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Commitlabs-Org/commitlabs/internal/domain/commitment"
	"github.com/Commitlabs-Org/commitlabs/internal/storage"
)

// Store keeps commitments in a mutex-guarded map. Returned records are
// copies; callers never share memory with the store.
type Store struct {
	mu          sync.RWMutex
	commitments map[string]commitment.Commitment
}

var _ storage.CommitmentStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{commitments: make(map[string]commitment.Commitment)}
}

func (s *Store) CreateCommitment(_ context.Context, c commitment.Commitment) (commitment.Commitment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	} else if _, exists := s.commitments[c.ID]; exists {
		return commitment.Commitment{}, storage.ErrAlreadyExists
	}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	s.commitments[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCommitment(_ context.Context, c commitment.Commitment) (commitment.Commitment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.commitments[c.ID]
	if !ok {
		return commitment.Commitment{}, storage.ErrNotFound
	}

	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	s.commitments[c.ID] = c
	return c, nil
}

func (s *Store) GetCommitment(_ context.Context, id string) (commitment.Commitment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.commitments[id]
	if !ok {
		return commitment.Commitment{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListCommitments(_ context.Context) ([]commitment.Commitment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]commitment.Commitment, 0, len(s.commitments))
	for _, c := range s.commitments {
		out = append(out, c)
	}
	// Map iteration order is random; give callers a deterministic base order.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) DeleteCommitment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.commitments[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.commitments, id)
	return nil
}
