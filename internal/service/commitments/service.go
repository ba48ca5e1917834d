// Package commitments implements the commitment business rules over the
// store and the chain collaborator.
package commitments

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/Commitlabs-Org/commitlabs/internal/chain"
	"github.com/Commitlabs-Org/commitlabs/internal/domain/commitment"
	"github.com/Commitlabs-Org/commitlabs/internal/errors"
	"github.com/Commitlabs-Org/commitlabs/internal/metrics"
	"github.com/Commitlabs-Org/commitlabs/internal/storage"
	"github.com/Commitlabs-Org/commitlabs/pkg/logger"
)

// Service manages commitment lifecycle operations.
type Service struct {
	store   storage.CommitmentStore
	invoker chain.Invoker
	log     *logger.Logger
	now     func() time.Time
}

// New constructs a commitments service.
func New(store storage.CommitmentStore, invoker chain.Invoker, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("commitments")
	}
	return &Service{store: store, invoker: invoker, log: log, now: time.Now}
}

// CreateRequest carries the fields a caller supplies for a new commitment.
type CreateRequest struct {
	Owner       string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Asset       string    `json:"asset"`
	Amount      float64   `json:"amount"`
	Deadline    time.Time `json:"deadline"`
}

// Create validates the request, anchors the commitment on chain, and
// persists it as active.
func (s *Service) Create(ctx context.Context, req CreateRequest) (commitment.Commitment, error) {
	req.Owner = strings.TrimSpace(req.Owner)
	req.Title = strings.TrimSpace(req.Title)
	req.Asset = strings.TrimSpace(req.Asset)

	if req.Owner == "" {
		return commitment.Commitment{}, errors.Validation("owner", "is required")
	}
	if req.Title == "" {
		return commitment.Commitment{}, errors.Validation("title", "is required")
	}
	if req.Asset == "" {
		return commitment.Commitment{}, errors.Validation("asset", "is required")
	}
	if req.Amount <= 0 {
		return commitment.Commitment{}, errors.Validation("amount", "must be positive")
	}
	if !req.Deadline.IsZero() && req.Deadline.Before(s.now()) {
		return commitment.Commitment{}, errors.Validation("deadline", "must be in the future")
	}

	res, err := s.invoker.Invoke(ctx, "createCommitment", req.Owner, req.Asset, req.Amount)
	if err != nil {
		metrics.RecordCommitmentOperation("create", "error")
		return commitment.Commitment{}, fmt.Errorf("anchor commitment: %w", err)
	}

	created, err := s.store.CreateCommitment(ctx, commitment.Commitment{
		Owner:       req.Owner,
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Asset:       req.Asset,
		Amount:      req.Amount,
		Status:      commitment.StatusActive,
		TxHash:      res.TxHash,
		Deadline:    req.Deadline,
	})
	if err != nil {
		metrics.RecordCommitmentOperation("create", "error")
		return commitment.Commitment{}, s.storeError(err, "")
	}

	metrics.RecordCommitmentOperation("create", "ok")
	s.log.WithField("commitment_id", created.ID).
		WithField("owner", created.Owner).
		WithField("tx_hash", created.TxHash).
		Info("commitment created")
	return created, nil
}

// Get fetches one commitment.
func (s *Service) Get(ctx context.Context, id string) (commitment.Commitment, error) {
	c, err := s.store.GetCommitment(ctx, id)
	if err != nil {
		return commitment.Commitment{}, s.storeError(err, id)
	}
	return c, nil
}

// List enumerates every commitment in the store's deterministic base order.
func (s *Service) List(ctx context.Context) ([]commitment.Commitment, error) {
	return s.store.ListCommitments(ctx)
}

// Fulfill marks an active commitment fulfilled, anchoring the transition.
func (s *Service) Fulfill(ctx context.Context, id string) (commitment.Commitment, error) {
	return s.transition(ctx, id, commitment.StatusFulfilled, "fulfillCommitment")
}

// Withdraw marks an active commitment withdrawn, anchoring the transition.
func (s *Service) Withdraw(ctx context.Context, id string) (commitment.Commitment, error) {
	return s.transition(ctx, id, commitment.StatusWithdrawn, "withdrawCommitment")
}

// Delete removes a commitment record.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteCommitment(ctx, id); err != nil {
		return s.storeError(err, id)
	}
	metrics.RecordCommitmentOperation("delete", "ok")
	s.log.WithField("commitment_id", id).Info("commitment deleted")
	return nil
}

func (s *Service) transition(ctx context.Context, id string, target commitment.Status, method string) (commitment.Commitment, error) {
	c, err := s.store.GetCommitment(ctx, id)
	if err != nil {
		return commitment.Commitment{}, s.storeError(err, id)
	}

	// Only active commitments may transition.
	if c.Status != commitment.StatusActive {
		return commitment.Commitment{}, errors.Conflict(
			fmt.Sprintf("commitment is %s and cannot become %s", c.Status, target))
	}

	res, err := s.invoker.Invoke(ctx, method, id)
	if err != nil {
		metrics.RecordCommitmentOperation(string(target), "error")
		return commitment.Commitment{}, fmt.Errorf("anchor %s: %w", target, err)
	}

	c.Status = target
	c.TxHash = res.TxHash
	updated, err := s.store.UpdateCommitment(ctx, c)
	if err != nil {
		metrics.RecordCommitmentOperation(string(target), "error")
		return commitment.Commitment{}, s.storeError(err, id)
	}

	metrics.RecordCommitmentOperation(string(target), "ok")
	s.log.WithField("commitment_id", id).
		WithField("status", string(target)).
		Info("commitment transitioned")
	return updated, nil
}

func (s *Service) storeError(err error, id string) error {
	switch {
	case stderrors.Is(err, storage.ErrNotFound):
		return errors.NotFound("commitment", id)
	case stderrors.Is(err, storage.ErrAlreadyExists):
		return errors.Conflict("commitment already exists")
	default:
		return err
	}
}
