package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/Commitlabs-Org/commitlabs/internal/domain/commitment"
	"github.com/Commitlabs-Org/commitlabs/internal/storage"
)

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	store := New()

	created, err := store.CreateCommitment(context.Background(), commitment.Commitment{
		Owner: "alice", Title: "t", Asset: "GAS", Amount: 1, Status: commitment.StatusActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected ID and timestamps, got %+v", created)
	}
}

func TestCreateDuplicateID(t *testing.T) {
	store := New()
	ctx := context.Background()

	if _, err := store.CreateCommitment(ctx, commitment.Commitment{ID: "c1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := store.CreateCommitment(ctx, commitment.Commitment{ID: "c1"})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetAndDelete(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, _ := store.CreateCommitment(ctx, commitment.Commitment{Owner: "alice"})

	got, err := store.GetCommitment(ctx, created.ID)
	if err != nil || got.Owner != "alice" {
		t.Fatalf("get: %v %+v", err, got)
	}

	if err := store.DeleteCommitment(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetCommitment(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteCommitment(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, _ := store.CreateCommitment(ctx, commitment.Commitment{Owner: "alice", Status: commitment.StatusActive})
	created.Status = commitment.StatusFulfilled

	updated, err := store.UpdateCommitment(ctx, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("update must not change CreatedAt")
	}
	if updated.Status != commitment.StatusFulfilled {
		t.Fatalf("expected fulfilled, got %s", updated.Status)
	}

	_, err = store.UpdateCommitment(ctx, commitment.Commitment{ID: "missing"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListIsDeterministic(t *testing.T) {
	store := New()
	ctx := context.Background()

	for _, owner := range []string{"a", "b", "c"} {
		if _, err := store.CreateCommitment(ctx, commitment.Commitment{Owner: owner}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	first, err := store.ListCommitments(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	second, _ := store.ListCommitments(ctx)
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatal("list order must be deterministic")
		}
	}
}
