package commitments

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/Commitlabs-Org/commitlabs/internal/chain"
	"github.com/Commitlabs-Org/commitlabs/internal/domain/commitment"
	"github.com/Commitlabs-Org/commitlabs/internal/errors"
	"github.com/Commitlabs-Org/commitlabs/internal/storage/memory"
)

func newTestService() (*Service, *chain.MockInvoker) {
	mock := chain.NewMockInvoker()
	return New(memory.New(), mock, nil), mock
}

func validCreate() CreateRequest {
	return CreateRequest{
		Owner:    "NXV7ZhHiyM1aHXwpVsRZC6BwNFP2jghXAq",
		Title:    "run a marathon",
		Asset:    "GAS",
		Amount:   50,
		Deadline: time.Now().Add(30 * 24 * time.Hour),
	}
}

func TestCreateCommitment(t *testing.T) {
	svc, mock := newTestService()

	created, err := svc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated ID")
	}
	if created.Status != commitment.StatusActive {
		t.Fatalf("expected active status, got %s", created.Status)
	}
	if created.TxHash == "" {
		t.Fatal("expected chain tx hash")
	}
	if calls := mock.Calls(); len(calls) != 1 || calls[0].Method != "createCommitment" {
		t.Fatalf("unexpected chain calls: %+v", calls)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateRequest)
		field  string
	}{
		{"missing owner", func(r *CreateRequest) { r.Owner = " " }, "owner"},
		{"missing title", func(r *CreateRequest) { r.Title = "" }, "title"},
		{"missing asset", func(r *CreateRequest) { r.Asset = "" }, "asset"},
		{"zero amount", func(r *CreateRequest) { r.Amount = 0 }, "amount"},
		{"negative amount", func(r *CreateRequest) { r.Amount = -1 }, "amount"},
		{"past deadline", func(r *CreateRequest) { r.Deadline = time.Now().Add(-time.Hour) }, "deadline"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreate()
			tc.mutate(&req)
			_, err := svc.Create(ctx, req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			apiErr := errors.Normalize(err, "")
			if apiErr.Kind != errors.KindValidation {
				t.Fatalf("expected validation kind, got %s", apiErr.Kind)
			}
			if apiErr.Details["field"] != tc.field {
				t.Fatalf("expected %q to be named, got %v", tc.field, apiErr.Details)
			}
		})
	}
}

func TestCreateChainFailureSurfacesAsInternal(t *testing.T) {
	svc, mock := newTestService()
	mock.Err = stderrors.New("node unreachable")

	_, err := svc.Create(context.Background(), validCreate())
	if err == nil {
		t.Fatal("expected error")
	}
	// Unclassified collaborator failure normalizes to Internal at the
	// pipeline boundary.
	if apiErr := errors.Normalize(err, ""); apiErr.Kind != errors.KindInternal {
		t.Fatalf("expected internal kind, got %s", apiErr.Kind)
	}
}

func TestFulfillTransition(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	fulfilled, err := svc.Fulfill(ctx, created.ID)
	if err != nil {
		t.Fatalf("fulfill: %v", err)
	}
	if fulfilled.Status != commitment.StatusFulfilled {
		t.Fatalf("expected fulfilled, got %s", fulfilled.Status)
	}

	// A second transition conflicts.
	_, err = svc.Withdraw(ctx, created.ID)
	if !errors.IsKind(err, errors.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetUnknownIsNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), "missing")
	if !errors.IsKind(err, errors.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.IsKind(err, errors.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestStatsAggregation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second := validCreate()
	second.Asset = "NEO"
	second.Amount = 10
	if _, err := svc.Create(ctx, second); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Fulfill(ctx, first.ID); err != nil {
		t.Fatalf("fulfill: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 {
		t.Fatalf("expected 2 total, got %d", stats.Total)
	}
	if stats.ByStatus["fulfilled"] != 1 || stats.ByStatus["active"] != 1 {
		t.Fatalf("unexpected status counts: %v", stats.ByStatus)
	}
	if stats.AmountByAsset["GAS"] != 50 || stats.AmountByAsset["NEO"] != 10 {
		t.Fatalf("unexpected asset amounts: %v", stats.AmountByAsset)
	}
	if stats.TotalAmount != 60 {
		t.Fatalf("expected total amount 60, got %v", stats.TotalAmount)
	}
}

func TestStatsEmptyStore(t *testing.T) {
	svc, _ := newTestService()

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 0 || len(stats.ByStatus) != 0 {
		t.Fatalf("expected empty aggregates, got %+v", stats)
	}
}
