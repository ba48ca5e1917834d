// Package api exposes the commitment REST API. Every route is composed
// through the request pipeline; handlers signal failure by returning errors
// and never write responses themselves.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Commitlabs-Org/commitlabs/internal/domain/commitment"
	"github.com/Commitlabs-Org/commitlabs/internal/httputil"
	"github.com/Commitlabs-Org/commitlabs/internal/query"
	"github.com/Commitlabs-Org/commitlabs/internal/service/commitments"
)

// Sort allow-list and pagination bounds for commitment listings.
var (
	commitmentSortFields = []string{"createdAt", "amount", "deadline", "title"}

	listOptions = query.Options{DefaultPageSize: 20, MaxPageSize: 100}
)

type handler struct {
	commitments *commitments.Service
}

func (h *handler) listCommitments(r *http.Request) (any, error) {
	q := r.URL.Query()

	p, err := query.ParsePagination(q, listOptions)
	if err != nil {
		return nil, err
	}
	s, err := query.ParseSort(q, commitmentSortFields, "createdAt", query.OrderDesc)
	if err != nil {
		return nil, err
	}
	status, hasStatus, err := query.ParseEnumFilter(q, "status", commitment.Statuses)
	if err != nil {
		return nil, err
	}

	items, err := h.commitments.List(r.Context())
	if err != nil {
		return nil, err
	}

	if hasStatus {
		filtered := items[:0:0]
		for _, c := range items {
			if string(c.Status) == status {
				filtered = append(filtered, c)
			}
		}
		items = filtered
	}

	// Sort the full result set first; slicing a single page before sorting
	// would order only that page.
	items = query.SortSlice(items, s, compareCommitments)
	return query.Paginate(items, p), nil
}

func compareCommitments(a, b commitment.Commitment, field string) int {
	switch field {
	case "amount":
		return query.CompareFloat64(a.Amount, b.Amount)
	case "deadline":
		return query.CompareInt64(a.Deadline.UnixNano(), b.Deadline.UnixNano())
	case "title":
		return query.CompareStrings(a.Title, b.Title)
	default:
		return query.CompareInt64(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	}
}

func (h *handler) createCommitment(r *http.Request) (any, error) {
	var req commitments.CreateRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		return nil, err
	}

	created, err := h.commitments.Create(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return httputil.Created(created), nil
}

func (h *handler) getCommitment(r *http.Request) (any, error) {
	return h.commitments.Get(r.Context(), mux.Vars(r)["id"])
}

func (h *handler) fulfillCommitment(r *http.Request) (any, error) {
	return h.commitments.Fulfill(r.Context(), mux.Vars(r)["id"])
}

func (h *handler) withdrawCommitment(r *http.Request) (any, error) {
	return h.commitments.Withdraw(r.Context(), mux.Vars(r)["id"])
}

func (h *handler) deleteCommitment(r *http.Request) (any, error) {
	if err := h.commitments.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		return nil, err
	}
	return httputil.NoContent(), nil
}

func (h *handler) stats(r *http.Request) (any, error) {
	return h.commitments.Stats(r.Context())
}

func (h *handler) health(r *http.Request) (any, error) {
	return map[string]string{"status": "ok"}, nil
}
