package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Commitlabs-Org/commitlabs/internal/httputil"
	"github.com/Commitlabs-Org/commitlabs/internal/metrics"
	"github.com/Commitlabs-Org/commitlabs/internal/middleware"
	"github.com/Commitlabs-Org/commitlabs/internal/ratelimit"
	"github.com/Commitlabs-Org/commitlabs/internal/service/commitments"
	"github.com/Commitlabs-Org/commitlabs/pkg/logger"
)

// Rate limit scopes, one per logical endpoint so a client's usage of one
// route doesn't exhaust its budget on another.
const (
	ScopeList  = "commitments:list"
	ScopeRead  = "commitments:read"
	ScopeWrite = "commitments:write"
	ScopeStats = "stats"
)

// Deps carries everything the router needs.
type Deps struct {
	Commitments *commitments.Service
	Limiter     *ratelimit.Limiter
	JWTSecret   []byte
	CORSOrigins []string
	Log         *logger.Logger
}

// NewRouter builds the full middleware chain and route table.
func NewRouter(deps Deps) http.Handler {
	h := &handler{commitments: deps.Commitments}
	pipe := httputil.NewPipeline(deps.Log)

	r := mux.NewRouter()
	r.Use(middleware.Tracing)
	r.Use(middleware.Logging(deps.Log))
	r.Use(middleware.Metrics)
	r.Use(middleware.NewCORSMiddleware(deps.CORSOrigins).Handler)
	r.NotFoundHandler = pipe.NotFoundHandler()
	r.MethodNotAllowedHandler = pipe.MethodNotAllowedHandler()

	r.Handle("/health", pipe.Handle(h.health)).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	limit := func(scope string, next http.Handler) http.Handler {
		return middleware.RateLimit(deps.Limiter, scope, deps.Log)(next)
	}
	auth := middleware.NewAuthMiddleware(deps.JWTSecret, deps.Log, nil)

	v1 := r.PathPrefix("/api/v1").Subrouter()

	v1.Handle("/commitments",
		limit(ScopeList, pipe.Handle(h.listCommitments))).Methods(http.MethodGet)
	v1.Handle("/commitments",
		auth.Handler(limit(ScopeWrite, pipe.Handle(h.createCommitment)))).Methods(http.MethodPost)
	v1.Handle("/commitments/{id}",
		limit(ScopeRead, pipe.Handle(h.getCommitment))).Methods(http.MethodGet)
	v1.Handle("/commitments/{id}/fulfill",
		auth.Handler(limit(ScopeWrite, pipe.Handle(h.fulfillCommitment)))).Methods(http.MethodPost)
	v1.Handle("/commitments/{id}/withdraw",
		auth.Handler(limit(ScopeWrite, pipe.Handle(h.withdrawCommitment)))).Methods(http.MethodPost)
	v1.Handle("/commitments/{id}",
		auth.Handler(limit(ScopeWrite, pipe.Handle(h.deleteCommitment)))).Methods(http.MethodDelete)
	v1.Handle("/stats",
		limit(ScopeStats, pipe.Handle(h.stats))).Methods(http.MethodGet)

	return r
}
