// Package ratelimit implements fixed-window request counting per
// (client, scope) key. The window store is pluggable: an in-memory store for
// single-process deployments and a Redis store for multi-process ones.
package ratelimit

import (
	"context"
	"time"

	"github.com/Commitlabs-Org/commitlabs/pkg/logger"
)

// AnonymousIdentifier is the shared bucket for clients whose identity cannot
// be resolved. All unauthenticated clients without a resolvable address share
// it; that is an accepted trade-off, not a bug.
const AnonymousIdentifier = "anonymous"

// Store performs the atomic check-and-increment for one key's window.
type Store interface {
	// Incr admits or rejects one request against the key's current window.
	// A fresh or elapsed window resets to count=1 and admits. An in-window
	// count below limit increments and admits. At or above limit the call
	// rejects without incrementing, so repeated rejections do not extend
	// the penalty.
	Incr(ctx context.Context, key string, limit int, window time.Duration) (count int, allowed bool, err error)
}

// Config is one scope's budget.
type Config struct {
	Limit  int
	Window time.Duration
}

// Limiter decides admit/reject per (identifier, scope) over a Store.
type Limiter struct {
	store    Store
	defaults Config
	scopes   map[string]Config
	log      *logger.Logger
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithScope overrides the default budget for one route scope.
func WithScope(scope string, cfg Config) Option {
	return func(l *Limiter) { l.scopes[scope] = cfg }
}

// WithLogger sets the limiter's logger.
func WithLogger(log *logger.Logger) Option {
	return func(l *Limiter) { l.log = log }
}

// New builds a limiter with default budget and per-scope overrides.
func New(store Store, defaults Config, opts ...Option) *Limiter {
	l := &Limiter{
		store:    store,
		defaults: defaults,
		scopes:   make(map[string]Config),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.NewDefault("ratelimit")
	}
	return l
}

// Admit reports whether the request may proceed, incrementing the bucket for
// (identifier, scope) as a side effect. Rejection is a boolean the caller
// converts into a TooManyRequests error; Admit itself never fails. Store
// errors fail open: blocking all traffic on a store outage is worse than
// briefly not limiting it.
func (l *Limiter) Admit(ctx context.Context, identifier, scope string) bool {
	if identifier == "" {
		identifier = AnonymousIdentifier
	}
	cfg, ok := l.scopes[scope]
	if !ok {
		cfg = l.defaults
	}
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		return true
	}

	_, allowed, err := l.store.Incr(ctx, identifier+"|"+scope, cfg.Limit, cfg.Window)
	if err != nil {
		l.log.WithError(err).WithField("scope", scope).Warn("rate limit store unavailable, admitting")
		return true
	}
	return allowed
}

// ScopeConfig returns the budget in effect for a scope.
func (l *Limiter) ScopeConfig(scope string) Config {
	if cfg, ok := l.scopes[scope]; ok {
		return cfg
	}
	return l.defaults
}
