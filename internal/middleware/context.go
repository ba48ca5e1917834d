// Package middleware provides the HTTP middleware chain: request tracing,
// CORS, metrics, JWT authentication, and per-client rate limiting.
package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	userIDKey  contextKey = "user_id"
	traceIDKey contextKey = "trace_id"
)

// WithUserID attaches the authenticated user to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user, or "" for anonymous requests.
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// WithTraceID attaches a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceID returns the request's trace ID, or "".
func TraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// NewTraceID generates a fresh trace ID.
func NewTraceID() string {
	return uuid.NewString()
}
