package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/Commitlabs-Org/commitlabs/internal/errors"
	"github.com/Commitlabs-Org/commitlabs/internal/httputil"
	"github.com/Commitlabs-Org/commitlabs/internal/metrics"
	"github.com/Commitlabs-Org/commitlabs/internal/ratelimit"
	"github.com/Commitlabs-Org/commitlabs/pkg/logger"
)

// RateLimit guards a route with the limiter under the given scope. The
// client identifier is the authenticated user when present, otherwise the
// resolved client address.
func RateLimit(limiter *ratelimit.Limiter, scope string, log *logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.NewDefault("ratelimit")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := UserID(r.Context())
			if identifier == "" {
				identifier = ClientIdentifier(r)
			}

			if !limiter.Admit(r.Context(), identifier, scope) {
				metrics.RecordRateLimitRejection(scope)
				log.WithFields(map[string]any{
					"client": identifier,
					"scope":  scope,
					"path":   r.URL.Path,
				}).Warn("rate limit exceeded")
				httputil.WriteAPIError(w, errors.TooManyRequests(""))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIdentifier resolves the caller's identity for rate limiting. The
// chain is: first X-Forwarded-For hop, X-Real-IP, then the connection's
// remote address. Clients with none resolve to the shared anonymous bucket.
// The result is an opaque bucket key, never parsed further.
func ClientIdentifier(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if addr := strings.TrimSpace(r.RemoteAddr); addr != "" {
		return addr
	}
	return ratelimit.AnonymousIdentifier
}
