package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/getmockd/perfstub/pkg/httputil"
)

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	exempt func(*http.Request) bool
}

// WithExempt skips limiting for requests matching fn, e.g. health checks.
func WithExempt(fn func(*http.Request) bool) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.exempt = fn
	}
}

// Middleware enforces per-IP limits and answers 429 with a JSON body once a
// client's bucket is empty. A nil limiter passes every request through.
func Middleware(limiter *PerIPLimiter, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	var cfg middlewareConfig
	for _, o := range opts {
		o(&cfg)
	}

	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		limit := strconv.Itoa(limiter.Burst())
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.exempt != nil && cfg.exempt(r) {
				next.ServeHTTP(w, r)
				return
			}

			ok, remaining, wait := limiter.Allow(limiter.ClientIP(r))
			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(wait, 10))
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Retry-After", strconv.FormatInt(wait, 10))
			httputil.WriteErrorWithDetails(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				"Too many requests. Please slow down.", map[string]any{"retryAfter": wait})
		})
	}
}
