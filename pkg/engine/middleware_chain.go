package engine

import (
	"log/slog"
	"net/http"

	"github.com/getmockd/perfstub/pkg/config"
	"github.com/getmockd/perfstub/pkg/logging"
	"github.com/getmockd/perfstub/pkg/ratelimit"
)

// HealthPath is exempt from rate limiting.
const HealthPath = "/health"

// MiddlewareChain manages the HTTP middleware stack of the server.
type MiddlewareChain struct {
	cfg     *config.Config
	log     *slog.Logger
	limiter *ratelimit.PerIPLimiter
}

// NewMiddlewareChain creates the chain described by cfg. The rate limiter
// is only created when cfg.RateLimit is enabled.
func NewMiddlewareChain(cfg *config.Config, log *slog.Logger) *MiddlewareChain {
	if log == nil {
		log = logging.Nop()
	}
	mc := &MiddlewareChain{cfg: cfg, log: log}
	if rl := cfg.RateLimit; rl != nil && rl.Enabled {
		mc.limiter = ratelimit.NewPerIPLimiter(ratelimit.PerIPConfig{
			Rate:           rl.RequestsPerSecond,
			Burst:          rl.BurstSize,
			TrustedProxies: rl.TrustedProxies,
		})
	}
	return mc
}

// Wrap wraps handler with every configured middleware.
// The order is: request log -> CORS -> rate limit -> handler
func (mc *MiddlewareChain) Wrap(handler http.Handler) http.Handler {
	h := ratelimit.Middleware(mc.limiter, ratelimit.WithExempt(func(r *http.Request) bool {
		return r.URL.Path == HealthPath
	}))(handler)

	// CORS sits outside the limiter so 429s stay readable from browsers.
	h = NewCORSMiddleware(h, mc.cfg.CORS)

	return logging.Middleware(mc.log)(h)
}

// Limiter returns the rate limiter, or nil when rate limiting is off.
func (mc *MiddlewareChain) Limiter() *ratelimit.PerIPLimiter {
	return mc.limiter
}

// Close releases the limiter's cleanup goroutine.
func (mc *MiddlewareChain) Close() {
	if mc.limiter != nil {
		mc.limiter.Stop()
	}
}
