// Package ratelimit provides per-client-IP request throttling for the
// HTTP server.
package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default per-IP limiter values.
const (
	DefaultRate            = 100
	DefaultCleanupInterval = 1 * time.Minute
	DefaultEntryTTL        = 1 * time.Minute
)

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PerIPConfig configures a PerIPLimiter.
type PerIPConfig struct {
	Rate            float64       // requests per second
	Burst           int           // maximum burst
	TrustedProxies  []string      // CIDR ranges or IPs of trusted proxies
	TrustAllProxies bool          // trust proxy headers from any source (insecure)
	CleanupInterval time.Duration // how often stale entries are cleaned up
	EntryTTL        time.Duration // how long an entry lives without activity
}

// PerIPLimiter keeps one token-bucket limiter per client IP.
type PerIPLimiter struct {
	rps             rate.Limit
	burst           int
	entries         map[string]*ipEntry
	mu              sync.Mutex
	stopOnce        sync.Once
	stopCh          chan struct{}
	stoppedCh       chan struct{}
	trustedProxies  []*net.IPNet
	trustProxy      bool
	cleanupInterval time.Duration
	entryTTL        time.Duration
	now             func() time.Time
}

// NewPerIPLimiter creates a new per-IP rate limiter with the given configuration.
// It starts a background goroutine for cleaning up stale entries.
func NewPerIPLimiter(cfg PerIPConfig) *PerIPLimiter {
	rps := cfg.Rate
	if rps <= 0 {
		rps = DefaultRate
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(rps * 2)
	}
	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	entryTTL := cfg.EntryTTL
	if entryTTL <= 0 {
		entryTTL = DefaultEntryTTL
	}

	rl := &PerIPLimiter{
		rps:             rate.Limit(rps),
		burst:           burst,
		entries:         make(map[string]*ipEntry),
		stopCh:          make(chan struct{}),
		stoppedCh:       make(chan struct{}),
		cleanupInterval: cleanupInterval,
		entryTTL:        entryTTL,
		now:             time.Now,
	}

	if cfg.TrustAllProxies {
		rl.trustProxy = true
	} else {
		for _, p := range cfg.TrustedProxies {
			if network := parseNetwork(p); network != nil {
				rl.trustedProxies = append(rl.trustedProxies, network)
				rl.trustProxy = true
			}
		}
	}

	go rl.cleanup()

	return rl
}

func parseNetwork(s string) *net.IPNet {
	if _, network, err := net.ParseCIDR(s); err == nil {
		return network
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return nil
	}
	bits := 128
	if ip.To4() != nil {
		ip = ip.To4()
		bits = 32
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}
}

// Burst returns the burst size.
func (rl *PerIPLimiter) Burst() int {
	return rl.burst
}

// Allow checks if a request from the given IP is allowed.
// Returns (allowed, remaining tokens, reset/retry-after time in seconds).
func (rl *PerIPLimiter) Allow(ip string) (allowed bool, remaining int, retryAfterSec int64) {
	now := rl.now()

	rl.mu.Lock()
	e, ok := rl.entries[ip]
	if !ok {
		e = &ipEntry{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.entries[ip] = e
	}
	e.lastSeen = now
	rl.mu.Unlock()

	if e.limiter.AllowN(now, 1) {
		tokens := e.limiter.TokensAt(now)
		return true, max(int(tokens), 0), rl.secondsFor(float64(rl.burst) - tokens)
	}

	tokens := e.limiter.TokensAt(now)
	return false, 0, max(rl.secondsFor(1-tokens), 1)
}

// secondsFor returns how long refilling n tokens takes, rounded up.
func (rl *PerIPLimiter) secondsFor(n float64) int64 {
	if n <= 0 {
		return 0
	}
	return int64(math.Ceil(n / float64(rl.rps)))
}

// ClientIP extracts the client IP from the request, respecting trusted proxy settings.
func (rl *PerIPLimiter) ClientIP(r *http.Request) string {
	remoteIP := extractRemoteIP(r.RemoteAddr)

	if rl.isTrustedProxy(remoteIP) {
		// X-Forwarded-For may hold a chain; the first entry is the client.
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if idx := strings.IndexByte(xff, ','); idx != -1 {
				xff = xff[:idx]
			}
			ip := strings.TrimSpace(xff)
			if ip != "" && isValidIP(ip) {
				return ip
			}
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			ip := strings.TrimSpace(xri)
			if ip != "" && isValidIP(ip) {
				return ip
			}
		}
	}

	return remoteIP
}

// Stop stops the cleanup goroutine. Safe to call more than once.
func (rl *PerIPLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
	<-rl.stoppedCh
}

func (rl *PerIPLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()
	defer close(rl.stoppedCh)

	for {
		select {
		case <-ticker.C:
			rl.removeStaleEntries()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *PerIPLimiter) removeStaleEntries() {
	cutoff := rl.now().Add(-rl.entryTTL)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, e := range rl.entries {
		if e.lastSeen.Before(cutoff) {
			delete(rl.entries, ip)
		}
	}
}

// size returns the number of tracked IPs.
func (rl *PerIPLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.entries)
}

func (rl *PerIPLimiter) isTrustedProxy(ip string) bool {
	if !rl.trustProxy {
		return false
	}
	// trustProxy without networks means trust all
	if rl.trustedProxies == nil {
		return true
	}
	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}
	for _, network := range rl.trustedProxies {
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// extractRemoteIP strips the port from RemoteAddr.
func extractRemoteIP(remoteAddr string) string {
	ip, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return ip
}

func isValidIP(s string) bool {
	return net.ParseIP(s) != nil
}
