package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, cfg PerIPConfig) *PerIPLimiter {
	t.Helper()
	l := NewPerIPLimiter(cfg)
	t.Cleanup(l.Stop)
	return l
}

func TestNewPerIPLimiter_Defaults(t *testing.T) {
	l := newLimiter(t, PerIPConfig{})

	assert.Equal(t, 200, l.Burst())
	assert.Equal(t, DefaultCleanupInterval, l.cleanupInterval)
	assert.Equal(t, DefaultEntryTTL, l.entryTTL)
}

func TestAllow(t *testing.T) {
	l := newLimiter(t, PerIPConfig{Rate: 1, Burst: 3})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i, want := range []int{2, 1, 0} {
		ok, remaining, _ := l.Allow("10.0.0.1")
		require.True(t, ok, "request %d", i+1)
		assert.Equal(t, want, remaining)
	}

	ok, remaining, retry := l.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Zero(t, remaining)
	assert.Equal(t, int64(1), retry)

	// Other clients have their own bucket.
	ok, _, _ = l.Allow("10.0.0.2")
	assert.True(t, ok)

	now = now.Add(time.Second)
	ok, _, _ = l.Allow("10.0.0.1")
	assert.True(t, ok, "one token refills after a second")
}

func TestRemoveStaleEntries(t *testing.T) {
	l := newLimiter(t, PerIPConfig{Rate: 10, EntryTTL: time.Minute})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	now = now.Add(30 * time.Second)
	l.Allow("10.0.0.2")
	now = now.Add(45 * time.Second)

	l.removeStaleEntries()
	assert.Equal(t, 1, l.size())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		cfg     PerIPConfig
		remote  string
		headers map[string]string
		want    string
	}{
		{"remote addr", PerIPConfig{}, "192.0.2.1:5555", nil, "192.0.2.1"},
		{"untrusted xff ignored", PerIPConfig{}, "192.0.2.1:5555", map[string]string{"X-Forwarded-For": "203.0.113.9"}, "192.0.2.1"},
		{"trusted cidr", PerIPConfig{TrustedProxies: []string{"10.0.0.0/8"}}, "10.1.2.3:80", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.1.2.3"}, "203.0.113.9"},
		{"trusted single ip", PerIPConfig{TrustedProxies: []string{"10.1.2.3"}}, "10.1.2.3:80", map[string]string{"X-Real-IP": "203.0.113.7"}, "203.0.113.7"},
		{"invalid header falls back", PerIPConfig{TrustAllProxies: true}, "10.1.2.3:80", map[string]string{"X-Forwarded-For": "garbage"}, "10.1.2.3"},
		{"no port", PerIPConfig{}, "192.0.2.1", nil, "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLimiter(t, tt.cfg)
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, l.ClientIP(r))
		})
	}
}

func TestMiddleware(t *testing.T) {
	l := newLimiter(t, PerIPConfig{Rate: 0.001, Burst: 1})
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := Middleware(l, WithExempt(func(r *http.Request) bool { return r.URL.Path == "/health" }))(ok)

	do := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, path, nil)
		r.RemoteAddr = "192.0.2.1:1234"
		h.ServeHTTP(rec, r)
		return rec
	}

	first := do("/api/test/simple")
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := do("/api/test/simple")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body["error"])
	assert.Contains(t, body, "retryAfter")
	assert.Contains(t, body, "timestamp")

	assert.Equal(t, http.StatusNoContent, do("/health").Code)
}

func TestMiddleware_NilLimiterPassesThrough(t *testing.T) {
	h := Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}
