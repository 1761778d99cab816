package engine

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/getmockd/perfstub/pkg/config"
)

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"}
	defaultCORSHeaders = []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"}
)

// CORSMiddleware wraps an http.Handler with CORS handling based on configuration.
type CORSMiddleware struct {
	handler http.Handler
	config  *config.CORSConfig
}

// NewCORSMiddleware creates a new CORS middleware with the given configuration.
// If cfg is nil, the permissive default is used.
func NewCORSMiddleware(handler http.Handler, cfg *config.CORSConfig) *CORSMiddleware {
	if cfg == nil {
		cfg = config.DefaultCORSConfig()
	}
	return &CORSMiddleware{handler: handler, config: cfg}
}

// ServeHTTP implements the http.Handler interface.
func (m *CORSMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !m.config.Enabled {
		m.handler.ServeHTTP(w, r)
		return
	}

	allowOrigin := m.config.GetAllowOriginValue(r.Header.Get("Origin"))
	if allowOrigin != "" {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		if allowOrigin != "*" {
			h.Add("Vary", "Origin")
		}
		h.Set("Access-Control-Allow-Methods", strings.Join(orDefault(m.config.AllowMethods, defaultCORSMethods), ", "))
		h.Set("Access-Control-Allow-Headers", strings.Join(orDefault(m.config.AllowHeaders, defaultCORSHeaders), ", "))
		if len(m.config.ExposeHeaders) > 0 {
			h.Set("Access-Control-Expose-Headers", strings.Join(m.config.ExposeHeaders, ", "))
		}
		if m.config.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		maxAge := m.config.MaxAge
		if maxAge <= 0 {
			maxAge = 86400
		}
		h.Set("Access-Control-Max-Age", strconv.Itoa(maxAge))
	}

	// Preflight never reaches the routes.
	if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
		if allowOrigin != "" {
			w.WriteHeader(http.StatusNoContent)
		} else {
			w.WriteHeader(http.StatusForbidden)
		}
		return
	}

	m.handler.ServeHTTP(w, r)
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}
