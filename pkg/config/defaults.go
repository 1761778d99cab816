package config

import "github.com/getmockd/perfstub/pkg/discovery"

// Default values.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 3000
	DefaultReadTimeout     = 30
	DefaultWriteTimeout    = 60
	DefaultShutdownTimeout = 10
	DefaultJWTSecret       = "test_secret"
	DefaultTokenTTL        = 3600
	DefaultMaxDelayMs      = 30000
	DefaultMaxPayloadItems = 100000
	DefaultMaxCPULoad      = 1000
	DefaultOrderMaxDelayMs = 1000
	DefaultMaxUploadBytes  = 10 << 20
)

// MaxCPULoadLimit bounds perf.maxCPULoad so the iteration count of
// /api/test/cpu/{load} stays within int64.
const MaxCPULoadLimit = 1_000_000

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		Log:      LogConfig{Level: "info", Format: "text"},
		CORS:     DefaultCORSConfig(),
		Catalogs: DefaultCatalogs(),
	}
	cfg.ApplyDefaults()
	return cfg
}

// DefaultCatalogs returns the built-in foodstore and medstore catalogs.
func DefaultCatalogs() []CatalogConfig {
	return []CatalogConfig{
		CatalogFromProfile("foodstore", "/api/foodstore", "Foodstore", discovery.FoodstoreProfile(), FeatureOrder),
		CatalogFromProfile("medstore", "/api/medstore", "Medstore", discovery.MedstoreProfile(), FeatureInventory),
	}
}

// ApplyDefaults fills zero values with defaults. Catalogs are left alone.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.CORS == nil {
		c.CORS = DefaultCORSConfig()
	}
	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = DefaultJWTSecret
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = DefaultTokenTTL
	}
	if c.Perf.MaxDelayMs == 0 {
		c.Perf.MaxDelayMs = DefaultMaxDelayMs
	}
	if c.Perf.MaxPayloadItems == 0 {
		c.Perf.MaxPayloadItems = DefaultMaxPayloadItems
	}
	if c.Perf.MaxCPULoad == 0 {
		c.Perf.MaxCPULoad = DefaultMaxCPULoad
	}
	if c.Perf.OrderMaxDelayMs == 0 {
		c.Perf.OrderMaxDelayMs = DefaultOrderMaxDelayMs
	}
	if c.Perf.MaxUploadBytes == 0 {
		c.Perf.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.RateLimit != nil && c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			c.RateLimit.RequestsPerSecond = 100
		}
		if c.RateLimit.BurstSize <= 0 {
			c.RateLimit.BurstSize = int(c.RateLimit.RequestsPerSecond * 2)
		}
	}
}

// DefaultCORSConfig returns a config that allows any origin, which is what
// browser-based API test tools expect from a test double.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		Enabled:      true,
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders: []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin", "X-Request-ID"},
		MaxAge:       86400,
	}
}

// IsWildcard returns true if the CORS config allows all origins.
func (c *CORSConfig) IsWildcard() bool {
	if c == nil {
		return false
	}
	for _, origin := range c.AllowOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// GetAllowOriginValue returns the Access-Control-Allow-Origin value for a
// request origin, or "" when the origin is not allowed.
func (c *CORSConfig) GetAllowOriginValue(requestOrigin string) string {
	if c == nil || !c.Enabled {
		return ""
	}

	if c.IsWildcard() {
		// Cannot use * with credentials
		if c.AllowCredentials {
			return requestOrigin
		}
		return "*"
	}

	for _, allowed := range c.AllowOrigins {
		if allowed == requestOrigin {
			return requestOrigin
		}
	}
	return ""
}
