package config

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/getmockd/perfstub/pkg/discovery"
)

// Config is the root configuration of a perfstub server.
type Config struct {
	Server    ServerConfig     `json:"server" yaml:"server"`
	Log       LogConfig        `json:"log" yaml:"log"`
	CORS      *CORSConfig      `json:"cors,omitempty" yaml:"cors,omitempty"`
	RateLimit *RateLimitConfig `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty"`
	Auth      AuthConfig       `json:"auth" yaml:"auth"`
	Perf      PerfConfig       `json:"perf" yaml:"perf"`
	// Catalogs are the discovery-enabled stores. Empty means the built-in
	// foodstore and medstore.
	Catalogs []CatalogConfig `json:"catalogs,omitempty" yaml:"catalogs,omitempty"`
	// CatalogGlob matches extra catalog files, relative to the config file.
	CatalogGlob string `json:"catalogGlob,omitempty" yaml:"catalogGlob,omitempty"`
}

// ServerConfig holds listener settings. Timeouts are in seconds.
type ServerConfig struct {
	Host            string `json:"host" yaml:"host"`
	Port            int    `json:"port" yaml:"port"`
	ReadTimeout     int    `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	WriteTimeout    int    `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	ShutdownTimeout int    `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	// File, when set, also receives every record as JSON.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	// Enabled enables CORS handling. When false, no CORS headers are added.
	Enabled bool `json:"enabled" yaml:"enabled"`
	// AllowOrigins specifies allowed origins. Use "*" for any origin.
	AllowOrigins []string `json:"allowOrigins,omitempty" yaml:"allowOrigins,omitempty"`
	// AllowMethods specifies allowed HTTP methods.
	AllowMethods []string `json:"allowMethods,omitempty" yaml:"allowMethods,omitempty"`
	// AllowHeaders specifies allowed request headers.
	AllowHeaders []string `json:"allowHeaders,omitempty" yaml:"allowHeaders,omitempty"`
	// ExposeHeaders specifies headers that browsers are allowed to access.
	ExposeHeaders []string `json:"exposeHeaders,omitempty" yaml:"exposeHeaders,omitempty"`
	// AllowCredentials indicates whether credentials are allowed.
	AllowCredentials bool `json:"allowCredentials,omitempty" yaml:"allowCredentials,omitempty"`
	// MaxAge is the preflight cache duration in seconds. Default: 86400 (24 hours)
	MaxAge int `json:"maxAge,omitempty" yaml:"maxAge,omitempty"`
}

// RateLimitConfig defines per-client rate limiting.
type RateLimitConfig struct {
	// Enabled enables rate limiting. Default: false
	Enabled bool `json:"enabled" yaml:"enabled"`
	// RequestsPerSecond is the sustained rate per client IP.
	RequestsPerSecond float64 `json:"requestsPerSecond,omitempty" yaml:"requestsPerSecond,omitempty"`
	// BurstSize is the maximum burst size.
	BurstSize int `json:"burstSize,omitempty" yaml:"burstSize,omitempty"`
	// TrustedProxies are CIDR ranges or IPs whose X-Forwarded-For is trusted.
	TrustedProxies []string `json:"trustedProxies,omitempty" yaml:"trustedProxies,omitempty"`
}

// AuthConfig configures the test credential store and token issuer.
type AuthConfig struct {
	// UsersFile is a JSON or YAML file of {users: [...]}. Empty uses the
	// built-in test users.
	UsersFile string `json:"usersFile,omitempty" yaml:"usersFile,omitempty"`
	// JWTSecret signs test tokens.
	JWTSecret string `json:"jwtSecret" yaml:"jwtSecret"`
	// TokenTTL is the token lifetime in seconds.
	TokenTTL int `json:"tokenTTL" yaml:"tokenTTL"`
	// ProtectCatalogs puts the catalog routes behind basic auth.
	ProtectCatalogs bool `json:"protectCatalogs,omitempty" yaml:"protectCatalogs,omitempty"`
}

// PerfConfig caps the load-generating test endpoints.
type PerfConfig struct {
	// MaxDelayMs caps /api/test/delay/{ms}.
	MaxDelayMs int `json:"maxDelayMs" yaml:"maxDelayMs"`
	// MaxPayloadItems caps /api/test/largepayload/{size}.
	MaxPayloadItems int `json:"maxPayloadItems" yaml:"maxPayloadItems"`
	// MaxCPULoad caps /api/test/cpu/{load}.
	MaxCPULoad int `json:"maxCPULoad" yaml:"maxCPULoad"`
	// OrderMaxDelayMs is the upper bound of the random order delay.
	OrderMaxDelayMs int `json:"orderMaxDelayMs" yaml:"orderMaxDelayMs"`
	// MaxUploadBytes caps multipart uploads and JSON bodies.
	MaxUploadBytes int64 `json:"maxUploadBytes" yaml:"maxUploadBytes"`
}

// Catalog features beyond the CRUD and discovery routes.
const (
	FeatureOrder     = "order"
	FeatureInventory = "inventory"
)

// CatalogConfig declares one discovery-enabled store.
type CatalogConfig struct {
	// Name identifies the catalog and its collection, e.g. "foodstore".
	Name string `json:"name" yaml:"name"`
	// BasePath is where the routes are mounted, e.g. "/api/foodstore".
	BasePath string `json:"basePath" yaml:"basePath"`
	// Label prefixes response messages, e.g. "Foodstore".
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	// Features enables extra routes: "order", "inventory".
	Features []string `json:"features,omitempty" yaml:"features,omitempty"`
	// Fields holds the discovery config keyed by lowercase method.
	Fields map[string]discovery.FieldConfig `json:"fields" yaml:"fields"`
	// Samples are the probe values used when a request omits a field.
	Samples map[string]any `json:"samples,omitempty" yaml:"samples,omitempty"`
	// Seed records are loaded at start and on reset.
	Seed []map[string]any `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// HasFeature reports whether f is enabled.
func (c CatalogConfig) HasFeature(f string) bool {
	for _, v := range c.Features {
		if strings.EqualFold(v, f) {
			return true
		}
	}
	return false
}

// DisplayLabel returns Label, or Name in title case.
func (c CatalogConfig) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return cases.Title(language.English).String(c.Name)
}

// Profile converts the catalog fields into a discovery profile.
func (c CatalogConfig) Profile() (discovery.Profile, error) {
	p := discovery.Profile{
		Configs: make(map[discovery.Method]discovery.FieldConfig, len(c.Fields)),
		Samples: c.Samples,
	}
	for key, fc := range c.Fields {
		m, err := discovery.ParseMethod(key)
		if err != nil {
			return discovery.Profile{}, err
		}
		p.Configs[m] = fc.Clone()
	}
	return p, nil
}

// CatalogFromProfile builds a catalog config around a discovery profile.
func CatalogFromProfile(name, basePath, label string, p discovery.Profile, features ...string) CatalogConfig {
	fields := make(map[string]discovery.FieldConfig, len(p.Configs))
	for m, fc := range p.Configs {
		fields[m.Key()] = fc.Clone()
	}
	return CatalogConfig{
		Name:     name,
		BasePath: basePath,
		Label:    label,
		Features: features,
		Fields:   fields,
		Samples:  p.Samples,
	}
}
