package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/getmockd/perfstub/pkg/discovery"
)

// ValidationError describes an invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the config and returns every problem joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		add("server.port", "must be between 0 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		add("server", "timeouts cannot be negative")
	}
	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "warning", "error":
		default:
			add("log.level", "unknown level %q", c.Log.Level)
		}
	}
	if c.Log.Format != "" {
		switch strings.ToLower(c.Log.Format) {
		case "text", "json":
		default:
			add("log.format", "unknown format %q", c.Log.Format)
		}
	}

	if rl := c.RateLimit; rl != nil && rl.Enabled {
		if rl.RequestsPerSecond <= 0 {
			add("rateLimit.requestsPerSecond", "must be positive")
		}
		for _, p := range rl.TrustedProxies {
			if _, _, err := net.ParseCIDR(p); err != nil && net.ParseIP(p) == nil {
				add("rateLimit.trustedProxies", "invalid IP or CIDR %q", p)
			}
		}
	}

	if c.Auth.TokenTTL < 0 {
		add("auth.tokenTTL", "cannot be negative")
	}
	if c.Perf.MaxDelayMs < 0 || c.Perf.MaxPayloadItems < 0 || c.Perf.MaxCPULoad < 0 ||
		c.Perf.OrderMaxDelayMs < 0 || c.Perf.MaxUploadBytes < 0 {
		add("perf", "limits cannot be negative")
	}
	if c.Perf.MaxCPULoad > MaxCPULoadLimit {
		add("perf.maxCPULoad", "must be at most %d, got %d", MaxCPULoadLimit, c.Perf.MaxCPULoad)
	}

	if len(c.Catalogs) == 0 {
		add("catalogs", "at least one catalog is required")
	}
	names := make(map[string]bool, len(c.Catalogs))
	paths := make(map[string]bool, len(c.Catalogs))
	for i, cat := range c.Catalogs {
		prefix := fmt.Sprintf("catalogs[%d]", i)
		if err := cat.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
		if cat.Name != "" {
			if names[cat.Name] {
				add(prefix+".name", "duplicate catalog name %q", cat.Name)
			}
			names[cat.Name] = true
		}
		if cat.BasePath != "" {
			if paths[cat.BasePath] {
				add(prefix+".basePath", "duplicate base path %q", cat.BasePath)
			}
			paths[cat.BasePath] = true
		}
	}

	return errors.Join(errs...)
}

// Validate checks a single catalog definition.
func (c CatalogConfig) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, &ValidationError{Field: "name", Message: "is required"})
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		errs = append(errs, &ValidationError{Field: "basePath", Message: fmt.Sprintf("must start with /, got %q", c.BasePath)})
	} else if len(c.BasePath) > 1 && strings.HasSuffix(c.BasePath, "/") {
		errs = append(errs, &ValidationError{Field: "basePath", Message: "must not end with /"})
	}
	for _, f := range c.Features {
		if !strings.EqualFold(f, FeatureOrder) && !strings.EqualFold(f, FeatureInventory) {
			errs = append(errs, &ValidationError{Field: "features", Message: fmt.Sprintf("unknown feature %q", f)})
		}
	}
	for key := range c.Fields {
		if _, err := discovery.ParseMethod(key); err != nil {
			errs = append(errs, &ValidationError{Field: "fields." + key, Message: err.Error()})
		}
	}
	for _, m := range discovery.Methods {
		fc, ok := c.Fields[m.Key()]
		if !ok {
			errs = append(errs, &ValidationError{Field: "fields." + m.Key(), Message: "is required"})
			continue
		}
		if err := fc.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("fields.%s: %w", m.Key(), err))
		}
	}
	return errors.Join(errs...)
}
