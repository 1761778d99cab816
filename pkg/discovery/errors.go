package discovery

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds surfaced in the "error" field of JSON responses.
const (
	KindUndocumentedFields = "UNDOCUMENTED_FIELDS_DETECTED"
	KindMissingFields      = "MISSING_REQUIRED_FIELDS"
	KindNotFound           = "RESOURCE_NOT_FOUND"
	KindInvalidMethod      = "INVALID_METHOD"
	KindInvalidConfig      = "INVALID_CONFIG"
	KindInvalidJSON        = "INVALID_JSON"
	KindDiscoveryRunFailed = "DISCOVERY_RUN_FAILED"
)

// Sentinel errors. Typed errors below wrap them so callers can use errors.Is.
var (
	ErrInvalidMethod = errors.New("invalid method")
	ErrInvalidConfig = errors.New("invalid field configuration")
)

// MethodError is returned for a method that has no discovery config.
type MethodError struct {
	Method string
}

func (e *MethodError) Error() string {
	return fmt.Sprintf("method %q not supported, available methods: post, put", e.Method)
}

// Unwrap returns ErrInvalidMethod.
func (e *MethodError) Unwrap() error { return ErrInvalidMethod }

// StatusCode returns the HTTP status code for this error.
func (e *MethodError) StatusCode() int { return http.StatusBadRequest }

// Kind returns the error kind code.
func (e *MethodError) Kind() string { return KindInvalidMethod }

// ConfigError is returned when a config update would break the field invariant.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid field configuration: " + e.Reason
}

// Unwrap returns ErrInvalidConfig.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// StatusCode returns the HTTP status code for this error.
func (e *ConfigError) StatusCode() int { return http.StatusBadRequest }

// Kind returns the error kind code.
func (e *ConfigError) Kind() string { return KindInvalidConfig }

// KindError is implemented by errors that carry a response kind code.
type KindError interface {
	error
	StatusCode() int
	Kind() string
}
