package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("configuration file is empty")
)

// IsYAMLPath reports whether path has a .yaml or .yml extension.
func IsYAMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// readFile reads a non-empty regular file, mapping common failures to the
// sentinel errors above.
func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return data, nil
}

// decode unmarshals data as YAML or JSON depending on yamlFormat.
func decode(data []byte, yamlFormat bool, v any) error {
	if yamlFormat {
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		return nil
	}
	if !json.Valid(data) {
		return ErrInvalidJSON
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// LoadFile reads a Config from a JSON or YAML file.
// The format is auto-detected based on file extension (.yaml, .yml for YAML,
// otherwise JSON). Missing sections take their defaults, an empty catalog
// list means the built-in catalogs, and catalogGlob files are appended.
// The result is validated.
func LoadFile(path string) (*Config, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data, IsYAMLPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if cfg.CatalogGlob != "" {
		extra, err := LoadCatalogs(filepath.Dir(path), cfg.CatalogGlob)
		if err != nil {
			return nil, err
		}
		cfg.Catalogs = append(cfg.Catalogs, extra...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// Parse decodes a config document and applies defaults without validating.
func Parse(data []byte, yamlFormat bool) (*Config, error) {
	var cfg Config
	if err := decode(data, yamlFormat, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Catalogs) == 0 && cfg.CatalogGlob == "" {
		cfg.Catalogs = DefaultCatalogs()
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Load returns Default() when path is empty, otherwise LoadFile(path).
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// ToYAML marshals a Config to YAML bytes.
func ToYAML(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to YAML: %w", err)
	}
	return data, nil
}

// ToJSON marshals a Config to formatted JSON bytes.
func ToJSON(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	// Add trailing newline for better file formatting
	return append(data, '\n'), nil
}
