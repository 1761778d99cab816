package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// LoadCatalogs loads every catalog file matching pattern. A relative
// pattern is resolved against baseDir. Patterns containing "**" match
// recursively. Files are loaded in lexical order.
func LoadCatalogs(baseDir, pattern string) ([]CatalogConfig, error) {
	if !filepath.IsAbs(pattern) && baseDir != "" {
		pattern = filepath.Join(baseDir, pattern)
	}

	var (
		matches []string
		err     error
	)
	if strings.Contains(pattern, "**") {
		matches, err = doublestar.FilepathGlob(pattern)
	} else {
		matches, err = filepath.Glob(pattern)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid catalog glob %q: %w", pattern, err)
	}
	sort.Strings(matches)

	catalogs := make([]CatalogConfig, 0, len(matches))
	for _, path := range matches {
		c, err := LoadCatalogFile(path)
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, *c)
	}
	return catalogs, nil
}

// LoadCatalogFile reads one catalog definition from a JSON or YAML file and
// checks it against CatalogSchema.
func LoadCatalogFile(path string) (*CatalogConfig, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := decode(data, IsYAMLPath(path), &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := ValidateCatalogDocument(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// Decode again through JSON so yaml and json tags agree.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var c CatalogConfig
	if err := json.Unmarshal(normalized, &c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}
