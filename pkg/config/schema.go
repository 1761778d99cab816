package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const fieldListSchema = `{"type": "array", "items": {"type": "string", "minLength": 1}, "uniqueItems": true}`

// fieldConfigSchema describes a discovery FieldConfig. All lists are
// optional so the same shape serves partial updates.
var fieldConfigSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"documentedRequired": ` + fieldListSchema + `,
		"documentedOptional": ` + fieldListSchema + `,
		"potentialUndocumented": ` + fieldListSchema + `,
		"actualRequired": ` + fieldListSchema + `
	}
}`

// ConfigUpdateSchema validates the body of a discovery config update.
var ConfigUpdateSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"method": {"type": "string"},
		"config": ` + fieldConfigSchema + `
	}
}`

// CatalogSchema validates a catalog file.
var CatalogSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["name", "basePath", "fields"],
	"properties": {
		"name": {"type": "string", "pattern": "^[a-z][a-z0-9-]*$"},
		"basePath": {"type": "string", "pattern": "^/"},
		"label": {"type": "string"},
		"features": {"type": "array", "items": {"enum": ["order", "inventory"]}},
		"fields": {
			"type": "object",
			"required": ["post", "put"],
			"additionalProperties": false,
			"properties": {
				"post": ` + fieldConfigSchema + `,
				"put": ` + fieldConfigSchema + `
			}
		},
		"samples": {"type": "object"},
		"seed": {"type": "array", "items": {"type": "object"}}
	}
}`

// SchemaError lists every violation found in a document.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return "schema validation failed: " + strings.Join(e.Violations, "; ")
}

// Schema is a compiled JSON Schema.
type Schema struct {
	name   string
	source string
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// NewSchema returns a schema compiled on first use.
func NewSchema(name, source string) *Schema {
	return &Schema{name: name, source: source}
}

var (
	configUpdateSchema = NewSchema("config-update.json", ConfigUpdateSchema)
	catalogSchema      = NewSchema("catalog.json", CatalogSchema)
)

// ValidateConfigUpdate checks a decoded discovery config update payload.
func ValidateConfigUpdate(doc any) error {
	return configUpdateSchema.Validate(doc)
}

// ValidateCatalogDocument checks a decoded catalog file.
func ValidateCatalogDocument(doc any) error {
	return catalogSchema.Validate(doc)
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(s.name, strings.NewReader(s.source)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	return compiler.Compile(s.name)
}

// Validate checks doc, which must be JSON-decoded data (maps, slices,
// float64, string, bool, nil). Other Go values are round-tripped through
// JSON first.
func (s *Schema) Validate(doc any) error {
	s.once.Do(func() {
		s.schema, s.err = s.compile()
	})
	if s.err != nil {
		return s.err
	}

	normalized, err := normalize(doc)
	if err != nil {
		return err
	}

	if err := s.schema.Validate(normalized); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return &SchemaError{Violations: collectViolations(ve, nil)}
		}
		return err
	}
	return nil
}

func normalize(doc any) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return out, nil
}

func collectViolations(err *jsonschema.ValidationError, out []string) []string {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return append(out, loc+": "+err.Message)
	}
	for _, cause := range err.Causes {
		out = collectViolations(cause, out)
	}
	return out
}
