// Package config loads and validates the perfstub server configuration.
//
// Configuration is read from a YAML or JSON file, picked by extension.
// Missing sections fall back to Default(), which serves the built-in
// foodstore and medstore catalogs.
//
// Additional catalogs can be dropped into a directory and picked up with
// catalogGlob, which supports ** patterns:
//
//	catalogGlob: "catalogs/**/*.yaml"
//
// Each catalog file is checked against a JSON Schema before it is decoded.
package config
