package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/perfstub/pkg/discovery"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultJWTSecret, cfg.Auth.JWTSecret)
	assert.True(t, cfg.CORS.IsWildcard())
	require.Len(t, cfg.Catalogs, 2)

	food := cfg.Catalogs[0]
	assert.Equal(t, "foodstore", food.Name)
	assert.Equal(t, "/api/foodstore", food.BasePath)
	assert.True(t, food.HasFeature(FeatureOrder))
	assert.False(t, food.HasFeature(FeatureInventory))
	assert.Equal(t, []string{"name", "category", "brand", "lotNumber"}, food.Fields["post"].ActualRequired)

	med := cfg.Catalogs[1]
	assert.Equal(t, "Medstore", med.DisplayLabel())
	assert.True(t, med.HasFeature(FeatureInventory))
	assert.Equal(t, []string{"name", "category", "supplier"}, med.Fields["put"].ActualRequired)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Len(t, cfg.Catalogs, 2)
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "perfstub.yaml", `
server:
  port: 8080
log:
  level: debug
  format: json
rateLimit:
  enabled: true
  requestsPerSecond: 5
catalogs:
  - name: petstore
    basePath: /api/petstore
    features: [inventory]
    fields:
      post:
        documentedRequired: [name]
        actualRequired: [name, chipId]
        potentialUndocumented: [chipId]
      put:
        documentedRequired: [name]
        actualRequired: [name]
    samples:
      name: Rex
      chipId: CHIP-1
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10, cfg.RateLimit.BurstSize)
	require.Len(t, cfg.Catalogs, 1)

	p, err := cfg.Catalogs[0].Profile()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "chipId"}, p.Configs[discovery.MethodPOST].ActualRequired)
	assert.Equal(t, "Rex", p.Samples["name"])
	assert.Equal(t, "Petstore", cfg.Catalogs[0].DisplayLabel())
}

func TestLoadFile_JSONWithoutCatalogsUsesBuiltins(t *testing.T) {
	path := writeFile(t, t.TempDir(), "perfstub.json", `{"server": {"port": 9000}}`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Len(t, cfg.Catalogs, 2)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing", filepath.Join(dir, "nope.yaml"), ErrFileNotFound},
		{"empty", writeFile(t, dir, "empty.yaml", "  \n"), ErrEmptyFile},
		{"bad json", writeFile(t, dir, "bad.json", "{server:"), ErrInvalidJSON},
		{"bad yaml", writeFile(t, dir, "bad.yaml", "server: [port"), ErrInvalidYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadFile_DirectoryRejected(t *testing.T) {
	_, err := LoadFile(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestLoadFile_InvariantViolation(t *testing.T) {
	path := writeFile(t, t.TempDir(), "perfstub.yaml", `
catalogs:
  - name: broken
    basePath: /api/broken
    fields:
      post:
        documentedRequired: [name, category]
        actualRequired: [name]
      put:
        documentedRequired: [name]
        actualRequired: [name]
`)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, discovery.ErrInvalidConfig)
}

func TestLoadFile_CatalogGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "catalogs/pets/petstore.yaml", `
name: petstore
basePath: /api/petstore
fields:
  post: {documentedRequired: [name], actualRequired: [name]}
  put: {documentedRequired: [name], actualRequired: [name]}
`)
	writeFile(t, dir, "catalogs/books.json", `{
  "name": "bookstore",
  "basePath": "/api/bookstore",
  "fields": {
    "post": {"documentedRequired": ["title"], "actualRequired": ["title", "isbn"]},
    "put": {"documentedRequired": ["title"], "actualRequired": ["title"]}
  }
}`)
	path := writeFile(t, dir, "perfstub.yaml", "catalogGlob: \"catalogs/**/*.{yaml,json}\"\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Catalogs, 2)

	names := []string{cfg.Catalogs[0].Name, cfg.Catalogs[1].Name}
	assert.ElementsMatch(t, []string{"petstore", "bookstore"}, names)
}

func TestLoadCatalogFile_SchemaViolation(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", `
name: Bad Name
basePath: api/bad
fields:
  post: {actualRequired: [name]}
`)

	_, err := LoadCatalogFile(path)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.NotEmpty(t, schemaErr.Violations)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"no catalogs", func(c *Config) { c.Catalogs = nil }, "at least one catalog"},
		{"duplicate name", func(c *Config) { c.Catalogs[1].Name = "foodstore" }, "duplicate catalog name"},
		{"duplicate path", func(c *Config) { c.Catalogs[1].BasePath = "/api/foodstore" }, "duplicate base path"},
		{"relative path", func(c *Config) { c.Catalogs[0].BasePath = "api/food" }, "must start with /"},
		{"trailing slash", func(c *Config) { c.Catalogs[0].BasePath = "/api/food/" }, "must not end with /"},
		{"unknown feature", func(c *Config) { c.Catalogs[0].Features = []string{"teleport"} }, "unknown feature"},
		{"missing put", func(c *Config) { delete(c.Catalogs[0].Fields, "put") }, "fields.put"},
		{"cpu load at limit", func(c *Config) { c.Perf.MaxCPULoad = MaxCPULoadLimit }, ""},
		{"cpu load above limit", func(c *Config) { c.Perf.MaxCPULoad = MaxCPULoadLimit + 1 }, "perf.maxCPULoad"},
		{"bad proxy", func(c *Config) {
			c.RateLimit = &RateLimitConfig{Enabled: true, RequestsPerSecond: 1, TrustedProxies: []string{"nope"}}
		}, "trustedProxies"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCORSConfig_GetAllowOriginValue(t *testing.T) {
	wild := DefaultCORSConfig()
	assert.Equal(t, "*", wild.GetAllowOriginValue("http://a.test"))

	wild.AllowCredentials = true
	assert.Equal(t, "http://a.test", wild.GetAllowOriginValue("http://a.test"))

	strict := &CORSConfig{Enabled: true, AllowOrigins: []string{"http://a.test"}}
	assert.Equal(t, "http://a.test", strict.GetAllowOriginValue("http://a.test"))
	assert.Empty(t, strict.GetAllowOriginValue("http://b.test"))

	var disabled *CORSConfig
	assert.Empty(t, disabled.GetAllowOriginValue("http://a.test"))
}

func TestValidateConfigUpdate(t *testing.T) {
	ok := map[string]any{
		"method": "post",
		"config": map[string]any{"actualRequired": []any{"name", "category"}},
	}
	assert.NoError(t, ValidateConfigUpdate(ok))

	bad := map[string]any{
		"method": "post",
		"config": map[string]any{"actualRequired": "name", "colour": []any{}},
	}
	err := ValidateConfigUpdate(bad)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.GreaterOrEqual(t, len(schemaErr.Violations), 1)
}

func TestToYAMLRoundTrip(t *testing.T) {
	data, err := ToYAML(Default())
	require.NoError(t, err)

	cfg, err := Parse(data, true)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, Default().Catalogs[0].Fields, cfg.Catalogs[0].Fields)
}
