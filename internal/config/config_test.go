package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvCatalog, EnvPropagation, EnvLogLevel, EnvLogFormat} {
		t.Setenv(key, "")
	}
	// Keep a stray .env in the repo from leaking into tests.
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadYAMLConfigMissingFile(t *testing.T) {
	cfg, err := LoadYAMLConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)

	cfg, err = LoadYAMLConfig("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadYAMLConfigInvalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "propagation: [unclosed")

	_, err := LoadYAMLConfig(path)
	assert.ErrorContains(t, err, "failed to parse YAML config")
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	catalogPath := writeFile(t, dir, "catalog.yaml", "services: []")
	path := writeFile(t, dir, "servicebook.yaml", dedent.Dedent(`
		catalog: `+catalogPath+`
		propagation: Shallow
		log_level: debug
		display_template: "{{ .Total }}"
	`))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, catalogPath, cfg.CatalogPath)
	assert.Equal(t, "shallow", cfg.Propagation)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "{{ .Total }}", cfg.DisplayTemplate)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "servicebook.yaml", dedent.Dedent(`
		propagation: shallow
		log_format: text
	`))
	t.Setenv(EnvPropagation, "fixed-point")
	t.Setenv(EnvLogFormat, "JSON")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fixed-point", cfg.Propagation)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already set, so unset
	// the one under test after clearEnv registered its cleanup.
	require.NoError(t, os.Unsetenv(EnvPropagation))
	wd, err := os.Getwd()
	require.NoError(t, err)
	writeFile(t, wd, ".env", EnvPropagation+"=shallow\n")
	t.Cleanup(func() { _ = os.Unsetenv(EnvPropagation) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "shallow", cfg.Propagation)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"propagation", "propagation: deep", "Propagation"},
		{"log level", "log_level: loud", "LogLevel"},
		{"log format", "log_format: xml", "LogFormat"},
		{"missing catalog", "catalog: /does/not/exist.yaml", "catalog file /does/not/exist.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeFile(t, t.TempDir(), "servicebook.yaml", tt.yaml)

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeConfigs(t *testing.T) {
	base := Config{CatalogPath: "a.yaml", Propagation: "shallow", LogLevel: "info"}
	override := Config{Propagation: "fixed-point", DisplayTemplate: "x"}

	merged := MergeConfigs(base, override)
	assert.Equal(t, Config{CatalogPath: "a.yaml", Propagation: "fixed-point", LogLevel: "info", DisplayTemplate: "x"}, merged)
}

func TestValidateCatalogPath(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "catalog.txt", "")

	result := ValidateCatalogPath("")
	assert.True(t, result.IsValid())
	assert.False(t, result.HasWarnings())

	result = ValidateCatalogPath(txt)
	assert.True(t, result.IsValid())
	assert.True(t, result.HasWarnings())

	result = ValidateCatalogPath(dir)
	assert.False(t, result.IsValid())
}
