package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "servicebook.yaml"

// Environment variables that override the config file.
const (
	EnvCatalog     = "SERVICEBOOK_CATALOG"
	EnvPropagation = "SERVICEBOOK_PROPAGATION"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"
)

// Config represents the application configuration.
// It is loaded from a YAML file, then overridden by environment variables
// (a .env file in the working directory is read first).
type Config struct {
	// CatalogPath points at a catalog YAML file; empty uses the built-in catalog
	CatalogPath string `yaml:"catalog"`

	// Propagation is "shallow" or "fixed-point"; empty means fixed-point
	Propagation string `yaml:"propagation" validate:"omitempty,oneof=shallow fixed-point"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat is "text" or "json"
	LogFormat string `yaml:"log_format" validate:"omitempty,oneof=text json"`

	// DisplayTemplate overrides the catalog's result display template
	DisplayTemplate string `yaml:"display_template"`
}

// Load reads path (missing is fine), applies .env and environment overrides
// and validates the result.
func Load(path string) (Config, error) {
	// A missing .env file is the common case.
	_ = godotenv.Load()

	fileConfig, err := LoadYAMLConfig(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load YAML config: %w", err)
	}

	cfg := MergeConfigs(fileConfig, FromEnv())
	cfg.Normalize()

	if result := cfg.Validate(); !result.IsValid() {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(result.Errors, "; "))
	}

	return cfg, nil
}

// FromEnv reads the override variables from the process environment.
func FromEnv() Config {
	return Config{
		CatalogPath: os.Getenv(EnvCatalog),
		Propagation: os.Getenv(EnvPropagation),
		LogLevel:    os.Getenv(EnvLogLevel),
		LogFormat:   os.Getenv(EnvLogFormat),
	}
}

// MergeConfigs overlays every non-empty field of override onto base.
func MergeConfigs(base, override Config) Config {
	merged := base

	if override.CatalogPath != "" {
		merged.CatalogPath = override.CatalogPath
	}
	if override.Propagation != "" {
		merged.Propagation = override.Propagation
	}
	if override.LogLevel != "" {
		merged.LogLevel = override.LogLevel
	}
	if override.LogFormat != "" {
		merged.LogFormat = override.LogFormat
	}
	if override.DisplayTemplate != "" {
		merged.DisplayTemplate = override.DisplayTemplate
	}

	return merged
}

// Normalize lower-cases the enumerated fields.
func (c *Config) Normalize() {
	c.Propagation = strings.ToLower(strings.TrimSpace(c.Propagation))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}
