package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationResult contains the results of configuration validation.
// Separates errors (blocking issues) from warnings (non-blocking issues).
type ValidationResult struct {
	// Errors contains validation failures that should block startup
	Errors []string

	// Warnings contains issues that should be logged but not block startup
	Warnings []string
}

// IsValid returns true if there are no validation errors.
// Warnings do not affect validity.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// HasWarnings returns true if there are any validation warnings.
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// AddError adds an error message to the validation result.
func (vr *ValidationResult) AddError(msg string) {
	vr.Errors = append(vr.Errors, msg)
}

// AddWarning adds a warning message to the validation result.
func (vr *ValidationResult) AddWarning(msg string) {
	vr.Warnings = append(vr.Warnings, msg)
}

// Merge combines multiple validation results into a single result.
func (vr *ValidationResult) Merge(other ValidationResult) {
	vr.Errors = append(vr.Errors, other.Errors...)
	vr.Warnings = append(vr.Warnings, other.Warnings...)
}

// Validate checks field values and the catalog path.
func (c Config) Validate() ValidationResult {
	result := ValidationResult{}

	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				result.AddError(fmt.Sprintf("%s: %q is not one of [%s]", fe.Field(), fe.Value(), fe.Param()))
			}
		} else {
			result.AddError(err.Error())
		}
	}

	result.Merge(ValidateCatalogPath(c.CatalogPath))
	return result
}

// ValidateCatalogPath checks that a configured catalog file exists.
// An empty path selects the built-in catalog and is valid.
func ValidateCatalogPath(path string) ValidationResult {
	result := ValidationResult{}
	if path == "" {
		return result
	}

	info, err := os.Stat(path)
	if err != nil {
		result.AddError(fmt.Sprintf("catalog file %s: %v", path, err))
		return result
	}
	if info.IsDir() {
		result.AddError(fmt.Sprintf("catalog path %s is a directory", path))
		return result
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
	default:
		result.AddWarning(fmt.Sprintf("catalog file %s does not have a .yaml extension", path))
	}
	return result
}
