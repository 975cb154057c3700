package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Document is the on-disk shape of a catalog file.
type Document struct {
	Currency        string       `yaml:"currency"`
	DisplayTemplate string       `yaml:"display_template"`
	Sections        []SectionDef `yaml:"sections" validate:"required,min=1,unique=Key,dive"`
	Services        []Service    `yaml:"services" validate:"required,min=1,dive"`
}

// Catalog is a loaded, validated catalog: the host layout plus the service graph.
type Catalog struct {
	Currency        string
	DisplayTemplate string
	Sections        []SectionDef
	Graph           *Graph
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads and parses a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes, validates and builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	if err := validate.Struct(doc); err != nil {
		return nil, describeValidation(err)
	}

	graph, err := NewGraph(doc.Services)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		Currency:        doc.Currency,
		DisplayTemplate: doc.DisplayTemplate,
		Sections:        append([]SectionDef(nil), doc.Sections...),
		Graph:           graph,
	}, nil
}

// HasSection reports whether the catalog declares a host container for key.
func (c *Catalog) HasSection(key string) bool {
	for _, s := range c.Sections {
		if s.Key == key {
			return true
		}
	}
	return false
}

// describeValidation flattens validator errors into "field (tag)" form.
func describeValidation(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	lists := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		lists = append(lists, fe.Namespace()+" ("+fe.Tag()+")")
	}
	return fmt.Errorf("catalog validation failed on %s", strings.Join(lists, ", "))
}
