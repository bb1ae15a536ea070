package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/zero-day-ai/toolgraph/internal/types"
	"gopkg.in/yaml.v3"
)

// Catalog is the full set of definitions one run loads into the graph.
type Catalog struct {
	Providers     []Provider     `yaml:"providers" json:"providers" validate:"required,min=1,dive"`
	Integrations  []Integration  `yaml:"integrations" json:"integrations" validate:"dive"`
	Relationships []Relationship `yaml:"relationships" json:"relationships" validate:"dive"`
}

// IntegrationGroup is the slice of integrations owned by one provider.
type IntegrationGroup struct {
	Provider     string
	Integrations []Integration
}

// Load returns the catalog at path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// LoadFile reads and parses a YAML catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapError(ErrCodeCatalogRead, fmt.Sprintf("failed to read catalog %s", path), err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog. Unknown keys are rejected so typos do not
// silently drop attributes.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, types.WrapError(ErrCodeCatalogParse, "failed to parse catalog", err)
	}

	c.normalize()
	return &c, nil
}

// normalize fills relationship target providers omitted in the document:
// an endpoint without a provider belongs to the source's provider.
func (c *Catalog) normalize() {
	for i := range c.Relationships {
		rel := &c.Relationships[i]
		if rel.Target.Provider == "" {
			rel.Target.Provider = rel.Source.Provider
		}
	}
}

// Groups returns integrations grouped by provider, in provider declaration order.
// Integrations whose provider is not declared are grouped last, in first-seen order.
func (c *Catalog) Groups() []IntegrationGroup {
	byProvider := make(map[string][]Integration)
	for _, integ := range c.Integrations {
		byProvider[integ.Provider] = append(byProvider[integ.Provider], integ)
	}

	groups := make([]IntegrationGroup, 0, len(byProvider))
	seen := make(map[string]bool)
	for _, p := range c.Providers {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		if integs := byProvider[p.Name]; len(integs) > 0 {
			groups = append(groups, IntegrationGroup{Provider: p.Name, Integrations: integs})
		}
	}
	for _, integ := range c.Integrations {
		if seen[integ.Provider] {
			continue
		}
		seen[integ.Provider] = true
		groups = append(groups, IntegrationGroup{Provider: integ.Provider, Integrations: byProvider[integ.Provider]})
	}
	return groups
}

// DanglingRelationships returns declared relationships whose source or target
// is not an integration of this catalog. They are not invalid: the loader
// reports each one as a failed edge without aborting the run.
func (c *Catalog) DanglingRelationships() []Relationship {
	known := make(map[IntegrationRef]bool, len(c.Integrations))
	for _, integ := range c.Integrations {
		known[integ.Ref()] = true
	}

	var dangling []Relationship
	for _, rel := range c.Relationships {
		if !known[rel.Source] || !known[rel.Target] {
			dangling = append(dangling, rel)
		}
	}
	return dangling
}

// Validate checks field constraints and cross-references. All problems are
// reported together in a single CATALOG_INVALID error.
func (c *Catalog) Validate() error {
	if c == nil {
		return types.NewError(ErrCodeCatalogInvalid, "catalog is nil")
	}

	var problems []string

	if err := structValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return types.WrapError(ErrCodeCatalogInvalid, "validation error", err)
		}
		for _, e := range fieldErrs {
			problems = append(problems, formatValidationError(e))
		}
	}

	providers := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		if p.Name == "" {
			continue
		}
		if providers[p.Name] {
			problems = append(problems, fmt.Sprintf("provider %q is declared more than once", p.Name))
		}
		providers[p.Name] = true
	}

	integrations := make(map[IntegrationRef]bool, len(c.Integrations))
	for _, integ := range c.Integrations {
		if integ.Name == "" || integ.Provider == "" {
			continue
		}
		if integrations[integ.Ref()] {
			problems = append(problems, fmt.Sprintf("integration %s is declared more than once", integ.Ref()))
		}
		integrations[integ.Ref()] = true
		if !providers[integ.Provider] {
			problems = append(problems, fmt.Sprintf("integration %s references undeclared provider %q", integ.Ref(), integ.Provider))
		}
	}

	for i, rel := range c.Relationships {
		if rel.Source.Provider == "" {
			problems = append(problems, fmt.Sprintf("relationships[%d].source.provider is required", i))
		}
		if rel.Kind == "" {
			continue
		}
		if err := rel.Kind.Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("relationships[%d].kind %q is not one of %s", i, rel.Kind, kindList()))
		}
	}

	if len(problems) > 0 {
		return types.NewError(ErrCodeCatalogInvalid,
			fmt.Sprintf("catalog validation failed:\n  - %s", strings.Join(problems, "\n  - ")))
	}
	return nil
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// formatValidationError renders a field error using the YAML field path.
func formatValidationError(e validator.FieldError) string {
	fieldPath := e.Namespace()
	if idx := strings.Index(fieldPath, "."); idx >= 0 {
		fieldPath = fieldPath[idx+1:]
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldPath)
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", fieldPath, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s (got: %v)", fieldPath, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got: %v)", fieldPath, e.Param(), e.Value())
	case "url":
		return fmt.Sprintf("%s must be a valid URL (got: %v)", fieldPath, e.Value())
	default:
		return fmt.Sprintf("%s failed validation '%s' (got: %v)", fieldPath, e.Tag(), e.Value())
	}
}

func kindList() string {
	kinds := Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return "[" + strings.Join(names, " ") + "]"
}
