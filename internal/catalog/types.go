package catalog

import (
	"fmt"
	"regexp"

	"github.com/zero-day-ai/toolgraph/internal/types"
)

// Status is the lifecycle state shared by providers and integrations.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Complexity is the implementation-difficulty tier of an integration.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// RelationshipKind is the label of a directed edge. Only the kinds declared
// below may reach a query; anything else is rejected by Validate.
type RelationshipKind string

// Edges between integrations.
const (
	KindUsesCategories   RelationshipKind = "USES_CATEGORIES"
	KindFiltersByClient  RelationshipKind = "FILTERS_BY_CLIENT"
	KindRequiresClient   RelationshipKind = "REQUIRES_CLIENT"
	KindBelongsToCompany RelationshipKind = "BELONGS_TO_COMPANY"
)

// KindProvidedBy links an integration to its provider. It is derived by the
// loader and cannot be declared in a catalog.
const KindProvidedBy RelationshipKind = "PROVIDED_BY"

var declarableKinds = map[RelationshipKind]struct{}{
	KindUsesCategories:   {},
	KindFiltersByClient:  {},
	KindRequiresClient:   {},
	KindBelongsToCompany: {},
}

// relationship types are interpolated into Cypher, so the shape is checked as well as membership
var kindPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// Kinds returns the relationship kinds a catalog may declare.
func Kinds() []RelationshipKind {
	return []RelationshipKind{KindUsesCategories, KindFiltersByClient, KindRequiresClient, KindBelongsToCompany}
}

// String returns the string representation of RelationshipKind
func (k RelationshipKind) String() string {
	return string(k)
}

// Validate fails unless k is a declarable inter-integration kind.
func (k RelationshipKind) Validate() error {
	if !kindPattern.MatchString(string(k)) {
		return types.NewError(ErrCodeInvalidKind, fmt.Sprintf("relationship kind %q is not a valid label", string(k)))
	}
	if _, ok := declarableKinds[k]; !ok {
		return types.NewError(ErrCodeInvalidKind, fmt.Sprintf("relationship kind %q is not permitted", string(k)))
	}
	return nil
}

// Provider is an external system whose API operations are catalogued.
type Provider struct {
	Name       string `yaml:"name" json:"name" validate:"required"`
	FullName   string `yaml:"full_name" json:"full_name" validate:"required"`
	Type       string `yaml:"type" json:"type" validate:"required"`
	Website    string `yaml:"website" json:"website,omitempty" validate:"omitempty,url"`
	APIVersion string `yaml:"api_version" json:"api_version,omitempty"`
	Status     Status `yaml:"status" json:"status" validate:"required,oneof=active inactive"`
}

// Properties returns the node properties written on every upsert, identity key included.
func (p Provider) Properties() map[string]any {
	return map[string]any{
		"name":        p.Name,
		"full_name":   p.FullName,
		"type":        p.Type,
		"website":     p.Website,
		"api_version": p.APIVersion,
		"status":      string(p.Status),
	}
}

// Integration is one callable operation offered by a provider.
// Its identity is the pair (Name, Provider).
type Integration struct {
	Name        string     `yaml:"name" json:"name" validate:"required"`
	Description string     `yaml:"description" json:"description"`
	Provider    string     `yaml:"provider" json:"provider" validate:"required"`
	Category    string     `yaml:"category" json:"category" validate:"required"`
	Version     string     `yaml:"version" json:"version" validate:"required"`
	Status      Status     `yaml:"status" json:"status" validate:"required,oneof=active inactive"`
	Endpoints   []string   `yaml:"endpoints" json:"endpoints" validate:"required,min=1,dive,required"`
	Complexity  Complexity `yaml:"complexity" json:"complexity" validate:"required,oneof=simple moderate complex"`
	StoryPoints int        `yaml:"story_points" json:"story_points" validate:"gt=0"`
}

// Ref returns the identity of the integration.
func (i Integration) Ref() IntegrationRef {
	return IntegrationRef{Name: i.Name, Provider: i.Provider}
}

// Properties returns the node properties written on every upsert, identity keys included.
func (i Integration) Properties() map[string]any {
	endpoints := make([]string, len(i.Endpoints))
	copy(endpoints, i.Endpoints)

	return map[string]any{
		"name":         i.Name,
		"provider":     i.Provider,
		"description":  i.Description,
		"category":     i.Category,
		"version":      i.Version,
		"status":       string(i.Status),
		"endpoints":    endpoints,
		"complexity":   string(i.Complexity),
		"story_points": int64(i.StoryPoints),
	}
}

// IntegrationRef identifies an integration node.
type IntegrationRef struct {
	Name     string `yaml:"name" json:"name" validate:"required"`
	Provider string `yaml:"provider" json:"provider"`
}

// String renders the ref as provider/name.
func (r IntegrationRef) String() string {
	return r.Provider + "/" + r.Name
}

// Relationship is a declared directed edge between two integrations.
type Relationship struct {
	Source IntegrationRef   `yaml:"source" json:"source"`
	Target IntegrationRef   `yaml:"target" json:"target"`
	Kind   RelationshipKind `yaml:"kind" json:"kind" validate:"required"`
}

// String renders the relationship as source -[KIND]-> target.
func (r Relationship) String() string {
	return fmt.Sprintf("%s -[%s]-> %s", r.Source, r.Kind, r.Target)
}
