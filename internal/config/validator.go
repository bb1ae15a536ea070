package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ConfigValidator validates configuration values.
type ConfigValidator interface {
	Validate(cfg *Config) error
}

// validatorImpl implements ConfigValidator using go-playground/validator.
type validatorImpl struct {
	validate *validator.Validate
}

// neo4jSchemes are the URI schemes accepted by the Neo4j driver.
var neo4jSchemes = map[string]bool{
	"bolt":      true,
	"bolt+s":    true,
	"bolt+ssc":  true,
	"neo4j":     true,
	"neo4j+s":   true,
	"neo4j+ssc": true,
}

// NewValidator creates a new ConfigValidator instance.
func NewValidator() ConfigValidator {
	v := validator.New()
	_ = v.RegisterValidation("neo4j_uri", validateNeo4jURI)
	return &validatorImpl{
		validate: v,
	}
}

func validateNeo4jURI(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return neo4jSchemes[u.Scheme] && u.Host != ""
}

// Validate validates the configuration and returns detailed error messages.
func (v *validatorImpl) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errorMessages []string

	if err := v.validate.Struct(cfg); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validation error: %w", err)
		}
		for _, e := range validationErrs {
			errorMessages = append(errorMessages, formatValidationError(e))
		}
	}

	if err := cfg.Logging.Validate(); err != nil {
		errorMessages = append(errorMessages, "logging: "+err.Error())
	}
	if err := cfg.Tracing.Validate(); err != nil {
		errorMessages = append(errorMessages, "tracing: "+err.Error())
	}

	if len(errorMessages) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errorMessages, "\n  - "))
	}
	return nil
}

// formatValidationError formats a single validation error with field path and details.
// Secrets are never echoed back.
func formatValidationError(e validator.FieldError) string {
	fieldPath := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		if fieldPath == "neo4j.password" {
			return fmt.Sprintf("%s is required (set TOOLGRAPH_NEO4J_PASSWORD)", fieldPath)
		}
		return fmt.Sprintf("%s is required", fieldPath)
	case "min":
		return fmt.Sprintf("%s must be at least %s (got: %v)", fieldPath, e.Param(), e.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got: %v)", fieldPath, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got: %v)", fieldPath, e.Param(), e.Value())
	case "url":
		return fmt.Sprintf("%s must be a valid URL (got: %v)", fieldPath, e.Value())
	case "neo4j_uri":
		return fmt.Sprintf("%s must be a bolt:// or neo4j:// URI (got: %v)", fieldPath, e.Value())
	case "filepath":
		return fmt.Sprintf("%s must be a valid file path (got: %v)", fieldPath, e.Value())
	default:
		return fmt.Sprintf("%s failed validation '%s'", fieldPath, e.Tag())
	}
}

// formatFieldPath converts validator namespace to a more readable field path.
// Example: "Config.Neo4j.MaxConnections" -> "neo4j.max_connections"
func formatFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) <= 1 {
		return namespace
	}

	result := make([]string, 0, len(parts)-1)
	for i := 1; i < len(parts); i++ {
		result = append(result, camelToSnake(parts[i]))
	}

	return strings.Join(result, ".")
}

// camelToSnake converts CamelCase to snake_case. Runs of capitals stay together,
// so "URI" becomes "uri" and "BrowserURL" becomes "browser_url".
func camelToSnake(s string) string {
	runes := []rune(s)
	var result strings.Builder
	for i, r := range runes {
		if i > 0 && isUpper(r) {
			prevLower := !isUpper(runes[i-1])
			nextLower := i+1 < len(runes) && !isUpper(runes[i+1])
			if prevLower || nextLower {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
