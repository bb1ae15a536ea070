package catalog

import "github.com/zero-day-ai/toolgraph/internal/types"

// Catalog error codes
const (
	ErrCodeCatalogParse   types.ErrorCode = "CATALOG_PARSE_FAILED"
	ErrCodeCatalogRead    types.ErrorCode = "CATALOG_READ_FAILED"
	ErrCodeCatalogInvalid types.ErrorCode = "CATALOG_INVALID"
	ErrCodeInvalidKind    types.ErrorCode = "CATALOG_INVALID_RELATIONSHIP_KIND"
)
