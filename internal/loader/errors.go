package loader

import "github.com/zero-day-ai/toolgraph/internal/types"

// Loader error codes
const (
	// ErrCodeInvalidDefinition means a definition lacks its identity key.
	ErrCodeInvalidDefinition types.ErrorCode = "LOADER_INVALID_DEFINITION"

	// ErrCodeUpsertFailed wraps a store failure during a write. It is fatal to the run.
	ErrCodeUpsertFailed types.ErrorCode = "LOADER_UPSERT_FAILED"

	// ErrCodeEndpointNotFound means a relationship endpoint is not in the graph.
	// It fails that relationship only.
	ErrCodeEndpointNotFound types.ErrorCode = "LOADER_ENDPOINT_NOT_FOUND"

	// ErrCodeInvalidRelationshipKind means a relationship label is outside the
	// permitted enumeration. It fails that relationship only.
	ErrCodeInvalidRelationshipKind types.ErrorCode = "LOADER_INVALID_RELATIONSHIP_KIND"

	// ErrCodeUnlinkedIntegration means an integration has no provider node to link to.
	ErrCodeUnlinkedIntegration types.ErrorCode = "LOADER_UNLINKED_INTEGRATION"
)

// IsItemError reports whether err is scoped to a single relationship and
// should be recorded rather than abort the phase.
func IsItemError(err error) bool {
	return types.HasCode(err, ErrCodeEndpointNotFound) || types.HasCode(err, ErrCodeInvalidRelationshipKind)
}
