package graph

import "github.com/zero-day-ai/toolgraph/internal/types"

// Graph database error codes
const (
	// Connection errors
	ErrCodeGraphConnectionFailed types.ErrorCode = "GRAPH_CONNECTION_FAILED"
	ErrCodeGraphConnectionClosed types.ErrorCode = "GRAPH_CONNECTION_CLOSED"

	// Configuration errors
	ErrCodeGraphInvalidConfig types.ErrorCode = "GRAPH_INVALID_CONFIG"

	// Query errors
	ErrCodeGraphQueryFailed   types.ErrorCode = "GRAPH_QUERY_FAILED"
	ErrCodeGraphWriteFailed   types.ErrorCode = "GRAPH_WRITE_FAILED"
	ErrCodeGraphResultParsing types.ErrorCode = "GRAPH_RESULT_PARSING"
)

var storeCodes = []types.ErrorCode{
	ErrCodeGraphConnectionFailed,
	ErrCodeGraphConnectionClosed,
	ErrCodeGraphQueryFailed,
	ErrCodeGraphWriteFailed,
	ErrCodeGraphResultParsing,
}

// IsStoreError reports whether err originated in the graph store boundary.
func IsStoreError(err error) bool {
	for _, code := range storeCodes {
		if types.HasCode(err, code) {
			return true
		}
	}
	return false
}
