package observability

import (
	"fmt"

	"github.com/zero-day-ai/toolgraph/internal/types"
)

// Observability error codes.
const (
	// ErrCodeInvalidConfig indicates a logging or tracing configuration that cannot be used.
	ErrCodeInvalidConfig types.ErrorCode = "OBSERVABILITY_INVALID_CONFIG"

	// ErrCodeExporterConnection indicates failure to set up a trace exporter.
	ErrCodeExporterConnection types.ErrorCode = "OBSERVABILITY_EXPORTER_CONNECTION"

	// ErrCodeShutdownTimeout indicates pending spans could not be flushed in time.
	ErrCodeShutdownTimeout types.ErrorCode = "OBSERVABILITY_SHUTDOWN_TIMEOUT"
)

// NewExporterConnectionError creates an error for exporter connection failures.
// It is retryable as network issues are often transient.
func NewExporterConnectionError(endpoint string, cause error) *types.Error {
	err := types.WrapError(ErrCodeExporterConnection, fmt.Sprintf("failed to connect to exporter at %s", endpoint), cause)
	err.Retryable = true
	return err
}
