package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/zero-day-ai/toolgraph/internal/catalog"
	"github.com/zero-day-ai/toolgraph/internal/graph"
	"github.com/zero-day-ai/toolgraph/internal/types"
)

func TestCLIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *CLIError
		expected string
	}{
		{
			name:     "error without cause",
			err:      NewCLIError(ExitError, "something went wrong"),
			expected: "something went wrong",
		},
		{
			name:     "error with cause",
			err:      WrapError(ExitError, "operation failed", errors.New("underlying error")),
			expected: "operation failed: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestCLIError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(ExitError, "wrapper", cause)

	assert.Same(t, cause, err.Unwrap())
	assert.Nil(t, NewCLIError(ExitError, "no cause").Unwrap())
}

func TestHandleError(t *testing.T) {
	storeErr := types.WrapError(graph.ErrCodeGraphConnectionFailed, "cannot reach bolt://localhost:7687", errors.New("refused"))

	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedOut  string
	}{
		{
			name:         "nil error",
			err:          nil,
			expectedCode: ExitSuccess,
		},
		{
			name:         "context cancelled",
			err:          fmt.Errorf("run: %w", context.Canceled),
			expectedCode: ExitCancelled,
			expectedOut:  "Operation cancelled",
		},
		{
			name:         "deadline exceeded",
			err:          types.WrapError(graph.ErrCodeGraphWriteFailed, "write failed", context.DeadlineExceeded),
			expectedCode: ExitTimeout,
			expectedOut:  "Operation timed out",
		},
		{
			name:         "cli error keeps its code",
			err:          NewCLIError(ExitConfigError, "configuration not loaded"),
			expectedCode: ExitConfigError,
			expectedOut:  "Error: configuration not loaded",
		},
		{
			name:         "graph store error",
			err:          types.WrapError(types.RUN_PHASE_FAILED, "providers phase failed", storeErr),
			expectedCode: ExitGraphError,
			expectedOut:  "cannot reach bolt://localhost:7687",
		},
		{
			name:         "config validation error",
			err:          types.WrapError(types.CONFIG_VALIDATION_FAILED, "invalid configuration", errors.New("neo4j.password is required")),
			expectedCode: ExitConfigError,
		},
		{
			name:         "catalog error",
			err:          types.NewError(catalog.ErrCodeCatalogInvalid, "catalog validation failed"),
			expectedCode: ExitConfigError,
		},
		{
			name:         "partial failure",
			err:          types.NewError(types.RUN_PARTIAL_FAILURE, "1 relationships skipped"),
			expectedCode: ExitPartialFailure,
			expectedOut:  "1 relationships skipped",
		},
		{
			name:         "close error joined to a phase error",
			err:          errors.Join(types.NewError(types.RUN_PHASE_FAILED, "relationships phase failed"), storeErr),
			expectedCode: ExitGraphError,
		},
		{
			name:         "generic error",
			err:          errors.New("boom"),
			expectedCode: ExitError,
			expectedOut:  "Error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "test"}
			var buf bytes.Buffer
			cmd.SetErr(&buf)

			code := HandleError(cmd, tt.err)

			assert.Equal(t, tt.expectedCode, code)
			if tt.expectedOut != "" {
				assert.Contains(t, buf.String(), tt.expectedOut)
			}
		})
	}
}

func TestHandleError_RetryHint(t *testing.T) {
	unreachable := types.WrapError(graph.ErrCodeGraphConnectionFailed, "cannot reach bolt://localhost:7687", errors.New("refused"))
	unreachable.Retryable = true
	rejected := types.WrapError(graph.ErrCodeGraphConnectionFailed, "cannot reach bolt://localhost:7687", errors.New("unauthorized"))

	tests := []struct {
		name     string
		err      error
		wantHint bool
	}{
		{name: "transient connection failure", err: unreachable, wantHint: true},
		{name: "rejected credentials", err: rejected, wantHint: false},
		{name: "generic error", err: errors.New("boom"), wantHint: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "test"}
			var buf bytes.Buffer
			cmd.SetErr(&buf)

			HandleError(cmd, tt.err)

			assert.Equal(t, tt.wantHint, IsRetryable(tt.err))
			if tt.wantHint {
				assert.Contains(t, buf.String(), "repeated safely")
			} else {
				assert.NotContains(t, buf.String(), "repeated safely")
			}
		})
	}
}

func TestHandleError_VerboseShowsCause(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("verbose", false, "")
	var buf bytes.Buffer
	cmd.SetErr(&buf)

	err := WrapError(ExitConfigError, "failed to open log output", errors.New("permission denied"))

	HandleError(cmd, err)
	assert.NotContains(t, buf.String(), "permission denied")

	buf.Reset()
	_ = cmd.Flags().Set("verbose", "true")
	HandleError(cmd, err)
	assert.Contains(t, buf.String(), "Cause: permission denied")
}

func TestIsVerbose_Env(t *testing.T) {
	t.Setenv("TOOLGRAPH_VERBOSE", "1")
	assert.True(t, IsVerbose())
}
