package internal

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/toolgraph/internal/catalog"
	"github.com/zero-day-ai/toolgraph/internal/graph"
	"github.com/zero-day-ai/toolgraph/internal/observability"
	"github.com/zero-day-ai/toolgraph/internal/types"
)

// Exit code constants for the CLI
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitError indicates a general error
	ExitError = 1
	// ExitPartialFailure indicates the run finished but some items were skipped (--strict only)
	ExitPartialFailure = 2
	// ExitTimeout indicates the operation timed out
	ExitTimeout = 3
	// ExitCancelled indicates the operation was cancelled
	ExitCancelled = 4
	// ExitConfigError indicates a configuration or catalog error
	ExitConfigError = 10
	// ExitGraphError indicates the graph store was unreachable or rejected a query
	ExitGraphError = 12
)

// CLIError represents a CLI-specific error with an exit code
type CLIError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// WrapError creates a new CLIError wrapping an existing error
func WrapError(code int, message string, err error) *CLIError {
	return &CLIError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// NewCLIError creates a new CLIError with the given code and message
func NewCLIError(code int, message string) *CLIError {
	return &CLIError{
		Code:    code,
		Message: message,
	}
}

// HandleError prints err to the command's error output and returns the exit code for it.
func HandleError(cmd *cobra.Command, err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		cmd.PrintErrln("Operation cancelled")
		return ExitCancelled
	}

	if errors.Is(err, context.DeadlineExceeded) {
		cmd.PrintErrln("Operation timed out")
		return ExitTimeout
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		cmd.PrintErrln("Error:", cliErr.Message)
		if cliErr.Cause != nil && verboseFlagSet(cmd) {
			cmd.PrintErrln("Cause:", cliErr.Cause)
		}
		return cliErr.Code
	}

	cmd.PrintErrln("Error:", err)
	if IsRetryable(err) {
		cmd.PrintErrln("The failure looks transient; every write is a merge, so the run can be repeated safely.")
	}
	return ExitCodeFor(err)
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	return types.IsRetryable(err)
}

// ExitCodeFor maps a coded error to an exit code. Store failures win over
// everything else because a joined close error may ride along with them.
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case graph.IsStoreError(err):
		return ExitGraphError
	case isConfigError(err):
		return ExitConfigError
	case types.HasCode(err, types.RUN_PARTIAL_FAILURE):
		return ExitPartialFailure
	default:
		return ExitError
	}
}

var configCodes = []types.ErrorCode{
	types.CONFIG_LOAD_FAILED,
	types.CONFIG_PARSE_FAILED,
	types.CONFIG_VALIDATION_FAILED,
	graph.ErrCodeGraphInvalidConfig,
	observability.ErrCodeInvalidConfig,
	catalog.ErrCodeCatalogParse,
	catalog.ErrCodeCatalogRead,
	catalog.ErrCodeCatalogInvalid,
	catalog.ErrCodeInvalidKind,
}

func isConfigError(err error) bool {
	for _, code := range configCodes {
		if types.HasCode(err, code) {
			return true
		}
	}
	return false
}

func verboseFlagSet(cmd *cobra.Command) bool {
	flag := cmd.Flag("verbose")
	return flag != nil && flag.Changed
}

// IsVerbose checks if verbose mode is enabled via environment variable or flag.
// It is used by panic recovery, before flags are parsed.
func IsVerbose() bool {
	if os.Getenv("TOOLGRAPH_VERBOSE") != "" {
		return true
	}

	for _, arg := range os.Args {
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}

	return false
}
