package types

import (
	"errors"
	"fmt"
)

// ErrorCode is a namespaced code identifying the failure class of an Error.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Run error codes
const (
	RUN_PHASE_FAILED    ErrorCode = "RUN_PHASE_FAILED"
	RUN_PARTIAL_FAILURE ErrorCode = "RUN_PARTIAL_FAILURE"
)

// Error is a structured error carrying a code, a message and an optional cause.
// Packages declare their own codes (graph, loader, catalog) and share this type so
// the CLI can map any failure to an exit status by inspecting the code.
type Error struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// NewError creates a non-retryable Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WrapError creates a non-retryable Error wrapping cause.
func WrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the outermost *Error in err's chain, or "" when there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether any *Error in err's tree carries code, including
// errors combined with errors.Join.
func HasCode(err error, code ErrorCode) bool {
	return errors.Is(err, &Error{Code: code})
}

// IsRetryable reports whether any *Error in err's cause chain is flagged as transient.
func IsRetryable(err error) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Retryable {
			return true
		}
		err = e.Cause
	}
	return false
}
