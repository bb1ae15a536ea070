package types

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  NewError(CONFIG_LOAD_FAILED, "cannot read file"),
			want: "[CONFIG_LOAD_FAILED] cannot read file",
		},
		{
			name: "with cause",
			err:  WrapError(RUN_PHASE_FAILED, "providers phase failed", errors.New("boom")),
			want: "[RUN_PHASE_FAILED] providers phase failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(CONFIG_LOAD_FAILED, "load", cause)

	if !errors.Is(err, cause) {
		t.Fatal("errors.Is should find the wrapped cause")
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewError(CONFIG_VALIDATION_FAILED, "first"))

	if !errors.Is(err, NewError(CONFIG_VALIDATION_FAILED, "different message")) {
		t.Error("errors.Is should match errors with the same code")
	}
	if errors.Is(err, NewError(CONFIG_LOAD_FAILED, "first")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestIsRetryable(t *testing.T) {
	transient := NewError(CONFIG_LOAD_FAILED, "unreachable")
	transient.Retryable = true

	if !IsRetryable(fmt.Errorf("run: %w", WrapError(RUN_PHASE_FAILED, "phase", transient))) {
		t.Error("a retryable cause should make the chain retryable")
	}
	if IsRetryable(WrapError(RUN_PHASE_FAILED, "phase", NewError(CONFIG_LOAD_FAILED, "x"))) {
		t.Error("NewError should not be retryable")
	}
	if IsRetryable(errors.New("plain")) || IsRetryable(nil) {
		t.Error("uncoded errors are not retryable")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}

	err := fmt.Errorf("ctx: %w", WrapError(RUN_PHASE_FAILED, "phase", NewError(CONFIG_LOAD_FAILED, "inner")))
	if got := CodeOf(err); got != RUN_PHASE_FAILED {
		t.Errorf("CodeOf() = %q, want %q", got, RUN_PHASE_FAILED)
	}
}

func TestHasCode(t *testing.T) {
	inner := NewError(CONFIG_LOAD_FAILED, "inner")
	err := WrapError(RUN_PHASE_FAILED, "phase", fmt.Errorf("wrapped: %w", inner))

	if !HasCode(err, RUN_PHASE_FAILED) {
		t.Error("outer code should be found")
	}
	if !HasCode(err, CONFIG_LOAD_FAILED) {
		t.Error("inner code should be found through the chain")
	}
	if HasCode(err, CONFIG_PARSE_FAILED) {
		t.Error("absent code should not be found")
	}
	if HasCode(nil, RUN_PHASE_FAILED) {
		t.Error("nil error has no code")
	}
	if !strings.Contains(err.Error(), "inner") {
		t.Errorf("message should include the cause chain, got %q", err.Error())
	}

	joined := errors.Join(err, NewError(CONFIG_PARSE_FAILED, "close"))
	if !HasCode(joined, CONFIG_PARSE_FAILED) {
		t.Error("code in the second joined error should be found")
	}
}
