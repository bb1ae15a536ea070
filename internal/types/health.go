package types

import (
	"fmt"
	"time"
)

// HealthState is the coarse health of an external dependency.
type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateUnhealthy HealthState = "unhealthy"
)

// String returns the string representation of HealthState
func (s HealthState) String() string {
	return string(s)
}

// HealthStatus is the result of probing a dependency such as the graph store.
type HealthStatus struct {
	State     HealthState `json:"state"`
	Message   string      `json:"message,omitempty"`
	CheckedAt time.Time   `json:"checked_at"`
}

// NewHealthStatus creates a HealthStatus stamped with the current time.
func NewHealthStatus(state HealthState, message string) HealthStatus {
	return HealthStatus{
		State:     state,
		Message:   message,
		CheckedAt: time.Now(),
	}
}

// Healthy creates a HealthStatus in the healthy state.
func Healthy(message string) HealthStatus {
	return NewHealthStatus(HealthStateHealthy, message)
}

// Unhealthy creates a HealthStatus in the unhealthy state.
func Unhealthy(message string) HealthStatus {
	return NewHealthStatus(HealthStateUnhealthy, message)
}

// IsHealthy returns true if the health state is healthy.
func (h HealthStatus) IsHealthy() bool {
	return h.State == HealthStateHealthy
}

// Err converts an unhealthy status into an error with the given code.
func (h HealthStatus) Err(code ErrorCode) error {
	if h.IsHealthy() {
		return nil
	}
	return NewError(code, fmt.Sprintf("%s: %s", h.State, h.Message))
}
