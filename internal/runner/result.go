package runner

import (
	"time"

	"github.com/zero-day-ai/toolgraph/internal/loader"
	"github.com/zero-day-ai/toolgraph/internal/report"
)

// Phase names, in execution order.
const (
	PhaseProviders     = "providers"
	PhaseIntegrations  = "integrations"
	PhaseRelationships = "relationships"
	PhaseOwnership     = "ownership"
	PhaseValidate      = "validate"
)

// Result describes one load run. Phases that did not run are nil.
type Result struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	Providers     *loader.LoadResult `json:"providers,omitempty"`
	Integrations  *loader.LoadResult `json:"integrations,omitempty"`
	Relationships *loader.LoadResult `json:"relationships,omitempty"`
	Ownership     *loader.LoadResult `json:"ownership,omitempty"`
	Report        *report.Report     `json:"report,omitempty"`
}

// FailedRelationships returns the declared relationships that were skipped.
func (r *Result) FailedRelationships() []loader.RelationshipOutcome {
	if r == nil || r.Relationships == nil {
		return nil
	}
	return r.Relationships.Failed()
}

// HasFailures reports whether any item was skipped or any integration was left without its provider.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	if len(r.FailedRelationships()) > 0 {
		return true
	}
	if r.Ownership != nil && r.Ownership.HasErrors() {
		return true
	}
	return r.Report != nil && !r.Report.Complete()
}

// NodesCreated sums created nodes over the node phases.
func (r *Result) NodesCreated() int {
	return nodes(r.Providers, true) + nodes(r.Integrations, true)
}

// NodesUpdated sums updated nodes over the node phases.
func (r *Result) NodesUpdated() int {
	return nodes(r.Providers, false) + nodes(r.Integrations, false)
}

func nodes(lr *loader.LoadResult, created bool) int {
	if lr == nil {
		return 0
	}
	if created {
		return lr.NodesCreated
	}
	return lr.NodesUpdated
}
