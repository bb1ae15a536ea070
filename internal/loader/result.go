package loader

import (
	"encoding/json"

	"github.com/zero-day-ai/toolgraph/internal/catalog"
)

// LoadResult contains statistics about a load phase.
type LoadResult struct {
	// NodesCreated is the count of new nodes created.
	NodesCreated int `json:"nodes_created"`

	// NodesUpdated is the count of existing nodes that were overwritten.
	NodesUpdated int `json:"nodes_updated"`

	// RelationshipsCreated is the count of edges that did not exist before.
	RelationshipsCreated int `json:"relationships_created"`

	// RelationshipsExisting is the count of edges that were already present.
	RelationshipsExisting int `json:"relationships_existing"`

	// Outcomes holds one entry per declared relationship, in declaration order.
	Outcomes []RelationshipOutcome `json:"outcomes,omitempty"`

	// Errors contains non-fatal problems found during the phase.
	Errors []error `json:"-"`
}

// MarshalJSON renders Errors as their messages.
func (r LoadResult) MarshalJSON() ([]byte, error) {
	type plain LoadResult
	out := struct {
		plain
		Errors []string `json:"errors,omitempty"`
	}{plain: plain(r)}
	for _, err := range r.Errors {
		out.Errors = append(out.Errors, err.Error())
	}
	return json.Marshal(out)
}

// AddError adds an error to the result and returns the result for chaining.
func (r *LoadResult) AddError(err error) *LoadResult {
	r.Errors = append(r.Errors, err)
	return r
}

// HasErrors returns true if any errors were encountered.
func (r *LoadResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Failed returns the relationship outcomes that did not produce an edge.
func (r *LoadResult) Failed() []RelationshipOutcome {
	var failed []RelationshipOutcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// RelationshipOutcome is the per-item result of merging one declared relationship.
type RelationshipOutcome struct {
	Relationship catalog.Relationship
	Created      bool
	Err          error
}

// OK reports whether the edge exists after the merge.
func (o RelationshipOutcome) OK() bool {
	return o.Err == nil
}

// MarshalJSON renders the outcome with the error as a string.
func (o RelationshipOutcome) MarshalJSON() ([]byte, error) {
	out := struct {
		Relationship catalog.Relationship `json:"relationship"`
		Created      bool                 `json:"created"`
		Error        string               `json:"error,omitempty"`
	}{
		Relationship: o.Relationship,
		Created:      o.Created,
	}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return json.Marshal(out)
}
