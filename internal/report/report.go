// Package report reads back a loaded graph and summarises it.
package report

import (
	"context"
	"fmt"
	"strconv"

	"github.com/zero-day-ai/toolgraph/internal/catalog"
	"github.com/zero-day-ai/toolgraph/internal/graph"
	"github.com/zero-day-ai/toolgraph/internal/types"
)

// ErrCodeReportFailed wraps any failure while building a report.
const ErrCodeReportFailed types.ErrorCode = "REPORT_FAILED"

// Count is one row of a grouped count.
type Count struct {
	Key   string `json:"key"`
	Total int64  `json:"total"`
}

// Report is the post-load summary of the graph.
type Report struct {
	EntityCounts             []Count                  `json:"entity_counts"`
	TotalEdges               int64                    `json:"total_edges"`
	IntegrationsByProvider   []Count                  `json:"integrations_by_provider"`
	IntegrationsByComplexity []Count                  `json:"integrations_by_complexity"`
	EdgesByKind              []Count                  `json:"edges_by_kind"`
	Unowned                  []catalog.IntegrationRef `json:"unowned_integrations"`
}

// Complete reports whether every integration has its ownership edge.
func (r *Report) Complete() bool {
	return len(r.Unowned) == 0
}

// Section is a titled table ready for rendering.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Sections lays the report out in display order.
func (r *Report) Sections() []Section {
	sections := []Section{
		countSection("Entities by label", "label", r.EntityCounts),
		{
			Title:   "Relationships",
			Headers: []string{"metric", "total"},
			Rows:    [][]string{{"edges", strconv.FormatInt(r.TotalEdges, 10)}},
		},
		countSection("Integrations by provider", "provider", r.IntegrationsByProvider),
		countSection("Integrations by complexity", "complexity", r.IntegrationsByComplexity),
		countSection("Relationships by kind", "kind", r.EdgesByKind),
	}

	unowned := Section{Title: "Integrations without provider", Headers: []string{"provider", "name"}}
	for _, ref := range r.Unowned {
		unowned.Rows = append(unowned.Rows, []string{ref.Provider, ref.Name})
	}
	return append(sections, unowned)
}

func countSection(title, key string, counts []Count) Section {
	s := Section{Title: title, Headers: []string{key, "total"}}
	for _, c := range counts {
		s.Rows = append(s.Rows, []string{c.Key, strconv.FormatInt(c.Total, 10)})
	}
	return s
}

// Validator runs the fixed battery of read-only report queries.
type Validator struct {
	client graph.GraphClient
}

// NewValidator creates a Validator reading through client.
func NewValidator(client graph.GraphClient) *Validator {
	return &Validator{client: client}
}

// Run builds the report. Any query failure aborts it; a partial report is never returned.
func (v *Validator) Run(ctx context.Context) (*Report, error) {
	if v.client == nil {
		return nil, types.NewError(ErrCodeReportFailed, "client is nil")
	}

	r := &Report{}
	var err error

	if r.EntityCounts, err = v.counts(ctx, "entity counts", entityCountsCypher); err != nil {
		return nil, err
	}
	if r.TotalEdges, err = v.total(ctx, "total edges", totalEdgesCypher); err != nil {
		return nil, err
	}
	if r.IntegrationsByProvider, err = v.counts(ctx, "integrations by provider", integrationsByProviderCypher); err != nil {
		return nil, err
	}
	if r.IntegrationsByComplexity, err = v.counts(ctx, "integrations by complexity", integrationsByComplexityCypher); err != nil {
		return nil, err
	}
	if r.EdgesByKind, err = v.counts(ctx, "edges by kind", edgesByKindCypher); err != nil {
		return nil, err
	}
	if r.Unowned, err = v.unowned(ctx); err != nil {
		return nil, err
	}

	return r, nil
}

func (v *Validator) counts(ctx context.Context, name, cypher string) ([]Count, error) {
	res, err := v.client.Query(ctx, cypher, nil)
	if err != nil {
		return nil, types.WrapError(ErrCodeReportFailed, fmt.Sprintf("%s query failed", name), err)
	}

	counts := make([]Count, 0, len(res.Records))
	for _, record := range res.Records {
		key, err := graph.String(record, "key")
		if err != nil {
			return nil, types.WrapError(ErrCodeReportFailed, fmt.Sprintf("%s: bad row", name), err)
		}
		total, err := graph.Int64(record, "total")
		if err != nil {
			return nil, types.WrapError(ErrCodeReportFailed, fmt.Sprintf("%s: bad row", name), err)
		}
		counts = append(counts, Count{Key: key, Total: total})
	}
	return counts, nil
}

// total reads a single-row count. An aggregate always yields a row, so none means the store misbehaved.
func (v *Validator) total(ctx context.Context, name, cypher string) (int64, error) {
	res, err := v.client.Query(ctx, cypher, nil)
	if err != nil {
		return 0, types.WrapError(ErrCodeReportFailed, fmt.Sprintf("%s query failed", name), err)
	}

	record, ok := res.First()
	if !ok {
		return 0, types.NewError(ErrCodeReportFailed, fmt.Sprintf("%s query returned no rows", name))
	}
	total, err := graph.Int64(record, "total")
	if err != nil {
		return 0, types.WrapError(ErrCodeReportFailed, fmt.Sprintf("%s: bad row", name), err)
	}
	return total, nil
}

func (v *Validator) unowned(ctx context.Context) ([]catalog.IntegrationRef, error) {
	res, err := v.client.Query(ctx, unownedIntegrationsCypher, nil)
	if err != nil {
		return nil, types.WrapError(ErrCodeReportFailed, "ownership check failed", err)
	}

	refs := make([]catalog.IntegrationRef, 0, len(res.Records))
	for _, record := range res.Records {
		name, err := graph.String(record, "name")
		if err != nil {
			return nil, types.WrapError(ErrCodeReportFailed, "ownership check: bad row", err)
		}
		provider, err := graph.String(record, "provider")
		if err != nil {
			return nil, types.WrapError(ErrCodeReportFailed, "ownership check: bad row", err)
		}
		refs = append(refs, catalog.IntegrationRef{Name: name, Provider: provider})
	}
	return refs, nil
}
