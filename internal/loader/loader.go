package loader

import (
	"context"
	"fmt"

	"github.com/zero-day-ai/toolgraph/internal/catalog"
	"github.com/zero-day-ai/toolgraph/internal/graph"
	"github.com/zero-day-ai/toolgraph/internal/types"
)

// GraphLoader turns catalog definitions into idempotent MERGE statements.
// Running the same definitions any number of times leaves one node per
// identity key and one edge per (source, target, kind).
type GraphLoader struct {
	client   graph.GraphClient
	progress Progress
	runID    string
}

// Option configures a GraphLoader.
type Option func(*GraphLoader)

// WithProgress sets the sink for per-write progress lines.
func WithProgress(p Progress) Option {
	return func(l *GraphLoader) {
		if p != nil {
			l.progress = p
		}
	}
}

// WithRunID stamps every node written with last_load_run = runID.
func WithRunID(runID string) Option {
	return func(l *GraphLoader) {
		l.runID = runID
	}
}

// NewGraphLoader creates a new GraphLoader with the given graph client.
func NewGraphLoader(client graph.GraphClient, opts ...Option) *GraphLoader {
	l := &GraphLoader{
		client:   client,
		progress: NopProgress{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// UpsertProvider creates the provider node if absent and overwrites its attributes.
// It reports whether the node was created.
func (l *GraphLoader) UpsertProvider(ctx context.Context, p catalog.Provider) (bool, error) {
	if err := l.ready(); err != nil {
		return false, err
	}
	if p.Name == "" {
		return false, types.NewError(ErrCodeInvalidDefinition, "provider has empty name")
	}

	res, err := l.client.Write(ctx, upsertProviderCypher, map[string]any{
		"name":   p.Name,
		"props":  p.Properties(),
		"run_id": l.runID,
	})
	if err != nil {
		return false, types.WrapError(ErrCodeUpsertFailed, fmt.Sprintf("failed to upsert provider %s", p.Name), err)
	}

	created := res.Summary.NodesCreated > 0
	l.progress.Step("Provider %s (%s) %s", p.FullName, p.Name, verb(created))
	return created, nil
}

// UpsertIntegration creates the integration node keyed on (name, provider) if
// absent and overwrites its attributes. It reports whether the node was created.
func (l *GraphLoader) UpsertIntegration(ctx context.Context, i catalog.Integration) (bool, error) {
	if err := l.ready(); err != nil {
		return false, err
	}
	if i.Name == "" || i.Provider == "" {
		return false, types.NewError(ErrCodeInvalidDefinition,
			fmt.Sprintf("integration %q has an incomplete identity (name and provider are required)", i.Ref()))
	}

	res, err := l.client.Write(ctx, upsertIntegrationCypher, map[string]any{
		"name":     i.Name,
		"provider": i.Provider,
		"props":    i.Properties(),
		"run_id":   l.runID,
	})
	if err != nil {
		return false, types.WrapError(ErrCodeUpsertFailed, fmt.Sprintf("failed to upsert integration %s", i.Ref()), err)
	}

	created := res.Summary.NodesCreated > 0
	l.progress.Step("Integration %s (%s) %s", i.Name, i.Provider, verb(created))
	return created, nil
}

// MergeRelationship creates the edge if absent. Both endpoints must already exist;
// a missing endpoint yields ErrCodeEndpointNotFound and nothing is written.
// It reports whether the edge was created.
func (l *GraphLoader) MergeRelationship(ctx context.Context, rel catalog.Relationship) (bool, error) {
	if err := l.ready(); err != nil {
		return false, err
	}
	if err := rel.Kind.Validate(); err != nil {
		return false, types.WrapError(ErrCodeInvalidRelationshipKind,
			fmt.Sprintf("refusing relationship %s", rel), err)
	}

	params := map[string]any{
		"source_name":     rel.Source.Name,
		"source_provider": rel.Source.Provider,
		"target_name":     rel.Target.Name,
		"target_provider": rel.Target.Provider,
	}

	res, err := l.client.Write(ctx, mergeRelationshipCypher(rel.Kind.String()), params)
	if err != nil {
		return false, types.WrapError(ErrCodeUpsertFailed, fmt.Sprintf("failed to merge relationship %s", rel), err)
	}

	if len(res.Records) == 0 {
		return false, l.diagnoseMissingEndpoint(ctx, rel, params)
	}

	return res.Summary.RelationshipsCreated > 0, nil
}

// diagnoseMissingEndpoint works out which endpoint an empty edge merge lacked.
func (l *GraphLoader) diagnoseMissingEndpoint(ctx context.Context, rel catalog.Relationship, params map[string]any) error {
	res, err := l.client.Query(ctx, endpointProbeCypher, params)
	if err != nil {
		return types.WrapError(ErrCodeUpsertFailed, fmt.Sprintf("failed to look up endpoints of %s", rel), err)
	}

	var sources, targets int64
	if record, ok := res.First(); ok {
		if sources, err = graph.Int64(record, "sources"); err != nil {
			return err
		}
		if targets, err = graph.Int64(record, "targets"); err != nil {
			return err
		}
	}

	var missing string
	switch {
	case sources == 0 && targets == 0:
		missing = fmt.Sprintf("source %s and target %s not found", rel.Source, rel.Target)
	case sources == 0:
		missing = fmt.Sprintf("source %s not found", rel.Source)
	case targets == 0:
		missing = fmt.Sprintf("target %s not found", rel.Target)
	default:
		// Endpoints appeared between the merge and the lookup.
		missing = "endpoints not matched"
	}
	return types.NewError(ErrCodeEndpointNotFound, missing)
}

// LoadProviders upserts providers in order. The first store error aborts the phase.
func (l *GraphLoader) LoadProviders(ctx context.Context, providers []catalog.Provider) (*LoadResult, error) {
	result := &LoadResult{}
	for _, p := range providers {
		created, err := l.UpsertProvider(ctx, p)
		if err != nil {
			return result, err
		}
		countNode(result, created)
	}
	return result, nil
}

// LoadIntegrations upserts integrations in order. The first store error aborts the phase.
func (l *GraphLoader) LoadIntegrations(ctx context.Context, integrations []catalog.Integration) (*LoadResult, error) {
	result := &LoadResult{}
	for _, i := range integrations {
		created, err := l.UpsertIntegration(ctx, i)
		if err != nil {
			return result, err
		}
		countNode(result, created)
	}
	return result, nil
}

// LoadRelationships merges every declared relationship and records one outcome
// per item. Missing endpoints and invalid kinds fail only their own item; a
// store error aborts the phase.
func (l *GraphLoader) LoadRelationships(ctx context.Context, rels []catalog.Relationship) (*LoadResult, error) {
	result := &LoadResult{Outcomes: make([]RelationshipOutcome, 0, len(rels))}

	for _, rel := range rels {
		created, err := l.MergeRelationship(ctx, rel)
		if err != nil && !IsItemError(err) {
			return result, err
		}

		result.Outcomes = append(result.Outcomes, RelationshipOutcome{
			Relationship: rel,
			Created:      created,
			Err:          err,
		})

		switch {
		case err != nil:
			result.AddError(err)
			l.progress.Fail("Relationship %s -> %s (%s) skipped: %s", rel.Source.Name, rel.Target.Name, rel.Kind, message(err))
		case created:
			result.RelationshipsCreated++
			l.progress.Step("Relationship %s -> %s (%s) created", rel.Source.Name, rel.Target.Name, rel.Kind)
		default:
			result.RelationshipsExisting++
			l.progress.Step("Relationship %s -> %s (%s) already present", rel.Source.Name, rel.Target.Name, rel.Kind)
		}
	}

	return result, nil
}

// LinkProviders ensures one PROVIDED_BY edge from every integration to the provider
// whose name equals its provider attribute. Integrations left without a provider
// are recorded as non-fatal errors.
func (l *GraphLoader) LinkProviders(ctx context.Context) (*LoadResult, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}

	res, err := l.client.Write(ctx, linkProvidersCypher, nil)
	if err != nil {
		return nil, types.WrapError(ErrCodeUpsertFailed, "failed to link integrations to providers", err)
	}

	var linked int64
	if record, ok := res.First(); ok {
		if linked, err = graph.Int64(record, "linked"); err != nil {
			return nil, err
		}
	}

	result := &LoadResult{
		RelationshipsCreated:  res.Summary.RelationshipsCreated,
		RelationshipsExisting: int(linked) - res.Summary.RelationshipsCreated,
	}
	l.progress.Step("%d %s relationships ensured (%d created)", linked, catalog.KindProvidedBy, result.RelationshipsCreated)

	unlinked, err := l.client.Query(ctx, unlinkedIntegrationsCypher, nil)
	if err != nil {
		return result, types.WrapError(ErrCodeUpsertFailed, "failed to check provider links", err)
	}
	for _, record := range unlinked.Records {
		name, err := graph.String(record, "name")
		if err != nil {
			return result, types.WrapError(ErrCodeUpsertFailed, "bad provider link row", err)
		}
		provider, err := graph.String(record, "provider")
		if err != nil {
			return result, types.WrapError(ErrCodeUpsertFailed, "bad provider link row", err)
		}
		ref := catalog.IntegrationRef{Name: name, Provider: provider}
		result.AddError(types.NewError(ErrCodeUnlinkedIntegration,
			fmt.Sprintf("integration %s has no provider node named %q", ref, provider)))
		l.progress.Fail("Integration %s has no provider node", ref)
	}

	return result, nil
}

func (l *GraphLoader) ready() error {
	if l.client == nil {
		return types.NewError(ErrCodeInvalidDefinition, "client is nil")
	}
	return nil
}

func countNode(result *LoadResult, created bool) {
	if created {
		result.NodesCreated++
	} else {
		result.NodesUpdated++
	}
}

func verb(created bool) string {
	if created {
		return "created"
	}
	return "updated"
}

// message returns the innermost human message of a coded error.
func message(err error) string {
	var last string
	for err != nil {
		e, ok := err.(*types.Error)
		if !ok {
			return err.Error()
		}
		last = e.Message
		err = e.Cause
	}
	return last
}
