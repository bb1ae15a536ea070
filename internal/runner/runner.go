// Package runner sequences a load run: providers, integrations per provider,
// declared relationships, derived ownership edges and the read-back report.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/toolgraph/internal/catalog"
	"github.com/zero-day-ai/toolgraph/internal/graph"
	"github.com/zero-day-ai/toolgraph/internal/loader"
	"github.com/zero-day-ai/toolgraph/internal/observability"
	"github.com/zero-day-ai/toolgraph/internal/report"
	"github.com/zero-day-ai/toolgraph/internal/types"
)

// Runner owns the store connection for the duration of one run.
type Runner struct {
	client   graph.GraphClient
	catalog  *catalog.Catalog
	progress loader.Progress
	logger   *observability.TracedLogger
	tracer   trace.Tracer
	runID    string
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgress sets the sink for progress lines.
func WithProgress(p loader.Progress) Option {
	return func(r *Runner) {
		if p != nil {
			r.progress = p
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *observability.TracedLogger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTracer sets the tracer used for phase spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id string) Option {
	return func(r *Runner) {
		if id != "" {
			r.runID = id
		}
	}
}

// New creates a Runner loading cat through client.
func New(client graph.GraphClient, cat *catalog.Catalog, opts ...Option) *Runner {
	r := &Runner{
		client:   client,
		catalog:  cat,
		progress: loader.NopProgress{},
		logger:   observability.NewTracedLogger(slog.NewTextHandler(io.Discard, nil), "", "runner"),
		tracer:   observability.Tracer(nil),
		runID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithRunID(r.runID).Component("runner")
	return r
}

// RunID returns the id stamped on every node written by this runner.
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes every phase in order. The connection is opened once and closed
// on every exit path. The returned Result holds whatever phases completed,
// even when err is non-nil.
func (r *Runner) Run(ctx context.Context) (result *Result, err error) {
	result = &Result{RunID: r.runID, StartedAt: time.Now()}
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	if r.catalog == nil {
		return result, types.NewError(catalog.ErrCodeCatalogInvalid, "no catalog")
	}
	if err := r.catalog.Validate(); err != nil {
		return result, err
	}

	ctx, span := r.tracer.Start(ctx, "toolgraph.run", trace.WithAttributes(
		attribute.String("toolgraph.run_id", r.runID),
		attribute.Int("toolgraph.providers", len(r.catalog.Providers)),
		attribute.Int("toolgraph.integrations", len(r.catalog.Integrations)),
		attribute.Int("toolgraph.relationships", len(r.catalog.Relationships)),
	))
	defer func() {
		endSpan(span, err)
	}()

	if err := r.open(ctx); err != nil {
		return result, err
	}
	defer func() {
		if closeErr := r.client.Close(context.WithoutCancel(ctx)); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	l := loader.NewGraphLoader(r.client, loader.WithProgress(r.progress), loader.WithRunID(r.runID))

	r.logger.Info(ctx, "load started",
		"providers", len(r.catalog.Providers),
		"integrations", len(r.catalog.Integrations),
		"relationships", len(r.catalog.Relationships))

	err = r.phase(ctx, PhaseProviders, func(ctx context.Context) error {
		r.progress.Section("Providers")
		var err error
		result.Providers, err = l.LoadProviders(ctx, r.catalog.Providers)
		return err
	})
	if err != nil {
		return result, err
	}

	err = r.phase(ctx, PhaseIntegrations, func(ctx context.Context) error {
		result.Integrations = &loader.LoadResult{}
		for _, group := range r.catalog.Groups() {
			r.progress.Section(fmt.Sprintf("Integrations (%s)", group.Provider))
			lr, err := l.LoadIntegrations(ctx, group.Integrations)
			if lr != nil {
				result.Integrations.NodesCreated += lr.NodesCreated
				result.Integrations.NodesUpdated += lr.NodesUpdated
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	err = r.phase(ctx, PhaseRelationships, func(ctx context.Context) error {
		r.progress.Section("Relationships")
		var err error
		result.Relationships, err = l.LoadRelationships(ctx, r.catalog.Relationships)
		if result.Relationships != nil {
			for _, failed := range result.Relationships.Failed() {
				r.logger.Warn(ctx, "relationship skipped",
					"relationship", failed.Relationship.String(),
					"error", failed.Err.Error())
			}
		}
		return err
	})
	if err != nil {
		return result, err
	}

	err = r.phase(ctx, PhaseOwnership, func(ctx context.Context) error {
		r.progress.Section("Provider ownership")
		var err error
		result.Ownership, err = l.LinkProviders(ctx)
		return err
	})
	if err != nil {
		return result, err
	}

	err = r.phase(ctx, PhaseValidate, func(ctx context.Context) error {
		var err error
		result.Report, err = report.NewValidator(r.client).Run(ctx)
		return err
	})
	if err != nil {
		return result, err
	}

	r.logger.Info(ctx, "load finished",
		"nodes_created", result.NodesCreated(),
		"nodes_updated", result.NodesUpdated(),
		"relationships_failed", len(result.FailedRelationships()))

	return result, nil
}

// Validate builds the report without writing anything.
func (r *Runner) Validate(ctx context.Context) (rep *report.Report, err error) {
	ctx, span := r.tracer.Start(ctx, "toolgraph.validate", trace.WithAttributes(
		attribute.String("toolgraph.run_id", r.runID),
	))
	defer func() {
		endSpan(span, err)
	}()

	if err := r.open(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := r.client.Close(context.WithoutCancel(ctx)); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	err = r.phase(ctx, PhaseValidate, func(ctx context.Context) error {
		var err error
		rep, err = report.NewValidator(r.client).Run(ctx)
		return err
	})
	return rep, err
}

// open connects and verifies the store before anything is written.
func (r *Runner) open(ctx context.Context) error {
	if r.client == nil {
		return types.NewError(graph.ErrCodeGraphInvalidConfig, "no graph client")
	}
	if err := r.client.Connect(ctx); err != nil {
		r.logger.Error(ctx, "graph store unreachable", "error", err)
		return err
	}

	if health := r.client.Health(ctx); !health.IsHealthy() {
		err := health.Err(graph.ErrCodeGraphConnectionFailed)
		r.logger.Error(ctx, "graph store unhealthy", "error", err)
		_ = r.client.Close(context.WithoutCancel(ctx))
		return err
	}
	return nil
}

// phase runs fn inside a toolgraph.run.<name> span. A failure is wrapped with
// the phase name; the original code stays reachable through the cause chain.
func (r *Runner) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, "toolgraph.run."+name)
	defer span.End()

	started := time.Now()
	r.logger.Debug(ctx, "phase started", "phase", name)

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error(ctx, "phase failed", "phase", name, "error", err)
		return types.WrapError(types.RUN_PHASE_FAILED, fmt.Sprintf("%s phase failed", name), err)
	}

	r.logger.Debug(ctx, "phase finished", "phase", name, "duration", time.Since(started))
	return nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
