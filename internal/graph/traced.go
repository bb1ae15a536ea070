package graph

import (
	"context"

	"github.com/zero-day-ai/toolgraph/internal/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names emitted by TracedClient.
const (
	SpanGraphConnect = "toolgraph.graph.connect"
	SpanGraphClose   = "toolgraph.graph.close"
	SpanGraphQuery   = "toolgraph.graph.query"
	SpanGraphWrite   = "toolgraph.graph.write"
)

// TracedClient wraps a GraphClient and opens one span per call.
type TracedClient struct {
	inner  GraphClient
	tracer trace.Tracer
}

// NewTracedClient decorates inner with spans created by tracer.
func NewTracedClient(inner GraphClient, tracer trace.Tracer) *TracedClient {
	return &TracedClient{
		inner:  inner,
		tracer: tracer,
	}
}

// Connect traces the inner Connect.
func (c *TracedClient) Connect(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, SpanGraphConnect, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(attribute.String("db.system", "neo4j"))

	err := c.inner.Connect(ctx)
	finishSpan(span, err)
	return err
}

// Close traces the inner Close.
func (c *TracedClient) Close(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, SpanGraphClose, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	err := c.inner.Close(ctx)
	finishSpan(span, err)
	return err
}

// Health is not traced.
func (c *TracedClient) Health(ctx context.Context) types.HealthStatus {
	return c.inner.Health(ctx)
}

// Query traces the inner Query.
func (c *TracedClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return c.traced(ctx, SpanGraphQuery, cypher, params, c.inner.Query)
}

// Write traces the inner Write.
func (c *TracedClient) Write(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return c.traced(ctx, SpanGraphWrite, cypher, params, c.inner.Write)
}

type execFunc func(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)

func (c *TracedClient) traced(ctx context.Context, name, cypher string, params map[string]any, fn execFunc) (QueryResult, error) {
	ctx, span := c.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("db.system", "neo4j"),
		attribute.String("db.statement", cypher),
		attribute.Int("toolgraph.graph.param_count", len(params)),
	)

	res, err := fn(ctx, cypher, params)
	if err == nil {
		span.SetAttributes(
			attribute.Int("toolgraph.graph.records", len(res.Records)),
			attribute.Int("toolgraph.graph.nodes_created", res.Summary.NodesCreated),
			attribute.Int("toolgraph.graph.relationships_created", res.Summary.RelationshipsCreated),
			attribute.Int("toolgraph.graph.properties_set", res.Summary.PropertiesSet),
		)
	}
	finishSpan(span, err)
	return res, err
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if code := types.CodeOf(err); code != "" {
			span.SetAttributes(attribute.String("toolgraph.error.code", string(code)))
		}
		return
	}
	span.SetStatus(codes.Ok, "")
}

var _ GraphClient = (*TracedClient)(nil)
var _ GraphClient = (*Neo4jClient)(nil)
var _ GraphClient = (*MockGraphClient)(nil)
