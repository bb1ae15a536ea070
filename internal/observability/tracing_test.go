package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zero-day-ai/toolgraph/internal/types"
)

func shutdown(t *testing.T, tp *sdktrace.TracerProvider) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, ShutdownTracing(ctx, tp))
}

func TestInitTracing_Disabled(t *testing.T) {
	tp, err := InitTracing(context.Background(), TracingConfig{Enabled: false})

	require.NoError(t, err)
	require.NotNil(t, tp)
	shutdown(t, tp)
}

func TestInitTracing_Noop(t *testing.T) {
	tp, err := InitTracing(context.Background(), TracingConfig{Enabled: true, Provider: "noop", SampleRate: 1})

	require.NoError(t, err)
	require.NotNil(t, tp)
	shutdown(t, tp)
}

func TestInitTracing_InvalidConfiguration(t *testing.T) {
	tp, err := InitTracing(context.Background(), TracingConfig{Enabled: true, Provider: "zipkin"})

	require.Error(t, err)
	assert.Nil(t, tp)
	assert.True(t, types.HasCode(err, ErrCodeInvalidConfig))
}

func TestInitTracing_WithExporter(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	cfg := TracingConfig{
		Enabled:     true,
		Provider:    "otlp",
		Endpoint:    "localhost:4317",
		ServiceName: "toolgraph-test",
		SampleRate:  1.0,
	}

	tp, err := InitTracing(context.Background(), cfg,
		WithExporter(exporter),
		WithBatchTimeout(10*time.Millisecond),
	)
	require.NoError(t, err)

	_, span := Tracer(tp).Start(context.Background(), "toolgraph.run.providers")
	span.End()

	require.NoError(t, tp.ForceFlush(context.Background()))
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "toolgraph.run.providers", spans[0].Name)
	assert.Equal(t, TracerName, spans[0].InstrumentationScope.Name)

	var service string
	for _, attr := range spans[0].Resource.Attributes() {
		if attr.Key == "service.name" {
			service = attr.Value.AsString()
		}
	}
	assert.Equal(t, "toolgraph-test", service)

	shutdown(t, tp)
}

func TestInitTracing_WithSampler(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	cfg := TracingConfig{Enabled: true, Provider: "otlp", Endpoint: "x", ServiceName: "y", SampleRate: 1.0}

	tp, err := InitTracing(context.Background(), cfg, WithExporter(exporter), WithSampler(sdktrace.NeverSample()))
	require.NoError(t, err)

	_, span := Tracer(tp).Start(context.Background(), "dropped")
	span.End()

	require.NoError(t, tp.ForceFlush(context.Background()))
	assert.Empty(t, exporter.GetSpans())
	shutdown(t, tp)
}

func TestShutdownTracing_Nil(t *testing.T) {
	assert.NoError(t, ShutdownTracing(context.Background(), nil))
}

func TestNewExporterConnectionError(t *testing.T) {
	err := NewExporterConnectionError("collector:4317", assert.AnError)

	assert.True(t, err.Retryable)
	assert.Equal(t, ErrCodeExporterConnection, err.Code)
	assert.Contains(t, err.Error(), "collector:4317")
	assert.ErrorIs(t, err, assert.AnError)
}
