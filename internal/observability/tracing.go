package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"

	"github.com/zero-day-ai/toolgraph/internal/types"
	"github.com/zero-day-ai/toolgraph/pkg/version"
)

const (
	defaultBatchTimeout = 5 * time.Second
	defaultServiceName  = "toolgraph"

	// TracerName is the instrumentation scope of every toolgraph span.
	TracerName = "github.com/zero-day-ai/toolgraph"
)

// TracingOption is a functional option for configuring tracing initialization.
type TracingOption func(*tracingOptions)

type tracingOptions struct {
	sampler      sdktrace.Sampler
	resource     *resource.Resource
	batchTimeout time.Duration
	exporter     sdktrace.SpanExporter
}

// WithSampler sets a custom sampler for the tracer provider.
func WithSampler(sampler sdktrace.Sampler) TracingOption {
	return func(o *tracingOptions) {
		o.sampler = sampler
	}
}

// WithResource sets a custom resource for the tracer provider.
func WithResource(res *resource.Resource) TracingOption {
	return func(o *tracingOptions) {
		o.resource = res
	}
}

// WithBatchTimeout sets the maximum time between batch exports.
func WithBatchTimeout(timeout time.Duration) TracingOption {
	return func(o *tracingOptions) {
		o.batchTimeout = timeout
	}
}

// WithExporter replaces the OTLP exporter, mainly so tests can record spans.
func WithExporter(exporter sdktrace.SpanExporter) TracingOption {
	return func(o *tracingOptions) {
		o.exporter = exporter
	}
}

// InitTracing initializes distributed tracing.
//
// When cfg.Enabled is false or the provider is "noop", a provider that records
// nothing is returned. For "otlp" spans are batched to the gRPC collector at
// cfg.Endpoint and the provider is installed as the global tracer provider.
func InitTracing(ctx context.Context, cfg TracingConfig, opts ...TracingOption) (*sdktrace.TracerProvider, error) {
	if !cfg.Enabled {
		return sdktrace.NewTracerProvider(), nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, types.WrapError(ErrCodeInvalidConfig, "invalid tracing configuration", err)
	}

	if strings.ToLower(cfg.Provider) == ProviderNoop {
		return sdktrace.NewTracerProvider(), nil
	}

	options := &tracingOptions{
		batchTimeout: defaultBatchTimeout,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.sampler == nil {
		options.sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))
	}

	if options.resource == nil {
		serviceName := cfg.ServiceName
		if serviceName == "" {
			serviceName = defaultServiceName
		}

		// resource.New avoids schema URL conflicts with resource.Default()
		res, err := resource.New(
			ctx,
			resource.WithAttributes(
				semconv.ServiceName(serviceName),
				semconv.ServiceVersion(version.Version),
			),
			resource.WithFromEnv(),
			resource.WithTelemetrySDK(),
		)
		if err != nil {
			return nil, types.WrapError(ErrCodeExporterConnection, "failed to create resource", err)
		}
		options.resource = res
	}

	exporter := options.exporter
	if exporter == nil {
		var err error
		exporter, err = newOTLPExporter(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(options.batchTimeout),
		),
		sdktrace.WithSampler(options.sampler),
		sdktrace.WithResource(options.resource),
	)

	otel.SetTracerProvider(tp)

	return tp, nil
}

func newOTLPExporter(ctx context.Context, cfg TracingConfig) (sdktrace.SpanExporter, error) {
	otlpOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}

	switch {
	case cfg.TLSCertFile != "":
		creds, err := credentials.NewClientTLSFromFile(cfg.TLSCertFile, "")
		if err != nil {
			return nil, types.WrapError(ErrCodeExporterConnection,
				fmt.Sprintf("failed to load TLS credentials from %s", cfg.TLSCertFile), err)
		}
		otlpOpts = append(otlpOpts, otlptracegrpc.WithTLSCredentials(creds))
	case cfg.InsecureMode:
		otlpOpts = append(otlpOpts, otlptracegrpc.WithInsecure())
	default:
		otlpOpts = append(otlpOpts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(nil)))
	}

	exporter, err := otlptracegrpc.New(ctx, otlpOpts...)
	if err != nil {
		return nil, NewExporterConnectionError(cfg.Endpoint, err)
	}
	return exporter, nil
}

// Tracer returns the toolgraph tracer from provider, or from the global
// provider when provider is nil.
func Tracer(provider trace.TracerProvider) trace.Tracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return provider.Tracer(TracerName, trace.WithInstrumentationVersion(version.Version))
}

// ShutdownTracing flushes pending spans and shuts the provider down.
// The context deadline bounds how long the flush may take.
func ShutdownTracing(ctx context.Context, provider *sdktrace.TracerProvider) error {
	if provider == nil {
		return nil
	}

	if err := provider.Shutdown(ctx); err != nil {
		return types.WrapError(ErrCodeShutdownTimeout, "failed to shutdown tracer provider", err)
	}

	return nil
}
