package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/toolgraph/cmd/toolgraph/internal"
	"github.com/zero-day-ai/toolgraph/internal/config"
	"github.com/zero-day-ai/toolgraph/internal/console"
	"github.com/zero-day-ai/toolgraph/internal/graph"
	"github.com/zero-day-ai/toolgraph/internal/observability"
	"github.com/zero-day-ai/toolgraph/internal/report"
)

// app holds the collaborators a store-backed command needs.
type app struct {
	cfg      *config.Config
	format   internal.OutputFormat
	logger   *observability.TracedLogger
	tracer   trace.Tracer
	client   graph.GraphClient
	progress *console.Printer
	out      internal.Formatter
	stdout   io.Writer

	provider  *sdktrace.TracerProvider
	logCloser io.Closer
}

// newApp builds logging, tracing, the traced Neo4j client and the printers
// from the loaded configuration. The client is not connected yet.
func newApp(cmd *cobra.Command, cfg *config.Config) (*app, error) {
	if cfg == nil {
		return nil, internal.NewCLIError(internal.ExitConfigError, "configuration not loaded")
	}
	ctx := cmd.Context()

	logger, logCloser, err := observability.NewLogger(cfg.Logging, "")
	if err != nil {
		return nil, internal.WrapError(internal.ExitConfigError, "failed to open log output", err)
	}

	provider, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	tracer := observability.Tracer(provider)

	neo4jClient, err := graph.NewNeo4jClient(cfg.Neo4j.GraphClientConfig())
	if err != nil {
		_ = observability.ShutdownTracing(context.WithoutCancel(ctx), provider)
		_ = logCloser.Close()
		return nil, err
	}

	format := globalFlags.GetOutputFormat()
	stdout := cmd.OutOrStdout()

	// JSON goes to stdout alone; progress moves to stderr.
	progressOut := stdout
	if format == internal.FormatJSON {
		progressOut = cmd.ErrOrStderr()
	}

	return &app{
		cfg:       cfg,
		format:    format,
		logger:    logger,
		tracer:    tracer,
		client:    graph.NewTracedClient(neo4jClient, tracer),
		progress:  newPrinter(progressOut),
		out:       internal.NewFormatter(format, stdout),
		stdout:    stdout,
		provider:  provider,
		logCloser: logCloser,
	}, nil
}

// Close flushes spans and closes the log output.
func (a *app) Close(ctx context.Context) error {
	return errors.Join(
		observability.ShutdownTracing(ctx, a.provider),
		a.logCloser.Close(),
	)
}

// printReport renders the report as headed tables, or as one JSON document.
func (a *app) printReport(rep *report.Report) error {
	if a.format == internal.FormatJSON {
		return a.out.PrintJSON(rep)
	}
	for _, section := range rep.Sections() {
		if _, err := fmt.Fprintf(a.stdout, "\n%s\n", a.progress.Heading(section.Title)); err != nil {
			return err
		}
		if err := a.out.PrintTable(section.Headers, section.Rows); err != nil {
			return err
		}
	}
	return nil
}

func newPrinter(w io.Writer) *console.Printer {
	opts := []console.Option{console.WithQuiet(globalFlags.IsQuiet())}
	if globalFlags.NoColor {
		opts = append(opts, console.WithoutColor())
	}
	return console.NewPrinter(w, opts...)
}

// withTimeout applies --timeout when set.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if globalFlags.Timeout > 0 {
		return context.WithTimeout(ctx, globalFlags.Timeout)
	}
	return context.WithCancel(ctx)
}
