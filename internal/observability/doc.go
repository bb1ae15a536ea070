// Package observability provides structured logging and distributed tracing for toolgraph.
//
// Logging goes through TracedLogger, a thin wrapper over log/slog that stamps
// every entry with the load run id and component name and, when an
// OpenTelemetry span is active in the context, its trace_id and span_id.
//
//	logger, closer, err := observability.NewLogger(cfg.Logging, runID)
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//	logger.Info(ctx, "loading catalog", "providers", 2)
//
// Tracing is initialised once per process with InitTracing and flushed with
// ShutdownTracing:
//
//	tp, err := observability.InitTracing(ctx, cfg.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer observability.ShutdownTracing(ctx, tp)
//
// Supported tracing providers are "otlp" (gRPC exporter) and "noop".
package observability
