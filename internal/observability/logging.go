package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/toolgraph/internal/types"
)

// TracedLogger is a structured logger with automatic trace correlation.
// It wraps slog.Logger and adds the load run id, the component name and
// OpenTelemetry trace correlation to every entry.
type TracedLogger struct {
	logger          *slog.Logger
	runID           string
	component       string
	redactSensitive bool
}

// NewTracedLogger creates a new TracedLogger writing through handler.
func NewTracedLogger(handler slog.Handler, runID, component string) *TracedLogger {
	return &TracedLogger{
		logger:          slog.New(handler),
		runID:           runID,
		component:       component,
		redactSensitive: true,
	}
}

// NewLogger builds a TracedLogger from configuration. The returned closer
// releases the log file when Output is a path and is a no-op otherwise.
func NewLogger(cfg LoggingConfig, runID string) (*TracedLogger, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, types.WrapError(ErrCodeInvalidConfig, "invalid logging configuration", err)
	}

	w, closer, err := openOutput(cfg.Output)
	if err != nil {
		return nil, nil, err
	}

	level := ParseLevel(cfg.Level)
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = NewJSONHandler(w, level)
	} else {
		handler = NewTextHandler(w, level)
	}

	return NewTracedLogger(handler, runID, "toolgraph"), closer, nil
}

// Component returns a logger sharing this logger's handler and run id.
func (l *TracedLogger) Component(name string) *TracedLogger {
	clone := *l
	clone.component = name
	return &clone
}

// WithRunID returns a logger stamping entries with runID.
func (l *TracedLogger) WithRunID(runID string) *TracedLogger {
	clone := *l
	clone.runID = runID
	return &clone
}

// Debug logs a debug-level message. Debug entries are not redacted.
func (l *TracedLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Debug(msg, args...)
}

// Info logs an info-level message. Sensitive values are redacted.
func (l *TracedLogger) Info(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Info(msg, l.redact(args)...)
}

// Warn logs a warning-level message. Sensitive values are redacted.
func (l *TracedLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Warn(msg, l.redact(args)...)
}

// Error logs an error-level message. Sensitive values are redacted.
func (l *TracedLogger) Error(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Error(msg, l.redact(args)...)
}

func (l *TracedLogger) redact(args []any) []any {
	if l.redactSensitive {
		return redactSensitiveData(args)
	}
	return args
}

// WithContext returns a slog.Logger carrying run_id, component and, when the
// context holds a valid span, trace_id and span_id.
func (l *TracedLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := l.logger.With(
		slog.String("run_id", l.runID),
		slog.String("component", l.component),
	)

	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if spanCtx.IsValid() {
		logger = logger.With(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}

	return logger
}

// NewJSONHandler creates a JSON log handler with the specified output and level.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}

// NewTextHandler creates a text log handler with the specified output and level.
func NewTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}

// ParseLevel maps a level name to a slog.Level. Unknown names yield info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openOutput(output string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout, nopCloser{}, nil
	case "stderr", "":
		return os.Stderr, nopCloser{}, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, types.WrapError(ErrCodeInvalidConfig, "failed to open log file "+output, err)
	}
	return f, f, nil
}

var sensitiveFields = map[string]bool{
	"password":   true,
	"secret":     true,
	"token":      true,
	"credential": true,
	"apikey":     true,
	"auth":       true,
}

// redactSensitiveData replaces values of sensitive keys with "[REDACTED]".
// Keys are compared case-insensitively with underscores removed.
func redactSensitiveData(args []any) []any {
	if len(args)%2 != 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 0; i < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			normalizedKey := strings.ToLower(strings.ReplaceAll(key, "_", ""))
			if sensitiveFields[normalizedKey] {
				redacted[i+1] = "[REDACTED]"
			}
		}
	}

	return redacted
}
