// Package logging builds the application's slog loggers and carries
// them, together with request ids, through context.
package logging

import (
	"context"
	"log/slog"
	"os"

	"community-feed/internal/handler/http/requestid"
)

type contextKey string

const loggerContextKey contextKey = "logger"

func handlerOptions() *slog.HandlerOptions {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	return &slog.HandlerOptions{
		Level: level,
		// Source locations matter most when chasing warnings and errors.
		AddSource: level <= slog.LevelWarn,
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a JSON logger on stdout. The level comes from
// LOG_LEVEL (debug, info, warn, error), defaulting to info.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, handlerOptions()))
}

// NewTextLogger returns a human-readable logger for local development.
func NewTextLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, handlerOptions()))
}

// WithRequestID attaches the request id from ctx to the logger, so all
// entries for one request can be correlated. A ctx without an id
// returns the logger unchanged.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		return logger
	}
	return logger.With("request_id", reqID)
}

// WithFields returns a logger with the given key-value pairs attached.
func WithFields(logger *slog.Logger, fields map[string]interface{}) *slog.Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return logger.With(args...)
}

// FromContext returns the logger stored in ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}
