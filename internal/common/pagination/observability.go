package pagination

import (
	"log/slog"
	"time"
)

// LogRequest logs a paginated request with structured fields.
// This enables request tracing and debugging.
func LogRequest(logger *slog.Logger, requestID, view string, req Request) {
	logger.Info("Paginated request",
		"request_id", requestID,
		"view", view,
		"limit", req.Limit,
		"filters", len(req.Filters),
		"sorts", len(req.Sorts),
		"continuation", req.Token != nil)
}

// LogResponse logs a paginated response with duration and status.
// This enables performance monitoring and debugging.
func LogResponse(logger *slog.Logger, requestID, view string, returnedCount int, hasMore bool, duration time.Duration, statusCode int) {
	logger.Info("Paginated response",
		"request_id", requestID,
		"view", view,
		"returned_count", returnedCount,
		"has_more", hasMore,
		"duration_ms", duration.Milliseconds(),
		"status", statusCode)
}

// LogError logs a pagination error with structured fields.
func LogError(logger *slog.Logger, requestID, view string, err error, errorType string) {
	logger.Error("Pagination error",
		"request_id", requestID,
		"view", view,
		"error", err.Error(),
		"error_type", errorType)
}
