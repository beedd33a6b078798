// Package observability groups the cross-cutting instrumentation for
// the service. The logging subpackage builds structured slog loggers
// with request-scoped context, and the tracing subpackage wires
// OpenTelemetry span propagation into the HTTP layer.
package observability
