// Package tracing wires OpenTelemetry spans into the HTTP layer and
// exposes the process-wide tracer for manual instrumentation.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("community-feed")

// GetTracer returns the application tracer for creating spans outside
// the HTTP middleware, e.g. around store queries or sweep batches.
func GetTracer() trace.Tracer {
	return tracer
}
