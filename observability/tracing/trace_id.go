// Package tracing derives correlation ids for outgoing reports.
package tracing

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/errorbot/meta"
)

// RequestID returns the id that correlates a report with the work that produced it.
// It prefers the trace id stored by meta, then the active otel span, and
// otherwise generates a fresh uuid.
func RequestID(ctx context.Context) string {
	if id := meta.Find(ctx, meta.TraceID); id != "" {
		return id
	}

	if traceID := trace.SpanFromContext(ctx).SpanContext().TraceID(); traceID.IsValid() {
		return traceID.String()
	}

	return uuid.NewString()
}
