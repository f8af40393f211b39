package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("team-roster/internal/interfaces/httpapi")

// startSpan only opens child spans for handlers. Middleware and helpers,
// and requests without a parent span (health probes), reuse the caller's.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !isHandlerSpan(name) {
		return ctx, parent
	}
	return apiTracer.Start(ctx, name)
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
