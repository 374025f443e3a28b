package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("picocompat")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartDispatchSpan starts a span covering one canonical event.
	StartDispatchSpan(ctx context.Context, canonical, firingID string) (context.Context, trace.Span)

	// StartInvocationSpan starts a span for one legacy handler call.
	StartInvocationSpan(ctx context.Context, legacy, plugin string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

func (m *otelSpanManager) StartDispatchSpan(ctx context.Context, canonical, firingID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "picocompat.dispatch."+canonical,
		trace.WithAttributes(
			attribute.String("canonical", canonical),
			attribute.String("firing.id", firingID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) StartInvocationSpan(ctx context.Context, legacy, plugin string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "picocompat.legacy."+legacy,
		trace.WithAttributes(
			attribute.String("legacy_event", legacy),
			attribute.String("plugin", plugin),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
