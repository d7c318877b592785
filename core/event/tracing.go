package event

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func (d *Dispatcher) startPublishSpan(ctx context.Context, scopeID string, s Strategy, n int) (context.Context, trace.Span) {
	return d.tracer.Start(ctx, "event.publish",
		trace.WithAttributes(
			attribute.String("event.scope_id", scopeID),
			attribute.String("event.strategy", s.String()),
			attribute.Int("event.count", n),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (d *Dispatcher) startRunSpan(ctx context.Context, e *entry) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("event.type", e.desc.name),
		attribute.String("event.id", e.id),
	}
	if e.ordered {
		attrs = append(attrs, attribute.Int("event.order", e.order))
	}

	return d.tracer.Start(ctx, "event.run "+e.desc.name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// endSpan completes a span, recording err if any.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
