package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the slotpool tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("slotpool")

// SpanManager handles trace span lifecycle for snapshot operations.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartArchiveSpan starts a span for persisting a gathered aggregate.
	StartArchiveSpan(ctx context.Context, snapshotID, pool string) (context.Context, trace.Span)

	// StartRestoreSpan starts a span for loading a persisted aggregate.
	StartRestoreSpan(ctx context.Context, snapshotID, pool string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartArchiveSpan starts a span for persisting a gathered aggregate.
func (m *otelSpanManager) StartArchiveSpan(ctx context.Context, snapshotID, pool string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "slotpool.snapshot.archive",
		trace.WithAttributes(
			attribute.String("snapshot.id", snapshotID),
			attribute.String("pool", pool),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartRestoreSpan starts a span for loading a persisted aggregate.
func (m *otelSpanManager) StartRestoreSpan(ctx context.Context, snapshotID, pool string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "slotpool.snapshot.restore",
		trace.WithAttributes(
			attribute.String("snapshot.id", snapshotID),
			attribute.String("pool", pool),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
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

// AddSpanEvent adds an event to the current span in context.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
