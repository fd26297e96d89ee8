package diag

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelSink implements Sink by recording each event as an immediately-ended
// OpenTelemetry span, letting node evaluations, recomputes, and
// cancellations show up in a distributed trace backend (Jaeger, Zipkin,
// the OTel collector) without the engine importing any of them directly.
type OTelSink struct {
	tracer trace.Tracer
}

// NewOTelSink creates an OTelSink from an OpenTelemetry tracer, typically
// obtained via otel.Tracer("incproc").
func NewOTelSink(tracer trace.Tracer) *OTelSink {
	return &OTelSink{tracer: tracer}
}

func (o *OTelSink) Emit(event Event) {
	ctx := context.Background()
	_, span := o.tracer.Start(ctx, event.Msg)
	defer span.End()
	o.annotate(span, event)
}

func (o *OTelSink) EmitBatch(ctx context.Context, events []Event) error {
	for _, event := range events {
		_, span := o.tracer.Start(ctx, event.Msg)
		o.annotate(span, event)
		span.End()
	}
	return nil
}

// Flush force-flushes the global tracer provider, if it supports that.
func (o *OTelSink) Flush(ctx context.Context) error {
	tp := otel.GetTracerProvider()
	type flusher interface {
		ForceFlush(context.Context) error
	}
	if f, ok := tp.(flusher); ok {
		return f.ForceFlush(ctx)
	}
	return nil
}

func (o *OTelSink) annotate(span trace.Span, event Event) {
	span.SetAttributes(
		attribute.Int("incproc.iteration", event.Iteration),
		attribute.String("incproc.node_id", event.NodeID),
	)
	if event.Input != "" {
		span.SetAttributes(attribute.String("incproc.input", event.Input))
	}
	for key, value := range event.Meta {
		switch v := value.(type) {
		case string:
			span.SetAttributes(attribute.String(key, v))
		case int:
			span.SetAttributes(attribute.Int(key, v))
		case int64:
			span.SetAttributes(attribute.Int64(key, v))
		case float64:
			span.SetAttributes(attribute.Float64(key, v))
		case bool:
			span.SetAttributes(attribute.Bool(key, v))
		default:
			span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}
	if event.Msg == "cancel" {
		span.SetStatus(codes.Error, "iteration canceled")
	}
}
