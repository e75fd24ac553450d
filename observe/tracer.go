package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// OpMeta identifies a guarded operation for telemetry purposes.
type OpMeta struct {
	Component string   // Runtime component executing the op: pool, breaker, bulkhead... (required)
	Op        string   // Operation name (required)
	Resource  string   // Named instance, e.g. a pool or breaker name (optional)
	Tags      []string // Free-form tags (optional)
}

// SpanName returns the deterministic span name for this operation.
// Format: keel.exec.<component>.<op>
func (m OpMeta) SpanName() string {
	return "keel.exec." + m.Component + "." + m.Op
}

// OpID returns the qualified operation identifier.
func (m OpMeta) OpID() string {
	if m.Resource != "" {
		return m.Component + "." + m.Resource + "." + m.Op
	}
	return m.Component + "." + m.Op
}

// Validate reports whether the metadata carries the required fields.
func (m OpMeta) Validate() error {
	if m.Component == "" || m.Op == "" {
		return ErrMissingOpName
	}
	return nil
}

// Tracer wraps OpenTelemetry tracing with operation-scoped span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for the operation.
	StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with operation metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("op.id", meta.OpID()),
		attribute.String("op.component", meta.Component),
		attribute.String("op.name", meta.Op),
		attribute.Bool("op.error", false), // Updated in EndSpan on error
	}

	if meta.Resource != "" {
		attrs = append(attrs, attribute.String("op.resource", meta.Resource))
	}
	if len(meta.Tags) > 0 {
		attrs = append(attrs, attribute.StringSlice("op.tags", meta.Tags))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("op.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
