package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestOpMeta_SpanName verifies the deterministic span name format.
func TestOpMeta_SpanName(t *testing.T) {
	meta := OpMeta{
		Component: "pool",
		Op:        "run",
	}

	expected := "keel.exec.pool.run"
	if got := meta.SpanName(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

// TestOpMeta_OpID verifies ID generation with and without a resource name.
func TestOpMeta_OpID(t *testing.T) {
	tests := []struct {
		name     string
		meta     OpMeta
		expected string
	}{
		{
			name:     "with resource",
			meta:     OpMeta{Component: "pool", Op: "submit", Resource: "ingest"},
			expected: "pool.ingest.submit",
		},
		{
			name:     "without resource",
			meta:     OpMeta{Component: "breaker", Op: "execute"},
			expected: "breaker.execute",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.meta.OpID(); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

// TestTracer_SpanAttributes verifies all attributes are present on span.
func TestTracer_SpanAttributes(t *testing.T) {
	// Set up in-memory span recorder
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := OpMeta{
		Component: "pool",
		Op:        "submit",
		Resource:  "ingest",
		Tags:      []string{"async", "batch"},
	}

	ctx, span := tr.StartSpan(context.Background(), meta)
	tr.EndSpan(span, nil)
	_ = ctx // Suppress unused warning

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]

	// Verify span name
	if s.Name() != "keel.exec.pool.submit" {
		t.Errorf("expected span name 'keel.exec.pool.submit', got %q", s.Name())
	}

	// Verify attributes
	attrs := s.Attributes()
	attrMap := make(map[string]attribute.Value)
	for _, a := range attrs {
		attrMap[string(a.Key)] = a.Value
	}

	// Required attributes
	if v, ok := attrMap["op.id"]; !ok || v.AsString() != "pool.ingest.submit" {
		t.Errorf("expected op.id='pool.ingest.submit', got %v", v)
	}
	if v, ok := attrMap["op.component"]; !ok || v.AsString() != "pool" {
		t.Errorf("expected op.component='pool', got %v", v)
	}
	if v, ok := attrMap["op.name"]; !ok || v.AsString() != "submit" {
		t.Errorf("expected op.name='submit', got %v", v)
	}
	if v, ok := attrMap["op.error"]; !ok || v.AsBool() != false {
		t.Errorf("expected op.error=false, got %v", v)
	}

	// Optional attributes
	if v, ok := attrMap["op.resource"]; !ok || v.AsString() != "ingest" {
		t.Errorf("expected op.resource='ingest', got %v", v)
	}
}

// TestTracer_SpanAttributesMinimal verifies only required attributes when minimal meta.
func TestTracer_SpanAttributesMinimal(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := OpMeta{
		Component: "queue",
		Op:        "take",
	}

	ctx, span := tr.StartSpan(context.Background(), meta)
	tr.EndSpan(span, nil)
	_ = ctx

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]
	attrs := s.Attributes()
	attrMap := make(map[string]attribute.Value)
	for _, a := range attrs {
		attrMap[string(a.Key)] = a.Value
	}

	// Required attributes should be present
	if _, ok := attrMap["op.id"]; !ok {
		t.Error("expected op.id attribute")
	}
	if _, ok := attrMap["op.name"]; !ok {
		t.Error("expected op.name attribute")
	}
	if _, ok := attrMap["op.error"]; !ok {
		t.Error("expected op.error attribute")
	}

	// Optional attributes should NOT be present when empty
	if v, ok := attrMap["op.resource"]; ok && v.AsString() != "" {
		t.Errorf("expected no op.resource, got %v", v)
	}
	if _, ok := attrMap["op.tags"]; ok {
		t.Error("expected no op.tags")
	}
}

// TestTracer_ContextPropagation verifies parent span is propagated.
func TestTracer_ContextPropagation(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := OpMeta{Component: "pool", Op: "run"}

	// Create parent span
	parentCtx, parentSpan := tracer.Start(context.Background(), "parent")

	// Create child span through our tracer
	childCtx, childSpan := tr.StartSpan(parentCtx, meta)
	tr.EndSpan(childSpan, nil)
	parentSpan.End()
	_ = childCtx

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	// Find the child span (the one with keel.exec prefix)
	var child sdktrace.ReadOnlySpan
	for _, s := range spans {
		if s.Name() == "keel.exec.pool.run" {
			child = s
			break
		}
	}
	if child == nil {
		t.Fatal("child span not found")
	}

	// Verify parent-child relationship
	if child.Parent().TraceID() != parentSpan.SpanContext().TraceID() {
		t.Error("child span should have same trace ID as parent")
	}
	if !child.Parent().SpanID().IsValid() {
		t.Error("child span should have valid parent span ID")
	}
}

// TestTracer_ErrorRecording verifies error sets span status and attribute.
func TestTracer_ErrorRecording(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := OpMeta{Component: "breaker", Op: "execute"}

	ctx, span := tr.StartSpan(context.Background(), meta)
	testErr := errors.New("execution failed")
	tr.EndSpan(span, testErr)
	_ = ctx

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]

	// Verify error status
	if s.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", s.Status().Code)
	}

	// Verify op.error attribute
	attrs := s.Attributes()
	var opError bool
	for _, a := range attrs {
		if string(a.Key) == "op.error" {
			opError = a.Value.AsBool()
			break
		}
	}
	if !opError {
		t.Error("expected op.error=true")
	}
}
