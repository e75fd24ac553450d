package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records execution metrics for guarded operations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records an operation execution with duration and error
	// status.
	RecordExecution(ctx context.Context, meta OpMeta, duration time.Duration, err error)

	// RecordRejection records an operation that was refused before running:
	// a full queue, an open circuit, a saturated bulkhead.
	RecordRejection(ctx context.Context, meta OpMeta, reason string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	rejectCount  metric.Int64Counter
	durationHist metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"keel.exec.total",
		metric.WithDescription("Total number of operation executions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"keel.exec.errors",
		metric.WithDescription("Total number of operation execution errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	rejectCount, err := meter.Int64Counter(
		"keel.exec.rejections",
		metric.WithDescription("Operations refused before running"),
		metric.WithUnit("{rejection}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"keel.exec.duration_ms",
		metric.WithDescription("Operation execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		rejectCount:  rejectCount,
		durationHist: durationHist,
	}, nil
}

func opAttributes(meta OpMeta) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("op.id", meta.OpID()),
		attribute.String("op.component", meta.Component),
		attribute.String("op.name", meta.Op),
	}
	if meta.Resource != "" {
		attrs = append(attrs, attribute.String("op.resource", meta.Resource))
	}
	return attrs
}

// RecordExecution records metrics for an operation execution.
func (m *metricsImpl) RecordExecution(ctx context.Context, meta OpMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(opAttributes(meta)...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}

	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordRejection increments the rejection counter with the refusal reason.
func (m *metricsImpl) RecordRejection(ctx context.Context, meta OpMeta, reason string) {
	attrs := append(opAttributes(meta), attribute.String("reject.reason", reason))
	m.rejectCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordExecution(ctx context.Context, meta OpMeta, duration time.Duration, err error) {
}

func (m *noopMetrics) RecordRejection(ctx context.Context, meta OpMeta, reason string) {}
