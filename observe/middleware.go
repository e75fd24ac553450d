package observe

import (
	"context"
	"time"
)

// ExecuteFunc is the signature for guarded operations.
// This is the standard function signature that Middleware wraps.
type ExecuteFunc func(ctx context.Context) error

// Middleware wraps operation execution with observability (tracing, metrics,
// logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe ExecuteFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped function are recorded and propagated unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger

	// rejectReason classifies errors that mean the operation was refused
	// before running. A non-empty reason increments the rejection counter
	// instead of the error counter path.
	rejectReason func(err error) string
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// WithRejectionClassifier sets a classifier mapping errors to rejection
// reasons (for example "queue_full" or "circuit_open"). Errors it maps to ""
// are treated as ordinary failures.
func (m *Middleware) WithRejectionClassifier(fn func(err error) string) *Middleware {
	m.rejectReason = fn
	return m
}

// Wrap wraps an ExecuteFunc with tracing, metrics, and logging for the given
// operation.
func (m *Middleware) Wrap(meta OpMeta, fn ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context) error {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		err := fn(ctx)
		duration := time.Since(start)

		m.tracer.EndSpan(span, err)

		if reason := m.classify(err); reason != "" {
			m.metrics.RecordRejection(ctx, meta, reason)
		} else {
			m.metrics.RecordExecution(ctx, meta, duration, err)
		}

		opLogger := m.logger.WithOp(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			opLogger.Error(ctx, "operation failed", fields...)
		} else {
			opLogger.Info(ctx, "operation completed", fields...)
		}

		return err
	}
}

func (m *Middleware) classify(err error) string {
	if err == nil || m.rejectReason == nil {
		return ""
	}
	return m.rejectReason(err)
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}
