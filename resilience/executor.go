package resilience

import (
	"context"
	"time"
)

// Guard is the common surface of every resilience pattern in this package:
// it runs an operation and returns either the operation's error or a typed
// rejection. CircuitBreaker, Bulkhead, Retry, RateLimiter, Timeout, and
// Executor all implement it.
type Guard interface {
	Execute(ctx context.Context, op func(context.Context) error) error
}

// Do runs a value-returning operation through a guard. It is the generic
// companion to Guard.Execute for callers that need a result, not just an
// error.
func Do[T any](ctx context.Context, g Guard, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := g.Execute(ctx, func(ctx context.Context) error {
		var opErr error
		out, opErr = op(ctx)
		return opErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Executor composes multiple resilience patterns into one Guard.
type Executor struct {
	circuitBreaker *CircuitBreaker
	retry          *Retry
	rateLimiter    *RateLimiter
	bulkhead       *Bulkhead
	timeout        *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.circuitBreaker = cb
	}
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithRateLimiter adds rate limiting to the executor.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) {
		e.rateLimiter = rl
	}
}

// WithBulkhead adds bulkhead isolation to the executor.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) {
		e.bulkhead = b
	}
}

// WithTimeout adds timeout to the executor.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// WithTimeoutConfig adds timeout with custom config to the executor.
func WithTimeoutConfig(t *Timeout) ExecutorOption {
	return func(e *Executor) {
		e.timeout = t
	}
}

// Execute runs the operation through all configured resilience patterns.
//
// The execution order, outermost to innermost, is:
// rate limiter, bulkhead, circuit breaker, retry, timeout. Each pattern only
// sees the layers inside it, so e.g. a retried timeout counts as one
// circuit-breaker call.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	// Build the chain from the inside out.
	if e.timeout != nil {
		execute = wrap(e.timeout, execute)
	}
	if e.retry != nil {
		execute = wrap(e.retry, execute)
	}
	if e.circuitBreaker != nil {
		execute = wrap(e.circuitBreaker, execute)
	}
	if e.bulkhead != nil {
		execute = wrap(e.bulkhead, execute)
	}
	if e.rateLimiter != nil {
		execute = wrap(e.rateLimiter, execute)
	}

	return execute(ctx)
}

func wrap(g Guard, inner func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		return g.Execute(ctx, inner)
	}
}
