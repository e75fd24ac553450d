// Package resilience protects callers from failing or overloaded
// dependencies.
//
// Each pattern is an independent Guard with its own state; they compose in
// any order, directly or through an Executor.
//
// # Patterns
//
//   - Circuit Breaker: fails fast once a dependency is observed to be
//     failing, probing for recovery after a reset timeout.
//
//   - Bulkhead: caps concurrent executions of an operation, with a bounded
//     FIFO wait queue, isolating its resource usage from the rest of the
//     process.
//
//   - Retry: re-attempts failed operations with configurable backoff
//     (exponential, linear, constant) and jitter.
//
//   - Rate Limiter: token bucket limiting how often an operation runs.
//
//   - Timeout: bounds how long a single attempt may take.
//
// Bulkhead and CircuitBreaker guard different failure modes: the bulkhead
// limits concurrency, the breaker limits calls to a dependency that is
// already failing. Wrapping one in the other combines both protections.
//
// # Usage
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    FailureThreshold: 5,
//	    ResetTimeout:     time.Minute,
//	})
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{
//	    MaxConcurrent: 8,
//	    MaxWaiting:    32,
//	})
//
//	executor := resilience.NewExecutor(
//	    resilience.WithBulkhead(bh),
//	    resilience.WithCircuitBreaker(cb),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	result, err := resilience.Do(ctx, executor, func(ctx context.Context) (string, error) {
//	    return callDependency(ctx)
//	})
//
// Every rejection is a typed sentinel error (ErrCircuitOpen,
// ErrBulkheadFull, ErrRateLimitExceeded, ErrTimeout), so callers can
// distinguish "the guard said no" from "the operation failed".
package resilience
