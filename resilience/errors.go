package resilience

import "errors"

// Sentinel errors for resilience operations. Each rejection path returns one
// of these so callers can branch with errors.Is.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a call
	// without attempting the operation.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrMaxRetriesExceeded is returned when retry attempts are exhausted.
	// It wraps the operation's last error.
	ErrMaxRetriesExceeded = errors.New("resilience: max retries exceeded")

	// ErrRateLimitExceeded is returned when the rate limit denies a call.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrBulkheadFull is returned when the bulkhead and its wait queue are
	// both at capacity.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrTimeout is returned when an operation exceeds its deadline.
	ErrTimeout = errors.New("resilience: operation timed out")
)
