package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls pass through and failures are counted.
	StateClosed State = iota
	// StateOpen means calls fail fast with ErrCircuitOpen.
	StateOpen
	// StateHalfOpen means a limited number of probe calls test recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the
	// circuit. A single success in the closed state resets the count.
	// Default: 5
	FailureThreshold int

	// ResetTimeout is how long an open circuit waits before letting probe
	// calls through.
	// Default: 30 seconds
	ResetTimeout time.Duration

	// HalfOpenMaxProbes is the number of probe calls admitted while
	// half-open; concurrent callers beyond it are rejected until the probes
	// resolve.
	// Default: 1
	HalfOpenMaxProbes int

	// OnStateChange is called after every state transition, under the
	// breaker mutex; it must not call back into the breaker.
	OnStateChange func(from, to State)

	// IsFailure decides whether an error counts as a failure.
	// Default: every non-nil error is a failure.
	IsFailure func(err error) bool

	// Clock is used for reset-timeout bookkeeping. Tests inject a mock.
	// Default: the real clock.
	Clock quartz.Clock
}

// CircuitBreaker guards calls to an unreliable operation with a
// closed/open/half-open state machine. State reads and transitions are
// serialized on one mutex; the guarded operation itself runs unlocked.
type CircuitBreaker struct {
	config CircuitBreakerConfig
	clock  quartz.Clock

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	probes      int
	generation  uint64
}

// NewCircuitBreaker creates a circuit breaker in the closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.HalfOpenMaxProbes <= 0 {
		config.HalfOpenMaxProbes = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}

	return &CircuitBreaker{
		config: config,
		clock:  config.Clock,
		state:  StateClosed,
	}
}

// Execute runs op through the circuit breaker. When the circuit rejects the
// call, op is not invoked and the error is ErrCircuitOpen; otherwise op's
// error is returned unchanged after being recorded as a success or failure.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	err := op(ctx)
	cb.afterCall(err)
	return err
}

// State returns the current circuit state, applying the open-to-half-open
// transition if the reset timeout has elapsed.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Reset forces the breaker back to closed and clears the failure count.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.transitionLocked(StateClosed)
	cb.failures = 0
}

func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentStateLocked() {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.probes >= cb.config.HalfOpenMaxProbes {
			return ErrCircuitOpen
		}
		cb.probes++
	}
	return nil
}

func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	failed := cb.config.IsFailure(err)

	switch cb.state {
	case StateClosed:
		if !failed {
			// Consecutive counting: one success clears the streak.
			cb.failures = 0
			return
		}
		cb.failures++
		cb.lastFailure = cb.clock.Now()
		if cb.failures >= cb.config.FailureThreshold {
			cb.transitionLocked(StateOpen)
		}

	case StateHalfOpen:
		if failed {
			// Probe failed; restart the open interval.
			cb.lastFailure = cb.clock.Now()
			cb.transitionLocked(StateOpen)
			return
		}
		cb.transitionLocked(StateClosed)
		cb.failures = 0
	}
}

// currentStateLocked applies the lazy open-to-half-open edge before
// reporting the state. Called with the mutex held.
func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && cb.clock.Since(cb.lastFailure) >= cb.config.ResetTimeout {
		cb.transitionLocked(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) transitionLocked(to State) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	cb.generation++
	if to == StateHalfOpen {
		cb.probes = 0
	}
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}

// CircuitBreakerMetrics is a point-in-time snapshot of breaker statistics.
type CircuitBreakerMetrics struct {
	State       State
	Failures    int
	LastFailure time.Time
	Generation  uint64
}

// Metrics returns current circuit breaker statistics.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		State:       cb.currentStateLocked(),
		Failures:    cb.failures,
		LastFailure: cb.lastFailure,
		Generation:  cb.generation,
	}
}
