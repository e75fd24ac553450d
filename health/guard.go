package health

import (
	"context"
	"fmt"

	"github.com/ziarahman/keel/pool"
	"github.com/ziarahman/keel/resilience"
)

// BreakerChecker reports the health of a circuit breaker.
// An open circuit is unhealthy, a half-open circuit is degraded.
type BreakerChecker struct {
	name    string
	breaker *resilience.CircuitBreaker
}

// NewBreakerChecker creates a checker for the given circuit breaker.
func NewBreakerChecker(name string, breaker *resilience.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

// Name returns the name of this checker.
func (c *BreakerChecker) Name() string {
	return c.name
}

// Check reports the breaker's current state.
func (c *BreakerChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	m := c.breaker.Metrics()
	details := map[string]any{
		"state":      m.State.String(),
		"failures":   m.Failures,
		"generation": m.Generation,
	}
	if !m.LastFailure.IsZero() {
		details["last_failure"] = m.LastFailure.UTC().Format("2006-01-02T15:04:05Z07:00")
	}

	switch m.State {
	case resilience.StateOpen:
		return Unhealthy("circuit open", resilience.ErrCircuitOpen).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit half-open, probing recovery").WithDetails(details)
	default:
		return Healthy("circuit closed").WithDetails(details)
	}
}

// BulkheadChecker reports the health of a bulkhead. A saturated
// bulkhead (no free slots) is degraded; it recovers on its own as
// callers release slots.
type BulkheadChecker struct {
	name     string
	bulkhead *resilience.Bulkhead
}

// NewBulkheadChecker creates a checker for the given bulkhead.
func NewBulkheadChecker(name string, bulkhead *resilience.Bulkhead) *BulkheadChecker {
	return &BulkheadChecker{name: name, bulkhead: bulkhead}
}

// Name returns the name of this checker.
func (c *BulkheadChecker) Name() string {
	return c.name
}

// Check reports the bulkhead's current saturation.
func (c *BulkheadChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	m := c.bulkhead.Metrics()
	details := map[string]any{
		"active":         m.Active,
		"available":      m.Available,
		"waiting":        m.Waiting,
		"max_concurrent": m.MaxConcurrent,
		"rejected":       m.Rejected,
	}

	if m.Available == 0 {
		return Degraded(
			fmt.Sprintf("bulkhead saturated: %d/%d slots in use, %d waiting", m.Active, m.MaxConcurrent, m.Waiting),
		).WithDetails(details)
	}

	return Healthy(
		fmt.Sprintf("bulkhead has capacity: %d/%d slots in use", m.Active, m.MaxConcurrent),
	).WithDetails(details)
}

// PoolCheckerConfig configures queue saturation thresholds.
type PoolCheckerConfig struct {
	// WarningThreshold is the queue utilization that triggers degraded
	// status. Value should be between 0 and 1. Default: 0.8 (80%)
	WarningThreshold float64

	// CriticalThreshold is the queue utilization that triggers
	// unhealthy status. Value should be between 0 and 1. Default: 1.0
	// (queue completely full)
	CriticalThreshold float64
}

// PoolChecker reports the health of a worker pool based on queue
// saturation. The pool type is generic, so the checker reads metrics
// through a snapshot function rather than holding the pool directly:
//
//	checker := health.NewPoolChecker("ingest", p.Metrics, health.PoolCheckerConfig{})
type PoolChecker struct {
	name    string
	metrics func() pool.Metrics
	config  PoolCheckerConfig
}

// NewPoolChecker creates a checker reading pool metrics from the given
// snapshot function.
func NewPoolChecker(name string, metrics func() pool.Metrics, config PoolCheckerConfig) *PoolChecker {
	if config.WarningThreshold <= 0 || config.WarningThreshold > 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold > 1 {
		config.CriticalThreshold = 1.0
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = config.WarningThreshold
	}

	return &PoolChecker{name: name, metrics: metrics, config: config}
}

// Name returns the name of this checker.
func (c *PoolChecker) Name() string {
	return c.name
}

// Check reports the pool's current queue pressure.
func (c *PoolChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	m := c.metrics()
	details := map[string]any{
		"workers":   m.Workers,
		"queue_len": m.QueueLen,
		"queue_cap": m.QueueCap,
		"submitted": m.Submitted,
		"completed": m.Completed,
		"failed":    m.Failed,
		"rejected":  m.Rejected,
		"dropped":   m.Dropped,
		"panics":    m.Panics,
	}

	if m.QueueCap == 0 {
		// Unbuffered queue: pressure is not observable from depth.
		return Healthy("pool running with unbuffered queue").WithDetails(details)
	}

	utilization := float64(m.QueueLen) / float64(m.QueueCap)
	details["queue_utilization"] = utilization

	if utilization >= c.config.CriticalThreshold {
		return Unhealthy(
			fmt.Sprintf("pool queue saturated: %d/%d", m.QueueLen, m.QueueCap),
			ErrCheckFailed,
		).WithDetails(details)
	}

	if utilization >= c.config.WarningThreshold {
		return Degraded(
			fmt.Sprintf("pool queue pressure high: %d/%d", m.QueueLen, m.QueueCap),
		).WithDetails(details)
	}

	return Healthy(
		fmt.Sprintf("pool queue normal: %d/%d", m.QueueLen, m.QueueCap),
	).WithDetails(details)
}
