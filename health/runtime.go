package health

import (
	"context"
	"fmt"
	"runtime"
)

// RuntimeCheckerConfig configures the Go runtime pressure checker.
type RuntimeCheckerConfig struct {
	// WarningThreshold is the fraction of MaxHeapBytes that triggers
	// degraded status. Value should be between 0 and 1. Default: 0.8
	WarningThreshold float64

	// CriticalThreshold is the fraction of MaxHeapBytes that triggers
	// unhealthy status. Value should be between 0 and 1. Default: 0.95
	CriticalThreshold float64

	// MaxHeapBytes is the heap budget the thresholds apply to.
	// If zero, the memory obtained from the OS so far is used.
	MaxHeapBytes uint64

	// MaxGoroutines triggers degraded status when exceeded.
	// Zero disables the goroutine check.
	MaxGoroutines int
}

// RuntimeChecker reports heap and goroutine pressure in the current
// process. It is a coarse backstop for runaway queues and leaked
// workers rather than a precise memory monitor.
type RuntimeChecker struct {
	config RuntimeCheckerConfig
}

// NewRuntimeChecker creates a new runtime pressure checker.
func NewRuntimeChecker(config RuntimeCheckerConfig) *RuntimeChecker {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = config.WarningThreshold
	}

	return &RuntimeChecker{config: config}
}

// Name returns the name of this checker.
func (c *RuntimeChecker) Name() string {
	return "runtime"
}

// Check samples runtime statistics and grades them against the
// configured thresholds.
func (c *RuntimeChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	goroutines := runtime.NumGoroutine()

	maxHeap := c.config.MaxHeapBytes
	if maxHeap == 0 {
		maxHeap = stats.Sys
	}

	details := map[string]any{
		"heap_alloc":     stats.HeapAlloc,
		"heap_sys":       stats.HeapSys,
		"heap_in_use":    stats.HeapInuse,
		"heap_objects":   stats.HeapObjects,
		"stack_in_use":   stats.StackInuse,
		"gc_pause_total": stats.PauseTotalNs,
		"num_gc":         stats.NumGC,
		"goroutines":     goroutines,
	}

	if c.config.MaxGoroutines > 0 && goroutines > c.config.MaxGoroutines {
		return Degraded(
			fmt.Sprintf("goroutine count high: %d (limit %d)", goroutines, c.config.MaxGoroutines),
		).WithDetails(details)
	}

	if maxHeap == 0 {
		return Healthy("runtime stats unavailable").WithDetails(details)
	}

	usage := float64(stats.HeapAlloc) / float64(maxHeap)
	details["heap_budget"] = maxHeap
	details["heap_usage_percent"] = usage * 100

	if usage >= c.config.CriticalThreshold {
		return Unhealthy(
			fmt.Sprintf("heap usage critical: %.1f%%", usage*100),
			ErrCheckFailed,
		).WithDetails(details)
	}

	if usage >= c.config.WarningThreshold {
		return Degraded(
			fmt.Sprintf("heap usage high: %.1f%%", usage*100),
		).WithDetails(details)
	}

	return Healthy(
		fmt.Sprintf("heap usage normal: %.1f%%", usage*100),
	).WithDetails(details)
}
