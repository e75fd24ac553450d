package health

import (
	"context"
	"testing"
)

func TestNewRuntimeChecker_Defaults(t *testing.T) {
	checker := NewRuntimeChecker(RuntimeCheckerConfig{})

	if checker.config.WarningThreshold != 0.8 {
		t.Errorf("WarningThreshold = %v, want 0.8", checker.config.WarningThreshold)
	}
	if checker.config.CriticalThreshold != 0.95 {
		t.Errorf("CriticalThreshold = %v, want 0.95", checker.config.CriticalThreshold)
	}
}

func TestNewRuntimeChecker_InvalidThresholds(t *testing.T) {
	checker := NewRuntimeChecker(RuntimeCheckerConfig{
		WarningThreshold: 1.5,
	})
	if checker.config.WarningThreshold != 0.8 {
		t.Errorf("invalid warning should default to 0.8, got %v", checker.config.WarningThreshold)
	}

	checker = NewRuntimeChecker(RuntimeCheckerConfig{
		WarningThreshold:  0.9,
		CriticalThreshold: 0.7,
	})
	if checker.config.CriticalThreshold < checker.config.WarningThreshold {
		t.Errorf("critical threshold %v should be raised to at least warning %v",
			checker.config.CriticalThreshold, checker.config.WarningThreshold)
	}
}

func TestRuntimeChecker_Name(t *testing.T) {
	checker := NewRuntimeChecker(RuntimeCheckerConfig{})

	if checker.Name() != "runtime" {
		t.Errorf("Name() = %v, want 'runtime'", checker.Name())
	}
}

func TestRuntimeChecker_Check(t *testing.T) {
	checker := NewRuntimeChecker(RuntimeCheckerConfig{})

	result := checker.Check(context.Background())

	if result.Details == nil {
		t.Fatal("Details should not be nil")
	}

	for _, key := range []string{"heap_alloc", "num_gc", "goroutines"} {
		if _, ok := result.Details[key]; !ok {
			t.Errorf("Details missing key: %s", key)
		}
	}
}

func TestRuntimeChecker_HeapBudgetExceeded(t *testing.T) {
	// A 1-byte budget guarantees critical usage against any live heap.
	checker := NewRuntimeChecker(RuntimeCheckerConfig{
		MaxHeapBytes:      1,
		WarningThreshold:  0.5,
		CriticalThreshold: 0.8,
	})

	result := checker.Check(context.Background())

	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy with 1-byte heap budget", result.Status)
	}
	if result.Details["heap_budget"] != uint64(1) {
		t.Errorf("heap_budget = %v, want 1", result.Details["heap_budget"])
	}
}

func TestRuntimeChecker_GoroutineLimit(t *testing.T) {
	// Any running test has at least one goroutine.
	checker := NewRuntimeChecker(RuntimeCheckerConfig{
		MaxGoroutines: 0, // disabled
	})
	result := checker.Check(context.Background())
	if result.Status == StatusDegraded {
		t.Errorf("goroutine check should be disabled with MaxGoroutines=0, got %v", result.Status)
	}

	checker = NewRuntimeChecker(RuntimeCheckerConfig{
		MaxGoroutines: 1, // always exceeded under the test runner
	})
	result = checker.Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("Status = %v, want StatusDegraded when goroutine limit exceeded", result.Status)
	}
}

func TestRuntimeChecker_ContextCancelled(t *testing.T) {
	checker := NewRuntimeChecker(RuntimeCheckerConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := checker.Check(ctx)

	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy for cancelled context", result.Status)
	}
	if result.Error != context.Canceled {
		t.Errorf("Error = %v, want context.Canceled", result.Error)
	}
}
