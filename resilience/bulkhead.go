package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// BulkheadConfig configures the bulkhead.
type BulkheadConfig struct {
	// MaxConcurrent is the maximum number of operations executing at once.
	// Default: 10
	MaxConcurrent int

	// MaxWaiting bounds how many callers may queue for a slot. Callers
	// beyond the bound fail fast with ErrBulkheadFull.
	// Default: 0 (no waiting, reject when saturated)
	MaxWaiting int

	// MaxWait caps how long a queued caller waits for a slot before giving
	// up with ErrBulkheadFull.
	// Default: 0 (wait until the caller's context expires)
	MaxWait time.Duration
}

// Bulkhead caps how many callers execute an operation simultaneously,
// isolating its resource usage from the rest of the process. Queued callers
// are admitted in FIFO order; a freed slot goes straight to the head waiter.
type Bulkhead struct {
	config BulkheadConfig
	sem    *semaphore.Weighted

	mu        sync.Mutex
	active    int
	maxActive int
	waiting   int
	rejected  int64
}

// NewBulkhead creates a new bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	// Apply defaults
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	if config.MaxWaiting < 0 {
		config.MaxWaiting = 0
	}

	return &Bulkhead{
		config: config,
		sem:    semaphore.NewWeighted(int64(config.MaxConcurrent)),
	}
}

// Acquire claims an execution slot. When all slots are busy it queues the
// caller (FIFO) up to MaxWaiting deep; beyond that, or once MaxWait elapses,
// it returns ErrBulkheadFull. The caller's context error is returned as-is
// if ctx expires first. Every successful Acquire must be paired with a
// Release.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	// Fast path: free slot, no queueing.
	if b.sem.TryAcquire(1) {
		b.noteAcquired(false)
		return nil
	}

	b.mu.Lock()
	if b.waiting >= b.config.MaxWaiting {
		b.rejected++
		b.mu.Unlock()
		return ErrBulkheadFull
	}
	b.waiting++
	b.mu.Unlock()

	waitCtx := ctx
	if b.config.MaxWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, b.config.MaxWait)
		defer cancel()
	}

	err := b.sem.Acquire(waitCtx, 1)
	if err != nil {
		b.mu.Lock()
		b.waiting--
		b.rejected++
		b.mu.Unlock()
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			// Only the bulkhead's own MaxWait elapsed.
			return ErrBulkheadFull
		}
		return ctx.Err()
	}

	b.noteAcquired(true)
	return nil
}

// Release frees a slot claimed by Acquire, handing it to the head waiter if
// any caller is queued.
func (b *Bulkhead) Release() {
	b.mu.Lock()
	if b.active == 0 {
		// Unbalanced Release; nothing to free.
		b.mu.Unlock()
		return
	}
	b.active--
	b.mu.Unlock()
	b.sem.Release(1)
}

// Execute runs op within the bulkhead, releasing the slot when op returns.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()

	return op(ctx)
}

func (b *Bulkhead) noteAcquired(wasWaiting bool) {
	b.mu.Lock()
	if wasWaiting {
		b.waiting--
	}
	b.active++
	if b.active > b.maxActive {
		b.maxActive = b.active
	}
	b.mu.Unlock()
}

// BulkheadMetrics is a point-in-time snapshot of bulkhead statistics.
type BulkheadMetrics struct {
	Active        int
	MaxActive     int
	Waiting       int
	Available     int
	MaxConcurrent int
	Rejected      int64
}

// Metrics returns current bulkhead statistics.
func (b *Bulkhead) Metrics() BulkheadMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BulkheadMetrics{
		Active:        b.active,
		MaxActive:     b.maxActive,
		Waiting:       b.waiting,
		Available:     b.config.MaxConcurrent - b.active,
		MaxConcurrent: b.config.MaxConcurrent,
		Rejected:      b.rejected,
	}
}
