package pool

import (
	"context"
	"errors"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"

	"github.com/ziarahman/keel/future"
	"github.com/ziarahman/keel/queue"
)

// Policy selects the behavior of Submit when the task queue is full.
type Policy int

const (
	// Block makes Submit wait for queue space, honoring its context.
	Block Policy = iota
	// Reject makes Submit fail fast with ErrQueueFull.
	Reject
	// DropOldest evicts the oldest queued task, cancelling its future, to
	// admit the new one.
	DropOldest
)

// String returns the string representation of the policy.
func (p Policy) String() string {
	switch p {
	case Block:
		return "block"
	case Reject:
		return "reject"
	case DropOldest:
		return "drop-oldest"
	default:
		return "unknown"
	}
}

// Config configures a Pool.
type Config struct {
	// Workers is the number of worker goroutines.
	// Default: runtime.GOMAXPROCS(0)
	Workers int

	// QueueSize is the task queue capacity.
	// Default: 2 * Workers
	QueueSize int

	// Policy is applied when the queue is full.
	// Default: Block
	Policy Policy

	// Clock is used for task timing. Tests inject a mock.
	// Default: the real clock.
	Clock quartz.Clock

	// OnTaskDone, if set, is called after each executed task with its
	// duration and outcome. It runs on the worker goroutine and must return
	// quickly.
	OnTaskDone func(duration time.Duration, err error)
}

// Pool is a fixed-size worker pool producing futures.
type Pool[T any] struct {
	cfg   Config
	tasks *queue.Queue[*job[T]]

	wg      sync.WaitGroup
	discard atomic.Bool

	mu     sync.Mutex
	closed bool

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	rejected  atomic.Int64
	dropped   atomic.Int64
	panics    atomic.Int64
}

// job pairs a task with the future observing its result. ctx is the
// submission context; it governs the task's execution as well.
type job[T any] struct {
	fn  func(context.Context) (T, error)
	fut *future.Future[T]
	ctx context.Context
}

// New creates a pool and starts its workers.
func New[T any](cfg Config) *Pool[T] {
	// Apply defaults
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 2 * cfg.Workers
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}

	p := &Pool[T]{
		cfg:   cfg,
		tasks: queue.New[*job[T]](cfg.QueueSize),
	}

	p.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go p.worker()
	}
	return p
}

// Submit hands fn to the pool and returns the future observing its result.
// ctx bounds both the wait for queue space (under the Block policy) and the
// task's own execution. The returned future settles exactly once: with the
// task's value or error, with *PanicError if the task panics, or as
// cancelled if it never runs.
func (p *Pool[T]) Submit(ctx context.Context, fn func(context.Context) (T, error)) (*future.Future[T], error) {
	if fn == nil {
		return nil, ErrNilTask
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	p.mu.Unlock()

	j := &job[T]{
		fn:  fn,
		fut: future.New[T](),
		ctx: ctx,
	}

	if err := p.enqueue(ctx, j); err != nil {
		return nil, err
	}
	p.submitted.Add(1)
	return j.fut, nil
}

func (p *Pool[T]) enqueue(ctx context.Context, j *job[T]) error {
	switch p.cfg.Policy {
	case Reject:
		if err := p.tasks.TryPut(j); err != nil {
			if errors.Is(err, queue.ErrClosed) {
				return ErrClosed
			}
			p.rejected.Add(1)
			return ErrQueueFull
		}
		return nil

	case DropOldest:
		for {
			err := p.tasks.TryPut(j)
			if err == nil {
				return nil
			}
			if errors.Is(err, queue.ErrClosed) {
				return ErrClosed
			}
			if old, takeErr := p.tasks.TryTake(); takeErr == nil {
				if old.fut.Cancel() {
					p.dropped.Add(1)
				}
			}
		}

	default: // Block
		if err := p.tasks.Put(ctx, j); err != nil {
			if errors.Is(err, queue.ErrClosed) {
				return ErrClosed
			}
			return err
		}
		return nil
	}
}

// Shutdown stops the pool. With drain true, queued tasks run to completion;
// with drain false, queued tasks are cancelled. In both modes tasks already
// executing finish, no new submissions are accepted, and Shutdown returns
// once every worker has exited. Shutdown is idempotent.
func (p *Pool[T]) Shutdown(drain bool) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.closed = true
	p.mu.Unlock()

	if !drain {
		p.discard.Store(true)
	}
	p.tasks.Close()
	p.wg.Wait()
}

// Metrics is a point-in-time snapshot of pool statistics.
type Metrics struct {
	Workers   int
	QueueLen  int
	QueueCap  int
	Submitted int64
	Completed int64
	Failed    int64
	Rejected  int64
	Dropped   int64
	Panics    int64
}

// Metrics returns current pool statistics.
func (p *Pool[T]) Metrics() Metrics {
	return Metrics{
		Workers:   p.cfg.Workers,
		QueueLen:  p.tasks.Len(),
		QueueCap:  p.tasks.Cap(),
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Rejected:  p.rejected.Load(),
		Dropped:   p.dropped.Load(),
		Panics:    p.panics.Load(),
	}
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for {
		j, err := p.tasks.Take(context.Background())
		if err != nil {
			// Queue closed and drained.
			return
		}
		if p.discard.Load() {
			j.fut.Cancel()
			continue
		}
		// Skip tasks whose future settled before dequeue; TryStart also
		// latches the future so a late Cancel cannot race the execution.
		if !j.fut.TryStart() {
			continue
		}
		p.run(j)
	}
}

func (p *Pool[T]) run(j *job[T]) {
	start := p.cfg.Clock.Now()
	value, err := p.invoke(j)

	if err != nil {
		p.failed.Add(1)
		j.fut.Fail(err)
	} else {
		p.completed.Add(1)
		j.fut.Complete(value)
	}

	if p.cfg.OnTaskDone != nil {
		p.cfg.OnTaskDone(p.cfg.Clock.Since(start), err)
	}
}

// invoke runs the task, converting a panic into *PanicError so the worker
// survives misbehaving tasks.
func (p *Pool[T]) invoke(j *job[T]) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.panics.Add(1)
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return j.fn(j.ctx)
}
