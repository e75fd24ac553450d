package future

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrCancelled is the error observed from a cancelled future.
var ErrCancelled = errors.New("future: cancelled")

// State is the lifecycle state of a Future.
type State int32

const (
	// Pending means the future has not settled yet.
	Pending State = iota
	// Fulfilled means the future settled with a value.
	Fulfilled
	// Rejected means the future settled with an error.
	Rejected
	// Cancelled means the future was cancelled before executing.
	Cancelled
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Future is a single-assignment, observable result container.
// The zero value is not usable; create futures with New.
type Future[T any] struct {
	mu        sync.Mutex
	state     State
	running   bool
	value     T
	err       error
	done      chan struct{}
	callbacks []func(T, error)
}

// New creates a pending future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Complete settles the future with a value.
// It reports whether this call performed the settlement.
func (f *Future[T]) Complete(value T) bool {
	return f.settle(Fulfilled, value, nil)
}

// Fail settles the future with an error.
// It reports whether this call performed the settlement.
func (f *Future[T]) Fail(err error) bool {
	var zero T
	return f.settle(Rejected, zero, err)
}

// Cancel settles the future as Cancelled. It succeeds only while the future
// is Pending and its work has not started; afterwards it is a no-op and
// reports false.
func (f *Future[T]) Cancel() bool {
	f.mu.Lock()
	if f.state != Pending || f.running {
		f.mu.Unlock()
		return false
	}
	f.state = Cancelled
	f.err = ErrCancelled
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	var zero T
	for _, fn := range callbacks {
		fn(zero, ErrCancelled)
	}
	return true
}

// TryStart marks the future's work as executing, which makes Cancel a no-op
// from here on. It reports false if the future already settled, in which
// case the work must not run.
func (f *Future[T]) TryStart() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Pending {
		return false
	}
	f.running = true
	return true
}

// Get blocks until the future settles or ctx expires. It returns the value
// for a fulfilled future, the failure error for a rejected one, ErrCancelled
// for a cancelled one, and the context error on timeout.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}

	var zero T
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// TryGet returns the settled result without blocking.
// ok is false while the future is still pending.
func (f *Future[T]) TryGet() (value T, err error, ok bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// State returns the current state.
func (f *Future[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// IsDone reports whether the future has settled.
func (f *Future[T]) IsDone() bool {
	return f.State() != Pending
}

// Done returns a channel closed when the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// OnComplete registers fn to run when the future settles. If the future has
// already settled, fn runs synchronously in the calling goroutine; otherwise
// it runs in the goroutine that performs the settlement, after the state is
// published. Rejection passes the failure error, cancellation ErrCancelled.
func (f *Future[T]) OnComplete(fn func(value T, err error)) {
	f.mu.Lock()
	if f.state == Pending {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	value, err := f.value, f.err
	f.mu.Unlock()

	fn(value, err)
}

// settle performs the one-shot terminal transition. Callbacks run outside
// the lock, after Done is closed.
func (f *Future[T]) settle(state State, value T, err error) bool {
	f.mu.Lock()
	if f.state != Pending {
		f.mu.Unlock()
		return false
	}
	f.state = state
	f.value = value
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range callbacks {
		fn(value, err)
	}
	return true
}

// Then returns a future that settles after f does: fulfillment applies fn to
// the value, while rejection and cancellation propagate unchanged. fn runs
// in the goroutine that settles f and must not block; a panic in fn rejects
// the derived future.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	out := New[U]()
	f.OnComplete(func(value T, err error) {
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				var zero U
				out.settle(Cancelled, zero, ErrCancelled)
			} else {
				out.Fail(err)
			}
			return
		}
		defer func() {
			if r := recover(); r != nil {
				out.Fail(fmt.Errorf("future: continuation panic: %v", r))
			}
		}()
		u, err := fn(value)
		if err != nil {
			out.Fail(err)
			return
		}
		out.Complete(u)
	})
	return out
}

// Completed returns a future already fulfilled with value.
func Completed[T any](value T) *Future[T] {
	f := New[T]()
	f.Complete(value)
	return f
}

// Failed returns a future already rejected with err.
func Failed[T any](err error) *Future[T] {
	f := New[T]()
	f.Fail(err)
	return f
}
