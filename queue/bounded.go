package queue

import (
	"context"
	"sync"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 64

// Queue is a bounded FIFO queue safe for concurrent use by any number of
// producers and consumers.
type Queue[T any] struct {
	items  chan T
	closed chan struct{}
	once   sync.Once
}

// New creates a bounded queue with the given capacity.
// A non-positive capacity falls back to DefaultCapacity.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue[T]{
		items:  make(chan T, capacity),
		closed: make(chan struct{}),
	}
}

// Put appends item to the queue, blocking while the queue is full.
// It returns ErrClosed if the queue is closed, or the context error if ctx
// expires first. On a non-nil error the item has not been inserted.
func (q *Queue[T]) Put(ctx context.Context, item T) error {
	select {
	case <-q.closed:
		return ErrClosed
	default:
	}

	select {
	case q.items <- item:
		return nil
	case <-q.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPut appends item without blocking.
// It returns ErrFull when at capacity and ErrClosed after Close.
func (q *Queue[T]) TryPut(item T) error {
	select {
	case <-q.closed:
		return ErrClosed
	default:
	}

	select {
	case q.items <- item:
		return nil
	default:
		return ErrFull
	}
}

// Take removes and returns the oldest item, blocking while the queue is
// empty. After Close it keeps draining queued items and reports ErrClosed
// only once the queue is empty.
func (q *Queue[T]) Take(ctx context.Context) (T, error) {
	// Fast path doubles as the post-close drain.
	select {
	case item := <-q.items:
		return item, nil
	default:
	}

	var zero T
	select {
	case item := <-q.items:
		return item, nil
	case <-q.closed:
		select {
		case item := <-q.items:
			return item, nil
		default:
			return zero, ErrClosed
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// TryTake removes and returns the oldest item without blocking.
// It returns ErrEmpty when nothing is queued, or ErrClosed once the queue is
// closed and drained.
func (q *Queue[T]) TryTake() (T, error) {
	select {
	case item := <-q.items:
		return item, nil
	default:
	}

	var zero T
	select {
	case <-q.closed:
		return zero, ErrClosed
	default:
		return zero, ErrEmpty
	}
}

// Close stops further Put calls. Queued items remain available to Take.
// Close is idempotent.
func (q *Queue[T]) Close() {
	q.once.Do(func() {
		close(q.closed)
	})
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	select {
	case <-q.closed:
		return true
	default:
		return false
	}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int {
	return cap(q.items)
}
