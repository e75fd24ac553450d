package queue

import "errors"

// Sentinel errors for queue operations.
var (
	// ErrClosed is returned when the queue has been closed. Take reports it
	// only once all remaining items have been drained.
	ErrClosed = errors.New("queue: closed")

	// ErrFull is returned by TryPut when the queue is at capacity.
	ErrFull = errors.New("queue: full")

	// ErrEmpty is returned by TryTake when the queue has no items.
	ErrEmpty = errors.New("queue: empty")
)
