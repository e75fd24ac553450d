package pool

import (
	"errors"
	"fmt"
)

// Sentinel errors for pool operations.
var (
	// ErrQueueFull is returned by Submit under the Reject policy when the
	// task queue is at capacity.
	ErrQueueFull = errors.New("pool: task queue full")

	// ErrClosed is returned by Submit after Shutdown has begun.
	ErrClosed = errors.New("pool: closed")

	// ErrNilTask is returned by Submit when given a nil task function.
	ErrNilTask = errors.New("pool: nil task")
)

// PanicError wraps a panic recovered from a task so a misbehaving task
// settles its future instead of crashing the worker.
type PanicError struct {
	// Value is the recovered panic value.
	Value any

	// Stack is the stack trace captured at recovery.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("pool: task panic: %v", e.Value)
}
