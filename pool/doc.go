// Package pool provides a fixed-size worker pool that turns submitted tasks
// into futures.
//
// A pool owns N worker goroutines consuming from a bounded task queue. Submit
// hands a task to the queue and returns a future.Future that settles when a
// worker finishes the task. The worker count is fixed for the pool's
// lifetime.
//
// # Overflow policies
//
// What happens when the task queue is full is configured at construction:
//
//   - Block: Submit blocks until space frees or its context expires.
//   - Reject: Submit fails immediately with ErrQueueFull.
//   - DropOldest: the oldest queued task is evicted (its future is cancelled)
//     to make room for the new one.
//
// # Cancellation
//
// Cancelling a task's future before a worker dequeues it guarantees the task
// body never runs. Cancellation is cooperative: a task that has already
// started is not interrupted and settles its future from its own return.
//
// # Failure isolation
//
// A panic in a task is recovered by the worker, wrapped in *PanicError, and
// delivered through the future; the worker keeps serving the queue.
//
//	p := pool.New[int](pool.Config{Workers: 4, QueueSize: 64})
//	defer p.Shutdown(true)
//
//	fut, err := p.Submit(ctx, func(ctx context.Context) (int, error) {
//	    return compute(ctx)
//	})
//	if err != nil {
//	    return err
//	}
//	v, err := fut.Get(ctx)
package pool
