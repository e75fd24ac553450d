// Package queue provides a fixed-capacity FIFO queue for hand-off between
// producers and consumers.
//
// The queue blocks producers when full and consumers when empty, with
// cancellation and deadlines supplied through context. Non-blocking TryPut
// and TryTake variants are available for callers that prefer to fail fast.
//
// # Ordering
//
// Items are delivered in strict insertion order. Each successful Put wakes at
// most one blocked Take, and each successful Take frees space for at most one
// blocked Put.
//
// # Shutdown
//
// After Close, Put fails immediately with ErrClosed while Take continues to
// drain already-queued items before reporting ErrClosed. A Put that returns a
// context error has not inserted its item.
//
// # Usage
//
//	q := queue.New[int](16)
//
//	go func() {
//	    for i := 0; i < 100; i++ {
//	        _ = q.Put(ctx, i)
//	    }
//	    q.Close()
//	}()
//
//	for {
//	    v, err := q.Take(ctx)
//	    if err != nil {
//	        break
//	    }
//	    process(v)
//	}
package queue
