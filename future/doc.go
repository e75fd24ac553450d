// Package future provides a single-assignment container for an asynchronous
// result.
//
// A Future starts Pending and settles exactly once into one of three terminal
// states: Fulfilled with a value, Rejected with an error, or Cancelled. A
// second settlement attempt is a no-op reported by the boolean return, never
// an error. Any number of goroutines may observe the result through Get,
// Done, or OnComplete.
//
// Cancellation is cooperative. Cancel succeeds only while the future is
// Pending and not yet executing; work that has already started runs to its
// natural completion and settles the future itself.
//
// Then chains a computation onto a future's fulfillment, propagating
// rejection and cancellation unchanged:
//
//	f := future.New[int]()
//	doubled := future.Then(f, func(v int) (int, error) { return v * 2, nil })
//
//	f.Complete(21)
//	v, _ := doubled.Get(ctx) // 42
package future
