// Package barrier provides a reusable rendezvous point for a fixed number of
// goroutines.
//
// A Barrier trips once all parties have called Await; every waiter is then
// released and the barrier resets for the next cycle. Cycles are generation
// counted, so a waiter can never be released by (or leak into) a cycle it did
// not arrive for.
//
// If any waiter's context expires, or Reset is called, the current generation
// is broken: every waiter in it receives ErrBrokenBarrier (the waiter whose
// context expired gets its context error) and a fresh generation begins.
//
//	b := barrier.New(3)
//
//	for i := 0; i < 3; i++ {
//	    go func() {
//	        index, err := b.Await(ctx)
//	        // all three goroutines reach this point together
//	        _ = index
//	        _ = err
//	    }()
//	}
package barrier
