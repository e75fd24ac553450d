package barrier

import (
	"context"
	"errors"
	"sync"
)

// ErrBrokenBarrier is returned to waiters released by a broken generation,
// whether the break came from Reset, a failed action, or another waiter's
// context expiring.
var ErrBrokenBarrier = errors.New("barrier: broken")

// Option configures a Barrier.
type Option func(*Barrier)

// WithAction sets a function run by the last arriving party, after the
// generation trips and before any waiter is released. A panic in the action
// breaks the generation.
func WithAction(action func()) Option {
	return func(b *Barrier) {
		b.action = action
	}
}

// Barrier is a cyclic rendezvous point for a fixed number of parties.
type Barrier struct {
	mu      sync.Mutex
	parties int
	count   int // arrivals still missing in the current generation
	action  func()
	gen     *generation
	cycles  uint64
}

// generation tracks one barrier cycle. broken is written under the barrier
// mutex before done is closed, so waiters may read it after <-done without
// further locking.
type generation struct {
	done   chan struct{}
	broken bool
}

// New creates a barrier for the given number of parties.
// A non-positive count falls back to 1, making Await a no-op rendezvous.
func New(parties int, opts ...Option) *Barrier {
	if parties <= 0 {
		parties = 1
	}
	b := &Barrier{
		parties: parties,
		count:   parties,
		gen:     &generation{done: make(chan struct{})},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Await blocks until all parties have arrived at the current generation.
// It returns the caller's arrival index: parties-1 for the first arrival,
// zero for the last. If the generation breaks while waiting, Await returns
// ErrBrokenBarrier; if the caller's context expires first, the generation is
// broken for everyone and the caller gets its context error.
func (b *Barrier) Await(ctx context.Context) (int, error) {
	b.mu.Lock()
	g := b.gen
	if g.broken {
		b.mu.Unlock()
		return 0, ErrBrokenBarrier
	}

	b.count--
	index := b.count

	if index == 0 {
		err := b.tripLocked(g)
		b.mu.Unlock()
		return 0, err
	}

	b.mu.Unlock()

	select {
	case <-g.done:
		if g.broken {
			return 0, ErrBrokenBarrier
		}
		return index, nil
	case <-ctx.Done():
		b.mu.Lock()
		if b.gen == g {
			b.breakLocked()
			b.mu.Unlock()
			return 0, ctx.Err()
		}
		b.mu.Unlock()
		// The generation resolved while the deadline raced it.
		if g.broken {
			return 0, ErrBrokenBarrier
		}
		return index, nil
	}
}

// Reset breaks the current generation, releasing all waiters with
// ErrBrokenBarrier, and starts a fresh one. The barrier remains usable.
func (b *Barrier) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.breakLocked()
}

// Parties returns the number of parties required to trip the barrier.
func (b *Barrier) Parties() int {
	return b.parties
}

// Waiting returns the number of parties currently blocked in Await.
func (b *Barrier) Waiting() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.parties - b.count
}

// Cycles returns how many generations have tripped successfully.
func (b *Barrier) Cycles() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cycles
}

// tripLocked completes the generation g: runs the action, releases all
// waiters, and resets for the next cycle. Called with the mutex held by the
// last arriving party.
func (b *Barrier) tripLocked(g *generation) error {
	if b.action != nil {
		if err := b.runAction(); err != nil {
			b.breakLocked()
			return err
		}
	}
	b.cycles++
	close(g.done)
	b.nextGenerationLocked()
	return nil
}

// runAction invokes the barrier action, converting a panic into an error so
// a failing action breaks the barrier instead of unwinding through Await.
func (b *Barrier) runAction() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrBrokenBarrier
		}
	}()
	b.action()
	return nil
}

func (b *Barrier) breakLocked() {
	b.gen.broken = true
	close(b.gen.done)
	b.nextGenerationLocked()
}

func (b *Barrier) nextGenerationLocked() {
	b.count = b.parties
	b.gen = &generation{done: make(chan struct{})}
}
