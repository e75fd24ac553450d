package monitor

import "sync"

// Monitor guards a resource of type R with a single mutex.
// All access to the resource goes through Execute or Read.
type Monitor[R any] struct {
	mu       sync.Mutex
	resource R

	condsMu sync.Mutex
	conds   map[string]*Cond
}

// New creates a monitor owning the given resource.
// The caller must not retain direct references into the resource afterwards.
func New[R any](resource R) *Monitor[R] {
	return &Monitor[R]{
		resource: resource,
		conds:    make(map[string]*Cond),
	}
}

// Execute runs fn with exclusive access to the resource, propagating fn's
// error. The lock is released when fn returns, including on panic.
func (m *Monitor[R]) Execute(fn func(r *R) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&m.resource)
}

// Read runs fn under the monitor lock and returns its result.
// It is a package-level function because methods cannot introduce the result
// type parameter.
func Read[R, V any](m *Monitor[R], fn func(r *R) V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&m.resource)
}

// Condition returns the condition variable with the given name, creating it
// on first use. Conditions are bound to the monitor's mutex for their
// lifetime. Condition is safe to call whether or not the lock is held.
func (m *Monitor[R]) Condition(name string) *Cond {
	m.condsMu.Lock()
	defer m.condsMu.Unlock()

	c, ok := m.conds[name]
	if !ok {
		c = &Cond{name: name, c: sync.NewCond(&m.mu)}
		m.conds[name] = c
	}
	return c
}

// Cond is a named condition variable bound to its monitor's mutex.
type Cond struct {
	name string
	c    *sync.Cond
}

// Name returns the name the condition was registered under.
func (c *Cond) Name() string {
	return c.name
}

// Wait atomically releases the monitor lock and suspends the caller until
// the condition is signalled, reacquiring the lock before returning.
// Must be called while holding the lock, from inside Execute or Read.
// Callers must re-check their predicate in a loop; see WaitUntil.
func (c *Cond) Wait() {
	c.c.Wait()
}

// WaitUntil waits until pred reports true, re-checking after every wake-up.
// Must be called while holding the lock, from inside Execute or Read.
func (c *Cond) WaitUntil(pred func() bool) {
	for !pred() {
		c.c.Wait()
	}
}

// Signal wakes one waiter, if any.
func (c *Cond) Signal() {
	c.c.Signal()
}

// Broadcast wakes all waiters.
func (c *Cond) Broadcast() {
	c.c.Broadcast()
}
