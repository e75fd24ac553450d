// Package monitor pairs a shared resource with a mutex and named condition
// variables, so the resource can only be observed or mutated under the lock.
//
// Execute and Read are the only ways to touch the wrapped resource. Condition
// variables are created lazily by name and are bound to the monitor's mutex;
// waiting on one releases the lock until the condition is signalled.
//
// # Wait discipline
//
// Condition predicates must be re-checked after every wake-up. Cond.WaitUntil
// enforces the loop; callers using Cond.Wait directly must loop themselves:
//
//	m := monitor.New(buffer{})
//	notEmpty := m.Condition("not-empty")
//
//	_ = m.Execute(func(b *buffer) error {
//	    notEmpty.WaitUntil(func() bool { return len(b.items) > 0 })
//	    // consume from b.items
//	    return nil
//	})
//
// Cond methods other than Signal and Broadcast must only be called from
// inside an Execute or Read callback, while the monitor lock is held.
package monitor
