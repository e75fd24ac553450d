package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestFuture_Complete(t *testing.T) {
	f := New[int]()

	if f.State() != Pending {
		t.Fatalf("State() = %v, want pending", f.State())
	}
	if !f.Complete(42) {
		t.Fatal("Complete() = false, want true")
	}
	if f.State() != Fulfilled {
		t.Errorf("State() = %v, want fulfilled", f.State())
	}

	v, err := f.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if v != 42 {
		t.Errorf("Get() = %d, want 42", v)
	}
}

func TestFuture_Fail(t *testing.T) {
	f := New[int]()
	want := errors.New("boom")

	if !f.Fail(want) {
		t.Fatal("Fail() = false, want true")
	}
	if f.State() != Rejected {
		t.Errorf("State() = %v, want rejected", f.State())
	}

	_, err := f.Get(context.Background())
	if err != want {
		t.Errorf("Get() error = %v, want %v", err, want)
	}
}

func TestFuture_SettleOnce(t *testing.T) {
	f := New[int]()

	if !f.Complete(1) {
		t.Fatal("first Complete() = false")
	}
	if f.Complete(2) {
		t.Error("second Complete() = true, want no-op false")
	}
	if f.Fail(errors.New("late")) {
		t.Error("Fail() after Complete = true, want no-op false")
	}
	if f.Cancel() {
		t.Error("Cancel() after Complete = true, want no-op false")
	}

	v, err := f.Get(context.Background())
	if err != nil || v != 1 {
		t.Errorf("Get() = (%d, %v), want (1, nil)", v, err)
	}
}

func TestFuture_Cancel(t *testing.T) {
	f := New[string]()

	if !f.Cancel() {
		t.Fatal("Cancel() = false, want true")
	}
	if f.State() != Cancelled {
		t.Errorf("State() = %v, want cancelled", f.State())
	}

	_, err := f.Get(context.Background())
	if err != ErrCancelled {
		t.Errorf("Get() error = %v, want ErrCancelled", err)
	}
}

func TestFuture_TryStartBlocksCancel(t *testing.T) {
	f := New[int]()

	if !f.TryStart() {
		t.Fatal("TryStart() = false, want true")
	}
	if f.Cancel() {
		t.Error("Cancel() after TryStart = true, want false")
	}

	// The running work still settles the future naturally.
	if !f.Complete(7) {
		t.Error("Complete() after failed Cancel = false, want true")
	}
	if f.State() != Fulfilled {
		t.Errorf("State() = %v, want fulfilled", f.State())
	}
}

func TestFuture_TryStartAfterCancel(t *testing.T) {
	f := New[int]()
	f.Cancel()

	if f.TryStart() {
		t.Error("TryStart() on cancelled future = true, want false")
	}
}

func TestFuture_GetTimeout(t *testing.T) {
	f := New[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Get(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Get() error = %v, want deadline exceeded", err)
	}

	// Timing out does not settle the future.
	if f.State() != Pending {
		t.Errorf("State() after timeout = %v, want pending", f.State())
	}
}

func TestFuture_GetUnblocksOnSettle(t *testing.T) {
	f := New[int]()

	got := make(chan int, 1)
	go func() {
		v, err := f.Get(context.Background())
		if err != nil {
			t.Errorf("Get() error = %v", err)
		}
		got <- v
	}()

	time.Sleep(10 * time.Millisecond)
	f.Complete(9)

	select {
	case v := <-got:
		if v != 9 {
			t.Errorf("Get() = %d, want 9", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Get() still blocked after Complete")
	}
}

func TestFuture_TryGet(t *testing.T) {
	f := New[int]()

	if _, _, ok := f.TryGet(); ok {
		t.Error("TryGet() on pending future ok = true, want false")
	}

	f.Complete(5)
	v, err, ok := f.TryGet()
	if !ok || err != nil || v != 5 {
		t.Errorf("TryGet() = (%d, %v, %t), want (5, nil, true)", v, err, ok)
	}
}

func TestFuture_OnCompleteBeforeSettle(t *testing.T) {
	f := New[int]()

	got := make(chan int, 1)
	f.OnComplete(func(v int, err error) {
		if err != nil {
			t.Errorf("callback error = %v", err)
		}
		got <- v
	})

	f.Complete(3)

	select {
	case v := <-got:
		if v != 3 {
			t.Errorf("callback value = %d, want 3", v)
		}
	case <-time.After(time.Second):
		t.Fatal("callback never invoked")
	}
}

func TestFuture_OnCompleteAfterSettle(t *testing.T) {
	f := New[int]()
	f.Complete(8)

	called := false
	f.OnComplete(func(v int, err error) {
		called = true
		if v != 8 || err != nil {
			t.Errorf("callback = (%d, %v), want (8, nil)", v, err)
		}
	})
	if !called {
		t.Error("callback on settled future did not run synchronously")
	}
}

func TestFuture_ObservedByManyWaiters(t *testing.T) {
	f := New[int]()
	ctx := context.Background()

	const waiters = 8
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := f.Get(ctx)
			if err != nil || v != 11 {
				t.Errorf("Get() = (%d, %v), want (11, nil)", v, err)
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	f.Complete(11)
	wg.Wait()
}

func TestThen_Fulfilled(t *testing.T) {
	f := New[int]()
	doubled := Then(f, func(v int) (int, error) { return v * 2, nil })

	f.Complete(21)

	v, err := doubled.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if v != 42 {
		t.Errorf("Get() = %d, want 42", v)
	}
}

func TestThen_PropagatesRejection(t *testing.T) {
	f := New[int]()
	want := errors.New("upstream failed")

	derived := Then(f, func(v int) (string, error) {
		t.Error("continuation ran despite rejection")
		return "", nil
	})

	f.Fail(want)

	_, err := derived.Get(context.Background())
	if err != want {
		t.Errorf("Get() error = %v, want %v", err, want)
	}
}

func TestThen_PropagatesCancellation(t *testing.T) {
	f := New[int]()
	derived := Then(f, func(v int) (int, error) {
		t.Error("continuation ran despite cancellation")
		return 0, nil
	})

	f.Cancel()

	if derived.State() != Cancelled {
		t.Errorf("derived State() = %v, want cancelled", derived.State())
	}
	_, err := derived.Get(context.Background())
	if err != ErrCancelled {
		t.Errorf("Get() error = %v, want ErrCancelled", err)
	}
}

func TestThen_ContinuationError(t *testing.T) {
	f := New[int]()
	want := errors.New("mapping failed")

	derived := Then(f, func(v int) (int, error) { return 0, want })
	f.Complete(1)

	_, err := derived.Get(context.Background())
	if err != want {
		t.Errorf("Get() error = %v, want %v", err, want)
	}
}

func TestThen_ContinuationPanic(t *testing.T) {
	f := New[int]()
	derived := Then(f, func(v int) (int, error) { panic("bad continuation") })

	f.Complete(1)

	_, err := derived.Get(context.Background())
	if err == nil {
		t.Fatal("Get() error = nil, want continuation panic error")
	}
	if derived.State() != Rejected {
		t.Errorf("derived State() = %v, want rejected", derived.State())
	}
}

func TestThen_Chained(t *testing.T) {
	f := New[int]()
	s := Then(f, func(v int) (int, error) { return v + 1, nil })
	u := Then(s, func(v int) (int, error) { return v * 10, nil })

	f.Complete(3)

	v, err := u.Get(context.Background())
	if err != nil || v != 40 {
		t.Errorf("Get() = (%d, %v), want (40, nil)", v, err)
	}
}

func TestCompletedAndFailed(t *testing.T) {
	v, err := Completed(5).Get(context.Background())
	if err != nil || v != 5 {
		t.Errorf("Completed(5).Get() = (%d, %v), want (5, nil)", v, err)
	}

	want := errors.New("preset")
	_, err = Failed[int](want).Get(context.Background())
	if err != want {
		t.Errorf("Failed().Get() error = %v, want %v", err, want)
	}
}

func TestState_String(t *testing.T) {
	cases := map[State]string{
		Pending:   "pending",
		Fulfilled: "fulfilled",
		Rejected:  "rejected",
		Cancelled: "cancelled",
		State(99): "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
