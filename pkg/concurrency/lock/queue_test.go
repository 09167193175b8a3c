package lock

import (
	"testing"
	"time"
)

func TestWaiterQueueFIFO(t *testing.T) {
	q := newWaiterQueue()

	w1 := newWaiter()
	w2 := newWaiter()
	w3 := newWaiter()

	q.push(w1)
	q.push(w2)
	q.push(w3)

	if q.len() != 3 {
		t.Fatalf("expected 3 waiters, got %d", q.len())
	}

	if got := q.pop(); got != w1 {
		t.Error("expected first pushed waiter at the head")
	}
	if got := q.pop(); got != w2 {
		t.Error("expected second pushed waiter next")
	}
	if got := q.pop(); got != w3 {
		t.Error("expected third pushed waiter last")
	}

	if q.len() != 0 {
		t.Errorf("expected empty queue, got %d", q.len())
	}
}

func TestWaiterQueuePopEmpty(t *testing.T) {
	q := newWaiterQueue()

	if got := q.pop(); got != nil {
		t.Errorf("expected nil from empty queue, got %v", got)
	}
}

func TestWaiterSignalWakes(t *testing.T) {
	w := newWaiter()
	done := make(chan struct{})

	go func() {
		w.wait()
		close(done)
	}()

	w.signal()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken by signal")
	}
}

func TestWaiterSignalIdempotent(t *testing.T) {
	w := newWaiter()

	// A waiter is only ever granted once; extra signals must not block
	// or panic on the releasing side.
	w.signal()
	w.signal()
	w.signal()

	w.wait()
}
