package lock

// waiter represents a single suspended acquire call. The granting side
// updates lock state before signaling, so a woken waiter holds its lock
// the moment wait returns and never re-checks conditions.
type waiter struct {
	granted chan bool // Channel to signal when the lock is granted
}

func newWaiter() *waiter {
	return &waiter{granted: make(chan bool, 1)}
}

// signal wakes the waiter without ever blocking the releasing side.
func (w *waiter) signal() {
	select {
	case w.granted <- true:
	default:
		// Already signaled; a waiter is granted at most once.
	}
}

// wait suspends the caller until the waiter is signaled.
func (w *waiter) wait() {
	<-w.granted
}

// waiterQueue is the FIFO queue of suspended writers for one level.
//
// Order matters: it determines which writer is granted the lock next when
// the level drains. Writers are pushed at the tail on arrival and popped
// from the head on release, which is what gives the engine its FIFO
// fairness guarantee among writers.
type waiterQueue struct {
	waiters []*waiter
}

func newWaiterQueue() *waiterQueue {
	return &waiterQueue{waiters: make([]*waiter, 0)}
}

// push appends a waiter at the tail of the queue.
func (q *waiterQueue) push(w *waiter) {
	q.waiters = append(q.waiters, w)
}

// pop removes and returns the head waiter, or nil when the queue is empty.
func (q *waiterQueue) pop() *waiter {
	if len(q.waiters) == 0 {
		return nil
	}

	head := q.waiters[0]
	q.waiters[0] = nil // Allow the popped entry to be collected
	q.waiters = q.waiters[1:]
	return head
}

// len returns the number of queued waiters.
func (q *waiterQueue) len() int {
	return len(q.waiters)
}
