package lock

import (
	"sync"

	"lockladder/pkg/levels"
)

// LevelLock is the reader/writer primitive for a single lock level.
//
// It implements writer preference: the presence of any pending writer
// blocks every new reader, including readers that began waiting before
// the writer arrived. Among writers, grants are FIFO relative to enqueue
// order. Readers carry no ordering guarantee beyond being granted as a
// batch once no writer is active or pending.
//
// Invariant: activeWriter implies readerCount == 0, and readerCount > 0
// implies !activeWriter. Every field is guarded by mu; grants happen on
// the releasing side before the waiter is signaled.
type LevelLock struct {
	mu sync.Mutex

	readerCount  int
	activeWriter bool

	pendingWriters *waiterQueue
	pendingReaders []*waiter

	// Cumulative counters for the diagnostics snapshot, guarded by mu.
	readGrants  int64
	writeGrants int64
	readWaits   int64
	writeWaits  int64
}

// NewLevelLock creates an idle LevelLock.
func NewLevelLock() *LevelLock {
	return &LevelLock{
		pendingWriters: newWaiterQueue(),
		pendingReaders: make([]*waiter, 0),
	}
}

// AcquireRead grants shared access, suspending the caller while a writer
// is active or any writer is pending. It never fails; it returns only
// once the read grant is in effect.
func (ll *LevelLock) AcquireRead() {
	ll.mu.Lock()

	if !ll.activeWriter && ll.pendingWriters.len() == 0 {
		ll.readerCount++
		ll.readGrants++
		ll.mu.Unlock()
		return
	}

	w := newWaiter()
	ll.pendingReaders = append(ll.pendingReaders, w)
	ll.readWaits++
	ll.mu.Unlock()

	w.wait()
}

// AcquireWrite grants exclusive access. The fast path succeeds without
// suspension when the level is idle and no writer is queued; otherwise
// the caller is enqueued at the tail of the writer queue and suspended
// until every earlier writer has been granted and released and the
// reader count has drained to zero.
func (ll *LevelLock) AcquireWrite() {
	ll.mu.Lock()

	if !ll.activeWriter && ll.readerCount == 0 && ll.pendingWriters.len() == 0 {
		ll.activeWriter = true
		ll.writeGrants++
		ll.mu.Unlock()
		return
	}

	w := newWaiter()
	ll.pendingWriters.push(w)
	ll.writeWaits++
	ll.mu.Unlock()

	w.wait()
}

// ReleaseRead undoes a single read grant. When the last reader leaves it
// wakes the head of the writer queue, if any. It never wakes readers:
// readers only ever wait behind writers, and those writers are woken
// first.
func (ll *LevelLock) ReleaseRead() {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if ll.readerCount == 0 {
		return
	}

	ll.readerCount--
	if ll.readerCount == 0 {
		ll.grantNextWriter()
	}
}

// ReleaseWrite undoes a write grant. It wakes the head pending writer if
// one exists; otherwise it wakes all pending readers simultaneously as a
// batch. It never wakes both.
func (ll *LevelLock) ReleaseWrite() {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if !ll.activeWriter {
		return
	}

	ll.activeWriter = false
	if ll.grantNextWriter() {
		return
	}

	ll.grantPendingReaders()
}

// grantNextWriter pops the head of the writer queue, records its grant
// and signals it. Returns false when no writer is queued. Caller holds mu.
func (ll *LevelLock) grantNextWriter() bool {
	w := ll.pendingWriters.pop()
	if w == nil {
		return false
	}

	ll.activeWriter = true
	ll.writeGrants++
	w.signal()
	return true
}

// grantPendingReaders releases the whole reader wait set as one batch.
// Caller holds mu.
func (ll *LevelLock) grantPendingReaders() {
	if len(ll.pendingReaders) == 0 {
		return
	}

	ll.readerCount += len(ll.pendingReaders)
	ll.readGrants += int64(len(ll.pendingReaders))
	for _, r := range ll.pendingReaders {
		r.signal()
	}
	ll.pendingReaders = make([]*waiter, 0)
}

// IsHeld is a read-only diagnostic query: whether the level is currently
// held in the given mode.
func (ll *LevelLock) IsHeld(mode levels.Mode) bool {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if mode == levels.Write {
		return ll.activeWriter
	}
	return ll.readerCount > 0
}

// Snapshot returns a consistent point-in-time view of the lock's state.
func (ll *LevelLock) Snapshot() LevelSnapshot {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	return LevelSnapshot{
		Readers:        ll.readerCount,
		ActiveWriter:   ll.activeWriter,
		PendingWriters: ll.pendingWriters.len(),
		PendingReaders: len(ll.pendingReaders),
		ReadGrants:     ll.readGrants,
		WriteGrants:    ll.writeGrants,
		ReadWaits:      ll.readWaits,
		WriteWaits:     ll.writeWaits,
	}
}
