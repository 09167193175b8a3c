package lock

import (
	"sync"
	"testing"
	"time"

	"lockladder/pkg/levels"
)

// waitUntil polls cond until it holds or the timeout elapses.
func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not reached within %v: %s", timeout, msg)
}

func TestNewLevelLock(t *testing.T) {
	ll := NewLevelLock()

	if ll == nil {
		t.Fatal("NewLevelLock() returned nil")
	}

	snap := ll.Snapshot()
	if !snap.Idle() {
		t.Errorf("expected idle lock, got %+v", snap)
	}
}

func TestAcquireReadFastPath(t *testing.T) {
	ll := NewLevelLock()

	ll.AcquireRead()

	snap := ll.Snapshot()
	if snap.Readers != 1 {
		t.Errorf("expected 1 reader, got %d", snap.Readers)
	}
	if snap.ActiveWriter {
		t.Error("did not expect active writer")
	}
	if snap.ReadGrants != 1 {
		t.Errorf("expected 1 read grant, got %d", snap.ReadGrants)
	}
	if snap.ReadWaits != 0 {
		t.Errorf("expected 0 read waits on fast path, got %d", snap.ReadWaits)
	}
}

func TestConcurrentReaders(t *testing.T) {
	ll := NewLevelLock()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ll.AcquireRead()
		}()
	}
	wg.Wait()

	snap := ll.Snapshot()
	if snap.Readers != 10 {
		t.Errorf("expected 10 concurrent readers, got %d", snap.Readers)
	}
	if snap.ActiveWriter {
		t.Error("did not expect active writer while readers hold the lock")
	}
}

func TestAcquireWriteFastPath(t *testing.T) {
	ll := NewLevelLock()

	ll.AcquireWrite()

	snap := ll.Snapshot()
	if !snap.ActiveWriter {
		t.Error("expected active writer")
	}
	if snap.Readers != 0 {
		t.Errorf("expected 0 readers, got %d", snap.Readers)
	}
	if snap.WriteWaits != 0 {
		t.Errorf("expected no wait on uncontended write, got %d", snap.WriteWaits)
	}
}

func TestWriteBlocksUntilReadersDrain(t *testing.T) {
	ll := NewLevelLock()

	ll.AcquireRead()
	ll.AcquireRead()

	granted := make(chan struct{})
	go func() {
		ll.AcquireWrite()
		close(granted)
	}()

	waitUntil(t, time.Second, func() bool {
		return ll.Snapshot().PendingWriters == 1
	}, "writer never enqueued")

	select {
	case <-granted:
		t.Fatal("writer granted while readers still hold the lock")
	case <-time.After(20 * time.Millisecond):
	}

	ll.ReleaseRead()

	select {
	case <-granted:
		t.Fatal("writer granted before the last reader released")
	case <-time.After(20 * time.Millisecond):
	}

	ll.ReleaseRead()

	select {
	case <-granted:
	case <-time.After(time.Second):
		t.Fatal("writer not granted after last reader released")
	}

	snap := ll.Snapshot()
	if !snap.ActiveWriter || snap.Readers != 0 {
		t.Errorf("expected sole active writer, got %+v", snap)
	}
}

func TestWriterPreference(t *testing.T) {
	ll := NewLevelLock()

	// Reader A already holds the lock.
	ll.AcquireRead()

	// Writer B enqueues.
	writerGranted := make(chan struct{})
	go func() {
		ll.AcquireWrite()
		close(writerGranted)
	}()

	waitUntil(t, time.Second, func() bool {
		return ll.Snapshot().PendingWriters == 1
	}, "writer never enqueued")

	// Reader C arrives after B. Despite A already reading, C must wait
	// behind the pending writer.
	readerGranted := make(chan struct{})
	go func() {
		ll.AcquireRead()
		close(readerGranted)
	}()

	waitUntil(t, time.Second, func() bool {
		return ll.Snapshot().PendingReaders == 1
	}, "late reader never parked")

	select {
	case <-readerGranted:
		t.Fatal("reader granted past a pending writer")
	case <-time.After(20 * time.Millisecond):
	}

	// A releases: B gets the lock, C still waits.
	ll.ReleaseRead()
	<-writerGranted

	select {
	case <-readerGranted:
		t.Fatal("reader granted while writer held the lock")
	case <-time.After(20 * time.Millisecond):
	}

	// B releases: C is finally granted.
	ll.ReleaseWrite()

	select {
	case <-readerGranted:
	case <-time.After(time.Second):
		t.Fatal("reader not granted after writer released")
	}
}

func TestWriteMutualExclusionTiming(t *testing.T) {
	ll := NewLevelLock()
	const hold = 100 * time.Millisecond

	ll.AcquireWrite()
	start := time.Now()

	grantTime := make(chan time.Duration, 1)
	go func() {
		time.Sleep(10 * time.Millisecond)
		ll.AcquireWrite()
		grantTime <- time.Since(start)
	}()

	time.Sleep(hold)
	ll.ReleaseWrite()

	elapsed := <-grantTime
	if elapsed < hold {
		t.Errorf("second writer granted after %v, inside the first writer's %v hold", elapsed, hold)
	}
}

func TestWritersGrantedInFIFOOrder(t *testing.T) {
	ll := NewLevelLock()

	ll.AcquireWrite()

	var mu sync.Mutex
	order := make([]int, 0, 3)

	for i := 1; i <= 3; i++ {
		i := i
		go func() {
			ll.AcquireWrite()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			ll.ReleaseWrite()
		}()

		// Ensure deterministic enqueue order.
		waitUntil(t, time.Second, func() bool {
			return ll.Snapshot().PendingWriters == i
		}, "writer never enqueued")
	}

	ll.ReleaseWrite()

	waitUntil(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 3
	}, "queued writers never drained")

	mu.Lock()
	defer mu.Unlock()
	for i, got := range order {
		if got != i+1 {
			t.Fatalf("expected FIFO grant order [1 2 3], got %v", order)
		}
	}
}

func TestReleaseWriteWakesAllReadersAsBatch(t *testing.T) {
	ll := NewLevelLock()

	ll.AcquireWrite()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ll.AcquireRead()
		}()
	}

	waitUntil(t, time.Second, func() bool {
		return ll.Snapshot().PendingReaders == 5
	}, "readers never parked")

	ll.ReleaseWrite()
	wg.Wait()

	snap := ll.Snapshot()
	if snap.Readers != 5 {
		t.Errorf("expected 5 readers after batch wake, got %d", snap.Readers)
	}
	if snap.PendingReaders != 0 {
		t.Errorf("expected empty reader wait set, got %d", snap.PendingReaders)
	}
	if snap.ActiveWriter {
		t.Error("did not expect active writer after batch reader wake")
	}
}

func TestReleaseReadNeverWakesReaders(t *testing.T) {
	ll := NewLevelLock()

	ll.AcquireRead()

	// Park a writer so a subsequent reader must wait.
	go ll.AcquireWrite()
	waitUntil(t, time.Second, func() bool {
		return ll.Snapshot().PendingWriters == 1
	}, "writer never enqueued")

	readerGranted := make(chan struct{})
	go func() {
		ll.AcquireRead()
		close(readerGranted)
	}()
	waitUntil(t, time.Second, func() bool {
		return ll.Snapshot().PendingReaders == 1
	}, "reader never parked")

	// Last read release must wake the writer, not the parked reader.
	ll.ReleaseRead()

	waitUntil(t, time.Second, func() bool {
		return ll.Snapshot().ActiveWriter
	}, "writer not granted on last read release")

	select {
	case <-readerGranted:
		t.Fatal("read release woke a parked reader")
	case <-time.After(20 * time.Millisecond):
	}

	ll.ReleaseWrite()
	<-readerGranted
}

func TestAcquireReleaseRoundTrip(t *testing.T) {
	ll := NewLevelLock()
	before := ll.Snapshot()

	ll.AcquireWrite()
	ll.ReleaseWrite()

	after := ll.Snapshot()
	if after.Readers != before.Readers ||
		after.ActiveWriter != before.ActiveWriter ||
		after.PendingWriters != before.PendingWriters ||
		after.PendingReaders != before.PendingReaders {
		t.Errorf("round trip changed lock state: before %+v, after %+v", before, after)
	}
}

func TestReleaseOnIdleLockIsNoOp(t *testing.T) {
	ll := NewLevelLock()

	ll.ReleaseRead()
	ll.ReleaseWrite()

	if !ll.Snapshot().Idle() {
		t.Error("expected lock to stay idle")
	}
}

func TestIsHeld(t *testing.T) {
	ll := NewLevelLock()

	if ll.IsHeld(levels.Read) || ll.IsHeld(levels.Write) {
		t.Error("idle lock reported as held")
	}

	ll.AcquireRead()
	if !ll.IsHeld(levels.Read) {
		t.Error("expected read hold to be reported")
	}
	if ll.IsHeld(levels.Write) {
		t.Error("read hold reported as write")
	}
	ll.ReleaseRead()

	ll.AcquireWrite()
	if !ll.IsHeld(levels.Write) {
		t.Error("expected write hold to be reported")
	}
	if ll.IsHeld(levels.Read) {
		t.Error("write hold reported as read")
	}
}

func TestInvariantNeverWriterWithReaders(t *testing.T) {
	ll := NewLevelLock()
	stop := make(chan struct{})
	var violations sync.WaitGroup

	// Observer: at no instant may a snapshot show an active writer
	// together with a positive reader count.
	violations.Add(1)
	go func() {
		defer violations.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			snap := ll.Snapshot()
			if snap.ActiveWriter && snap.Readers > 0 {
				t.Errorf("invariant violated: %+v", snap)
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ll.AcquireRead()
				ll.ReleaseRead()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ll.AcquireWrite()
				ll.ReleaseWrite()
			}
		}()
	}

	wg.Wait()
	close(stop)
	violations.Wait()
}
