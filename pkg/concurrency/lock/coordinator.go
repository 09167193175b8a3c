package lock

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"

	"lockladder/pkg/levels"
	"lockladder/pkg/lockerr"
)

// Coordinator owns one LevelLock per level, created on demand, and
// delegates every acquire and release to it. Each level is fully
// independent; no cross-level coordination logic lives here. Chains
// enforce the ascending-order discipline at their own boundary.
type Coordinator struct {
	mu       sync.RWMutex
	maxLevel levels.Level
	locks    map[levels.Level]*LevelLock

	// Process-wide operation counters, kept lock-free so the hot path
	// never touches mu for bookkeeping.
	acquireCalls atomic.Int64
	releaseCalls atomic.Int64
}

// NewCoordinator creates a Coordinator supporting levels 1..maxLevel.
// An out-of-range ceiling falls back to levels.MaxLevel.
func NewCoordinator(maxLevel levels.Level) *Coordinator {
	if !maxLevel.Valid() {
		maxLevel = levels.MaxLevel
	}

	return &Coordinator{
		maxLevel: maxLevel,
		locks:    make(map[levels.Level]*LevelLock),
	}
}

// Process-wide default coordinator. Constructed lazily on first access
// and never torn down; ResetForTesting swaps in a fresh instance so
// test suites can isolate state between cases.
var (
	defaultMu    sync.RWMutex
	defaultCoord *Coordinator
)

// Default returns the process-wide coordinator, creating it on first use.
func Default() *Coordinator {
	defaultMu.RLock()
	if defaultCoord != nil {
		c := defaultCoord
		defaultMu.RUnlock()
		return c
	}
	defaultMu.RUnlock()

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultCoord == nil {
		defaultCoord = NewCoordinator(levels.MaxLevel)
	}
	return defaultCoord
}

// ResetForTesting discards the default coordinator so the next Default
// call builds a fresh one. Only safe when no goroutine is suspended in
// an acquire against the old instance.
func ResetForTesting() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCoord = nil
}

// MaxLevel returns the highest level this coordinator supports.
func (c *Coordinator) MaxLevel() levels.Level {
	return c.maxLevel
}

// AcquireRead acquires the level's lock in read mode, suspending the
// caller while a writer is active or pending. The only failure is an
// out-of-range level.
func (c *Coordinator) AcquireRead(level levels.Level) error {
	ll, err := c.levelLock(level, "AcquireRead")
	if err != nil {
		return err
	}

	c.acquireCalls.Inc()
	ll.AcquireRead()
	return nil
}

// AcquireWrite acquires the level's lock in write mode, suspending the
// caller until every earlier queued writer and all current readers are
// gone. The only failure is an out-of-range level.
func (c *Coordinator) AcquireWrite(level levels.Level) error {
	ll, err := c.levelLock(level, "AcquireWrite")
	if err != nil {
		return err
	}

	c.acquireCalls.Inc()
	ll.AcquireWrite()
	return nil
}

// ReleaseRead undoes one read grant on the level. Releasing a level that
// was never acquired is a no-op.
func (c *Coordinator) ReleaseRead(level levels.Level) {
	if ll := c.existingLock(level); ll != nil {
		c.releaseCalls.Inc()
		ll.ReleaseRead()
	}
}

// ReleaseWrite undoes the write grant on the level. Releasing a level
// that was never acquired is a no-op.
func (c *Coordinator) ReleaseWrite(level levels.Level) {
	if ll := c.existingLock(level); ll != nil {
		c.releaseCalls.Inc()
		ll.ReleaseWrite()
	}
}

// IsHeld reports whether the level is currently held in the given mode.
func (c *Coordinator) IsHeld(level levels.Level, mode levels.Mode) bool {
	ll := c.existingLock(level)
	if ll == nil {
		return false
	}
	return ll.IsHeld(mode)
}

// Snapshot returns a diagnostic view of every level touched so far,
// ordered by level, plus the cumulative operation counters. It has no
// behavioral effect on the locks.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.RLock()
	touched := make([]levels.Level, 0, len(c.locks))
	for level := range c.locks {
		touched = append(touched, level)
	}
	locks := make([]*LevelLock, 0, len(touched))
	sort.Slice(touched, func(i, j int) bool { return touched[i] < touched[j] })
	for _, level := range touched {
		locks = append(locks, c.locks[level])
	}
	c.mu.RUnlock()

	snap := Snapshot{
		TakenAt:      time.Now(),
		MaxLevel:     c.maxLevel,
		Levels:       make([]LevelSnapshot, 0, len(touched)),
		AcquireCalls: c.acquireCalls.Load(),
		ReleaseCalls: c.releaseCalls.Load(),
	}

	for i, ll := range locks {
		ls := ll.Snapshot()
		ls.Level = touched[i]
		snap.Levels = append(snap.Levels, ls)
	}
	return snap
}

// levelLock returns the LevelLock for level, creating it lazily.
func (c *Coordinator) levelLock(level levels.Level, op string) (*LevelLock, error) {
	if err := c.validate(level, op); err != nil {
		return nil, err
	}

	c.mu.RLock()
	ll, exists := c.locks[level]
	c.mu.RUnlock()
	if exists {
		return ll, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ll, exists = c.locks[level]; !exists {
		ll = NewLevelLock()
		c.locks[level] = ll
	}
	return ll, nil
}

// existingLock returns the LevelLock for level without creating one.
func (c *Coordinator) existingLock(level levels.Level) *LevelLock {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locks[level]
}

func (c *Coordinator) validate(level levels.Level, op string) error {
	if level < levels.MinLevel || level > c.maxLevel {
		return lockerr.New(lockerr.ErrLevelRange, op, level,
			"supported range is "+levels.MinLevel.String()+".."+c.maxLevel.String())
	}
	return nil
}
