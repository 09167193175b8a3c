package chain

import (
	"fmt"

	"lockladder/pkg/concurrency/lock"
	"lockladder/pkg/levels"
	"lockladder/pkg/lockerr"
)

// Chain is the ordered record of one logical holder's acquisitions:
// a sequence of (level, mode) permits with strictly ascending levels.
//
// A Chain is a value. Operations that add or remove locks return a new
// Chain rather than mutating in place; the original remains usable as a
// view of a prefix of the same underlying locks. The lock ownership
// itself is shared global state, so a release through any derived chain
// is observed by all chains sharing those permits (surfaced as
// ErrStaleLock on their next UseLock).
//
// Chains are single-owner values: do not use one Chain from multiple
// goroutines simultaneously. The coordinator and its per-level locks
// are fully thread-safe; the chain's own bookkeeping is not.
type Chain struct {
	coord   *lock.Coordinator
	entries []*permit
}

// New creates an empty chain bound to the given coordinator.
func New(c *lock.Coordinator) Chain {
	return Chain{coord: c}
}

// NewDefault creates an empty chain bound to the process-wide coordinator.
func NewDefault() Chain {
	return New(lock.Default())
}

// AcquireRead acquires level in read mode and returns the extended
// chain. The level must be strictly greater than every level already
// held; anything else is an ErrOrderingViolation. The call suspends
// while a writer is active or pending on the level.
func (c Chain) AcquireRead(level levels.Level) (Chain, error) {
	return c.acquire(level, levels.Read, "AcquireRead")
}

// AcquireWrite acquires level in write mode and returns the extended
// chain. Ordering rules are the same as AcquireRead; the call suspends
// until the level is exclusively available.
func (c Chain) AcquireWrite(level levels.Level) (Chain, error) {
	return c.acquire(level, levels.Write, "AcquireWrite")
}

func (c Chain) acquire(level levels.Level, mode levels.Mode, op string) (Chain, error) {
	if err := c.checkOrdering(level, op); err != nil {
		return Chain{}, err
	}

	var err error
	if mode == levels.Write {
		err = c.coord.AcquireWrite(level)
	} else {
		err = c.coord.AcquireRead(level)
	}
	if err != nil {
		return Chain{}, err
	}

	entries := make([]*permit, len(c.entries), len(c.entries)+1)
	copy(entries, c.entries)
	entries = append(entries, newPermit(level, mode))

	return Chain{coord: c.coord, entries: entries}, nil
}

// checkOrdering is the sole runtime enforcement of the ascending-order
// discipline that keeps the hierarchy deadlock-free. It must reject both
// duplicates and any level at or below the chain's current maximum.
func (c Chain) checkOrdering(level levels.Level, op string) error {
	if c.HasLock(level) {
		return lockerr.New(lockerr.ErrOrderingViolation, op, level, "level already held by this chain")
	}

	if max := c.MaxHeldLevel(); max != 0 && level <= max {
		return lockerr.New(lockerr.ErrOrderingViolation, op, level,
			fmt.Sprintf("must exceed chain maximum %s", max))
	}

	return nil
}

// UseLock runs fn while level is held by this chain. It fails with
// ErrNotHeld when the level is absent from the chain's entries, and with
// ErrStaleLock when the chain's belief no longer matches the
// coordinator's live state, i.e. a sibling chain already released the
// lock. Staleness must never be ignored: it means the caller's critical
// section is unprotected.
func (c Chain) UseLock(level levels.Level, fn func() error) error {
	p := c.find(level)
	if p == nil {
		return lockerr.New(lockerr.ErrNotHeld, "UseLock", level, "")
	}

	if p.stale() {
		return lockerr.New(lockerr.ErrStaleLock, "UseLock", level, "permit released by a sibling chain")
	}
	if !c.coord.IsHeld(level, p.mode) {
		return lockerr.New(lockerr.ErrStaleLock, "UseLock", level,
			fmt.Sprintf("coordinator shows no %s hold", p.mode))
	}

	return fn()
}

// UseWithAcquire acquires level in the given mode, runs fn with the
// extended chain, and releases exactly that level again on every path
// out, including a panic inside fn. The operation's result is returned;
// its failure propagates after the release.
func (c Chain) UseWithAcquire(level levels.Level, mode levels.Mode, fn func(Chain) error) error {
	extended, err := c.acquire(level, mode, "UseWithAcquire")
	if err != nil {
		return err
	}

	p := extended.entries[len(extended.entries)-1]
	defer extended.releasePermit(p)

	return fn(extended)
}

// RollbackTo releases every held level strictly greater than target, in
// reverse acquisition order, honoring each entry's recorded mode, and
// returns the chain holding exactly the prefix up to and including
// target. Fails with ErrNotHeld when target is not held.
func (c Chain) RollbackTo(target levels.Level) (Chain, error) {
	idx := c.indexOf(target)
	if idx < 0 {
		return Chain{}, lockerr.New(lockerr.ErrNotHeld, "RollbackTo", target, "")
	}

	for i := len(c.entries) - 1; i > idx; i-- {
		c.releasePermit(c.entries[i])
	}

	entries := make([]*permit, idx+1)
	copy(entries, c.entries[:idx+1])
	return Chain{coord: c.coord, entries: entries}, nil
}

// ReleaseLock releases exactly the given level, which may sit anywhere
// in the chain, and returns the chain with that entry removed and all
// others preserved in order. Releasing a middle level deliberately
// breaks release-in-reverse discipline; it is what enables temporary
// privilege elevation patterns. Fails with ErrNotHeld when the level is
// not held.
func (c Chain) ReleaseLock(level levels.Level) (Chain, error) {
	idx := c.indexOf(level)
	if idx < 0 {
		return Chain{}, lockerr.New(lockerr.ErrNotHeld, "ReleaseLock", level, "")
	}

	c.releasePermit(c.entries[idx])

	entries := make([]*permit, 0, len(c.entries)-1)
	entries = append(entries, c.entries[:idx]...)
	entries = append(entries, c.entries[idx+1:]...)
	return Chain{coord: c.coord, entries: entries}, nil
}

// Dispose releases every held entry in reverse acquisition order,
// honoring recorded modes. It is irreversible: any other chain value
// sharing these permits will observe ErrStaleLock on its next UseLock.
// Disposing twice, or disposing a chain whose permits a sibling already
// released, is a safe no-op per permit.
func (c Chain) Dispose() {
	for i := len(c.entries) - 1; i >= 0; i-- {
		c.releasePermit(c.entries[i])
	}
}

// releasePermit gives the permit's lock back to the coordinator, exactly
// once across all chains sharing it.
func (c Chain) releasePermit(p *permit) {
	if !p.consume() {
		return
	}

	if p.mode == levels.Write {
		c.coord.ReleaseWrite(p.level)
	} else {
		c.coord.ReleaseRead(p.level)
	}
}

// HeldLevels returns the chain's levels in acquisition (ascending) order.
func (c Chain) HeldLevels() []levels.Level {
	held := make([]levels.Level, len(c.entries))
	for i, p := range c.entries {
		held[i] = p.level
	}
	return held
}

// HasLock reports whether level appears in the chain's entries.
func (c Chain) HasLock(level levels.Level) bool {
	return c.indexOf(level) >= 0
}

// MaxHeldLevel returns the highest level in the chain, or 0 when empty.
func (c Chain) MaxHeldLevel() levels.Level {
	if len(c.entries) == 0 {
		return 0
	}
	return c.entries[len(c.entries)-1].level
}

// LockMode returns the mode the chain recorded for level. Fails with
// ErrNotHeld when the level is absent.
func (c Chain) LockMode(level levels.Level) (levels.Mode, error) {
	p := c.find(level)
	if p == nil {
		return 0, lockerr.New(lockerr.ErrNotHeld, "LockMode", level, "")
	}
	return p.mode, nil
}

// Len returns the number of held entries.
func (c Chain) Len() int {
	return len(c.entries)
}

func (c Chain) find(level levels.Level) *permit {
	if idx := c.indexOf(level); idx >= 0 {
		return c.entries[idx]
	}
	return nil
}

func (c Chain) indexOf(level levels.Level) int {
	for i, p := range c.entries {
		if p.level == level {
			return i
		}
	}
	return -1
}
