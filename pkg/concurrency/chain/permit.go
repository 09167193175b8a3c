package chain

import (
	"go.uber.org/atomic"

	"lockladder/pkg/levels"
)

// permit is the ownership record for one acquired (level, mode) pair.
//
// Chains are plain values: deriving a new chain copies the entry slice
// but shares the permit pointers, so every chain descended from the same
// acquisition sees the same permit. The released flag is the single
// source of truth for whether the underlying lock has been given back,
// which is what turns a double release through sibling chains into a
// detectable no-op instead of a corrupting second release.
type permit struct {
	level    levels.Level
	mode     levels.Mode
	released atomic.Bool
}

func newPermit(level levels.Level, mode levels.Mode) *permit {
	return &permit{level: level, mode: mode}
}

// consume claims the one-time right to release this permit's lock.
// Exactly one caller across all sharing chains wins.
func (p *permit) consume() bool {
	return p.released.CompareAndSwap(false, true)
}

// stale reports whether the permit's lock has already been released.
func (p *permit) stale() bool {
	return p.released.Load()
}
