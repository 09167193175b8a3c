// Package chain implements the per-caller lock chain of LockLadder's
// hierarchical locking engine.
//
// # Overview
//
// A [Chain] records which levels one logical holder has acquired, in
// which mode, in strictly ascending level order. Acquisition through a
// chain is the only place the ascending-order discipline is enforced:
// an acquire of a level already held, or of any level at or below the
// chain's current maximum, fails with ErrOrderingViolation before ever
// reaching the coordinator. Ascending acquisition across all holders is
// what makes the hierarchy deadlock-free; the engine assumes it rather
// than detecting its violation at runtime.
//
// # Chains Are Values
//
// Every operation that changes the held set returns a new Chain and
// leaves the receiver intact, so a caller can hand the extended chain
// down a call stack and keep its own prefix view. The actual lock
// ownership, however, lives in shared permits: all chains descended
// from one acquisition reference the same permit for it. Releasing
// through any of them consumes the permit; the others observe
// ErrStaleLock on their next [Chain.UseLock]. Consumption is a
// compare-and-swap, so a release races at most one winner and a double
// [Chain.Dispose] through sibling chains is a safe no-op per permit.
//
// # Scoped Acquisition
//
// [Chain.UseWithAcquire] brackets an operation between acquire and
// release of a single level. The release runs on every exit path,
// normal return, error and panic alike, and exactly once.
//
// # Rollback and Out-of-Order Release
//
// [Chain.RollbackTo] drops every level above a target in reverse
// acquisition order, keeping the prefix. [Chain.ReleaseLock] removes one
// arbitrary level, deliberately breaking release-in-reverse discipline
// to allow temporary privilege elevation patterns.
package chain
