// Package lock implements the per-level reader/writer primitives and the
// process-wide coordinator of LockLadder's hierarchical locking engine.
//
// # Overview
//
// The engine divides the world into numbered lock levels (1..N). Each
// level is protected by its own [LevelLock], a reader/writer lock with
// two deliberate fairness properties:
//
//   - Writer preference — any pending writer blocks all new readers,
//     including readers that began waiting before the writer arrived.
//     This maximizes writer throughput at the cost of potential reader
//     starvation under sustained writer pressure. It is a documented
//     trade-off, not a bug.
//   - FIFO writers — among writers for a given level, grants follow
//     enqueue order exactly.
//
// Readers carry no ordering guarantee: they are granted together as a
// batch once no writer is active or pending.
//
// # Components
//
// [Coordinator] is the only entry point the rest of the system uses. It
// maps each level to its [LevelLock], creating locks lazily on first
// touch, and delegates every acquire and release. Levels are fully
// independent of one another; the ascending-order acquisition discipline
// that makes the hierarchy deadlock-free is enforced one layer up, by
// the chain package, not here.
//
// A process-wide coordinator is available through [Default]. Tests that
// need isolation call [ResetForTesting] to swap in a fresh instance.
//
// # Wake Semantics
//
// Suspension uses one buffered channel per waiter; the releasing side
// mutates lock state first and signals second, so a woken goroutine owns
// its grant before it resumes. Release follows two exact rules:
//
//   - releasing the last read grant wakes at most one writer, the head
//     of the FIFO queue, and never wakes readers;
//   - releasing a write grant wakes the head pending writer if one
//     exists, otherwise the entire reader wait set at once. Never both.
//
// # Diagnostics
//
// [Coordinator.Snapshot] returns a point-in-time [Snapshot] of reader
// counts, active writers, queue lengths and cumulative grant/wait
// counters for every level touched so far. It is observability only and
// has no behavioral effect.
package lock
