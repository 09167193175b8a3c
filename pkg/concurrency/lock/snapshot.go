package lock

import (
	"time"

	"lockladder/pkg/levels"
)

// LevelSnapshot is the diagnostic view of a single level's lock state.
// It is a plain value with no behavioral effect; taking it does not
// perturb the lock.
type LevelSnapshot struct {
	Level          levels.Level `json:"level"`
	Readers        int          `json:"readers"`
	ActiveWriter   bool         `json:"active_writer"`
	PendingWriters int          `json:"pending_writers"`
	PendingReaders int          `json:"pending_readers"`
	ReadGrants     int64        `json:"read_grants"`
	WriteGrants    int64        `json:"write_grants"`
	ReadWaits      int64        `json:"read_waits"`
	WriteWaits     int64        `json:"write_waits"`
}

// Idle reports whether the level has no holders and no waiters.
func (s LevelSnapshot) Idle() bool {
	return s.Readers == 0 && !s.ActiveWriter &&
		s.PendingWriters == 0 && s.PendingReaders == 0
}

// Snapshot is a point-in-time diagnostic view of the whole coordinator.
// Levels that were never touched do not appear.
type Snapshot struct {
	TakenAt      time.Time       `json:"taken_at"`
	MaxLevel     levels.Level    `json:"max_level"`
	Levels       []LevelSnapshot `json:"levels"`
	AcquireCalls int64           `json:"acquire_calls"`
	ReleaseCalls int64           `json:"release_calls"`
}

// Level returns the snapshot entry for the given level, if present.
func (s Snapshot) Level(level levels.Level) (LevelSnapshot, bool) {
	for _, ls := range s.Levels {
		if ls.Level == level {
			return ls, true
		}
	}
	return LevelSnapshot{}, false
}

// TotalPendingWriters sums queued writers across every level.
func (s Snapshot) TotalPendingWriters() int {
	total := 0
	for _, ls := range s.Levels {
		total += ls.PendingWriters
	}
	return total
}

// TotalPendingReaders sums waiting readers across every level.
func (s Snapshot) TotalPendingReaders() int {
	total := 0
	for _, ls := range s.Levels {
		total += ls.PendingReaders
	}
	return total
}
