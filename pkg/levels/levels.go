package levels

import "fmt"

// Level identifies one rung of the lock hierarchy. Levels are totally
// ordered; callers must acquire them in strictly ascending order
// (skipping rungs is fine, revisiting or descending is not).
type Level int

const (
	// MinLevel is the lowest valid lock level.
	MinLevel Level = 1

	// MaxLevel is the highest lock level supported by the default
	// coordinator. Coordinators can be constructed with a smaller
	// ceiling; this is the process-wide upper bound.
	MaxLevel Level = 15
)

// Valid reports whether l falls within [MinLevel, MaxLevel].
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// String returns a string representation of the Level.
func (l Level) String() string {
	return fmt.Sprintf("L%d", int(l))
}

// Mode is the access mode for a single level.
type Mode int

const (
	// Read allows concurrent access with other readers of the same level.
	Read Mode = iota

	// Write grants exclusive access to a level.
	Write
)

func (m Mode) String() string {
	switch m {
	case Read:
		return "READ"
	case Write:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}
