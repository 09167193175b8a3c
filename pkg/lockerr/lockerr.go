package lockerr

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"lockladder/pkg/levels"
)

// Sentinel errors for the lock engine's failure taxonomy. Callers match
// against these with errors.Is; the concrete error carried up the stack
// is a *LockError wrapping one of them.
var (
	// ErrOrderingViolation reports an acquire of a level that is already
	// held, or not strictly greater than the chain's current maximum.
	ErrOrderingViolation = errors.New("lock ordering violation")

	// ErrNotHeld reports an operation referencing a level absent from
	// the chain's recorded entries.
	ErrNotHeld = errors.New("lock level not held")

	// ErrStaleLock reports that the coordinator's live state disagrees
	// with the chain's bookkeeping: the underlying lock was released
	// through another chain sharing the same ownership.
	ErrStaleLock = errors.New("stale lock")

	// ErrLevelRange reports a level outside the coordinator's
	// configured range.
	ErrLevelRange = errors.New("lock level out of range")
)

// LockError is a structured error carrying the context of a failed lock
// operation.
type LockError struct {
	// Kind is the sentinel this error wraps; errors.Is matches on it.
	Kind error

	// Level is the lock level the failing operation referenced.
	Level levels.Level

	// Operation identifies the failing call ("AcquireWrite", "RollbackTo", ...).
	Operation string

	// Detail provides additional context about the specific failure
	// instance, e.g. "chain maximum is L7".
	Detail string

	// Stack contains the call stack where this error was created.
	Stack []uintptr
}

// New creates a LockError of the given kind for level, captured at the
// caller's stack.
func New(kind error, op string, level levels.Level, detail string) *LockError {
	return &LockError{
		Kind:      kind,
		Level:     level,
		Operation: op,
		Detail:    detail,
		Stack:     captureStack(),
	}
}

// captureStack skips the first 3 frames to exclude captureStack, New,
// and the immediate caller.
func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[0:n]
}

// Error implements the standard error interface. The format follows:
// kind: level (operation: Operation): Detail
func (e *LockError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s: %s", e.Kind.Error(), e.Level))

	if e.Operation != "" {
		b.WriteString(fmt.Sprintf(" (operation: %s)", e.Operation))
	}

	if e.Detail != "" {
		b.WriteString(fmt.Sprintf(": %s", e.Detail))
	}

	return b.String()
}

// Unwrap returns the sentinel kind, enabling errors.Is matching on the
// taxonomy entries above.
func (e *LockError) Unwrap() error {
	return e.Kind
}

// FormatStack returns a human-readable stack trace for debugging purposes.
func (e *LockError) FormatStack() string {
	if len(e.Stack) == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(e.Stack)

	b.WriteString("Stack trace:\n")
	for {
		f, more := frames.Next()
		b.WriteString(fmt.Sprintf("  %s\n    %s:%d\n",
			f.Function, f.File, f.Line))
		if !more {
			break
		}
	}

	return b.String()
}
