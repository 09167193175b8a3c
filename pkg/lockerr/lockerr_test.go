package lockerr

import (
	"errors"
	"strings"
	"testing"

	"lockladder/pkg/levels"
)

func TestNewWrapsSentinel(t *testing.T) {
	err := New(ErrNotHeld, "ReleaseLock", levels.Level(4), "")

	if !errors.Is(err, ErrNotHeld) {
		t.Error("expected errors.Is to match ErrNotHeld")
	}
	if errors.Is(err, ErrStaleLock) {
		t.Error("did not expect errors.Is to match ErrStaleLock")
	}
}

func TestErrorFormat(t *testing.T) {
	err := New(ErrOrderingViolation, "AcquireWrite", levels.Level(3), "chain maximum is L7")
	msg := err.Error()

	for _, want := range []string{"lock ordering violation", "L3", "AcquireWrite", "chain maximum is L7"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestErrorFormatWithoutDetail(t *testing.T) {
	err := New(ErrLevelRange, "AcquireRead", levels.Level(99), "")
	msg := err.Error()

	if strings.Contains(msg, "::") {
		t.Errorf("unexpected empty detail separator in %q", msg)
	}
	if !strings.Contains(msg, "L99") {
		t.Errorf("error message %q missing level", msg)
	}
}

func TestErrorsAsRecoversStructure(t *testing.T) {
	var le *LockError
	err := func() error {
		return New(ErrStaleLock, "UseLock", levels.Level(6), "released by sibling chain")
	}()

	if !errors.As(err, &le) {
		t.Fatal("expected errors.As to recover *LockError")
	}
	if le.Level != levels.Level(6) {
		t.Errorf("expected level 6, got %v", le.Level)
	}
	if le.Operation != "UseLock" {
		t.Errorf("expected operation UseLock, got %s", le.Operation)
	}
}

func TestFormatStack(t *testing.T) {
	err := New(ErrNotHeld, "UseLock", levels.Level(2), "")
	if err.FormatStack() == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(err.FormatStack(), "Stack trace:") {
		t.Error("expected stack trace header")
	}
}
