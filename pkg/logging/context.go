package logging

import (
	"log/slog"

	"lockladder/pkg/levels"
)

// WithLevel creates a logger with lock-level context.
// Use this so every message from a per-level code path carries the level.
//
// Example:
//
//	log := logging.WithLevel(lvl)
//	log.Debug("writer enqueued", "queue_len", n)
func WithLevel(level levels.Level) *slog.Logger {
	return GetLogger().With("level", level.String())
}

// WithLevelMode creates a logger with both level and access-mode context.
//
// Example:
//
//	log := logging.WithLevelMode(lvl, levels.Write)
//	log.Info("lock granted")
func WithLevelMode(level levels.Level, mode levels.Mode) *slog.Logger {
	return GetLogger().With("level", level.String(), "mode", mode.String())
}

// WithWorker creates a logger with workload-worker context.
// Used by the demo scenarios to tell concurrent holders apart.
//
// Example:
//
//	log := logging.WithWorker("writer-convoy", id)
//	log.Info("chain disposed", "held", n)
func WithWorker(scenario string, worker int) *slog.Logger {
	return GetLogger().With("scenario", scenario, "worker", worker)
}

// WithComponent creates a logger with component/subsystem context.
//
// Example:
//
//	log := logging.WithComponent("coordinator")
//	log.Info("component initialized")
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithError creates a logger with error context.
// Use this when logging errors to include the error in structured format.
//
// Example:
//
//	log := logging.WithError(err)
//	log.Error("operation failed", "operation", "RollbackTo")
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
