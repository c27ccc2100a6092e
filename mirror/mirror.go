// Package mirror keeps cloud group memberships converged with the groups of
// an authoritative source directory. It plans first and applies second, so a
// plan can be inspected or discarded without touching the target.
package mirror

import (
	"log/slog"

	"github.com/apolloveritas/dirsync/directory"
	"github.com/apolloveritas/dirsync/dirsync"
)

// Recorder persists run and activity records. state/sql satisfies it; tests
// substitute an in-memory one.
type Recorder interface {
	StartRun(run dirsync.SyncRun) error
	FinishRun(run dirsync.SyncRun) error
	LogActivity(activity dirsync.ActivityLog) error
}

// Syncer mirrors in-scope source groups onto the target directory. Source is
// authoritative; the target is only ever written, never consulted for policy.
type Syncer struct {
	Source   directory.Provider
	Target   directory.Provider
	Policy   dirsync.ScopePolicy
	Recorder Recorder
	Logger   *slog.Logger
}

func (s *Syncer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// NopRecorder discards run and activity records.
type NopRecorder struct{}

func (NopRecorder) StartRun(dirsync.SyncRun) error        { return nil }
func (NopRecorder) FinishRun(dirsync.SyncRun) error       { return nil }
func (NopRecorder) LogActivity(dirsync.ActivityLog) error { return nil }

func (s *Syncer) recorder() Recorder {
	if s.Recorder != nil {
		return s.Recorder
	}
	return NopRecorder{}
}
