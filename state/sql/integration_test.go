package sql

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/apolloveritas/dirsync/dirsync"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	tdir := t.TempDir()
	dbPath := filepath.Join(tdir, "dirsync_it.db")
	// libsql driver supports file: DSN for local sqlite databases
	dsn := "file:" + dbPath
	p := &Provider{SqlLite: true, PrimaryDSN: dsn}
	if err := p.Initialize(); err != nil {
		t.Fatalf("init provider: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("sqlite file not created: %v", err)
	}
	return p
}

func TestIntegration_SQLite_RunLifecycle(t *testing.T) {
	p := newTestProvider(t)
	defer func() { _ = p.Close() }()

	run := dirsync.SyncRun{
		ID:      uuid.NewString(),
		Started: time.Now().UTC(),
		Status:  dirsync.RunStatusRunning,
	}
	if err := p.StartRun(run); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	// Starting the same run twice is tolerated
	if err := p.StartRun(run); err != nil {
		t.Fatalf("StartRun repeat: %v", err)
	}

	stored, err := p.Run(run.ID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stored.Status != dirsync.RunStatusRunning {
		t.Fatalf("expected running status, got %s", stored.Status)
	}
	if stored.Started.IsZero() {
		t.Fatal("expected started timestamp to round-trip")
	}

	run.Finished = time.Now().UTC()
	run.Status = dirsync.RunStatusCompleted
	run.Stat = dirsync.SyncStat{GroupsCreated: 1, MembersAdded: 4, MembersRemoved: 2, Skipped: 3}
	if err := p.FinishRun(run); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	stored, err = p.Run(run.ID)
	if err != nil {
		t.Fatalf("Run after finish: %v", err)
	}
	if stored.Status != dirsync.RunStatusCompleted || stored.Stat.MembersAdded != 4 || stored.Stat.Skipped != 3 {
		t.Fatalf("run did not round-trip: %+v", stored)
	}
}

func TestIntegration_SQLite_LastCompletedRun(t *testing.T) {
	p := newTestProvider(t)
	defer func() { _ = p.Close() }()

	if _, err := p.LastCompletedRun(); err != dirsync.ErrNotFound {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	base := time.Now().UTC().Add(-time.Hour)
	runs := []dirsync.SyncRun{
		{ID: "run-a", Started: base, Finished: base.Add(time.Minute), Status: dirsync.RunStatusCompleted},
		{ID: "run-b", Started: base.Add(10 * time.Minute), Finished: base.Add(11 * time.Minute), Status: dirsync.RunStatusPartial, Stat: dirsync.SyncStat{Failures: 2}},
		{ID: "run-c", Started: base.Add(20 * time.Minute), Status: dirsync.RunStatusRunning},
	}
	for _, run := range runs {
		if err := p.StartRun(run); err != nil {
			t.Fatalf("StartRun %s: %v", run.ID, err)
		}
		if err := p.FinishRun(run); err != nil {
			t.Fatalf("FinishRun %s: %v", run.ID, err)
		}
	}

	last, err := p.LastCompletedRun()
	if err != nil {
		t.Fatalf("LastCompletedRun: %v", err)
	}
	if last.ID != "run-b" {
		t.Fatalf("expected run-b (partial but finished), got %s", last.ID)
	}
	if last.Stat.Failures != 2 {
		t.Fatalf("expected failure count to round-trip, got %d", last.Stat.Failures)
	}
}

func TestIntegration_SQLite_Activity(t *testing.T) {
	p := newTestProvider(t)
	defer func() { _ = p.Close() }()

	runID := uuid.NewString()
	if err := p.StartRun(dirsync.SyncRun{ID: runID, Started: time.Now().UTC(), Status: dirsync.RunStatusRunning}); err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	first := dirsync.ActivityLog{
		ID:         uuid.NewString(),
		RunID:      runID,
		Timestamp:  time.Now().UTC(),
		Operation:  "addMember",
		Resource:   "math-department@district.org",
		ResourceID: "jdoe@district.org",
		Status:     "ok",
	}
	if err := p.LogActivity(first); err != nil {
		t.Fatalf("LogActivity: %v", err)
	}
	// Replaying the same activity record is tolerated
	if err := p.LogActivity(first); err != nil {
		t.Fatalf("LogActivity repeat: %v", err)
	}
	second := dirsync.ActivityLog{
		ID:        uuid.NewString(),
		RunID:     runID,
		Timestamp: time.Now().UTC().Add(time.Second),
		Operation: "removeMember",
		Resource:  "math-department@district.org",
		Status:    "failed",
		Detail:    "backend unavailable",
	}
	if err := p.LogActivity(second); err != nil {
		t.Fatalf("LogActivity second: %v", err)
	}

	activities, err := p.RunActivity(runID)
	if err != nil {
		t.Fatalf("RunActivity: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("expected 2 activity rows, got %d", len(activities))
	}
	if activities[0].Operation != "addMember" || activities[1].Detail != "backend unavailable" {
		t.Fatalf("activity rows did not round-trip: %+v", activities)
	}

	if rows, err := p.RunActivity("missing-run"); err != nil || len(rows) != 0 {
		t.Fatalf("expected empty activity for unknown run, got %d rows err %v", len(rows), err)
	}
}

func TestFromJson(t *testing.T) {
	p, err := FromJson([]byte(`{"primaryDsn": "file:/tmp/x.db", "sqlLite": true}`))
	if err != nil {
		t.Fatalf("FromJson: %v", err)
	}
	if !p.SqlLite || p.PrimaryDSN != "file:/tmp/x.db" {
		t.Fatalf("configuration did not decode: %+v", p)
	}
}
