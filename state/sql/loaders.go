package sql

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/apolloveritas/dirsync/dirsync"
)

const (
	mySQLDuplicateEntry   = 1062
	sqlLiteDuplicateEntry = 1555
)

func (p *Provider) isDuplicateConflict(err error) bool {
	var me1 *mysql.MySQLError
	if errors.As(err, &me1) && (me1.Number == mySQLDuplicateEntry || me1.Number == sqlLiteDuplicateEntry) {
		return true
	}
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}
	return false
}

func (p *Provider) StartRun(run dirsync.SyncRun) error {
	_, err := p.primaryConnection.Exec(
		"INSERT INTO sync_runs (id, started, dry_run, status, skipped) VALUES (?, ?, ?, ?, ?)",
		run.ID, run.Started.UTC().Format(time.RFC3339Nano), run.DryRun, run.Status, run.Stat.Skipped)

	if p.isDuplicateConflict(err) {
		return nil
	}
	return err
}

func (p *Provider) FinishRun(run dirsync.SyncRun) error {
	_, err := p.primaryConnection.Exec(
		"UPDATE sync_runs SET finished = ?, status = ?, groups_created = ?, groups_updated = ?, members_added = ?, members_removed = ?, skipped = ?, failures = ? WHERE id = ?",
		run.Finished.UTC().Format(time.RFC3339Nano), run.Status,
		run.Stat.GroupsCreated, run.Stat.GroupsUpdated,
		run.Stat.MembersAdded, run.Stat.MembersRemoved,
		run.Stat.Skipped, run.Stat.Failures,
		run.ID)
	return err
}

func (p *Provider) LogActivity(activity dirsync.ActivityLog) error {
	_, err := p.primaryConnection.Exec(
		"INSERT INTO sync_activity (id, run_id, timestamp, operation, resource, resource_id, status, detail) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		activity.ID, activity.RunID, activity.Timestamp.UTC().Format(time.RFC3339Nano),
		activity.Operation, activity.Resource, activity.ResourceID, activity.Status, activity.Detail)

	if p.isDuplicateConflict(err) {
		return nil
	}
	return err
}

func (p *Provider) scanRun(scan func(dest ...any) error) (*dirsync.SyncRun, error) {
	run := &dirsync.SyncRun{}
	var started, finished sql.NullString
	err := scan(&run.ID, &started, &finished, &run.DryRun, &run.Status,
		&run.Stat.GroupsCreated, &run.Stat.GroupsUpdated,
		&run.Stat.MembersAdded, &run.Stat.MembersRemoved,
		&run.Stat.Skipped, &run.Stat.Failures)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dirsync.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if started.Valid {
		run.Started = timeFromString(started.String)
	}
	if finished.Valid {
		run.Finished = timeFromString(finished.String)
	}
	return run, nil
}

const runColumns = "id, started, finished, dry_run, status, groups_created, groups_updated, members_added, members_removed, skipped, failures"

func (p *Provider) Run(runID string) (*dirsync.SyncRun, error) {
	row := p.primaryConnection.QueryRow("SELECT "+runColumns+" FROM sync_runs WHERE id = ?", runID)
	return p.scanRun(row.Scan)
}

// LastCompletedRun returns the most recent run that finished, whether fully
// or partially.
func (p *Provider) LastCompletedRun() (*dirsync.SyncRun, error) {
	row := p.primaryConnection.QueryRow(
		"SELECT "+runColumns+" FROM sync_runs WHERE status IN (?, ?) ORDER BY started DESC LIMIT 1",
		dirsync.RunStatusCompleted, dirsync.RunStatusPartial)
	return p.scanRun(row.Scan)
}

func (p *Provider) RunActivity(runID string) ([]dirsync.ActivityLog, error) {
	rows, err := p.primaryConnection.Query(
		"SELECT id, run_id, timestamp, operation, resource, resource_id, status, detail FROM sync_activity WHERE run_id = ? ORDER BY timestamp", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []dirsync.ActivityLog{}
	for rows.Next() {
		var a dirsync.ActivityLog
		var timestamp string
		var detail sql.NullString
		if err := rows.Scan(&a.ID, &a.RunID, &timestamp, &a.Operation, &a.Resource, &a.ResourceID, &a.Status, &detail); err != nil {
			return nil, err
		}
		a.Timestamp = timeFromString(timestamp)
		a.Detail = detail.String
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}
