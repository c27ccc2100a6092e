package dirsync

import "time"

// SyncStat accumulates what a single synchronization run did.
type SyncStat struct {
	GroupsCreated  int `json:"groupsCreated"`
	GroupsUpdated  int `json:"groupsUpdated"`
	MembersAdded   int `json:"membersAdded"`
	MembersRemoved int `json:"membersRemoved"`
	Skipped        int `json:"skipped"`
	Failures       int `json:"failures"`
}

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusFailed    RunStatus = "failed"
)

// SyncRun records one invocation of the mirror driver.
type SyncRun struct {
	ID       string    `json:"id"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	DryRun   bool      `json:"dryRun"`
	Status   RunStatus `json:"status"`
	Stat     SyncStat  `json:"stat"`
}

// ActivityLog records a single directory operation within a run.
type ActivityLog struct {
	ID         string    `json:"id"`
	RunID      string    `json:"runID"`
	Timestamp  time.Time `json:"timestamp"`
	Operation  string    `json:"operation"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resourceID"`
	Status     string    `json:"status"`
	Detail     string    `json:"detail"`
}
