package mirror

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/apolloveritas/dirsync/dirsync"
)

const (
	activityOK      = "ok"
	activityFailed  = "failed"
	activitySkipped = "skipped"
)

// Apply executes a plan against the target directory. Each operation is
// idempotent, so a partially applied plan can be re-planned and re-applied
// until it converges. Failed operations are recorded and do not stop the
// rest of the plan; the run finishes partial when anything failed.
func (s *Syncer) Apply(ctx context.Context, plan Plan, dryRun bool) (dirsync.SyncRun, error) {
	run := dirsync.SyncRun{
		ID:      uuid.NewString(),
		Started: time.Now().UTC(),
		DryRun:  dryRun,
		Status:  dirsync.RunStatusRunning,
	}
	run.Stat.Skipped = plan.Skipped()

	if err := s.recorder().StartRun(run); err != nil {
		return run, err
	}

	for _, op := range plan.Ops {
		if err := ctx.Err(); err != nil {
			run.Status = dirsync.RunStatusFailed
			run.Finished = time.Now().UTC()
			_ = s.recorder().FinishRun(run)
			return run, err
		}

		if dryRun {
			s.logger().Info("planned operation", "op", string(op.Kind), "group", op.GroupID, "member", op.MemberID)
			continue
		}

		err := s.applyOp(ctx, op)
		status := activityOK
		detail := ""
		switch {
		case errors.Is(err, dirsync.ErrDuplicate), errors.Is(err, dirsync.ErrNotFound):
			// Already converged; someone got there first.
			status = activitySkipped
			err = nil
		case err != nil:
			status = activityFailed
			detail = err.Error()
			run.Stat.Failures++
			s.logger().Error("operation failed", "op", string(op.Kind), "group", op.GroupID, "member", op.MemberID, "error", err)
		}

		if err == nil && status == activityOK {
			switch op.Kind {
			case OpCreateGroup:
				run.Stat.GroupsCreated++
			case OpUpdateGroup:
				run.Stat.GroupsUpdated++
			case OpAddMember:
				run.Stat.MembersAdded++
			case OpRemoveMember:
				run.Stat.MembersRemoved++
			}
		}

		logErr := s.recorder().LogActivity(dirsync.ActivityLog{
			ID:         uuid.NewString(),
			RunID:      run.ID,
			Timestamp:  time.Now().UTC(),
			Operation:  string(op.Kind),
			Resource:   op.GroupID,
			ResourceID: op.MemberID,
			Status:     status,
			Detail:     detail,
		})
		if logErr != nil {
			s.logger().Warn("unable to record activity", "error", logErr)
		}
	}

	run.Finished = time.Now().UTC()
	run.Status = dirsync.RunStatusCompleted
	if run.Stat.Failures > 0 {
		run.Status = dirsync.RunStatusPartial
	}
	if err := s.recorder().FinishRun(run); err != nil {
		return run, err
	}
	return run, nil
}

func (s *Syncer) applyOp(ctx context.Context, op Op) error {
	switch op.Kind {
	case OpCreateGroup:
		_, err := s.Target.CreateGroup(ctx, *op.Group)
		return err
	case OpUpdateGroup:
		return s.Target.MutateGroup(ctx, op.GroupID,
			dirsync.WithGroupName(op.Group.Name),
			dirsync.WithGroupDescription(op.Group.Description))
	case OpAddMember:
		return s.Target.AddMembers(ctx, op.GroupID, op.MemberID)
	case OpRemoveMember:
		return s.Target.RemoveMembers(ctx, op.GroupID, op.MemberID)
	}
	return errors.New("unknown operation " + string(op.Kind))
}

// Run plans and applies in one shot.
func (s *Syncer) Run(ctx context.Context, dryRun bool) (dirsync.SyncRun, error) {
	plan, err := s.PlanGroups(ctx)
	if err != nil {
		return dirsync.SyncRun{}, err
	}
	return s.Apply(ctx, plan, dryRun)
}
