package mirror

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/apolloveritas/dirsync/dirsync"
)

type OpKind string

const (
	OpCreateGroup  OpKind = "createGroup"
	OpUpdateGroup  OpKind = "updateGroup"
	OpAddMember    OpKind = "addMember"
	OpRemoveMember OpKind = "removeMember"
)

// Op is a single change the target directory needs to converge.
type Op struct {
	Kind     OpKind
	GroupID  string
	MemberID string
	// Group carries the desired group for OpCreateGroup and OpUpdateGroup.
	Group *dirsync.Group
}

// Plan is an ordered set of target operations. Creates come before member
// changes so new groups exist by the time their members land.
type Plan struct {
	Ops []Op
	// SkippedIDs holds source identifiers that could not be carried to the
	// target, either unresolvable group members or users with no mail to
	// map by.
	SkippedIDs []string
}

func (p Plan) Skipped() int {
	return len(p.SkippedIDs)
}

func (p Plan) Counts() (creates, updates, adds, removes int) {
	for _, op := range p.Ops {
		switch op.Kind {
		case OpCreateGroup:
			creates++
		case OpUpdateGroup:
			updates++
		case OpAddMember:
			adds++
		case OpRemoveMember:
			removes++
		}
	}
	return creates, updates, adds, removes
}

// PlanGroups snapshots both directories and computes the operations needed
// to make every in-scope source group's flattened membership match its
// target counterpart. Groups without a mail address cannot exist on the
// target and are skipped.
func (s *Syncer) PlanGroups(ctx context.Context) (Plan, error) {
	var (
		sourceUsers  []dirsync.User
		sourceGroups []dirsync.Group
		targetUsers  []dirsync.User
		targetGroups []dirsync.Group
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) { sourceUsers, err = s.Source.Users(egCtx); return err })
	eg.Go(func() (err error) { sourceGroups, err = s.Source.Groups(egCtx); return err })
	eg.Go(func() (err error) { targetUsers, err = s.Target.Users(egCtx); return err })
	eg.Go(func() (err error) { targetGroups, err = s.Target.Groups(egCtx); return err })
	if err := eg.Wait(); err != nil {
		return Plan{}, err
	}

	resolver := dirsync.NewSnapshotResolver(sourceUsers, sourceGroups)

	targetByMail := make(map[string]*dirsync.User, len(targetUsers))
	for i := range targetUsers {
		if mail := targetUsers[i].Mail; mail != "" {
			targetByMail[mail] = &targetUsers[i]
		}
	}
	targetGroupByMail := make(map[string]*dirsync.Group, len(targetGroups))
	for i := range targetGroups {
		if mail := targetGroups[i].Mail; mail != "" {
			targetGroupByMail[mail] = &targetGroups[i]
		}
	}

	plan := Plan{}
	for _, group := range s.Policy.FilterGroups(sourceGroups) {
		if group.Mail == "" {
			plan.SkippedIDs = append(plan.SkippedIDs, group.ID)
			s.logger().Warn("group has no mail address, skipping", "group", group.ID)
			continue
		}

		flat, err := dirsync.FlattenMembers(group, resolver)
		if err != nil {
			return Plan{}, err
		}
		plan.SkippedIDs = append(plan.SkippedIDs, flat.SkippedIDs...)

		desired := map[string]bool{}
		for id := range flat.UserIDs {
			user, err := resolver.ResolveUser(id)
			if err != nil {
				continue
			}
			if !s.Policy.InScopeUser(*user) {
				continue
			}
			account, ok := targetByMail[user.Mail]
			if !ok || user.Mail == "" {
				plan.SkippedIDs = append(plan.SkippedIDs, id)
				continue
			}
			desired[account.ID] = true
		}

		target, exists := targetGroupByMail[group.Mail]
		current := map[string]bool{}
		if exists {
			for _, member := range target.Members {
				current[member] = true
			}
			// Kind is not compared; the target's settings API does not
			// report it back through the group listing.
			if target.Name != group.Name || target.Description != group.Description {
				desired := dirsync.Group{
					ID:          group.Mail,
					Name:        group.Name,
					Mail:        group.Mail,
					Description: group.Description,
				}
				plan.Ops = append(plan.Ops, Op{Kind: OpUpdateGroup, GroupID: group.Mail, Group: &desired})
			}
		} else {
			create := dirsync.Group{
				ID:          group.Mail,
				ShortName:   group.ShortName,
				Name:        group.Name,
				Mail:        group.Mail,
				Description: group.Description,
				Kind:        group.Kind,
			}
			plan.Ops = append(plan.Ops, Op{Kind: OpCreateGroup, GroupID: group.Mail, Group: &create})
		}

		for member := range desired {
			if !current[member] {
				plan.Ops = append(plan.Ops, Op{Kind: OpAddMember, GroupID: group.Mail, MemberID: member})
			}
		}
		for member := range current {
			if !desired[member] {
				plan.Ops = append(plan.Ops, Op{Kind: OpRemoveMember, GroupID: group.Mail, MemberID: member})
			}
		}
	}

	sortPlan(plan.Ops)
	return plan, nil
}

func sortPlan(ops []Op) {
	rank := map[OpKind]int{OpCreateGroup: 0, OpUpdateGroup: 1, OpAddMember: 2, OpRemoveMember: 3}
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].GroupID != ops[j].GroupID {
			return ops[i].GroupID < ops[j].GroupID
		}
		if rank[ops[i].Kind] != rank[ops[j].Kind] {
			return rank[ops[i].Kind] < rank[ops[j].Kind]
		}
		return ops[i].MemberID < ops[j].MemberID
	})
}
