package dirsync

import "errors"

// Resolver looks up cached directory objects by distinguished identifier.
// Implementations return ErrNotFound for identifiers they do not know.
type Resolver interface {
	ResolveUser(id string) (*User, error)
	ResolveGroup(id string) (*Group, error)
}

// FlattenResult is the outcome of expanding a group's nested memberships.
type FlattenResult struct {
	// UserIDs holds every user identifier reachable through nested groups.
	UserIDs map[string]struct{}
	// SkippedIDs holds member identifiers that resolved to neither a user
	// nor a group, such as stale references to deleted objects.
	SkippedIDs []string
}

func (r FlattenResult) Skipped() int {
	return len(r.SkippedIDs)
}

// FlattenMembers expands a group's membership down to the set of individual
// user identifiers. Nested groups are expanded breadth-first; a group is
// expanded at most once, so membership cycles terminate. Identifiers that
// resolve to nothing are skipped and reported, never fatal. Resolver
// failures other than ErrNotFound abort the traversal.
func FlattenMembers(group Group, resolver Resolver) (FlattenResult, error) {
	result := FlattenResult{UserIDs: map[string]struct{}{}}
	visited := map[string]bool{group.ID: true}
	queue := append([]string(nil), group.Members...)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		nested, err := resolver.ResolveGroup(id)
		if err == nil {
			if visited[nested.ID] {
				continue
			}
			visited[nested.ID] = true
			queue = append(queue, nested.Members...)
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return result, err
		}

		if _, err = resolver.ResolveUser(id); err == nil {
			result.UserIDs[id] = struct{}{}
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return result, err
		}
		result.SkippedIDs = append(result.SkippedIDs, id)
	}

	return result, nil
}
