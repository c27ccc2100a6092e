package dirsync

// SnapshotResolver serves lookups from already-fetched user and group
// snapshots. It never mutates the snapshots it is built from.
type SnapshotResolver struct {
	users  map[string]*User
	groups map[string]*Group
}

func NewSnapshotResolver(users []User, groups []Group) *SnapshotResolver {
	r := &SnapshotResolver{
		users:  make(map[string]*User, len(users)),
		groups: make(map[string]*Group, len(groups)),
	}
	for i := range users {
		r.users[users[i].ID] = &users[i]
	}
	for i := range groups {
		r.groups[groups[i].ID] = &groups[i]
	}
	return r
}

func (r *SnapshotResolver) ResolveUser(id string) (*User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, ErrNotFound
}

func (r *SnapshotResolver) ResolveGroup(id string) (*Group, error) {
	if group, ok := r.groups[id]; ok {
		return group, nil
	}
	return nil, ErrNotFound
}
