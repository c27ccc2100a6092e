package dirsync

// GroupKind drives which settings preset a cloud group is held to.
type GroupKind string

const (
	GroupKindSecurity           GroupKind = "security"
	GroupKindInternalList       GroupKind = "internalList"
	GroupKindPublicDistribution GroupKind = "publicList"
)

// Group is a read-only snapshot of a directory group. Members holds the
// distinguished identifiers of direct members, which may themselves be
// users or groups. The source directory makes no acyclicity promise.
type Group struct {
	ID          string    `json:"id"`
	ShortName   string    `json:"shortName"`
	Name        string    `json:"name"`
	Mail        string    `json:"mail"`
	Description string    `json:"description"`
	ParentPath  string    `json:"parentPath"`
	Kind        GroupKind `json:"kind"`
	Members     []string  `json:"members"`
	MemberOf    []string  `json:"memberOf"`
	CloudID     string    `json:"cloudID"`
}

type MutateGroupPayload struct {
	Name            *string
	Description     *string
	Kind            *GroupKind
	MembersToAdd    []string
	MembersToRemove []string
}

type MutateGroupOption func(*MutateGroupPayload)

func WithGroupName(name string) MutateGroupOption {
	return func(p *MutateGroupPayload) { p.Name = &name }
}

func WithGroupDescription(description string) MutateGroupOption {
	return func(p *MutateGroupPayload) { p.Description = &description }
}

func WithGroupKind(kind GroupKind) MutateGroupOption {
	return func(p *MutateGroupPayload) { p.Kind = &kind }
}

func WithMembersToAdd(members ...string) MutateGroupOption {
	return func(p *MutateGroupPayload) { p.MembersToAdd = append(p.MembersToAdd, members...) }
}

func WithMembersToRemove(members ...string) MutateGroupOption {
	return func(p *MutateGroupPayload) { p.MembersToRemove = append(p.MembersToRemove, members...) }
}
