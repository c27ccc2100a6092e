package directory

import (
	"context"

	"github.com/apolloveritas/dirsync/dirsync"
)

// Provider is a connection to an external directory holding user and group
// records. Snapshot reads return frozen copies; nothing a caller does to a
// returned object reaches the directory without an explicit mutation call.
type Provider interface {
	Users(ctx context.Context) ([]dirsync.User, error)
	Groups(ctx context.Context) ([]dirsync.Group, error)

	UserByID(ctx context.Context, id string) (*dirsync.User, error)
	UserByName(ctx context.Context, shortName string) (*dirsync.User, error)
	UserByMail(ctx context.Context, mail string) (*dirsync.User, error)
	UserByEmployeeID(ctx context.Context, employeeID string) (*dirsync.User, error)
	GroupByID(ctx context.Context, id string) (*dirsync.Group, error)
	GroupByName(ctx context.Context, shortName string) (*dirsync.Group, error)

	CreateUser(ctx context.Context, user dirsync.User) (*dirsync.User, error)
	MutateUser(ctx context.Context, id string, options ...dirsync.MutateUserOption) error
	SetUserPassword(ctx context.Context, id, password string) error
	SetUserDisabled(ctx context.Context, id string, disabled bool) error

	CreateGroup(ctx context.Context, group dirsync.Group) (*dirsync.Group, error)
	MutateGroup(ctx context.Context, id string, options ...dirsync.MutateGroupOption) error
	AddMembers(ctx context.Context, groupID string, memberIDs ...string) error
	RemoveMembers(ctx context.Context, groupID string, memberIDs ...string) error

	Connect() error
	Close() error
}
