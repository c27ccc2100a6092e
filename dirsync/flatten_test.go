package dirsync

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userIDs(result FlattenResult) []string {
	ids := make([]string, 0, len(result.UserIDs))
	for id := range result.UserIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func TestFlattenMembers(t *testing.T) {
	users := []User{
		{ID: "CN=Alice,OU=Staff,DC=d,DC=org"},
		{ID: "CN=Bob,OU=Staff,DC=d,DC=org"},
		{ID: "CN=Carol,OU=Staff,DC=d,DC=org"},
	}
	groups := []Group{
		{
			ID: "CN=teachers,OU=Groups,DC=d,DC=org",
			Members: []string{
				"CN=Alice,OU=Staff,DC=d,DC=org",
				"CN=aides,OU=Groups,DC=d,DC=org",
			},
		},
		{
			ID: "CN=aides,OU=Groups,DC=d,DC=org",
			Members: []string{
				"CN=Bob,OU=Staff,DC=d,DC=org",
				"CN=Carol,OU=Staff,DC=d,DC=org",
			},
		},
		{ID: "CN=empty,OU=Groups,DC=d,DC=org"},
	}
	resolver := NewSnapshotResolver(users, groups)

	t.Run("nested groups flatten to leaf users", func(t *testing.T) {
		root, err := resolver.ResolveGroup("CN=teachers,OU=Groups,DC=d,DC=org")
		require.NoError(t, err)

		result, err := FlattenMembers(*root, resolver)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"CN=Alice,OU=Staff,DC=d,DC=org",
			"CN=Bob,OU=Staff,DC=d,DC=org",
			"CN=Carol,OU=Staff,DC=d,DC=org",
		}, userIDs(result))
		assert.Zero(t, result.Skipped())
	})

	t.Run("empty group contributes nothing", func(t *testing.T) {
		result, err := FlattenMembers(Group{ID: "CN=empty,OU=Groups,DC=d,DC=org"}, resolver)
		require.NoError(t, err)
		assert.Empty(t, result.UserIDs)
		assert.Zero(t, result.Skipped())
	})

	t.Run("stale references are skipped and counted", func(t *testing.T) {
		group := Group{
			ID: "CN=stale,OU=Groups,DC=d,DC=org",
			Members: []string{
				"CN=Alice,OU=Staff,DC=d,DC=org",
				"CN=Ghost,OU=Staff,DC=d,DC=org",
			},
		}
		result, err := FlattenMembers(group, resolver)
		require.NoError(t, err)
		assert.Equal(t, []string{"CN=Alice,OU=Staff,DC=d,DC=org"}, userIDs(result))
		assert.Equal(t, 1, result.Skipped())
		assert.Equal(t, []string{"CN=Ghost,OU=Staff,DC=d,DC=org"}, result.SkippedIDs)
	})
}

func TestFlattenMembersCycle(t *testing.T) {
	groups := []Group{
		{ID: "CN=a,OU=Groups,DC=d,DC=org", Members: []string{"CN=b,OU=Groups,DC=d,DC=org"}},
		{ID: "CN=b,OU=Groups,DC=d,DC=org", Members: []string{"CN=a,OU=Groups,DC=d,DC=org"}},
	}
	resolver := NewSnapshotResolver(nil, groups)

	result, err := FlattenMembers(groups[0], resolver)
	require.NoError(t, err)
	assert.Empty(t, result.UserIDs)
	assert.Zero(t, result.Skipped())
}

func TestFlattenMembersSelfReference(t *testing.T) {
	users := []User{{ID: "CN=Alice,OU=Staff,DC=d,DC=org"}}
	group := Group{
		ID: "CN=loop,OU=Groups,DC=d,DC=org",
		Members: []string{
			"CN=loop,OU=Groups,DC=d,DC=org",
			"CN=Alice,OU=Staff,DC=d,DC=org",
		},
	}
	resolver := NewSnapshotResolver(users, []Group{group})

	result, err := FlattenMembers(group, resolver)
	require.NoError(t, err)
	assert.Equal(t, []string{"CN=Alice,OU=Staff,DC=d,DC=org"}, userIDs(result))
}

type failingResolver struct {
	err error
}

func (r failingResolver) ResolveUser(string) (*User, error)   { return nil, r.err }
func (r failingResolver) ResolveGroup(string) (*Group, error) { return nil, r.err }

func TestFlattenMembersResolverFailure(t *testing.T) {
	boom := errors.New("directory unavailable")
	group := Group{ID: "CN=g,OU=Groups,DC=d,DC=org", Members: []string{"CN=x,DC=d,DC=org"}}

	_, err := FlattenMembers(group, failingResolver{err: boom})
	assert.ErrorIs(t, err, boom)
}
