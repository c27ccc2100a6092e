package dirsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInScopeUser(t *testing.T) {
	type testCase struct {
		name     string
		policy   ScopePolicy
		user     User
		expected bool
	}

	testCases := []testCase{
		{
			name:     "empty policy retains",
			policy:   ScopePolicy{},
			user:     User{ShortName: "jdoe", ID: "CN=John Doe,OU=Staff,DC=district,DC=org", ParentPath: "OU=Staff,DC=district,DC=org"},
			expected: true,
		},
		{
			name:     "disabled user always out of scope",
			policy:   ScopePolicy{},
			user:     User{ShortName: "jdoe", Disabled: true},
			expected: false,
		},
		{
			name:     "disabled wins over explicit inclusion",
			policy:   ScopePolicy{IncludedNames: []string{"jdoe"}},
			user:     User{ShortName: "jdoe", Disabled: true},
			expected: false,
		},
		{
			name:     "excluded by short name",
			policy:   ScopePolicy{ExcludedNames: []string{"jdoe"}},
			user:     User{ShortName: "jdoe"},
			expected: false,
		},
		{
			name:     "excluded by identifier",
			policy:   ScopePolicy{ExcludedNames: []string{"CN=John Doe,OU=Staff,DC=district,DC=org"}},
			user:     User{ShortName: "jdoe", ID: "CN=John Doe,OU=Staff,DC=district,DC=org"},
			expected: false,
		},
		{
			name: "name inclusion overrides name exclusion",
			policy: ScopePolicy{
				ExcludedNames: []string{"jdoe"},
				IncludedNames: []string{"jdoe"},
			},
			user:     User{ShortName: "jdoe"},
			expected: true,
		},
		{
			name:     "excluded location",
			policy:   ScopePolicy{ExcludedLocations: []string{"OU=Students"}},
			user:     User{ShortName: "jdoe", ParentPath: "OU=Students,OU=North,DC=district,DC=org"},
			expected: false,
		},
		{
			name:     "excluded location matches child containers",
			policy:   ScopePolicy{ExcludedLocations: []string{"OU=Students"}},
			user:     User{ShortName: "jdoe", ParentPath: "OU=Grade1,OU=Students,DC=district,DC=org"},
			expected: false,
		},
		{
			name: "included location negates location exclusion",
			policy: ScopePolicy{
				ExcludedLocations: []string{"OU=Students"},
				IncludedLocations: []string{"OU=Students,OU=North,DC=district,DC=org"},
			},
			user:     User{ShortName: "jdoe", ParentPath: "OU=Students,OU=North,DC=district,DC=org"},
			expected: true,
		},
		{
			name: "name inclusion overrides location exclusion",
			policy: ScopePolicy{
				ExcludedLocations: []string{"OU=Students"},
				IncludedNames:     []string{"jdoe"},
			},
			user:     User{ShortName: "jdoe", ParentPath: "OU=Students,DC=district,DC=org"},
			expected: true,
		},
		{
			name:     "unrelated location retained",
			policy:   ScopePolicy{ExcludedLocations: []string{"OU=Students"}},
			user:     User{ShortName: "jdoe", ParentPath: "OU=Staff,DC=district,DC=org"},
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.policy.InScopeUser(tc.user))
		})
	}
}

func TestInScopeGroup(t *testing.T) {
	policy := ScopePolicy{
		ExcludedNames:     []string{"Domain Admins"},
		ExcludedLocations: []string{"OU=System"},
	}

	assert.False(t, policy.InScopeGroup(Group{ShortName: "Domain Admins"}))
	assert.False(t, policy.InScopeGroup(Group{ShortName: "printers", ParentPath: "OU=System,DC=district,DC=org"}))
	assert.True(t, policy.InScopeGroup(Group{ShortName: "staff-all", ParentPath: "OU=Groups,DC=district,DC=org"}))
}

func TestFilterUsersIdempotent(t *testing.T) {
	policy := ScopePolicy{
		ExcludedNames:     []string{"svc-backup"},
		ExcludedLocations: []string{"OU=Service Accounts"},
	}
	users := []User{
		{ShortName: "jdoe", ParentPath: "OU=Staff,DC=district,DC=org"},
		{ShortName: "svc-backup", ParentPath: "OU=Staff,DC=district,DC=org"},
		{ShortName: "svc-scan", ParentPath: "OU=Service Accounts,DC=district,DC=org"},
		{ShortName: "asmith", ParentPath: "OU=Staff,DC=district,DC=org", Disabled: true},
	}

	once := policy.FilterUsers(users)
	twice := policy.FilterUsers(once)

	assert.Len(t, once, 1)
	assert.Equal(t, "jdoe", once[0].ShortName)
	assert.Equal(t, once, twice)
}

func TestPolicyFromJson(t *testing.T) {
	policy, err := PolicyFromJson([]byte(`{
		"excludedLocations": ["OU=Students"],
		"excludedNames": ["guest"],
		"includedLocations": ["OU=Students,OU=North,DC=district,DC=org"],
		"includedNames": ["jdoe"]
	}`))
	assert.NoError(t, err)
	assert.Equal(t, []string{"OU=Students"}, policy.ExcludedLocations)
	assert.Equal(t, []string{"jdoe"}, policy.IncludedNames)

	_, err = PolicyFromJson([]byte(`{`))
	assert.Error(t, err)
}
