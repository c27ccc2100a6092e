package ldap

import (
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apolloveritas/dirsync/dirsync"
)

func TestUserFromEntry(t *testing.T) {
	entry := ldap.NewEntry("CN=John Doe,OU=Staff,DC=district,DC=org", map[string][]string{
		"sAMAccountName":     {"jdoe"},
		"displayName":        {"John Doe"},
		"givenName":          {"John"},
		"sn":                 {"Doe"},
		"mail":               {"jdoe@district.org"},
		"employeeID":         {"10042"},
		"department":         {"3"},
		"title":              {"Teacher"},
		"userAccountControl": {"512"},
		"memberOf":           {"CN=teachers,OU=Groups,DC=district,DC=org"},
		"whenCreated":        {"20230830120000.0Z"},
	})

	user := userFromEntry(entry)
	assert.Equal(t, "CN=John Doe,OU=Staff,DC=district,DC=org", user.ID)
	assert.Equal(t, "jdoe", user.ShortName)
	assert.Equal(t, "John", user.GivenName)
	assert.Equal(t, "Doe", user.Surname)
	assert.Equal(t, "jdoe@district.org", user.Mail)
	assert.Equal(t, "OU=Staff,DC=district,DC=org", user.ParentPath)
	assert.Equal(t, []string{"CN=teachers,OU=Groups,DC=district,DC=org"}, user.MemberOf)
	assert.False(t, user.Disabled)
	assert.Equal(t, 2023, user.WhenCreated.Year())
}

func TestUserFromEntryDisabled(t *testing.T) {
	entry := ldap.NewEntry("CN=Old Account,OU=Staff,DC=district,DC=org", map[string][]string{
		"sAMAccountName":     {"oldacct"},
		"userAccountControl": {"514"},
	})
	assert.True(t, userFromEntry(entry).Disabled)

	// password-never-expires flag combined with the disable bit
	entry = ldap.NewEntry("CN=Svc,OU=Staff,DC=district,DC=org", map[string][]string{
		"sAMAccountName":     {"svc"},
		"userAccountControl": {"66050"},
	})
	assert.True(t, userFromEntry(entry).Disabled)
}

func TestGroupFromEntry(t *testing.T) {
	entry := ldap.NewEntry("CN=teachers,OU=Groups,DC=district,DC=org", map[string][]string{
		"sAMAccountName": {"teachers"},
		"name":           {"teachers"},
		"mail":           {"teachers@district.org"},
		"member": {
			"CN=John Doe,OU=Staff,DC=district,DC=org",
			"CN=aides,OU=Groups,DC=district,DC=org",
		},
	})

	group := groupFromEntry(entry)
	assert.Equal(t, "teachers", group.ShortName)
	assert.Equal(t, "OU=Groups,DC=district,DC=org", group.ParentPath)
	assert.Len(t, group.Members, 2)
}

func TestCnFromDN(t *testing.T) {
	assert.Equal(t, "John Doe", cnFromDN("CN=John Doe,OU=Staff,DC=district,DC=org"))
	assert.Equal(t, "jdoe", cnFromDN("cn=jdoe,ou=Staff,dc=district,dc=org"))
	assert.Equal(t, "", cnFromDN("OU=Staff,DC=district,DC=org"))
}

func TestDiffUser(t *testing.T) {
	current := dirsync.User{
		ID:         "CN=John Doe,OU=Staff,DC=district,DC=org",
		ShortName:  "jdoe",
		Mail:       "jdoe@district.org",
		GivenName:  "John",
		Surname:    "Doe",
		Title:      "Teacher",
		Department: "3",
	}

	t.Run("no changes yields no options", func(t *testing.T) {
		options, err := DiffUser(current, current)
		require.NoError(t, err)
		assert.Empty(t, options)
	})

	t.Run("safe changes map to options", func(t *testing.T) {
		desired := current
		desired.Title = "Principal"
		desired.Department = ""
		desired.Disabled = true

		options, err := DiffUser(current, desired)
		require.NoError(t, err)
		assert.Len(t, options, 3)

		payload := dirsync.MutateUserPayload{}
		for _, opt := range options {
			opt(&payload)
		}
		require.NotNil(t, payload.Title)
		assert.Equal(t, "Principal", *payload.Title)
		require.NotNil(t, payload.Department)
		assert.Equal(t, "", *payload.Department)
		require.NotNil(t, payload.Disabled)
		assert.True(t, *payload.Disabled)
	})

	t.Run("identity changes are unsafe", func(t *testing.T) {
		desired := current
		desired.Mail = "john.doe@district.org"
		_, err := DiffUser(current, desired)
		assert.ErrorIs(t, err, dirsync.ErrUnsafeChange)

		desired = current
		desired.ShortName = "johnd"
		_, err = DiffUser(current, desired)
		assert.ErrorIs(t, err, dirsync.ErrUnsafeChange)
	})
}

func TestFromJson(t *testing.T) {
	p, err := FromJson([]byte(`{
		"host": "dc1.district.org",
		"bindDN": "CN=svc-sync,OU=Service Accounts,DC=district,DC=org",
		"password": "secret",
		"baseDN": "OU=District,DC=district,DC=org"
	}`))
	require.NoError(t, err)
	assert.Equal(t, 636, p.Port)
	assert.Equal(t, uint32(defaultPageSize), p.PageSize)
	assert.Equal(t, "OU=District,DC=district,DC=org", p.BaseDN)
}
