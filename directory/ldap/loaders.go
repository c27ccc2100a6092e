package ldap

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"

	"github.com/apolloveritas/dirsync/dirsync"
)

var userAttributes = []string{
	"distinguishedName", "sAMAccountName", "displayName", "givenName", "sn",
	"mail", "employeeID", "department", "title", "company", "description",
	"memberOf", "userAccountControl", "whenCreated", "whenChanged",
}

var groupAttributes = []string{
	"distinguishedName", "sAMAccountName", "name", "mail", "description",
	"member", "memberOf", "groupType",
}

// generalized-time format used by AD for whenCreated / whenChanged
const adTimeFormat = "20060102150405.0Z"

func (p *Provider) search(ctx context.Context, baseDN, filter string, attributes []string) ([]*ldap.Entry, error) {
	if err := p.Connect(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	request := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		filter,
		attributes,
		nil,
	)
	result, err := p.conn.SearchWithPaging(request, p.PageSize)
	if err != nil {
		return nil, err
	}
	return result.Entries, nil
}

func userFromEntry(entry *ldap.Entry) dirsync.User {
	shortName := entry.GetAttributeValue("sAMAccountName")
	uac, _ := strconv.Atoi(entry.GetAttributeValue("userAccountControl"))
	user := dirsync.User{
		ID:          entry.DN,
		ShortName:   shortName,
		DisplayName: entry.GetAttributeValue("displayName"),
		GivenName:   entry.GetAttributeValue("givenName"),
		Surname:     entry.GetAttributeValue("sn"),
		Mail:        entry.GetAttributeValue("mail"),
		EmployeeID:  entry.GetAttributeValue("employeeID"),
		Department:  entry.GetAttributeValue("department"),
		Title:       entry.GetAttributeValue("title"),
		Company:     entry.GetAttributeValue("company"),
		Description: entry.GetAttributeValue("description"),
		ParentPath:  dirsync.ParentPath(entry.DN, cnFromDN(entry.DN)),
		MemberOf:    entry.GetAttributeValues("memberOf"),
		Disabled:    uac&uacAccountDisable != 0,
	}
	if created, err := time.Parse(adTimeFormat, entry.GetAttributeValue("whenCreated")); err == nil {
		user.WhenCreated = created
	}
	if changed, err := time.Parse(adTimeFormat, entry.GetAttributeValue("whenChanged")); err == nil {
		user.WhenChanged = changed
	}
	return user
}

func groupFromEntry(entry *ldap.Entry) dirsync.Group {
	return dirsync.Group{
		ID:          entry.DN,
		ShortName:   entry.GetAttributeValue("sAMAccountName"),
		Name:        entry.GetAttributeValue("name"),
		Mail:        entry.GetAttributeValue("mail"),
		Description: entry.GetAttributeValue("description"),
		ParentPath:  dirsync.ParentPath(entry.DN, cnFromDN(entry.DN)),
		Kind:        dirsync.GroupKindSecurity,
		Members:     entry.GetAttributeValues("member"),
		MemberOf:    entry.GetAttributeValues("memberOf"),
	}
}

func cnFromDN(dn string) string {
	first := dn
	if idx := strings.Index(dn, ","); idx >= 0 {
		first = dn[:idx]
	}
	if len(first) > 3 && strings.EqualFold(first[:3], "CN=") {
		return first[3:]
	}
	return ""
}

func (p *Provider) Users(ctx context.Context) ([]dirsync.User, error) {
	entries, err := p.search(ctx, p.BaseDN, "(&(objectClass=user)(objectCategory=person))", userAttributes)
	if err != nil {
		return nil, err
	}
	users := make([]dirsync.User, 0, len(entries))
	for _, entry := range entries {
		users = append(users, userFromEntry(entry))
	}
	return users, nil
}

func (p *Provider) Groups(ctx context.Context) ([]dirsync.Group, error) {
	entries, err := p.search(ctx, p.BaseDN, "(objectClass=group)", groupAttributes)
	if err != nil {
		return nil, err
	}
	groups := make([]dirsync.Group, 0, len(entries))
	for _, entry := range entries {
		groups = append(groups, groupFromEntry(entry))
	}
	return groups, nil
}

func (p *Provider) userByFilter(ctx context.Context, baseDN, filter string) (*dirsync.User, error) {
	entries, err := p.search(ctx, baseDN, filter, userAttributes)
	if err != nil {
		return nil, err
	}
	switch len(entries) {
	case 0:
		return nil, dirsync.ErrNotFound
	case 1:
		user := userFromEntry(entries[0])
		return &user, nil
	}
	return nil, dirsync.ErrAmbiguous
}

func (p *Provider) groupByFilter(ctx context.Context, baseDN, filter string) (*dirsync.Group, error) {
	entries, err := p.search(ctx, baseDN, filter, groupAttributes)
	if err != nil {
		return nil, err
	}
	switch len(entries) {
	case 0:
		return nil, dirsync.ErrNotFound
	case 1:
		group := groupFromEntry(entries[0])
		return &group, nil
	}
	return nil, dirsync.ErrAmbiguous
}

func (p *Provider) UserByID(ctx context.Context, id string) (*dirsync.User, error) {
	return p.userByFilter(ctx, id, "(objectClass=user)")
}

func (p *Provider) UserByName(ctx context.Context, shortName string) (*dirsync.User, error) {
	return p.userByFilter(ctx, p.BaseDN,
		"(&(objectClass=user)(sAMAccountName="+ldap.EscapeFilter(shortName)+"))")
}

func (p *Provider) UserByMail(ctx context.Context, mail string) (*dirsync.User, error) {
	return p.userByFilter(ctx, p.BaseDN,
		"(&(objectClass=user)(mail="+ldap.EscapeFilter(mail)+"))")
}

func (p *Provider) UserByEmployeeID(ctx context.Context, employeeID string) (*dirsync.User, error) {
	return p.userByFilter(ctx, p.BaseDN,
		"(&(objectClass=user)(employeeID="+ldap.EscapeFilter(employeeID)+"))")
}

func (p *Provider) GroupByID(ctx context.Context, id string) (*dirsync.Group, error) {
	return p.groupByFilter(ctx, id, "(objectClass=group)")
}

func (p *Provider) GroupByName(ctx context.Context, shortName string) (*dirsync.Group, error) {
	return p.groupByFilter(ctx, p.BaseDN,
		"(&(objectClass=group)(sAMAccountName="+ldap.EscapeFilter(shortName)+"))")
}
