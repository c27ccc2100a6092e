package ldap

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-ldap/ldap/v3"
	"golang.org/x/text/encoding/unicode"

	"github.com/apolloveritas/dirsync/dirsync"
)

// CreateUser adds a user entry under its distinguished identifier. Accounts
// are created disabled and without a password; callers enable them with
// SetUserPassword followed by SetUserDisabled(false).
func (p *Provider) CreateUser(ctx context.Context, user dirsync.User) (*dirsync.User, error) {
	if err := p.Connect(); err != nil {
		return nil, err
	}
	request := ldap.NewAddRequest(user.ID, nil)
	request.Attribute("objectClass", []string{"top", "person", "organizationalPerson", "user"})
	request.Attribute("sAMAccountName", []string{user.ShortName})
	request.Attribute("userAccountControl", []string{strconv.Itoa(uacNormalAccount | uacAccountDisable)})
	for attr, value := range map[string]string{
		"givenName":   user.GivenName,
		"sn":          user.Surname,
		"displayName": user.DisplayName,
		"mail":        user.Mail,
		"employeeID":  user.EmployeeID,
		"department":  user.Department,
		"title":       user.Title,
		"company":     user.Company,
		"description": user.Description,
	} {
		if value != "" {
			request.Attribute(attr, []string{value})
		}
	}
	if err := p.conn.Add(request); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists) {
			return nil, dirsync.ErrDuplicate
		}
		return nil, err
	}
	return p.UserByID(ctx, user.ID)
}

func (p *Provider) MutateUser(ctx context.Context, id string, options ...dirsync.MutateUserOption) error {
	if len(options) == 0 {
		return nil
	}
	if err := p.Connect(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload := dirsync.MutateUserPayload{}
	for _, opt := range options {
		opt(&payload)
	}

	request := ldap.NewModifyRequest(id, nil)
	for attr, value := range map[string]*string{
		"givenName":   payload.GivenName,
		"sn":          payload.Surname,
		"displayName": payload.DisplayName,
		"mail":        payload.Mail,
		"title":       payload.Title,
		"department":  payload.Department,
		"company":     payload.Company,
		"description": payload.Description,
	} {
		if value == nil {
			continue
		}
		if *value == "" {
			// AD has no empty string attributes; clearing means removal
			request.Replace(attr, nil)
			continue
		}
		request.Replace(attr, []string{*value})
	}
	if payload.Disabled != nil {
		request.Replace("userAccountControl", []string{strconv.Itoa(accountControl(*payload.Disabled))})
	}
	if len(request.Changes) == 0 {
		return nil
	}
	return p.conn.Modify(request)
}

func accountControl(disabled bool) int {
	if disabled {
		return uacNormalAccount | uacAccountDisable
	}
	return uacNormalAccount
}

// SetUserPassword replaces unicodePwd, which AD only accepts over a sealed
// connection and only as a UTF-16LE encoded quoted string.
func (p *Provider) SetUserPassword(ctx context.Context, id, password string) error {
	if err := p.Connect(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).
		NewEncoder().String("\"" + password + "\"")
	if err != nil {
		return fmt.Errorf("failed to encode password: %w", err)
	}
	request := ldap.NewModifyRequest(id, nil)
	request.Replace("unicodePwd", []string{encoded})
	return p.conn.Modify(request)
}

func (p *Provider) SetUserDisabled(ctx context.Context, id string, disabled bool) error {
	return p.MutateUser(ctx, id, dirsync.WithUserDisabled(disabled))
}

func (p *Provider) CreateGroup(ctx context.Context, group dirsync.Group) (*dirsync.Group, error) {
	if existing, err := p.GroupByID(ctx, group.ID); err == nil {
		return existing, nil
	}
	request := ldap.NewAddRequest(group.ID, nil)
	request.Attribute("objectClass", []string{"top", "group"})
	request.Attribute("sAMAccountName", []string{group.ShortName})
	if group.Description != "" {
		request.Attribute("description", []string{group.Description})
	}
	if group.Mail != "" {
		request.Attribute("mail", []string{group.Mail})
	}
	if err := p.conn.Add(request); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists) {
			return nil, dirsync.ErrDuplicate
		}
		return nil, err
	}
	return p.GroupByID(ctx, group.ID)
}

func (p *Provider) MutateGroup(ctx context.Context, id string, options ...dirsync.MutateGroupOption) error {
	if len(options) == 0 {
		return nil
	}
	payload := dirsync.MutateGroupPayload{}
	for _, opt := range options {
		opt(&payload)
	}

	if payload.Description != nil || payload.Name != nil {
		if err := p.Connect(); err != nil {
			return err
		}
		request := ldap.NewModifyRequest(id, nil)
		if payload.Description != nil {
			request.Replace("description", []string{*payload.Description})
		}
		if payload.Name != nil {
			request.Replace("displayName", []string{*payload.Name})
		}
		if err := p.conn.Modify(request); err != nil {
			return err
		}
	}
	if len(payload.MembersToAdd) > 0 {
		if err := p.AddMembers(ctx, id, payload.MembersToAdd...); err != nil {
			return err
		}
	}
	if len(payload.MembersToRemove) > 0 {
		if err := p.RemoveMembers(ctx, id, payload.MembersToRemove...); err != nil {
			return err
		}
	}
	return nil
}

// AddMembers is idempotent: members that are already present are not an
// error.
func (p *Provider) AddMembers(ctx context.Context, groupID string, memberIDs ...string) error {
	if err := p.Connect(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, memberID := range memberIDs {
		request := ldap.NewModifyRequest(groupID, nil)
		request.Add("member", []string{memberID})
		if err := p.conn.Modify(request); err != nil {
			if ldap.IsErrorWithCode(err, ldap.LDAPResultAttributeOrValueExists) ||
				ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists) {
				continue
			}
			return err
		}
	}
	return nil
}

// RemoveMembers is idempotent: members that are already gone are not an
// error.
func (p *Provider) RemoveMembers(ctx context.Context, groupID string, memberIDs ...string) error {
	if err := p.Connect(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, memberID := range memberIDs {
		request := ldap.NewModifyRequest(groupID, nil)
		request.Delete("member", []string{memberID})
		if err := p.conn.Modify(request); err != nil {
			if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchAttribute) {
				continue
			}
			return err
		}
	}
	return nil
}
