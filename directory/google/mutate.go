package google

import (
	"context"

	"github.com/google/uuid"
	admin "google.golang.org/api/admin/directory/v1"

	"github.com/apolloveritas/dirsync/dirsync"
)

// CreateUser provisions an account with a throwaway password and forces a
// change at first login; real credentials never transit this code.
func (p *Provider) CreateUser(ctx context.Context, user dirsync.User) (*dirsync.User, error) {
	if err := p.Connect(); err != nil {
		return nil, err
	}
	body := &admin.User{
		PrimaryEmail: user.Mail,
		Name: &admin.UserName{
			GivenName:  user.GivenName,
			FamilyName: user.Surname,
		},
		Password:                  uuid.NewString(),
		ChangePasswordAtNextLogin: true,
		OrgUnitPath:               orgUnitOrRoot(user.ParentPath),
	}
	result, err := p.directory.Users.Insert(body).Context(ctx).Do()
	if err != nil {
		if isAPIStatus(err, 409) {
			return nil, dirsync.ErrDuplicate
		}
		return nil, err
	}
	created := userFromAPI(result)
	return &created, nil
}

func orgUnitOrRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func (p *Provider) MutateUser(ctx context.Context, id string, options ...dirsync.MutateUserOption) error {
	if len(options) == 0 {
		return nil
	}
	if err := p.Connect(); err != nil {
		return err
	}

	payload := dirsync.MutateUserPayload{}
	for _, opt := range options {
		opt(&payload)
	}

	patch := &admin.User{}
	if payload.GivenName != nil || payload.Surname != nil || payload.DisplayName != nil {
		patch.Name = &admin.UserName{}
		if payload.GivenName != nil {
			patch.Name.GivenName = *payload.GivenName
		}
		if payload.Surname != nil {
			patch.Name.FamilyName = *payload.Surname
		}
		if payload.DisplayName != nil {
			patch.Name.FullName = *payload.DisplayName
		}
	}
	if payload.Title != nil || payload.Department != nil {
		org := map[string]interface{}{"primary": true}
		if payload.Title != nil {
			org["title"] = *payload.Title
		}
		if payload.Department != nil {
			org["department"] = *payload.Department
		}
		patch.Organizations = []interface{}{org}
	}
	if payload.Disabled != nil {
		patch.Suspended = *payload.Disabled
		if !*payload.Disabled {
			patch.ForceSendFields = append(patch.ForceSendFields, "Suspended")
		}
	}

	_, err := p.directory.Users.Patch(id, patch).Context(ctx).Do()
	if isAPIStatus(err, 404) {
		return dirsync.ErrNotFound
	}
	return err
}

func (p *Provider) SetUserPassword(ctx context.Context, id, password string) error {
	if err := p.Connect(); err != nil {
		return err
	}
	_, err := p.directory.Users.Patch(id, &admin.User{
		Password:                  password,
		ChangePasswordAtNextLogin: true,
	}).Context(ctx).Do()
	return err
}

func (p *Provider) SetUserDisabled(ctx context.Context, id string, disabled bool) error {
	return p.MutateUser(ctx, id, dirsync.WithUserDisabled(disabled))
}

func (p *Provider) CreateGroup(ctx context.Context, group dirsync.Group) (*dirsync.Group, error) {
	if err := p.Connect(); err != nil {
		return nil, err
	}
	body := &admin.Group{
		Email:       group.Mail,
		Name:        group.Name,
		Description: group.Description,
	}
	result, err := p.directory.Groups.Insert(body).Context(ctx).Do()
	if err != nil {
		if isAPIStatus(err, 409) {
			return nil, dirsync.ErrDuplicate
		}
		return nil, err
	}
	if group.Kind != "" {
		if err := p.ApplySettings(ctx, result.Email, group.Kind); err != nil {
			return nil, err
		}
	}
	return p.GroupByID(ctx, result.Email)
}

func (p *Provider) MutateGroup(ctx context.Context, id string, options ...dirsync.MutateGroupOption) error {
	if len(options) == 0 {
		return nil
	}
	if err := p.Connect(); err != nil {
		return err
	}

	payload := dirsync.MutateGroupPayload{}
	for _, opt := range options {
		opt(&payload)
	}

	if payload.Name != nil || payload.Description != nil {
		patch := &admin.Group{}
		if payload.Name != nil {
			patch.Name = *payload.Name
		}
		if payload.Description != nil {
			patch.Description = *payload.Description
			if *payload.Description == "" {
				patch.ForceSendFields = append(patch.ForceSendFields, "Description")
			}
		}
		if _, err := p.directory.Groups.Patch(id, patch).Context(ctx).Do(); err != nil {
			return err
		}
	}
	if payload.Kind != nil {
		if err := p.ApplySettings(ctx, id, *payload.Kind); err != nil {
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

// AddMembers tolerates members that are already present.
func (p *Provider) AddMembers(ctx context.Context, groupID string, memberIDs ...string) error {
	if err := p.Connect(); err != nil {
		return err
	}
	for _, memberID := range memberIDs {
		body := &admin.Member{Email: memberID, Role: "MEMBER"}
		if _, err := p.directory.Members.Insert(groupID, body).Context(ctx).Do(); err != nil {
			if isAPIStatus(err, 409) {
				continue
			}
			return err
		}
	}
	return nil
}

// RemoveMembers tolerates members that are already gone.
func (p *Provider) RemoveMembers(ctx context.Context, groupID string, memberIDs ...string) error {
	if err := p.Connect(); err != nil {
		return err
	}
	for _, memberID := range memberIDs {
		if err := p.directory.Members.Delete(groupID, memberID).Context(ctx).Do(); err != nil {
			if isAPIStatus(err, 404) {
				continue
			}
			return err
		}
	}
	return nil
}

// SetGroupOwner promotes an existing member to owner.
func (p *Provider) SetGroupOwner(ctx context.Context, groupID, memberID string) error {
	if err := p.Connect(); err != nil {
		return err
	}
	member, err := p.directory.Members.Get(groupID, memberID).Context(ctx).Do()
	if err != nil {
		if isAPIStatus(err, 404) {
			return dirsync.ErrNotFound
		}
		return err
	}
	member.Role = "OWNER"
	_, err = p.directory.Members.Update(groupID, memberID, member).Context(ctx).Do()
	return err
}
