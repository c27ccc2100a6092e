package jsonfile

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/apolloveritas/dirsync/dirsync"
)

func (p *Provider) load() error {
	if p.loaded {
		return nil
	}

	usersPath := p.filePath("users")
	var users []dirsync.User
	if err := json.Unmarshal(p.fileData(usersPath), &users); err != nil {
		return errors.New("unable to load users.json @ " + usersPath)
	}

	groupsPath := p.filePath("groups")
	var groups []dirsync.Group
	if err := json.Unmarshal(p.fileData(groupsPath), &groups); err != nil {
		return errors.New("unable to load groups.json @ " + groupsPath)
	}

	p.users = users
	p.groups = groups
	p.loaded = true
	return nil
}

func (p *Provider) Users(ctx context.Context) ([]dirsync.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.load(); err != nil {
		return nil, err
	}
	users := make([]dirsync.User, len(p.users))
	copy(users, p.users)
	return users, nil
}

func (p *Provider) Groups(ctx context.Context) ([]dirsync.Group, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.load(); err != nil {
		return nil, err
	}
	groups := make([]dirsync.Group, len(p.groups))
	copy(groups, p.groups)
	return groups, nil
}

func (p *Provider) findUser(match func(dirsync.User) bool) (*dirsync.User, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	var found *dirsync.User
	for i := range p.users {
		if !match(p.users[i]) {
			continue
		}
		if found != nil {
			return nil, dirsync.ErrAmbiguous
		}
		user := p.users[i]
		found = &user
	}
	if found == nil {
		return nil, dirsync.ErrNotFound
	}
	return found, nil
}

func (p *Provider) findGroup(match func(dirsync.Group) bool) (*dirsync.Group, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	var found *dirsync.Group
	for i := range p.groups {
		if !match(p.groups[i]) {
			continue
		}
		if found != nil {
			return nil, dirsync.ErrAmbiguous
		}
		group := p.groups[i]
		found = &group
	}
	if found == nil {
		return nil, dirsync.ErrNotFound
	}
	return found, nil
}

func (p *Provider) UserByID(ctx context.Context, id string) (*dirsync.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.findUser(func(u dirsync.User) bool { return u.ID == id })
}

func (p *Provider) UserByName(ctx context.Context, shortName string) (*dirsync.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.findUser(func(u dirsync.User) bool { return u.ShortName == shortName })
}

func (p *Provider) UserByMail(ctx context.Context, mail string) (*dirsync.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.findUser(func(u dirsync.User) bool { return u.Mail == mail })
}

func (p *Provider) UserByEmployeeID(ctx context.Context, employeeID string) (*dirsync.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.findUser(func(u dirsync.User) bool { return u.EmployeeID == employeeID })
}

func (p *Provider) GroupByID(ctx context.Context, id string) (*dirsync.Group, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.findGroup(func(g dirsync.Group) bool { return g.ID == id })
}

func (p *Provider) GroupByName(ctx context.Context, shortName string) (*dirsync.Group, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.findGroup(func(g dirsync.Group) bool { return g.ShortName == shortName })
}

func (p *Provider) CreateUser(ctx context.Context, user dirsync.User) (*dirsync.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.load(); err != nil {
		return nil, err
	}
	for _, existing := range p.users {
		if existing.ID == user.ID {
			return nil, dirsync.ErrDuplicate
		}
	}
	p.users = append(p.users, user)
	return &user, nil
}

func (p *Provider) MutateUser(ctx context.Context, id string, options ...dirsync.MutateUserOption) error {
	payload := &dirsync.MutateUserPayload{}
	for _, opt := range options {
		opt(payload)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.load(); err != nil {
		return err
	}
	for i := range p.users {
		if p.users[i].ID != id {
			continue
		}
		applyUserPayload(&p.users[i], payload)
		return nil
	}
	return dirsync.ErrNotFound
}

func applyUserPayload(user *dirsync.User, payload *dirsync.MutateUserPayload) {
	if payload.GivenName != nil {
		user.GivenName = *payload.GivenName
	}
	if payload.Surname != nil {
		user.Surname = *payload.Surname
	}
	if payload.DisplayName != nil {
		user.DisplayName = *payload.DisplayName
	}
	if payload.Mail != nil {
		user.Mail = *payload.Mail
	}
	if payload.Title != nil {
		user.Title = *payload.Title
	}
	if payload.Department != nil {
		user.Department = *payload.Department
	}
	if payload.Company != nil {
		user.Company = *payload.Company
	}
	if payload.Description != nil {
		user.Description = *payload.Description
	}
	if payload.Disabled != nil {
		user.Disabled = *payload.Disabled
	}
}

func (p *Provider) SetUserPassword(ctx context.Context, id, password string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.findUser(func(u dirsync.User) bool { return u.ID == id })
	return err
}

func (p *Provider) SetUserDisabled(ctx context.Context, id string, disabled bool) error {
	return p.MutateUser(ctx, id, dirsync.WithUserDisabled(disabled))
}

func (p *Provider) CreateGroup(ctx context.Context, group dirsync.Group) (*dirsync.Group, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.load(); err != nil {
		return nil, err
	}
	for _, existing := range p.groups {
		if existing.ID == group.ID {
			return nil, dirsync.ErrDuplicate
		}
	}
	p.groups = append(p.groups, group)
	return &group, nil
}

func (p *Provider) MutateGroup(ctx context.Context, id string, options ...dirsync.MutateGroupOption) error {
	payload := &dirsync.MutateGroupPayload{}
	for _, opt := range options {
		opt(payload)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.load(); err != nil {
		return err
	}
	for i := range p.groups {
		if p.groups[i].ID != id {
			continue
		}
		group := &p.groups[i]
		if payload.Name != nil {
			group.Name = *payload.Name
		}
		if payload.Description != nil {
			group.Description = *payload.Description
		}
		if payload.Kind != nil {
			group.Kind = *payload.Kind
		}
		group.Members = addMembers(group.Members, payload.MembersToAdd)
		group.Members = removeMembers(group.Members, payload.MembersToRemove)
		return nil
	}
	return dirsync.ErrNotFound
}

func (p *Provider) AddMembers(ctx context.Context, groupID string, memberIDs ...string) error {
	return p.MutateGroup(ctx, groupID, dirsync.WithMembersToAdd(memberIDs...))
}

func (p *Provider) RemoveMembers(ctx context.Context, groupID string, memberIDs ...string) error {
	return p.MutateGroup(ctx, groupID, dirsync.WithMembersToRemove(memberIDs...))
}

func addMembers(members, add []string) []string {
	for _, id := range add {
		present := false
		for _, existing := range members {
			if existing == id {
				present = true
				break
			}
		}
		if !present {
			members = append(members, id)
		}
	}
	return members
}

func removeMembers(members, remove []string) []string {
	if len(remove) == 0 {
		return members
	}
	kept := members[:0]
	for _, existing := range members {
		drop := false
		for _, id := range remove {
			if existing == id {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, existing)
		}
	}
	return kept
}
