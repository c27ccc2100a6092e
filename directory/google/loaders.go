package google

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/googleapi"

	"github.com/apolloveritas/dirsync/dirsync"
)

func shortNameFromEmail(email string) string {
	if idx := strings.Index(email, "@"); idx >= 0 {
		return email[:idx]
	}
	return email
}

func userFromAPI(u *admin.User) dirsync.User {
	user := dirsync.User{
		ID:         u.PrimaryEmail,
		ShortName:  shortNameFromEmail(u.PrimaryEmail),
		Mail:       u.PrimaryEmail,
		ParentPath: u.OrgUnitPath,
		Disabled:   u.Suspended || u.Archived,
		CloudID:    u.Id,
	}
	if u.Name != nil {
		user.DisplayName = u.Name.FullName
		user.GivenName = u.Name.GivenName
		user.Surname = u.Name.FamilyName
	}
	user.EmployeeID = externalID(u.ExternalIds, "organization")
	if created, err := time.Parse(time.RFC3339, u.CreationTime); err == nil {
		user.WhenCreated = created
	}
	return user
}

// externalID digs an ID of the given type out of the schemaless ExternalIds
// payload the directory API returns.
func externalID(raw interface{}, idType string) string {
	entries, ok := raw.([]interface{})
	if !ok {
		return ""
	}
	for _, entry := range entries {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if t, _ := fields["type"].(string); t != idType {
			continue
		}
		if value, ok := fields["value"].(string); ok {
			return value
		}
	}
	return ""
}

func groupFromAPI(g *admin.Group, members []string) dirsync.Group {
	return dirsync.Group{
		ID:          g.Email,
		ShortName:   shortNameFromEmail(g.Email),
		Name:        g.Name,
		Mail:        g.Email,
		Description: g.Description,
		Members:     members,
		CloudID:     g.Id,
	}
}

func (p *Provider) Users(ctx context.Context) ([]dirsync.User, error) {
	if err := p.Connect(); err != nil {
		return nil, err
	}
	var users []dirsync.User
	pageToken := ""
	for {
		call := p.directory.Users.List().
			Customer(p.customer()).
			Projection("full").
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		result, err := call.Do()
		if err != nil {
			return nil, err
		}
		for _, u := range result.Users {
			users = append(users, userFromAPI(u))
		}
		if result.NextPageToken == "" {
			return users, nil
		}
		pageToken = result.NextPageToken
	}
}

// Groups fetches every group plus its direct membership. Group listing and
// member listing are separate API surfaces, so member fetches fan out
// concurrently once the group pages are in.
func (p *Provider) Groups(ctx context.Context) ([]dirsync.Group, error) {
	if err := p.Connect(); err != nil {
		return nil, err
	}
	var apiGroups []*admin.Group
	pageToken := ""
	for {
		call := p.directory.Groups.List().
			Customer(p.customer()).
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		result, err := call.Do()
		if err != nil {
			return nil, err
		}
		apiGroups = append(apiGroups, result.Groups...)
		if result.NextPageToken == "" {
			break
		}
		pageToken = result.NextPageToken
	}

	groups := make([]dirsync.Group, len(apiGroups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, apiGroup := range apiGroups {
		i, apiGroup := i, apiGroup
		g.Go(func() error {
			members, err := p.groupMembers(gctx, apiGroup.Id)
			if err != nil {
				return err
			}
			groups[i] = groupFromAPI(apiGroup, members)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return groups, nil
}

func (p *Provider) groupMembers(ctx context.Context, groupKey string) ([]string, error) {
	members := []string{}
	pageToken := ""
	for {
		call := p.directory.Members.List(groupKey).MaxResults(pageSize).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		result, err := call.Do()
		if err != nil {
			return nil, err
		}
		for _, m := range result.Members {
			members = append(members, m.Email)
		}
		if result.NextPageToken == "" {
			return members, nil
		}
		pageToken = result.NextPageToken
	}
}

func isAPIStatus(err error, status int) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == status
}

func (p *Provider) UserByID(ctx context.Context, id string) (*dirsync.User, error) {
	if err := p.Connect(); err != nil {
		return nil, err
	}
	result, err := p.directory.Users.Get(id).Projection("full").Context(ctx).Do()
	if err != nil {
		if isAPIStatus(err, 404) {
			return nil, dirsync.ErrNotFound
		}
		return nil, err
	}
	user := userFromAPI(result)
	return &user, nil
}

// UserByName resolves the short account name against the configured domain.
func (p *Provider) UserByName(ctx context.Context, shortName string) (*dirsync.User, error) {
	return p.UserByID(ctx, shortName+"@"+p.Domain)
}

func (p *Provider) UserByMail(ctx context.Context, mail string) (*dirsync.User, error) {
	return p.UserByID(ctx, mail)
}

func (p *Provider) UserByEmployeeID(ctx context.Context, employeeID string) (*dirsync.User, error) {
	if err := p.Connect(); err != nil {
		return nil, err
	}
	result, err := p.directory.Users.List().
		Customer(p.customer()).
		Projection("full").
		Query("externalId=" + employeeID).
		MaxResults(2).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	switch len(result.Users) {
	case 0:
		return nil, dirsync.ErrNotFound
	case 1:
		user := userFromAPI(result.Users[0])
		return &user, nil
	}
	return nil, dirsync.ErrAmbiguous
}

func (p *Provider) GroupByID(ctx context.Context, id string) (*dirsync.Group, error) {
	if err := p.Connect(); err != nil {
		return nil, err
	}
	result, err := p.directory.Groups.Get(id).Context(ctx).Do()
	if err != nil {
		if isAPIStatus(err, 404) {
			return nil, dirsync.ErrNotFound
		}
		return nil, err
	}
	members, err := p.groupMembers(ctx, result.Id)
	if err != nil {
		return nil, err
	}
	group := groupFromAPI(result, members)
	return &group, nil
}

func (p *Provider) GroupByName(ctx context.Context, shortName string) (*dirsync.Group, error) {
	return p.GroupByID(ctx, shortName+"@"+p.Domain)
}

// HasMember asks the directory, so it costs an API call; bulk checks should
// use the Members slice of a fetched group instead.
func (p *Provider) HasMember(ctx context.Context, groupID, memberID string) (bool, error) {
	if err := p.Connect(); err != nil {
		return false, err
	}
	result, err := p.directory.Members.HasMember(groupID, memberID).Context(ctx).Do()
	if err != nil {
		return false, err
	}
	return result.IsMember, nil
}
