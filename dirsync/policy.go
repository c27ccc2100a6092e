package dirsync

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
)

// ScopePolicy decides which directory objects are eligible for
// cross-directory actions. Excluded locations remove whole container
// subtrees; excluded names remove individual objects. Inclusions override
// exclusions, for both names and locations.
type ScopePolicy struct {
	ExcludedLocations []string `json:"excludedLocations"`
	ExcludedNames     []string `json:"excludedNames"`
	IncludedLocations []string `json:"includedLocations"`
	IncludedNames     []string `json:"includedNames"`
}

func PolicyFromJson(jsonBytes []byte) (*ScopePolicy, error) {
	p := &ScopePolicy{}
	if err := json.Unmarshal(jsonBytes, p); err != nil {
		return nil, errors.New("unable to decode scope policy json")
	}
	return p, nil
}

// InScopeUser reports whether a user may be acted on. Disabled accounts are
// never in scope, whatever the policy says.
func (p ScopePolicy) InScopeUser(user User) bool {
	if user.Disabled {
		return false
	}
	return p.inScope(user.ShortName, user.ID, user.ParentPath)
}

func (p ScopePolicy) InScopeGroup(group Group) bool {
	return p.inScope(group.ShortName, group.ID, group.ParentPath)
}

func (p ScopePolicy) inScope(shortName, id, parentPath string) bool {
	if slices.Contains(p.IncludedNames, shortName) || slices.Contains(p.IncludedNames, id) {
		return true
	}
	if slices.Contains(p.ExcludedNames, shortName) || slices.Contains(p.ExcludedNames, id) {
		return false
	}
	return !p.locationExcluded(parentPath)
}

// locationExcluded matches excluded locations anywhere within the parent
// path so that child containers of an excluded container are excluded too.
// An exact match against the included locations negates the exclusion.
func (p ScopePolicy) locationExcluded(parentPath string) bool {
	if slices.Contains(p.IncludedLocations, parentPath) {
		return false
	}
	for _, loc := range p.ExcludedLocations {
		if loc != "" && strings.Contains(parentPath, loc) {
			return true
		}
	}
	return false
}

// FilterUsers returns the subset of users that are safe to synchronize.
func (p ScopePolicy) FilterUsers(users []User) []User {
	filtered := []User{}
	for _, user := range users {
		if p.InScopeUser(user) {
			filtered = append(filtered, user)
		}
	}
	return filtered
}

// FilterGroups returns the subset of groups that are safe to synchronize.
func (p ScopePolicy) FilterGroups(groups []Group) []Group {
	filtered := []Group{}
	for _, group := range groups {
		if p.InScopeGroup(group) {
			filtered = append(filtered, group)
		}
	}
	return filtered
}
