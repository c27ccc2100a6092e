package ldap

import (
	"github.com/apolloveritas/dirsync/dirsync"
)

// DiffUser compares a desired user snapshot against the current directory
// state and returns the mutate options that bring the directory in line.
// Differences in attributes outside the safe-to-change set (identity
// fields, mail, employee ID) return ErrUnsafeChange with no options, so a
// caller can never half-apply a rename.
func DiffUser(current, desired dirsync.User) ([]dirsync.MutateUserOption, error) {
	if current.ID != desired.ID ||
		current.ShortName != desired.ShortName ||
		current.Mail != desired.Mail ||
		current.EmployeeID != desired.EmployeeID {
		return nil, dirsync.ErrUnsafeChange
	}

	var options []dirsync.MutateUserOption
	if current.GivenName != desired.GivenName {
		options = append(options, dirsync.WithUserGivenName(desired.GivenName))
	}
	if current.Surname != desired.Surname {
		options = append(options, dirsync.WithUserSurname(desired.Surname))
	}
	if current.DisplayName != desired.DisplayName {
		options = append(options, dirsync.WithUserDisplayName(desired.DisplayName))
	}
	if current.Title != desired.Title {
		options = append(options, dirsync.WithUserTitle(desired.Title))
	}
	if current.Department != desired.Department {
		options = append(options, dirsync.WithUserDepartment(desired.Department))
	}
	if current.Company != desired.Company {
		options = append(options, dirsync.WithUserCompany(desired.Company))
	}
	if current.Description != desired.Description {
		options = append(options, dirsync.WithUserDescription(desired.Description))
	}
	if current.Disabled != desired.Disabled {
		options = append(options, dirsync.WithUserDisabled(desired.Disabled))
	}
	return options, nil
}
