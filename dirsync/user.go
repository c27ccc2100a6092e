package dirsync

import "time"

// User is a read-only snapshot of a directory user account. ID is the
// distinguished identifier within the source directory; CloudID carries the
// counterpart identifier on the cloud side when known.
type User struct {
	ID          string    `json:"id"`
	ShortName   string    `json:"shortName"`
	DisplayName string    `json:"displayName"`
	GivenName   string    `json:"givenName"`
	Surname     string    `json:"surname"`
	Mail        string    `json:"mail"`
	EmployeeID  string    `json:"employeeID"`
	Department  string    `json:"department"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Description string    `json:"description"`
	ParentPath  string    `json:"parentPath"`
	MemberOf    []string  `json:"memberOf"`
	Disabled    bool      `json:"disabled"`
	CloudID     string    `json:"cloudID"`
	WhenCreated time.Time `json:"whenCreated"`
	WhenChanged time.Time `json:"whenChanged"`
}

type MutateUserPayload struct {
	GivenName   *string
	Surname     *string
	DisplayName *string
	Mail        *string
	Title       *string
	Department  *string
	Company     *string
	Description *string
	Disabled    *bool
}

type MutateUserOption func(*MutateUserPayload)

func WithUserGivenName(name string) MutateUserOption {
	return func(p *MutateUserPayload) { p.GivenName = &name }
}

func WithUserSurname(name string) MutateUserOption {
	return func(p *MutateUserPayload) { p.Surname = &name }
}

func WithUserDisplayName(name string) MutateUserOption {
	return func(p *MutateUserPayload) { p.DisplayName = &name }
}

func WithUserMail(mail string) MutateUserOption {
	return func(p *MutateUserPayload) { p.Mail = &mail }
}

func WithUserTitle(title string) MutateUserOption {
	return func(p *MutateUserPayload) { p.Title = &title }
}

func WithUserDepartment(department string) MutateUserOption {
	return func(p *MutateUserPayload) { p.Department = &department }
}

func WithUserCompany(company string) MutateUserOption {
	return func(p *MutateUserPayload) { p.Company = &company }
}

func WithUserDescription(description string) MutateUserOption {
	return func(p *MutateUserPayload) { p.Description = &description }
}

func WithUserDisabled(disabled bool) MutateUserOption {
	return func(p *MutateUserPayload) { p.Disabled = &disabled }
}
