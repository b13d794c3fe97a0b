package domain

import "fmt"

// Role is the account role stored on a profile and carried in access tokens.
type Role string

const (
	RoleUser         Role = "user"
	RoleCompany      Role = "company"
	RoleOrganization Role = "organization"
	RoleAdmin        Role = "admin"
)

// AllRoles lists every role in a stable order.
var AllRoles = []Role{RoleUser, RoleCompany, RoleOrganization, RoleAdmin}

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleCompany, RoleOrganization, RoleAdmin:
		return true
	}
	return false
}

// RequiresApproval reports whether a self-registration with this role must
// wait in the signup request queue for an administrator.
func (r Role) RequiresApproval() bool {
	switch r {
	case RoleCompany, RoleOrganization:
		return true
	case RoleUser, RoleAdmin:
		return false
	}
	return false
}

// SelfRegistrable reports whether a role may be chosen on the public signup form.
func (r Role) SelfRegistrable() bool {
	switch r {
	case RoleUser, RoleCompany, RoleOrganization:
		return true
	case RoleAdmin:
		return false
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// PlanStatus tracks the billing state of a profile.
type PlanStatus string

const (
	PlanStatusFree    PlanStatus = "free"
	PlanStatusPaid    PlanStatus = "paid"
	PlanStatusExpired PlanStatus = "expired"
)

func (p PlanStatus) IsValid() bool {
	switch p {
	case PlanStatusFree, PlanStatusPaid, PlanStatusExpired:
		return true
	}
	return false
}
