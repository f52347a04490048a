// Package scope carries the caller's identity through every query and
// mutation. There is no ambient session lookup: handlers build a Caller from
// the authenticated request and pass it down explicitly.
package scope

import "errors"

type Role string

const (
	// RoleStandardAdmin may only see and touch records of its own organization.
	RoleStandardAdmin Role = "STANDARD_ADMIN"
	// RoleSuperAdmin may query any organization, or all of them at once.
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

var ErrUnauthorized = errors.New("caller has no organization context")

type Caller struct {
	AdminID        string
	OrganizationID string
	Role           Role
}

// CanMutate reports whether the caller may create, update or delete records.
// Mutations always need an organization to attribute the write to.
func (c Caller) CanMutate() bool {
	return c.AdminID != "" && c.OrganizationID != ""
}

// CanQuery reports whether the caller may read records at all. A standard
// admin with no organization has nothing to be scoped to; letting the empty
// scope through would widen it to every organization, so it is refused
// before any query runs.
func (c Caller) CanQuery() bool {
	return c.Role == RoleSuperAdmin || c.OrganizationID != ""
}

// ScopeOrg resolves the organization a query is confined to. A standard
// admin is always forced to its own organization no matter what was
// requested; a super admin gets the requested org, or "" meaning all.
func (c Caller) ScopeOrg(requested string) string {
	if c.Role == RoleSuperAdmin {
		return requested
	}
	return c.OrganizationID
}
