package domain

import "github.com/SscSPs/billistry/internal/apperrors"

// Role is the access level of a user.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleShopkeeper Role = "shopkeeper"
	RoleStaff      Role = "staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleShopkeeper, RoleStaff:
		return true
	}
	return false
}

// Actor is the authenticated caller together with the business it acts on.
type Actor struct {
	UserID     string
	BusinessID string
	Role       Role
}

// Allow returns ErrForbidden unless the actor holds one of roles.
// Superadmins are always allowed.
func (a Actor) Allow(roles ...Role) error {
	if a.Role == RoleSuperAdmin {
		return nil
	}
	for _, r := range roles {
		if a.Role == r {
			return nil
		}
	}
	return apperrors.NewForbiddenError("insufficient role for this action")
}

// ScopedTo checks the actor can act on the given business and role set.
func (a Actor) ScopedTo(roles ...Role) error {
	if a.BusinessID == "" {
		if a.Role == RoleSuperAdmin {
			return apperrors.NewValidationError("business_id is required")
		}
		return apperrors.NewForbiddenError("user is not attached to a business")
	}
	return a.Allow(roles...)
}

// AllRoles is every role that may act within a business.
var AllRoles = []Role{RoleShopkeeper, RoleStaff}
