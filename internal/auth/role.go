// Package auth implements token issuance and verification plus the
// request-scoped principal and role gate used by every protected route.
package auth

import (
	"strings"
)

// Role is the closed set of marketplace roles. All role comparisons go
// through this type; handlers never compare raw strings.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOwner    Role = "OWNER"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole normalizes a role claim. Unknown values yield ok=false so an
// unrecognized token role never grants access.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleOwner:
		return RoleOwner, true
	case RoleCustomer:
		return RoleCustomer, true
	}
	return "", false
}

func (r Role) String() string {
	return string(r)
}

// Principal is the verified identity attached to a request. It is
// immutable; middleware builds it once from a valid token and handlers
// only read it.
type Principal struct {
	ID   int64
	Role Role
}

// CanAccess reports whether the principal may touch a resource owned by
// the given user id. Admins bypass ownership unconditionally.
func (p Principal) CanAccess(ownerID int64) bool {
	if p.Role == RoleAdmin {
		return true
	}
	return p.ID == ownerID
}
