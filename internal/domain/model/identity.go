package model

import "strings"

// Role is the caller's authorization level.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// ParseRole converts a token claim into Role.
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return r, true
	}
	return "", false
}

// Identity is the authenticated caller.
type Identity struct {
	UserID int64
	Role   Role
}

// IsStaff reports whether the caller operates the store.
func (i Identity) IsStaff() bool {
	return i.Role == RoleStaff || i.Role == RoleAdmin
}
