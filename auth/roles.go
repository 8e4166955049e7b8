package auth

import (
	"slices"
	"strings"
)

// UserRole is the user's role. The set of roles is closed.
type UserRole string

const (
	// RoleSuperAdmin is the bootstrap operator role
	RoleSuperAdmin UserRole = "super_admin"
	// RoleAdmin manages programs, enrollments and content
	RoleAdmin UserRole = "admin"
	// RoleStudent enrolls in programs
	RoleStudent UserRole = "student"
)

var allRoles = []UserRole{RoleSuperAdmin, RoleAdmin, RoleStudent}

// ParseRole returns the role named by value or ErrUnknownRole.
func ParseRole(value string) (UserRole, error) {
	role := UserRole(strings.ToLower(strings.TrimSpace(value)))
	if !role.IsValid() {
		return "", ErrUnknownRole
	}
	return role, nil
}

// IsValid reports whether r is one of the known roles
func (r UserRole) IsValid() bool {
	return slices.Contains(allRoles, r)
}

// IsAdministrative reports whether r grants access to admin operations
func (r UserRole) IsAdministrative() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin:
		return true
	case RoleStudent:
		return false
	default:
		return false
	}
}

// InitialStatus is the status a freshly registered user of role r starts in.
func (r UserRole) InitialStatus() UserStatus {
	switch r {
	case RoleSuperAdmin, RoleAdmin:
		return UserStatusApproved
	case RoleStudent:
		return UserStatusPending
	default:
		return UserStatusPending
	}
}

func (r UserRole) String() string {
	return string(r)
}

// UserStatus is the approval status of a user. The set of statuses is closed.
type UserStatus string

const (
	// UserStatusPending awaits an admin decision
	UserStatusPending UserStatus = "pending"
	// UserStatusApproved may log in and use gated operations
	UserStatusApproved UserStatus = "approved"
	// UserStatusRejected was turned down by an admin
	UserStatusRejected UserStatus = "rejected"
)

var allStatuses = []UserStatus{UserStatusPending, UserStatusApproved, UserStatusRejected}

// ParseUserStatus returns the status named by value or ErrUnknownStatus.
func ParseUserStatus(value string) (UserStatus, error) {
	status := UserStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", ErrUnknownStatus
	}
	return status, nil
}

func (s UserStatus) IsValid() bool {
	return slices.Contains(allStatuses, s)
}

func (s UserStatus) String() string {
	return string(s)
}

// RoleSet is an allow-list of roles attached to a protected operation.
type RoleSet []UserRole

// Roles builds a RoleSet
func Roles(roles ...UserRole) RoleSet {
	return RoleSet(roles)
}

// AnyRole allows every known role
func AnyRole() RoleSet {
	return slices.Clone(RoleSet(allRoles))
}

// AdminRoles allows admin and super_admin
func AdminRoles() RoleSet {
	return RoleSet{RoleAdmin, RoleSuperAdmin}
}

// Allows reports whether role is in the set. Unknown roles are never allowed.
func (s RoleSet) Allows(role UserRole) bool {
	if !role.IsValid() {
		return false
	}
	return slices.Contains(s, role)
}
