package auth

import "strings"

// Policy is the access requirement attached to a protected operation.
// An empty role set denies everyone.
type Policy struct {
	Name            string
	Roles           RoleSet
	RequireApproved bool
}

// AuthenticatedPolicy admits any known role regardless of status
func AuthenticatedPolicy() Policy {
	return Policy{Name: "authenticated", Roles: AnyRole()}
}

// ApprovedPolicy admits any known role with approved status
func ApprovedPolicy() Policy {
	return Policy{Name: "approved", Roles: AnyRole(), RequireApproved: true}
}

// AdminPolicy admits approved admins and super admins
func AdminPolicy() Policy {
	return Policy{Name: "admin", Roles: AdminRoles(), RequireApproved: true}
}

func SuperAdminPolicy() Policy {
	return Policy{Name: "super_admin", Roles: Roles(RoleSuperAdmin), RequireApproved: true}
}

// StudentPolicy admits approved students
func StudentPolicy() Policy {
	return Policy{Name: "student", Roles: Roles(RoleStudent), RequireApproved: true}
}

// Evaluate checks role membership first and approval second.
func (p Policy) Evaluate(user *User) error {
	if user == nil {
		return ErrUnknownSubject
	}

	if !p.Roles.Allows(user.Role) {
		return ErrInsufficientRole
	}

	if !p.RequireApproved {
		return nil
	}

	switch user.Status {
	case UserStatusApproved:
		return nil
	case UserStatusPending, UserStatusRejected:
		return ErrAccountNotApproved
	default:
		return ErrAccountNotApproved
	}
}

func (p Policy) String() string {
	roles := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		roles = append(roles, r.String())
	}
	out := p.Name + "[" + strings.Join(roles, ",") + "]"
	if p.RequireApproved {
		out += "+approved"
	}
	return out
}
