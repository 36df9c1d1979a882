package permissions

import "fmt"

type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleOwner      Role = "owner"
)

// Roles lists every valid role, highest privilege first.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleOwner}

func ParseRole(value string) (Role, error) {
	switch role := Role(value); role {
	case RoleSuperAdmin, RoleAdmin, RoleOwner:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

func (r Role) String() string {
	return string(r)
}

// IsPrivileged reports whether the role sees every row without ownership scoping.
func (r Role) IsPrivileged() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

type Resource string

const (
	ResourceUser   Resource = "user"
	ResourceHostel Resource = "hostel"
	ResourceRoom   Resource = "room"
	ResourceStats  Resource = "stats"
)

type Action string

const (
	ActionList   Action = "list"
	ActionGet    Action = "get"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Allowed is the role gate evaluated before any handler runs.
func Allowed(role Role, resource Resource, action Action) bool {
	switch resource {
	case ResourceUser, ResourceStats:
		return role.IsPrivileged()
	case ResourceHostel:
		switch action {
		case ActionDelete:
			return role.IsPrivileged()
		case ActionList, ActionGet, ActionCreate, ActionUpdate:
			return isKnown(role)
		}
	case ResourceRoom:
		switch action {
		case ActionList, ActionGet, ActionCreate, ActionUpdate, ActionDelete:
			return isKnown(role)
		}
	}

	return false
}

func isKnown(role Role) bool {
	_, err := ParseRole(string(role))

	return err == nil
}
