package auth

import (
	"github.com/mbdelmundo/thesisdesk/internal/app/models"
)

// RoleSet describes which roles may pass an authorization gate. The
// zero value allows nothing; use AnyRole or OneOf to build a set.
type RoleSet struct {
	any   bool
	roles map[models.Role]struct{}
}

// AnyRole allows every authenticated account regardless of role
func AnyRole() RoleSet {
	return RoleSet{any: true}
}

// OneOf allows exactly the given roles
func OneOf(roles ...models.Role) RoleSet {
	set := RoleSet{roles: make(map[models.Role]struct{}, len(roles))}
	for _, role := range roles {
		set.roles[role] = struct{}{}
	}
	return set
}

// Contains reports whether the role passes this gate
func (s RoleSet) Contains(role models.Role) bool {
	if s.any {
		return true
	}
	_, ok := s.roles[role]
	return ok
}

// Roles returns the allowed roles, nil when the set allows any role
func (s RoleSet) Roles() []models.Role {
	if s.any {
		return nil
	}
	roles := make([]models.Role, 0, len(s.roles))
	for role := range s.roles {
		roles = append(roles, role)
	}
	return roles
}

// Staff gates the administrative surfaces shared by STAFF and ADMIN
func Staff() RoleSet {
	return OneOf(models.RoleStaff, models.RoleAdmin)
}

// AdminOnly gates destructive directory operations
func AdminOnly() RoleSet {
	return OneOf(models.RoleAdmin)
}

// Advising gates the advisee workflow surfaces
func Advising() RoleSet {
	return OneOf(models.RoleFaculty, models.RoleStaff, models.RoleAdmin)
}
