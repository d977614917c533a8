package domain

import (
	"slices"

	"github.com/philly/rolekeeper/internal/roles/permission"
)

// Definition describes a catalog role and its permission matrix.
type Definition struct {
	Role           Role
	Name           string
	Description    string
	HierarchyIndex int
	Permissions    []string
}

var definitions = map[Role]Definition{
	RoleOwner: {
		Role:        RoleOwner,
		Name:        "Owner",
		Description: "Full control of the platform, including granting ownership",
		Permissions: permission.AllIDs(),
	},
	RoleAdmin: {
		Role:        RoleAdmin,
		Name:        "Admin",
		Description: "Manages users and their roles below owner",
		Permissions: []string{
			permission.RolesRead,
			permission.RolesAssign,
			permission.RolesRevoke,
			permission.RolesBulkAssign,
			permission.AuditRead,
			permission.UsersReadAny,
			permission.UsersReadSelf,
		},
	},
	RoleModerator: {
		Role:        RoleModerator,
		Name:        "Moderator",
		Description: "Reviews role assignments and the audit trail",
		Permissions: []string{
			permission.RolesRead,
			permission.AuditRead,
			permission.UsersReadAny,
			permission.UsersReadSelf,
		},
	},
	RoleUser: {
		Role:        RoleUser,
		Name:        "User",
		Description: "Regular member with access to their own profile",
		Permissions: []string{
			permission.UsersReadSelf,
		},
	},
}

// DefinitionOf returns the catalog entry for r. Unknown roles yield a zero
// Definition with HierarchyIndex -1.
func DefinitionOf(r Role) Definition {
	def, ok := definitions[r]
	if !ok {
		return Definition{Role: r, HierarchyIndex: -1}
	}
	def.HierarchyIndex = r.HierarchyIndex()
	def.Permissions = slices.Clone(def.Permissions)
	return def
}

// Catalog returns every role definition, most privileged first.
func Catalog() []Definition {
	out := make([]Definition, 0, len(hierarchy))
	for _, r := range hierarchy {
		out = append(out, DefinitionOf(r))
	}
	return out
}

// Can reports whether r grants the permission.
func (r Role) Can(permissionID string) bool {
	def, ok := definitions[r]
	if !ok {
		return false
	}
	return slices.Contains(def.Permissions, permissionID)
}
