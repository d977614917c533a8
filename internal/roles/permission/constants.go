package permission

import (
	"sort"
	"strings"
)

// Permission represents a structured permission with metadata
type Permission struct {
	ID          string // The permission identifier (e.g., "roles:assign")
	Resource    string // The resource being accessed (e.g., "roles")
	Action      string // The action being performed (e.g., "assign")
	Scope       string // Optional scope qualifier (e.g., "owner", "self")
	Description string // Human-readable description
}

// Permission ID constants
const (
	// Role management
	RolesRead       = "roles:read"
	RolesAssign     = "roles:assign"
	RolesRevoke     = "roles:revoke"
	RolesBulkAssign = "roles:bulk-assign"
	RolesGrantOwner = "roles:grant:owner"

	// Audit trail
	AuditRead = "audit:read"

	// Users
	UsersReadAny  = "users:read:any"
	UsersReadSelf = "users:read:self"

	// Platform
	SettingsPlatform = "settings:platform"
)

// registry holds all structured Permission objects
var registry = map[string]*Permission{
	RolesRead:       {ID: RolesRead, Resource: "roles", Action: "read", Description: "View role definitions, counts and assignments"},
	RolesAssign:     {ID: RolesAssign, Resource: "roles", Action: "assign", Description: "Assign, change or downgrade a user's role"},
	RolesRevoke:     {ID: RolesRevoke, Resource: "roles", Action: "revoke", Description: "Remove a user's role assignment"},
	RolesBulkAssign: {ID: RolesBulkAssign, Resource: "roles", Action: "bulk-assign", Description: "Apply one role change to many users"},
	RolesGrantOwner: {ID: RolesGrantOwner, Resource: "roles", Action: "grant", Scope: "owner", Description: "Grant the owner role"},

	AuditRead: {ID: AuditRead, Resource: "audit", Action: "read", Description: "Query the audit trail"},

	UsersReadAny:  {ID: UsersReadAny, Resource: "users", Action: "read", Scope: "any", Description: "Read any user profile"},
	UsersReadSelf: {ID: UsersReadSelf, Resource: "users", Action: "read", Scope: "self", Description: "Read own user profile"},

	SettingsPlatform: {ID: SettingsPlatform, Resource: "settings", Action: "platform", Description: "Manage platform-wide settings"},
}

// Get returns the Permission for an ID, or nil when it is not registered.
func Get(id string) *Permission {
	return registry[id]
}

// MustGet returns a Permission by ID; unknown IDs are programming errors.
func MustGet(id string) *Permission {
	perm, exists := registry[id]
	if !exists {
		panic("permission not found: " + id)
	}
	return perm
}

// All returns all registered permissions ordered by ID.
func All() []*Permission {
	result := make([]*Permission, 0, len(registry))
	for _, perm := range registry {
		result = append(result, perm)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// AllIDs returns all registered permission IDs ordered.
func AllIDs() []string {
	perms := All()
	ids := make([]string, len(perms))
	for i, perm := range perms {
		ids[i] = perm.ID
	}
	return ids
}

// ByResource returns all permissions for a specific resource
func ByResource(resource string) []*Permission {
	var result []*Permission
	for _, perm := range All() {
		if perm.Resource == resource {
			result = append(result, perm)
		}
	}
	return result
}

// IsSelfScoped returns true if the permission only covers the caller's own data
func IsSelfScoped(permissionID string) bool {
	return strings.HasSuffix(permissionID, ":self")
}

// IsValid checks if a permission ID exists in the registry
func IsValid(permissionID string) bool {
	_, exists := registry[permissionID]
	return exists
}
