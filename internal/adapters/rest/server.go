package rest

import (
	"github.com/philly/rolekeeper/internal/adapters/api"
)

// Server combines all handlers to implement api.ServerInterface
type Server struct {
	*UserHandler
	*HealthHandler
	*RolesHandler
	*AuditHandler
}

// NewServer creates a new server that implements api.ServerInterface
func NewServer(
	userHandler *UserHandler,
	healthHandler *HealthHandler,
	rolesHandler *RolesHandler,
	auditHandler *AuditHandler,
) api.ServerInterface {
	return &Server{
		UserHandler:   userHandler,
		HealthHandler: healthHandler,
		RolesHandler:  rolesHandler,
		AuditHandler:  auditHandler,
	}
}

// Ensure Server implements api.ServerInterface
var _ api.ServerInterface = (*Server)(nil)

// The methods are already implemented by the embedded handlers:
// - GetLiveness, GetReadiness (from HealthHandler)
// - GetCurrentUser (from UserHandler)
// - ListRoles, GetRoleCounts, ListRoleAssignments, AssignUserRole, RemoveUserRole,
//   DowngradeUserRole, BulkAssignRoles, Search (from RolesHandler)
// - ListAuditEntries (from AuditHandler)
