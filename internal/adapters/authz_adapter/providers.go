package authz_adapter

import (
	"github.com/google/wire"
	"github.com/philly/rolekeeper/internal/adapters/rest"
	"github.com/philly/rolekeeper/internal/adapters/rest/middleware"
)

// ProviderSet is the wire provider set for the authorization adapter
var ProviderSet = wire.NewSet(
	NewRoleAuthorizer,
	// Bind the RoleAuthorizer to the interfaces of its HTTP consumers
	wire.Bind(new(middleware.PermissionChecker), new(*RoleAuthorizer)),
	wire.Bind(new(rest.RoleResolver), new(*RoleAuthorizer)),
)
