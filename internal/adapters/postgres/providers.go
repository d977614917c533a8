package postgres

import (
	"github.com/google/wire"
	auditports "github.com/philly/rolekeeper/internal/audit/ports"
	"github.com/philly/rolekeeper/internal/roles/ports"
)

// ProviderSet is the wire provider set for postgres repositories
var ProviderSet = wire.NewSet(
	NewRoleStore,
	wire.Bind(new(ports.RoleStore), new(*RoleStore)),
	NewAuditRepository,
	wire.Bind(new(auditports.Repository), new(*AuditRepository)),
	NewUserRepository,
	// NewUserRepository already returns ports.UserRepository interface
)
