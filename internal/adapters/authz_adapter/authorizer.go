package authz_adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/philly/rolekeeper/internal/roles/ports"
)

// RoleAuthorizer bridges the role store with the HTTP authorization layer.
// The caller's role is read from the store on every check; token claims are
// never trusted for privilege.
type RoleAuthorizer struct {
	roles ports.RoleReader
}

// NewRoleAuthorizer creates a new authorization adapter
func NewRoleAuthorizer(store ports.RoleStore) *RoleAuthorizer {
	return &RoleAuthorizer{
		roles: store,
	}
}

// RoleOf returns the user's current role, or domain.NoRole when unassigned.
func (a *RoleAuthorizer) RoleOf(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	assignment, err := a.roles.GetRole(ctx, userID)
	if errors.Is(err, ports.ErrAssignmentNotFound) {
		return domain.NoRole, nil
	}
	if err != nil {
		return domain.NoRole, fmt.Errorf("failed to load role: %w", err)
	}
	return assignment.Role, nil
}

// HasPermission checks the permission matrix of the user's current role.
func (a *RoleAuthorizer) HasPermission(ctx context.Context, userID uuid.UUID, permissionID string) (bool, error) {
	role, err := a.RoleOf(ctx, userID)
	if err != nil {
		return false, err
	}
	return role.Can(permissionID), nil
}
