package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/platform/pagination"
	"github.com/philly/rolekeeper/internal/roles/domain"
)

// Store errors (canonical errors for the store contract)
var (
	// ErrAssignmentNotFound is returned when a user holds no role
	ErrAssignmentNotFound = errors.New("role assignment not found")
)

// RoleReader is the read side shared by the store and its atomic units.
type RoleReader interface {
	// GetRole returns ErrAssignmentNotFound when the user has no role.
	GetRole(ctx context.Context, userID uuid.UUID) (*domain.Assignment, error)
	CountByRole(ctx context.Context, role domain.Role) (int, error)
}

// RoleTx is the view of the store inside one atomic unit. Reads observe the
// unit's own writes, and nothing written is visible outside until the unit
// commits.
type RoleTx interface {
	RoleReader

	// Upsert sets the user's role and returns the role held before, or
	// domain.NoRole when the user had none.
	Upsert(ctx context.Context, userID uuid.UUID, role domain.Role, at time.Time) (domain.Role, error)

	// Remove deletes the user's assignment and returns the removed role. It
	// returns ErrAssignmentNotFound when there is nothing to remove.
	Remove(ctx context.Context, userID uuid.UUID) (domain.Role, error)
}

// RoleStore is the persistent mapping from user to role.
type RoleStore interface {
	RoleReader

	// CountsByRole returns a count for every catalog role, zero included.
	CountsByRole(ctx context.Context) (map[domain.Role]int, error)

	// ListByRole returns one page of holders ordered by created_at, user_id.
	ListByRole(ctx context.Context, role domain.Role, p pagination.Pagination) (pagination.Result[*domain.Assignment], error)

	// Guarded runs fn as a single atomic unit. Guarded units that touch the
	// owner role are serialized against each other, so an owner count read
	// inside fn stays true until fn returns. If fn returns an error nothing
	// it wrote is kept.
	Guarded(ctx context.Context, fn func(ctx context.Context, tx RoleTx) error) error
}

// CountsCache caches the result of RoleStore.CountsByRole. Every Invalidate
// starts a new generation; a Set carrying an older generation is dropped, so
// counts read before a change cannot be cached after it.
type CountsCache interface {
	// Get reports false on a miss, along with the generation to fill.
	Get(ctx context.Context) (counts map[domain.Role]int, generation int64, ok bool, err error)
	Set(ctx context.Context, generation int64, counts map[domain.Role]int) error
	Invalidate(ctx context.Context) error
}
