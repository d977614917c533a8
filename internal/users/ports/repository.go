package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/users/domain"
)

// UserRepository looks up and provisions local user rows. The Find methods
// return nil, nil when no row matches.
type UserRepository interface {
	// Create inserts the user unless one with the same ExternalID exists, and
	// returns the stored row either way.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*domain.User, error)
}
