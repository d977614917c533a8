package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/users/domain"
	"github.com/philly/rolekeeper/internal/users/ports"
)

// UserRepository keeps users in maps keyed by id and external id.
type UserRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]domain.User
	byExternal map[string]uuid.UUID
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[uuid.UUID]domain.User),
		byExternal: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byExternal[user.ExternalID]; ok {
		existing := r.byID[id]
		return &existing, nil
	}
	r.byID[user.ID] = *user
	r.byExternal[user.ExternalID] = user.ID
	stored := *user
	return &stored, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExternal[externalID]
	if !ok {
		return nil, nil
	}
	user := r.byID[id]
	return &user, nil
}
