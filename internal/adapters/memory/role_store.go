// Package memory holds in-process implementations of the storage ports. They
// back the service tests and the single-node development mode.
package memory

import (
	"bytes"
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/platform/pagination"
	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/philly/rolekeeper/internal/roles/ports"
)

// RoleStore keeps assignments in a map. Guarded units run one at a time
// against a staged copy that replaces the live map only when the unit
// succeeds.
type RoleStore struct {
	guard       sync.Mutex   // serializes guarded units
	mu          sync.RWMutex // protects assignments
	assignments map[uuid.UUID]domain.Assignment
}

var _ ports.RoleStore = (*RoleStore)(nil)

func NewRoleStore() *RoleStore {
	return &RoleStore{assignments: make(map[uuid.UUID]domain.Assignment)}
}

// Load stores assignments directly, bypassing the guard.
func (s *RoleStore) Load(assignments ...*domain.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range assignments {
		s.assignments[a.UserID] = *a
	}
}

func (s *RoleStore) GetRole(ctx context.Context, userID uuid.UUID) (*domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getRole(s.assignments, userID)
}

func (s *RoleStore) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return countByRole(s.assignments, role), nil
}

func (s *RoleStore) CountsByRole(ctx context.Context) (map[domain.Role]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.Role]int, len(domain.AllRoles()))
	for _, r := range domain.AllRoles() {
		counts[r] = 0
	}
	for _, a := range s.assignments {
		counts[a.Role]++
	}
	return counts, nil
}

func (s *RoleStore) ListByRole(ctx context.Context, role domain.Role, p pagination.Pagination) (pagination.Result[*domain.Assignment], error) {
	s.mu.RLock()
	holders := make([]*domain.Assignment, 0)
	for _, a := range s.assignments {
		if a.Role == role {
			holder := a
			holders = append(holders, &holder)
		}
	}
	s.mu.RUnlock()

	sort.Slice(holders, func(i, j int) bool {
		a, b := holders[i], holders[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return bytes.Compare(a.UserID[:], b.UserID[:]) < 0
	})
	return pagination.Slice(holders, p), nil
}

func (s *RoleStore) Guarded(ctx context.Context, fn func(ctx context.Context, tx ports.RoleTx) error) error {
	s.guard.Lock()
	defer s.guard.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	tx := &roleTx{staged: maps.Clone(s.assignments)}
	s.mu.RUnlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if !tx.dirty {
		return nil
	}

	s.mu.Lock()
	s.assignments = tx.staged
	s.mu.Unlock()
	return nil
}

type roleTx struct {
	staged map[uuid.UUID]domain.Assignment
	dirty  bool
}

func (t *roleTx) GetRole(ctx context.Context, userID uuid.UUID) (*domain.Assignment, error) {
	return getRole(t.staged, userID)
}

func (t *roleTx) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	return countByRole(t.staged, role), nil
}

func (t *roleTx) Upsert(ctx context.Context, userID uuid.UUID, role domain.Role, at time.Time) (domain.Role, error) {
	t.dirty = true
	existing, ok := t.staged[userID]
	if !ok {
		t.staged[userID] = *domain.NewAssignment(userID, role, at)
		return domain.NoRole, nil
	}

	previous := existing.Role
	existing.Reassign(role, at)
	t.staged[userID] = existing
	return previous, nil
}

func (t *roleTx) Remove(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	existing, ok := t.staged[userID]
	if !ok {
		return domain.NoRole, ports.ErrAssignmentNotFound
	}
	t.dirty = true
	delete(t.staged, userID)
	return existing.Role, nil
}

func getRole(m map[uuid.UUID]domain.Assignment, userID uuid.UUID) (*domain.Assignment, error) {
	a, ok := m[userID]
	if !ok {
		return nil, ports.ErrAssignmentNotFound
	}
	return &a, nil
}

func countByRole(m map[uuid.UUID]domain.Assignment, role domain.Role) int {
	n := 0
	for _, a := range m {
		if a.Role == role {
			n++
		}
	}
	return n
}
