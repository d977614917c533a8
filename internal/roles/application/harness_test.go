package application_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/adapters/memory"
	auditapp "github.com/philly/rolekeeper/internal/audit/application"
	"github.com/philly/rolekeeper/internal/platform/eventbus"
	"github.com/philly/rolekeeper/internal/platform/validator"
	"github.com/philly/rolekeeper/internal/roles/application"
	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/philly/rolekeeper/internal/roles/ports"
	"github.com/stretchr/testify/require"
)

// mockLogger implements the logger.Logger interface for testing
type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any) {}

func (m *mockLogger) warnings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.warns...)
}

// countingStore counts writes made through committed and rolled back units.
type countingStore struct {
	*memory.RoleStore
	writes atomic.Int64
	// failFor makes Upsert fail for one target.
	failFor uuid.UUID
}

func (s *countingStore) Guarded(ctx context.Context, fn func(ctx context.Context, tx ports.RoleTx) error) error {
	return s.RoleStore.Guarded(ctx, func(ctx context.Context, tx ports.RoleTx) error {
		return fn(ctx, &countingTx{RoleTx: tx, store: s})
	})
}

type countingTx struct {
	ports.RoleTx
	store *countingStore
}

func (t *countingTx) Upsert(ctx context.Context, userID uuid.UUID, role domain.Role, at time.Time) (domain.Role, error) {
	if t.store.failFor != uuid.Nil && userID == t.store.failFor {
		return domain.NoRole, errConnectionReset
	}
	t.store.writes.Add(1)
	return t.RoleTx.Upsert(ctx, userID, role, at)
}

func (t *countingTx) Remove(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	t.store.writes.Add(1)
	return t.RoleTx.Remove(ctx, userID)
}

type connectionReset struct{}

func (connectionReset) Error() string { return "connection reset by peer" }

var errConnectionReset error = connectionReset{}

type harness struct {
	store  *countingStore
	audit  *memory.AuditLog
	bus    *eventbus.Bus
	logger *mockLogger
	svc    *application.AssignmentService
	bulk   *application.BulkCoordinator
	query  *application.QueryService
}

var epoch = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return epoch.Add(time.Duration(n) * time.Second)
	}
}

func newHarness(t *testing.T, assignments map[uuid.UUID]domain.Role) *harness {
	t.Helper()
	return newHarnessWithCache(t, assignments, nil)
}

func newHarnessWithCache(t *testing.T, assignments map[uuid.UUID]domain.Role, cache ports.CountsCache) *harness {
	t.Helper()

	store := &countingStore{RoleStore: memory.NewRoleStore()}
	for id, role := range assignments {
		store.Load(domain.NewAssignment(id, role, epoch))
	}

	log := &mockLogger{}
	bus := eventbus.NewBus(log)
	auditLog := memory.NewAuditLog()
	clock := tickingClock()
	recorder := auditapp.NewRecorder(auditLog, log, nil, auditapp.RecorderConfig{InitialInterval: time.Millisecond}).
		WithClock(clock)
	v := validator.New()

	svc := application.NewAssignmentService(store, recorder, bus, log, nil, v).WithClock(clock)
	bulk := application.NewBulkCoordinator(store, svc, log, nil, v, application.BulkConfig{Concurrency: 4, MaxTargets: 10})
	query := application.NewQueryService(store, cache, auditapp.NewService(auditLog), bus, log, nil, application.QueryConfig{})

	h := &harness{store: store, audit: auditLog, bus: bus, logger: log, svc: svc, bulk: bulk, query: query}
	t.Cleanup(h.drain(t))
	return h
}

func (h *harness) drain(t *testing.T) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, h.bus.Drain(ctx))
	}
}

func (h *harness) roleOf(t *testing.T, id uuid.UUID) domain.Role {
	t.Helper()
	a, err := h.store.GetRole(context.Background(), id)
	if err != nil {
		require.ErrorIs(t, err, ports.ErrAssignmentNotFound)
		return domain.NoRole
	}
	return a.Role
}

func (h *harness) ownerCount(t *testing.T) int {
	t.Helper()
	n, err := h.store.CountByRole(context.Background(), domain.RoleOwner)
	require.NoError(t, err)
	return n
}

func (h *harness) snapshot(t *testing.T) map[domain.Role]int {
	t.Helper()
	counts, err := h.store.CountsByRole(context.Background())
	require.NoError(t, err)
	return counts
}
