package seeder_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/adapters/memory"
	auditapp "github.com/philly/rolekeeper/internal/audit/application"
	"github.com/philly/rolekeeper/internal/platform/eventbus"
	"github.com/philly/rolekeeper/internal/platform/validator"
	"github.com/philly/rolekeeper/internal/roles/application"
	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/philly/rolekeeper/internal/roles/seeder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements the logger.Logger interface for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any) {}

func TestOwnerSeeder_IsIdempotent(t *testing.T) {
	store := memory.NewRoleStore()
	auditLog := memory.NewAuditLog()
	log := &mockLogger{}
	bus := eventbus.NewBus(log)
	recorder := auditapp.NewRecorder(auditLog, log, nil, auditapp.RecorderConfig{})
	svc := application.NewAssignmentService(store, recorder, bus, log, nil, validator.New())

	first := uuid.New()
	ctx := context.Background()

	require.NoError(t, seeder.NewOwnerSeeder(svc, first, log).Seed(ctx))
	require.NoError(t, seeder.NewOwnerSeeder(svc, first, log).Seed(ctx))
	require.NoError(t, seeder.NewOwnerSeeder(svc, uuid.New(), log).Seed(ctx))

	n, err := store.CountByRole(ctx, domain.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	a, err := store.GetRole(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, a.Role)
	assert.Equal(t, 1, auditLog.Len())

	drainCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, bus.Drain(drainCtx))
}
