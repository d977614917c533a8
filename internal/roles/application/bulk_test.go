package application_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/platform/apperror"
	"github.com/philly/rolekeeper/internal/roles/application"
	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkAssign_AppliesInInputOrder(t *testing.T) {
	owner := uuid.New()
	targets := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	roles := map[uuid.UUID]domain.Role{owner: domain.RoleOwner, targets[2]: domain.RoleModerator}
	h := newHarness(t, roles)

	result, err := h.bulk.BulkAssign(context.Background(), application.BulkAssignCommand{
		ActorID: owner,
		Targets: targets,
		Role:    domain.RoleModerator,
		Reason:  "quarterly rotation",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.BatchID)
	assert.Empty(t, result.Failed)
	require.Len(t, result.Succeeded, len(targets))
	for i, item := range result.Succeeded {
		assert.Equal(t, targets[i], item.TargetID)
		assert.Equal(t, domain.RoleModerator, h.roleOf(t, item.TargetID))
	}
	assert.Equal(t, application.OutcomeUnchanged, result.Succeeded[2].Outcome)
	assert.Equal(t, application.OutcomeApplied, result.Succeeded[0].Outcome)

	entries := h.audit.Entries()
	require.Len(t, entries, len(targets)-1)
	for _, e := range entries {
		assert.Equal(t, result.BatchID.String(), e.Metadata["batch_id"])
		assert.Equal(t, "quarterly rotation", e.Metadata["reason"])
	}
}

func TestBulkAssign_SoleOwnerInBatchRejectsEverything(t *testing.T) {
	o1, u2 := uuid.New(), uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{o1: domain.RoleOwner, u2: domain.RoleModerator})

	result, err := h.bulk.BulkAssign(context.Background(), application.BulkAssignCommand{
		ActorID:   o1,
		Targets:   []uuid.UUID{o1, u2},
		Role:      domain.RoleUser,
		Confirmed: true,
	})

	assert.Nil(t, result)
	require.ErrorIs(t, err, application.ErrLastOwnerProtected)
	assert.Equal(t, domain.RoleOwner, h.roleOf(t, o1))
	assert.Equal(t, domain.RoleModerator, h.roleOf(t, u2))
	assert.Equal(t, int64(0), h.store.writes.Load())
	assert.Equal(t, 0, h.audit.Len())
}

func TestBulkAssign_AllOwnersInBatchRejected(t *testing.T) {
	o1, o2, admin := uuid.New(), uuid.New(), uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{o1: domain.RoleOwner, o2: domain.RoleOwner, admin: domain.RoleAdmin})

	_, err := h.bulk.BulkAssign(context.Background(), application.BulkAssignCommand{
		ActorID: admin,
		Targets: []uuid.UUID{o1, o2},
		Role:    domain.RoleAdmin,
	})

	require.ErrorIs(t, err, application.ErrLastOwnerProtected)
	appErr, ok := apperror.From(err)
	require.True(t, ok)
	assert.Equal(t, 2, appErr.Details.(map[string]any)["owners_in_batch"])
	assert.Equal(t, 2, h.ownerCount(t))
}

func TestBulkAssign_OneOfSeveralOwnersIsAllowed(t *testing.T) {
	o1, o2 := uuid.New(), uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{o1: domain.RoleOwner, o2: domain.RoleOwner})

	result, err := h.bulk.BulkAssign(context.Background(), application.BulkAssignCommand{
		ActorID: o1,
		Targets: []uuid.UUID{o2},
		Role:    domain.RoleAdmin,
	})

	require.NoError(t, err)
	require.Len(t, result.Succeeded, 1)
	assert.Equal(t, 1, h.ownerCount(t))
}

func TestBulkAssign_SelfDemotion(t *testing.T) {
	o1, o2, u3 := uuid.New(), uuid.New(), uuid.New()
	roles := map[uuid.UUID]domain.Role{o1: domain.RoleOwner, o2: domain.RoleOwner}

	t.Run("unconfirmed rejects the batch", func(t *testing.T) {
		h := newHarness(t, roles)

		_, err := h.bulk.BulkAssign(context.Background(), application.BulkAssignCommand{
			ActorID: o1,
			Targets: []uuid.UUID{u3, o1},
			Role:    domain.RoleAdmin,
		})

		require.ErrorIs(t, err, application.ErrSelfDemotionNeedsConfirmation)
		assert.Equal(t, domain.RoleOwner, h.roleOf(t, o1))
		assert.Equal(t, domain.NoRole, h.roleOf(t, u3))
		assert.Equal(t, 0, h.audit.Len())
	})

	t.Run("confirmed applies", func(t *testing.T) {
		h := newHarness(t, roles)

		result, err := h.bulk.BulkAssign(context.Background(), application.BulkAssignCommand{
			ActorID:   o1,
			Targets:   []uuid.UUID{u3, o1},
			Role:      domain.RoleAdmin,
			Confirmed: true,
		})

		require.NoError(t, err)
		assert.Len(t, result.Succeeded, 2)
		assert.Equal(t, domain.RoleAdmin, h.roleOf(t, o1))
		assert.Equal(t, domain.RoleAdmin, h.roleOf(t, u3))
	})
}

func TestBulkAssign_ItemFailuresAreIsolated(t *testing.T) {
	owner := uuid.New()
	good1, bad, good2 := uuid.New(), uuid.New(), uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner})
	h.store.failFor = bad

	result, err := h.bulk.BulkAssign(context.Background(), application.BulkAssignCommand{
		ActorID: owner,
		Targets: []uuid.UUID{good1, bad, good2},
		Role:    domain.RoleUser,
	})

	require.NoError(t, err)
	require.Len(t, result.Succeeded, 2)
	assert.Equal(t, good1, result.Succeeded[0].TargetID)
	assert.Equal(t, good2, result.Succeeded[1].TargetID)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, bad, result.Failed[0].TargetID)
	assert.Equal(t, apperror.BusinessCodeStoreFailure, result.Failed[0].Code)

	assert.Equal(t, domain.RoleUser, h.roleOf(t, good1))
	assert.Equal(t, domain.NoRole, h.roleOf(t, bad))
	assert.Equal(t, domain.RoleUser, h.roleOf(t, good2))
	assert.Equal(t, 2, h.audit.Len())
}

func TestBulkAssign_Validation(t *testing.T) {
	owner := uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner})
	dup := uuid.New()

	tooMany := make([]uuid.UUID, 11)
	for i := range tooMany {
		tooMany[i] = uuid.New()
	}

	tests := []struct {
		name string
		cmd  application.BulkAssignCommand
	}{
		{"no targets", application.BulkAssignCommand{ActorID: owner, Role: domain.RoleUser}},
		{"duplicate targets", application.BulkAssignCommand{ActorID: owner, Targets: []uuid.UUID{dup, dup}, Role: domain.RoleUser}},
		{"unknown role", application.BulkAssignCommand{ActorID: owner, Targets: []uuid.UUID{dup}, Role: "root"}},
		{"nil target", application.BulkAssignCommand{ActorID: owner, Targets: []uuid.UUID{uuid.New(), uuid.Nil}, Role: domain.RoleAdmin}},
		{"over the target limit", application.BulkAssignCommand{ActorID: owner, Targets: tooMany, Role: domain.RoleUser}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.bulk.BulkAssign(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, application.ErrInvalidCommand)
		})
	}
	assert.Equal(t, int64(0), h.store.writes.Load())
	assert.Equal(t, domain.NoRole, h.roleOf(t, uuid.Nil))
}

func TestBulkAssign_ConfirmedSelfDemotionBelowBulkPermission(t *testing.T) {
	o1, o2 := uuid.New(), uuid.New()

	// More targets than the harness concurrency, with the actor first.
	targets := []uuid.UUID{o1}
	for range 9 {
		targets = append(targets, uuid.New())
	}

	for range 5 {
		h := newHarness(t, map[uuid.UUID]domain.Role{o1: domain.RoleOwner, o2: domain.RoleOwner})

		result, err := h.bulk.BulkAssign(context.Background(), application.BulkAssignCommand{
			ActorID:   o1,
			Targets:   targets,
			Role:      domain.RoleModerator,
			Confirmed: true,
		})

		require.NoError(t, err)
		assert.Empty(t, result.Failed)
		require.Len(t, result.Succeeded, len(targets))
		assert.Equal(t, o1, result.Succeeded[0].TargetID)
		for _, target := range targets {
			assert.Equal(t, domain.RoleModerator, h.roleOf(t, target))
		}
		assert.Equal(t, len(targets), h.audit.Len())
	}
}

func TestBulkAssign_RequiresBulkPermission(t *testing.T) {
	owner, moderator := uuid.New(), uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner, moderator: domain.RoleModerator})

	_, err := h.bulk.BulkAssign(context.Background(), application.BulkAssignCommand{
		ActorID: moderator,
		Targets: []uuid.UUID{uuid.New()},
		Role:    domain.RoleUser,
	})

	assert.ErrorIs(t, err, application.ErrInsufficientRole)
}
