package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	auditdomain "github.com/philly/rolekeeper/internal/audit/domain"
	"github.com/philly/rolekeeper/internal/platform/apperror"
	"github.com/philly/rolekeeper/internal/platform/eventbus"
	"github.com/philly/rolekeeper/internal/platform/events"
	"github.com/philly/rolekeeper/internal/platform/pagination"
	"github.com/philly/rolekeeper/internal/roles/application"
	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/philly/rolekeeper/internal/roles/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignRole_NewAssignment(t *testing.T) {
	owner, target := uuid.New(), uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner})

	result, err := h.svc.AssignRole(context.Background(), application.AssignRoleCommand{
		ActorID:  owner,
		TargetID: target,
		Role:     domain.RoleModerator,
		Reason:   "<i>joins</i> the review team",
	})

	require.NoError(t, err)
	assert.Equal(t, application.OutcomeApplied, result.Outcome)
	assert.Equal(t, domain.NoRole, result.Previous)
	require.NotNil(t, result.Assignment)
	assert.Equal(t, domain.RoleModerator, result.Assignment.Role)
	assert.Equal(t, domain.RoleModerator, h.roleOf(t, target))

	entries := h.audit.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, auditdomain.ActionRoleAssigned, entries[0].Action)
	assert.Equal(t, target.String(), entries[0].EntityID)
	assert.Equal(t, owner, *entries[0].ActorUserID)
	assert.Equal(t, map[string]any{"to": "moderator", "reason": "joins the review team"}, entries[0].Metadata)
}

func TestAssignRole_OwnerToAdminScenario(t *testing.T) {
	o1 := uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	o2 := uuid.MustParse("00000000-0000-0000-0000-0000000000a2")
	h := newHarness(t, map[uuid.UUID]domain.Role{o1: domain.RoleOwner, o2: domain.RoleOwner})
	ctx := context.Background()

	result, err := h.svc.AssignRole(ctx, application.AssignRoleCommand{ActorID: o1, TargetID: o2, Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, application.OutcomeApplied, result.Outcome)
	assert.Equal(t, domain.RoleOwner, result.Previous)

	entries := h.audit.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, auditdomain.ActionRoleUpdated, entries[0].Action)
	assert.Equal(t, "owner", entries[0].Metadata["from"])
	assert.Equal(t, "admin", entries[0].Metadata["to"])

	assert.Equal(t, 1, h.ownerCount(t))

	page, err := h.query.ListUsersWithRole(ctx, domain.RoleOwner, pagination.New(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, o1, page.Data[0].UserID)
}

func TestAssignRole_NoOpWritesNothing(t *testing.T) {
	admin, target := uuid.New(), uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{
		uuid.New(): domain.RoleOwner,
		admin:      domain.RoleAdmin,
		target:     domain.RoleModerator,
	})

	result, err := h.svc.AssignRole(context.Background(), application.AssignRoleCommand{
		ActorID:  admin,
		TargetID: target,
		Role:     domain.RoleModerator,
	})

	require.NoError(t, err)
	assert.Equal(t, application.OutcomeUnchanged, result.Outcome)
	assert.Equal(t, domain.RoleModerator, result.Assignment.Role)
	assert.Equal(t, int64(0), h.store.writes.Load())
	assert.Equal(t, 0, h.audit.Len())
}

func TestAssignRole_SoleOwnerNoOpIsAllowed(t *testing.T) {
	owner := uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner})

	result, err := h.svc.AssignRole(context.Background(), application.AssignRoleCommand{
		ActorID:  owner,
		TargetID: owner,
		Role:     domain.RoleOwner,
	})

	require.NoError(t, err)
	assert.Equal(t, application.OutcomeUnchanged, result.Outcome)
	assert.Equal(t, 0, h.audit.Len())
}

func TestAssignRole_SelfDemotionTwoPhase(t *testing.T) {
	o1, o2 := uuid.New(), uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{o1: domain.RoleOwner, o2: domain.RoleOwner})
	ctx := context.Background()
	cmd := application.AssignRoleCommand{ActorID: o1, TargetID: o1, Role: domain.RoleAdmin}

	pending, err := h.svc.AssignRole(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, application.OutcomePendingConfirmation, pending.Outcome)
	require.NotNil(t, pending.Confirmation)
	assert.Equal(t, domain.Confirmation{Reason: domain.ReasonSelfDemotion, From: domain.RoleOwner, To: domain.RoleAdmin}, *pending.Confirmation)
	assert.Equal(t, domain.RoleOwner, h.roleOf(t, o1))
	assert.Equal(t, int64(0), h.store.writes.Load())
	assert.Equal(t, 0, h.audit.Len())

	cmd.Confirmed = true
	applied, err := h.svc.AssignRole(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, application.OutcomeApplied, applied.Outcome)
	assert.Nil(t, applied.Confirmation)
	assert.Equal(t, domain.RoleAdmin, h.roleOf(t, o1))
	assert.Equal(t, int64(1), h.store.writes.Load())
	require.Equal(t, 1, h.audit.Len())
	assert.Equal(t, auditdomain.ActionRoleUpdated, h.audit.Entries()[0].Action)
}

func TestAssignRole_AdminCannotSelfPromoteToOwner(t *testing.T) {
	owner, admin := uuid.New(), uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner, admin: domain.RoleAdmin})

	_, err := h.svc.AssignRole(context.Background(), application.AssignRoleCommand{
		ActorID:  admin,
		TargetID: admin,
		Role:     domain.RoleOwner,
	})
	assert.ErrorIs(t, err, application.ErrInsufficientRole)
	assert.Equal(t, domain.RoleAdmin, h.roleOf(t, admin))
}

func TestAssignRole_LastOwnerWinsOverConfirmation(t *testing.T) {
	tests := []struct {
		name      string
		confirmed bool
	}{
		{"unconfirmed", false},
		{"confirmed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner := uuid.New()
			h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner})

			result, err := h.svc.AssignRole(context.Background(), application.AssignRoleCommand{
				ActorID:   owner,
				TargetID:  owner,
				Role:      domain.RoleUser,
				Confirmed: tt.confirmed,
			})

			assert.Nil(t, result)
			require.ErrorIs(t, err, application.ErrLastOwnerProtected)
			appErr, ok := apperror.From(err)
			require.True(t, ok)
			assert.Equal(t, 409, appErr.HTTPStatus)
			assert.Equal(t, 1, appErr.Details.(map[string]any)["owner_count"])
			assert.Equal(t, domain.RoleOwner, h.roleOf(t, owner))
			assert.Equal(t, 0, h.audit.Len())
		})
	}
}

func TestAssignRole_Authorization(t *testing.T) {
	owner, admin, moderator, user, target := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	roles := map[uuid.UUID]domain.Role{
		owner:     domain.RoleOwner,
		admin:     domain.RoleAdmin,
		moderator: domain.RoleModerator,
		user:      domain.RoleUser,
		target:    domain.RoleUser,
	}

	tests := []struct {
		name    string
		actor   uuid.UUID
		role    domain.Role
		wantErr error
	}{
		{"owner grants owner", owner, domain.RoleOwner, nil},
		{"admin grants admin", admin, domain.RoleAdmin, nil},
		{"admin cannot grant owner", admin, domain.RoleOwner, application.ErrInsufficientRole},
		{"moderator cannot assign", moderator, domain.RoleModerator, application.ErrInsufficientRole},
		{"user cannot assign", user, domain.RoleModerator, application.ErrInsufficientRole},
		{"unassigned actor cannot assign", uuid.New(), domain.RoleModerator, application.ErrInsufficientRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, roles)

			_, err := h.svc.AssignRole(context.Background(), application.AssignRoleCommand{
				ActorID:  tt.actor,
				TargetID: target,
				Role:     tt.role,
			})

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.role, h.roleOf(t, target))
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.RoleUser, h.roleOf(t, target))
		})
	}
}

func TestAssignRole_AdminMayDemoteOneOfSeveralOwners(t *testing.T) {
	o1, o2, admin := uuid.New(), uuid.New(), uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{o1: domain.RoleOwner, o2: domain.RoleOwner, admin: domain.RoleAdmin})

	result, err := h.svc.AssignRole(context.Background(), application.AssignRoleCommand{
		ActorID:  admin,
		TargetID: o2,
		Role:     domain.RoleModerator,
	})

	require.NoError(t, err)
	assert.Equal(t, application.OutcomeApplied, result.Outcome)
	assert.Equal(t, 1, h.ownerCount(t))
}

func TestAssignRole_Validation(t *testing.T) {
	owner := uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner})

	tests := []struct {
		name string
		cmd  application.AssignRoleCommand
	}{
		{"unknown role", application.AssignRoleCommand{ActorID: owner, TargetID: uuid.New(), Role: "root"}},
		{"missing role", application.AssignRoleCommand{ActorID: owner, TargetID: uuid.New()}},
		{"missing target", application.AssignRoleCommand{ActorID: owner, Role: domain.RoleUser}},
		{"missing actor", application.AssignRoleCommand{TargetID: uuid.New(), Role: domain.RoleUser}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.AssignRole(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, application.ErrInvalidCommand)
		})
	}
	assert.Equal(t, int64(0), h.store.writes.Load())
}

func TestAssignRole_StoreFailure(t *testing.T) {
	owner, target := uuid.New(), uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner})
	h.store.failFor = target

	_, err := h.svc.AssignRole(context.Background(), application.AssignRoleCommand{
		ActorID:  owner,
		TargetID: target,
		Role:     domain.RoleAdmin,
	})

	require.ErrorIs(t, err, application.ErrStoreFailure)
	assert.True(t, errors.Is(err, errConnectionReset))
	assert.Equal(t, domain.NoRole, h.roleOf(t, target))
	assert.Equal(t, 0, h.audit.Len())
}

func TestRemoveRole(t *testing.T) {
	owner, admin, target := uuid.New(), uuid.New(), uuid.New()

	t.Run("removes and audits", func(t *testing.T) {
		h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner, target: domain.RoleModerator})

		result, err := h.svc.RemoveRole(context.Background(), application.RemoveRoleCommand{ActorID: owner, TargetID: target})

		require.NoError(t, err)
		assert.Equal(t, application.OutcomeApplied, result.Outcome)
		assert.Equal(t, domain.RoleModerator, result.Previous)
		assert.Nil(t, result.Assignment)
		assert.Equal(t, domain.NoRole, h.roleOf(t, target))

		entries := h.audit.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, auditdomain.ActionRoleRemoved, entries[0].Action)
		assert.Equal(t, map[string]any{"from": "moderator"}, entries[0].Metadata)
	})

	t.Run("unassigned target", func(t *testing.T) {
		h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner})

		_, err := h.svc.RemoveRole(context.Background(), application.RemoveRoleCommand{ActorID: owner, TargetID: target})

		require.ErrorIs(t, err, application.ErrAssignmentNotFound)
		assert.Equal(t, 0, h.audit.Len())
	})

	t.Run("last owner", func(t *testing.T) {
		h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner, admin: domain.RoleAdmin})

		_, err := h.svc.RemoveRole(context.Background(), application.RemoveRoleCommand{ActorID: admin, TargetID: owner})

		require.ErrorIs(t, err, application.ErrLastOwnerProtected)
		assert.Equal(t, domain.RoleOwner, h.roleOf(t, owner))
	})

	t.Run("own role without confirmation", func(t *testing.T) {
		h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner, admin: domain.RoleAdmin})

		result, err := h.svc.RemoveRole(context.Background(), application.RemoveRoleCommand{ActorID: admin, TargetID: admin})

		require.NoError(t, err)
		assert.Equal(t, application.OutcomeApplied, result.Outcome)
		assert.Equal(t, domain.NoRole, h.roleOf(t, admin))
	})

	t.Run("moderator cannot revoke", func(t *testing.T) {
		moderator := uuid.New()
		h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner, moderator: domain.RoleModerator, target: domain.RoleUser})

		_, err := h.svc.RemoveRole(context.Background(), application.RemoveRoleCommand{ActorID: moderator, TargetID: target})

		require.ErrorIs(t, err, application.ErrInsufficientRole)
		assert.Equal(t, domain.RoleUser, h.roleOf(t, target))
	})
}

func TestDowngradeRole(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name     string
		current  domain.Role
		wantRole domain.Role
		wantErr  error
	}{
		{"admin to moderator", domain.RoleAdmin, domain.RoleModerator, nil},
		{"moderator to user", domain.RoleModerator, domain.RoleUser, nil},
		{"user is lowest", domain.RoleUser, domain.RoleUser, application.ErrAlreadyLowestRole},
		{"unassigned", domain.NoRole, domain.NoRole, application.ErrAssignmentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := uuid.New()
			roles := map[uuid.UUID]domain.Role{owner: domain.RoleOwner}
			if tt.current != domain.NoRole {
				roles[target] = tt.current
			}
			h := newHarness(t, roles)

			result, err := h.svc.DowngradeRole(context.Background(), application.DowngradeRoleCommand{ActorID: owner, TargetID: target})

			assert.Equal(t, tt.wantRole, h.roleOf(t, target))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, int64(0), h.store.writes.Load())
				assert.Equal(t, 0, h.audit.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, application.OutcomeApplied, result.Outcome)
			assert.Equal(t, tt.current, result.Previous)

			entries := h.audit.Entries()
			require.Len(t, entries, 1)
			assert.Equal(t, auditdomain.ActionRoleDowngraded, entries[0].Action)
			assert.Equal(t, string(tt.current), entries[0].Metadata["from"])
			assert.Equal(t, string(tt.wantRole), entries[0].Metadata["to"])
		})
	}
}

func TestDowngradeRole_SoleOwnerAndSelf(t *testing.T) {
	t.Run("sole owner is protected", func(t *testing.T) {
		owner := uuid.New()
		h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner})

		_, err := h.svc.DowngradeRole(context.Background(), application.DowngradeRoleCommand{ActorID: owner, TargetID: owner, Confirmed: true})

		assert.ErrorIs(t, err, application.ErrLastOwnerProtected)
	})

	t.Run("self downgrade needs confirmation", func(t *testing.T) {
		owner, admin := uuid.New(), uuid.New()
		h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner, admin: domain.RoleAdmin})

		result, err := h.svc.DowngradeRole(context.Background(), application.DowngradeRoleCommand{ActorID: admin, TargetID: admin})

		require.NoError(t, err)
		assert.Equal(t, application.OutcomePendingConfirmation, result.Outcome)
		assert.Equal(t, domain.RoleModerator, result.Confirmation.To)
		assert.Equal(t, domain.RoleAdmin, h.roleOf(t, admin))
	})
}

func TestBootstrapOwner(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	h := newHarness(t, nil)
	ctx := context.Background()

	result, err := h.svc.BootstrapOwner(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, application.OutcomeApplied, result.Outcome)
	assert.Equal(t, domain.RoleOwner, h.roleOf(t, first))

	entries := h.audit.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, auditdomain.ActionOwnerBootstrapped, entries[0].Action)
	assert.Nil(t, entries[0].ActorUserID)

	_, err = h.svc.BootstrapOwner(ctx, second)
	assert.ErrorIs(t, err, application.ErrOwnerAlreadyExists)
	assert.Equal(t, domain.NoRole, h.roleOf(t, second))

	_, err = h.svc.BootstrapOwner(ctx, uuid.Nil)
	assert.ErrorIs(t, err, application.ErrInvalidCommand)
}

func TestAuditOrderingAcrossOperations(t *testing.T) {
	owner, a, b := uuid.New(), uuid.New(), uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner})
	ctx := context.Background()

	for _, target := range []uuid.UUID{a, b} {
		_, err := h.svc.AssignRole(ctx, application.AssignRoleCommand{ActorID: owner, TargetID: target, Role: domain.RoleAdmin})
		require.NoError(t, err)
	}
	_, err := h.svc.DowngradeRole(ctx, application.DowngradeRoleCommand{ActorID: owner, TargetID: a})
	require.NoError(t, err)
	_, err = h.svc.RemoveRole(ctx, application.RemoveRoleCommand{ActorID: owner, TargetID: b})
	require.NoError(t, err)

	page, err := h.query.QueryAudit(ctx, auditdomain.Filter{}, pagination.New(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Data, 4)
	for i := 1; i < len(page.Data); i++ {
		prev, cur := page.Data[i-1], page.Data[i]
		assert.False(t, cur.Timestamp.After(prev.Timestamp), "entries must be newest first")
	}
	assert.Equal(t, auditdomain.ActionRoleRemoved, page.Data[0].Action)
	assert.Equal(t, auditdomain.ActionRoleAssigned, page.Data[3].Action)
}

func TestConcurrentOwnerDemotionsKeepAnOwner(t *testing.T) {
	for round := 0; round < 20; round++ {
		o1, o2 := uuid.New(), uuid.New()
		h := newHarness(t, map[uuid.UUID]domain.Role{o1: domain.RoleOwner, o2: domain.RoleOwner})

		var wg sync.WaitGroup
		for _, pair := range [][2]uuid.UUID{{o1, o2}, {o2, o1}} {
			wg.Add(1)
			go func(actor, target uuid.UUID) {
				defer wg.Done()
				_, _ = h.svc.AssignRole(context.Background(), application.AssignRoleCommand{
					ActorID:  actor,
					TargetID: target,
					Role:     domain.RoleAdmin,
				})
			}(pair[0], pair[1])
		}
		wg.Wait()

		require.Equal(t, 1, h.ownerCount(t), "round %d", round)
	}
}

func TestEventPublishedAfterCommit(t *testing.T) {
	owner, target := uuid.New(), uuid.New()
	h := newHarness(t, map[uuid.UUID]domain.Role{owner: domain.RoleOwner})

	seen := make(chan domain.Role, 1)
	h.bus.Subscribe(events.RoleChangedTopic, func(ctx context.Context, _ eventbus.Event) error {
		a, err := h.store.GetRole(ctx, target)
		if err != nil {
			return err
		}
		seen <- a.Role
		return nil
	})

	_, err := h.svc.AssignRole(context.Background(), application.AssignRoleCommand{ActorID: owner, TargetID: target, Role: domain.RoleUser})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleUser, <-seen)
}

var _ ports.RoleStore = (*countingStore)(nil)
