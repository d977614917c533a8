package application_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/roles/application"
	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/stretchr/testify/require"
)

// TestOwnerInvariantUnderRandomOperations drives random sequences of every
// mutation against a reference model. After each step at least one owner
// must remain, the store must match the model, and every applied change must
// have exactly one audit entry.
func TestOwnerInvariantUnderRandomOperations(t *testing.T) {
	const (
		seeds = 25
		steps = 60
		users = 6
	)

	for seed := int64(1); seed <= seeds; seed++ {
		rng := rand.New(rand.NewSource(seed))

		ids := make([]uuid.UUID, users)
		for i := range ids {
			ids[i] = uuid.New()
		}
		model := map[uuid.UUID]domain.Role{ids[0]: domain.RoleOwner}
		for _, id := range ids[1:] {
			if r, ok := domain.RoleAt(rng.Intn(5)); ok {
				model[id] = r
			}
		}

		initial := make(map[uuid.UUID]domain.Role, len(model))
		for id, r := range model {
			initial[id] = r
		}
		h := newHarness(t, initial)
		ctx := context.Background()
		applied := 0

		pick := func() uuid.UUID { return ids[rng.Intn(len(ids))] }
		pickRole := func() domain.Role {
			r, _ := domain.RoleAt(rng.Intn(4))
			return r
		}

		for step := 0; step < steps; step++ {
			actor, target := pick(), pick()
			confirmed := rng.Intn(2) == 0

			switch rng.Intn(4) {
			case 0:
				role := pickRole()
				res, err := h.svc.AssignRole(ctx, application.AssignRoleCommand{ActorID: actor, TargetID: target, Role: role, Confirmed: confirmed})
				if err == nil && res.Outcome == application.OutcomeApplied {
					model[target] = role
					applied++
				}
			case 1:
				res, err := h.svc.RemoveRole(ctx, application.RemoveRoleCommand{ActorID: actor, TargetID: target})
				if err == nil && res.Outcome == application.OutcomeApplied {
					delete(model, target)
					applied++
				}
			case 2:
				res, err := h.svc.DowngradeRole(ctx, application.DowngradeRoleCommand{ActorID: actor, TargetID: target, Confirmed: confirmed})
				if err == nil && res.Outcome == application.OutcomeApplied {
					model[target] = res.Assignment.Role
					applied++
				}
			case 3:
				role := pickRole()
				targets := []uuid.UUID{target}
				if other := pick(); other != target {
					targets = append(targets, other)
				}
				res, err := h.bulk.BulkAssign(ctx, application.BulkAssignCommand{ActorID: actor, Targets: targets, Role: role, Confirmed: confirmed})
				if err == nil {
					for _, item := range res.Succeeded {
						if item.Outcome == application.OutcomeApplied {
							model[item.TargetID] = role
							applied++
						}
					}
				}
			}

			require.GreaterOrEqual(t, h.ownerCount(t), 1, "seed %d step %d", seed, step)
			for _, id := range ids {
				require.Equal(t, model[id], h.roleOf(t, id), "seed %d step %d", seed, step)
			}
			require.Equal(t, applied, h.audit.Len(), "seed %d step %d", seed, step)
		}
	}
}
