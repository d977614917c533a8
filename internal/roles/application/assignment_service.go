package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	auditdomain "github.com/philly/rolekeeper/internal/audit/domain"
	"github.com/philly/rolekeeper/internal/platform/eventbus"
	"github.com/philly/rolekeeper/internal/platform/events"
	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/philly/rolekeeper/internal/platform/metrics"
	"github.com/philly/rolekeeper/internal/platform/telemetry"
	"github.com/philly/rolekeeper/internal/platform/validator"
	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/philly/rolekeeper/internal/roles/permission"
	"github.com/philly/rolekeeper/internal/roles/ports"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "github.com/philly/rolekeeper/internal/roles/application"

// Outcome is the result kind of a role change that did not fail.
type Outcome string

const (
	OutcomeApplied             Outcome = "applied"
	OutcomeUnchanged           Outcome = "unchanged"
	OutcomePendingConfirmation Outcome = "pending_confirmation"
)

// ChangeResult describes what a role change did. Assignment is the state
// after the change and is nil after a removal. Previous is the role held
// before, or domain.NoRole. Confirmation is set only when the outcome is
// OutcomePendingConfirmation.
type ChangeResult struct {
	Outcome      Outcome
	Assignment   *domain.Assignment
	Previous     domain.Role
	Confirmation *domain.Confirmation
}

// AssignRoleCommand sets a user's role.
type AssignRoleCommand struct {
	ActorID   uuid.UUID   `validate:"required"`
	TargetID  uuid.UUID   `validate:"required"`
	Role      domain.Role `validate:"required,role"`
	Confirmed bool
	Reason    string `validate:"max=2000"`
}

// RemoveRoleCommand deletes a user's role assignment.
type RemoveRoleCommand struct {
	ActorID  uuid.UUID `validate:"required"`
	TargetID uuid.UUID `validate:"required"`
	Reason   string    `validate:"max=2000"`
}

// DowngradeRoleCommand moves a user one step down the hierarchy.
type DowngradeRoleCommand struct {
	ActorID   uuid.UUID `validate:"required"`
	TargetID  uuid.UUID `validate:"required"`
	Confirmed bool
	Reason    string `validate:"max=2000"`
}

// AssignmentService applies role changes. Every change re-reads the actor's
// role, the target's role and the owner count inside one guarded store unit,
// so the invariant check and the write cannot be separated by a concurrent
// change.
type AssignmentService struct {
	store    ports.RoleStore
	audit    ports.AuditRecorder
	eventBus *eventbus.Bus
	logger   logger.Logger
	metrics  *metrics.Metrics
	validate *validator.Validator
	now      func() time.Time
}

func NewAssignmentService(
	store ports.RoleStore,
	audit ports.AuditRecorder,
	eventBus *eventbus.Bus,
	logger logger.Logger,
	m *metrics.Metrics,
	v *validator.Validator,
) *AssignmentService {
	return &AssignmentService{
		store:    store,
		audit:    audit,
		eventBus: eventBus,
		logger:   logger,
		metrics:  m,
		validate: v,
		now:      time.Now,
	}
}

// WithClock replaces the clock used to stamp assignments.
func (s *AssignmentService) WithClock(now func() time.Time) *AssignmentService {
	s.now = now
	return s
}

// change is one guarded set-role operation.
type change struct {
	operation  string
	actorID    uuid.UUID
	targetID   uuid.UUID
	permission string
	confirmed  bool
	reason     string
	batchID    *uuid.UUID
	// resolve picks the requested role from the target's current role.
	resolve func(current domain.Role) (domain.Role, error)
	// action names the audit entry for a given previous role.
	action func(previous domain.Role) auditdomain.Action
}

// AssignRole sets the target's role. Assigning the role the target already
// holds is a no-op. An actor lowering their own role gets
// OutcomePendingConfirmation until they retry with Confirmed set.
func (s *AssignmentService) AssignRole(ctx context.Context, cmd AssignRoleCommand) (result *ChangeResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "AssignmentService.AssignRole",
		attribute.String("actor_id", cmd.ActorID.String()),
		attribute.String("target_id", cmd.TargetID.String()),
		attribute.String("role", cmd.Role.String()),
	)
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	if err := s.validate.Validate(cmd); err != nil {
		return nil, newInvalidCommandError(err)
	}
	return s.assign(ctx, cmd, permission.RolesAssign, nil)
}

// assign runs an assignment. Bulk items pass their own permission and batch
// id.
func (s *AssignmentService) assign(ctx context.Context, cmd AssignRoleCommand, perm string, batchID *uuid.UUID) (*ChangeResult, error) {
	return s.apply(ctx, change{
		operation:  "assign",
		actorID:    cmd.ActorID,
		targetID:   cmd.TargetID,
		permission: perm,
		confirmed:  cmd.Confirmed,
		reason:     validator.SanitizeReason(cmd.Reason),
		batchID:    batchID,
		resolve: func(domain.Role) (domain.Role, error) {
			return cmd.Role, nil
		},
		action: func(previous domain.Role) auditdomain.Action {
			if previous == domain.NoRole {
				return auditdomain.ActionRoleAssigned
			}
			return auditdomain.ActionRoleUpdated
		},
	})
}

// DowngradeRole moves the target one step down the hierarchy.
func (s *AssignmentService) DowngradeRole(ctx context.Context, cmd DowngradeRoleCommand) (result *ChangeResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "AssignmentService.DowngradeRole",
		attribute.String("actor_id", cmd.ActorID.String()),
		attribute.String("target_id", cmd.TargetID.String()),
	)
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	if err := s.validate.Validate(cmd); err != nil {
		return nil, newInvalidCommandError(err)
	}

	return s.apply(ctx, change{
		operation:  "downgrade",
		actorID:    cmd.ActorID,
		targetID:   cmd.TargetID,
		permission: permission.RolesAssign,
		confirmed:  cmd.Confirmed,
		reason:     validator.SanitizeReason(cmd.Reason),
		resolve: func(current domain.Role) (domain.Role, error) {
			if current == domain.NoRole {
				return domain.NoRole, newNotFoundError(cmd.TargetID)
			}
			lower, ok := current.Lower()
			if !ok {
				return domain.NoRole, newAlreadyLowestError(cmd.TargetID, current)
			}
			return lower, nil
		},
		action: func(domain.Role) auditdomain.Action {
			return auditdomain.ActionRoleDowngraded
		},
	})
}

func (s *AssignmentService) apply(ctx context.Context, c change) (*ChangeResult, error) {
	tracker := s.metrics.Track(c.operation)

	var result ChangeResult
	err := s.store.Guarded(ctx, func(ctx context.Context, tx ports.RoleTx) error {
		// The unit may be retried; start from a clean result each time.
		result = ChangeResult{}

		actorRole, err := authorize(ctx, tx, c.actorID, c.permission)
		if err != nil {
			return err
		}

		current, err := currentRole(ctx, tx, c.targetID)
		if err != nil {
			return err
		}
		result.Previous = current

		requested, err := c.resolve(current)
		if err != nil {
			return err
		}

		if requested == domain.RoleOwner && current != domain.RoleOwner && !actorRole.Can(permission.RolesGrantOwner) {
			return newInsufficientRoleError(c.actorID, actorRole, permission.RolesGrantOwner)
		}

		if requested == current {
			result.Outcome = OutcomeUnchanged
			result.Assignment, err = tx.GetRole(ctx, c.targetID)
			return err
		}

		owners, err := tx.CountByRole(ctx, domain.RoleOwner)
		if err != nil {
			return err
		}

		decision := domain.Decide(domain.GuardInput{
			ActorID:    c.actorID,
			TargetID:   c.targetID,
			Current:    current,
			Requested:  requested,
			OwnerCount: owners,
		})
		s.metrics.GuardDecision(decision.Kind.String(), string(decision.Reason))

		switch decision.Kind {
		case domain.Deny:
			return newLastOwnerError(c.targetID, owners)
		case domain.RequiresConfirmation:
			if !c.confirmed {
				result.Outcome = OutcomePendingConfirmation
				result.Confirmation = &domain.Confirmation{Reason: decision.Reason, From: current, To: requested}
				return nil
			}
		}

		if _, err := tx.Upsert(ctx, c.targetID, requested, s.now().UTC()); err != nil {
			return err
		}
		result.Assignment, err = tx.GetRole(ctx, c.targetID)
		if err != nil {
			return err
		}
		result.Outcome = OutcomeApplied
		return nil
	})
	if err != nil {
		return nil, tracker.End("", asStoreFailure("RoleStore.Guarded", err))
	}

	if result.Outcome == OutcomeApplied {
		to := result.Assignment.Role
		s.afterCommit(ctx, committed{
			action:   c.action(result.Previous),
			actorID:  &c.actorID,
			targetID: c.targetID,
			from:     result.Previous,
			to:       to,
			reason:   c.reason,
			batchID:  c.batchID,
		})
	}

	_ = tracker.End(string(result.Outcome), nil)
	return &result, nil
}

// RemoveRole deletes the target's assignment. Removal has no confirmation
// step, even for the actor's own role.
func (s *AssignmentService) RemoveRole(ctx context.Context, cmd RemoveRoleCommand) (result *ChangeResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "AssignmentService.RemoveRole",
		attribute.String("actor_id", cmd.ActorID.String()),
		attribute.String("target_id", cmd.TargetID.String()),
	)
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	if err := s.validate.Validate(cmd); err != nil {
		return nil, newInvalidCommandError(err)
	}
	tracker := s.metrics.Track("remove")

	var removed domain.Role
	err = s.store.Guarded(ctx, func(ctx context.Context, tx ports.RoleTx) error {
		removed = domain.NoRole

		if _, err := authorize(ctx, tx, cmd.ActorID, permission.RolesRevoke); err != nil {
			return err
		}

		current, err := currentRole(ctx, tx, cmd.TargetID)
		if err != nil {
			return err
		}
		if current == domain.NoRole {
			return newNotFoundError(cmd.TargetID)
		}

		owners, err := tx.CountByRole(ctx, domain.RoleOwner)
		if err != nil {
			return err
		}

		decision := domain.Decide(domain.GuardInput{
			ActorID:    cmd.ActorID,
			TargetID:   cmd.TargetID,
			Current:    current,
			IsRemoval:  true,
			OwnerCount: owners,
		})
		s.metrics.GuardDecision(decision.Kind.String(), string(decision.Reason))
		if decision.Kind == domain.Deny {
			return newLastOwnerError(cmd.TargetID, owners)
		}

		removed, err = tx.Remove(ctx, cmd.TargetID)
		if errors.Is(err, ports.ErrAssignmentNotFound) {
			return newNotFoundError(cmd.TargetID)
		}
		return err
	})
	if err != nil {
		return nil, tracker.End("", asStoreFailure("RoleStore.Guarded", err))
	}

	s.afterCommit(ctx, committed{
		action:   auditdomain.ActionRoleRemoved,
		actorID:  &cmd.ActorID,
		targetID: cmd.TargetID,
		from:     removed,
		reason:   validator.SanitizeReason(cmd.Reason),
	})

	_ = tracker.End(string(OutcomeApplied), nil)
	return &ChangeResult{Outcome: OutcomeApplied, Previous: removed}, nil
}

// BootstrapOwner makes userID the first owner. It fails with
// ErrOwnerAlreadyExists once any owner exists, so repeated runs are safe.
func (s *AssignmentService) BootstrapOwner(ctx context.Context, userID uuid.UUID) (result *ChangeResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "AssignmentService.BootstrapOwner",
		attribute.String("target_id", userID.String()),
	)
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	if userID == uuid.Nil {
		return nil, newInvalidCommandError(validator.ValidationErrors{{Field: "user_id", Message: "is required"}})
	}
	tracker := s.metrics.Track("bootstrap")

	var out ChangeResult
	err = s.store.Guarded(ctx, func(ctx context.Context, tx ports.RoleTx) error {
		out = ChangeResult{}

		owners, err := tx.CountByRole(ctx, domain.RoleOwner)
		if err != nil {
			return err
		}
		if owners > 0 {
			return newOwnerExistsError(owners)
		}

		out.Previous, err = tx.Upsert(ctx, userID, domain.RoleOwner, s.now().UTC())
		if err != nil {
			return err
		}
		out.Assignment, err = tx.GetRole(ctx, userID)
		out.Outcome = OutcomeApplied
		return err
	})
	if err != nil {
		return nil, tracker.End("", asStoreFailure("RoleStore.Guarded", err))
	}

	s.afterCommit(ctx, committed{
		action:   auditdomain.ActionOwnerBootstrapped,
		targetID: userID,
		from:     out.Previous,
		to:       domain.RoleOwner,
	})

	_ = tracker.End(string(OutcomeApplied), nil)
	return &out, nil
}

// committed is a change that has been made durable.
type committed struct {
	action   auditdomain.Action
	actorID  *uuid.UUID
	targetID uuid.UUID
	from     domain.Role
	to       domain.Role
	reason   string
	batchID  *uuid.UUID
}

// afterCommit records the audit entry and announces the change. Neither step
// can undo the change, so neither reports failure.
func (s *AssignmentService) afterCommit(ctx context.Context, c committed) {
	entry := auditdomain.NewEntry(c.actorID, c.action, auditdomain.EntityTypeRoleAssignment, c.targetID.String()).
		With(auditdomain.MetaFrom, c.from.String()).
		With(auditdomain.MetaTo, c.to.String()).
		With(auditdomain.MetaReason, c.reason)
	if c.batchID != nil {
		entry.With(auditdomain.MetaBatchID, c.batchID.String())
	}
	entry = s.audit.Append(ctx, entry)

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.RoleChangedTopic,
		Payload: events.RoleChangedEvent{
			TargetID:   c.targetID,
			ActorID:    c.actorID,
			Action:     string(c.action),
			From:       c.from.String(),
			To:         c.to.String(),
			BatchID:    c.batchID,
			OccurredAt: entry.Timestamp,
		},
	})

	s.logger.Info(ctx, "role changed",
		"action", c.action,
		"target_id", c.targetID,
		"from", c.from,
		"to", c.to,
		"audit_id", entry.ID,
	)
}

// authorize re-derives the actor's role inside the unit and checks it grants
// perm.
func authorize(ctx context.Context, tx ports.RoleReader, actorID uuid.UUID, perm string) (domain.Role, error) {
	role, err := currentRole(ctx, tx, actorID)
	if err != nil {
		return domain.NoRole, err
	}
	if !role.Can(perm) {
		return role, newInsufficientRoleError(actorID, role, perm)
	}
	return role, nil
}

// currentRole returns domain.NoRole for an unassigned user.
func currentRole(ctx context.Context, r ports.RoleReader, userID uuid.UUID) (domain.Role, error) {
	a, err := r.GetRole(ctx, userID)
	if errors.Is(err, ports.ErrAssignmentNotFound) {
		return domain.NoRole, nil
	}
	if err != nil {
		return domain.NoRole, err
	}
	return a.Role, nil
}
