package application

import (
	"context"
	"net/http"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/platform/apperror"
	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/philly/rolekeeper/internal/platform/metrics"
	"github.com/philly/rolekeeper/internal/platform/telemetry"
	"github.com/philly/rolekeeper/internal/platform/validator"
	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/philly/rolekeeper/internal/roles/permission"
	"github.com/philly/rolekeeper/internal/roles/ports"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBulkConcurrency = 8
	DefaultBulkMaxTargets  = 500
)

// BulkConfig bounds a bulk assignment.
type BulkConfig struct {
	Concurrency int
	MaxTargets  int
}

// BulkAssignCommand applies one role to many users.
type BulkAssignCommand struct {
	ActorID   uuid.UUID   `validate:"required"`
	Targets   []uuid.UUID `validate:"required,min=1,unique,dive,required"`
	Role      domain.Role `validate:"required,role"`
	Confirmed bool
	Reason    string `validate:"max=2000"`
}

// BulkItem is a target whose assignment went through.
type BulkItem struct {
	TargetID uuid.UUID
	Outcome  Outcome
	Previous domain.Role
}

// BulkFailure is a target whose assignment failed.
type BulkFailure struct {
	TargetID uuid.UUID
	Code     apperror.BusinessCode
	Reason   string
}

// BulkResult lists per-target results in input order.
type BulkResult struct {
	BatchID   uuid.UUID
	Succeeded []BulkItem
	Failed    []BulkFailure
}

// BulkCoordinator fans a role change out over many targets. Batch-level
// checks run before anything is written; after that every target succeeds
// or fails on its own.
type BulkCoordinator struct {
	store       ports.RoleStore
	assignments *AssignmentService
	logger      logger.Logger
	metrics     *metrics.Metrics
	validate    *validator.Validator
	config      BulkConfig
}

func NewBulkCoordinator(
	store ports.RoleStore,
	assignments *AssignmentService,
	logger logger.Logger,
	m *metrics.Metrics,
	v *validator.Validator,
	config BulkConfig,
) *BulkCoordinator {
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultBulkConcurrency
	}
	if config.MaxTargets <= 0 {
		config.MaxTargets = DefaultBulkMaxTargets
	}
	return &BulkCoordinator{
		store:       store,
		assignments: assignments,
		logger:      logger,
		metrics:     m,
		validate:    v,
		config:      config,
	}
}

// BulkAssign assigns cmd.Role to every target. The whole batch is rejected
// with ErrLastOwnerProtected when it would strip every owner, and with
// ErrSelfDemotionNeedsConfirmation when it lowers the actor's own role
// without confirmation.
func (c *BulkCoordinator) BulkAssign(ctx context.Context, cmd BulkAssignCommand) (result *BulkResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "BulkCoordinator.BulkAssign",
		attribute.String("actor_id", cmd.ActorID.String()),
		attribute.String("role", cmd.Role.String()),
		attribute.Int("targets", len(cmd.Targets)),
	)
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	if err := c.validate.Validate(cmd); err != nil {
		return nil, newInvalidCommandError(err)
	}
	if len(cmd.Targets) > c.config.MaxTargets {
		return nil, newInvalidCommandError(validator.ValidationErrors{{
			Field:   "targets",
			Message: "must contain at most " + strconv.Itoa(c.config.MaxTargets) + " items",
		}})
	}

	if err := c.precheck(ctx, cmd); err != nil {
		return nil, asStoreFailure("RoleStore.Guarded", err)
	}

	batchID, err := uuid.NewV7()
	if err != nil {
		batchID = uuid.New()
	}
	span.SetAttributes(attribute.String("batch_id", batchID.String()))

	type itemResult struct {
		change *ChangeResult
		err    error
	}
	results := make([]itemResult, len(cmd.Targets))

	run := func(i int) {
		change, err := c.assignments.assign(ctx, AssignRoleCommand{
			ActorID:   cmd.ActorID,
			TargetID:  cmd.Targets[i],
			Role:      cmd.Role,
			Confirmed: cmd.Confirmed,
			Reason:    cmd.Reason,
		}, permission.RolesBulkAssign, &batchID)
		results[i] = itemResult{change: change, err: err}
	}

	// The actor's own item goes last. Every item re-authorizes the actor, so
	// a confirmed self-demotion applied early would fail the items after it.
	self := slices.Index(cmd.Targets, cmd.ActorID)

	var g errgroup.Group
	g.SetLimit(c.config.Concurrency)
	for i := range cmd.Targets {
		if i == self {
			continue
		}
		g.Go(func() error {
			run(i)
			// Item failures are collected, never propagated, so siblings run on.
			return nil
		})
	}
	_ = g.Wait()
	if self >= 0 {
		run(self)
	}

	out := &BulkResult{
		BatchID:   batchID,
		Succeeded: make([]BulkItem, 0, len(cmd.Targets)),
		Failed:    make([]BulkFailure, 0),
	}
	for i, r := range results {
		target := cmd.Targets[i]
		if r.err != nil {
			c.metrics.BulkItem(false)
			out.Failed = append(out.Failed, toBulkFailure(target, r.err))
			continue
		}
		c.metrics.BulkItem(true)
		out.Succeeded = append(out.Succeeded, BulkItem{
			TargetID: target,
			Outcome:  r.change.Outcome,
			Previous: r.change.Previous,
		})
	}

	c.logger.Info(ctx, "bulk assignment finished",
		"batch_id", batchID,
		"role", cmd.Role,
		"succeeded", len(out.Succeeded),
		"failed", len(out.Failed),
	)
	return out, nil
}

// precheck runs the batch-level checks against one consistent view of the
// store. It writes nothing.
func (c *BulkCoordinator) precheck(ctx context.Context, cmd BulkAssignCommand) error {
	return c.store.Guarded(ctx, func(ctx context.Context, tx ports.RoleTx) error {
		actorRole, err := authorize(ctx, tx, cmd.ActorID, permission.RolesBulkAssign)
		if err != nil {
			return err
		}

		if cmd.Role != domain.RoleOwner {
			owners, err := tx.CountByRole(ctx, domain.RoleOwner)
			if err != nil {
				return err
			}
			ownersInBatch := 0
			for _, target := range cmd.Targets {
				role, err := currentRole(ctx, tx, target)
				if err != nil {
					return err
				}
				if role == domain.RoleOwner {
					ownersInBatch++
				}
			}
			if ownersInBatch > 0 && owners-ownersInBatch < 1 {
				return newBatchLastOwnerError(owners, ownersInBatch)
			}
		}

		if !cmd.Confirmed && slices.Contains(cmd.Targets, cmd.ActorID) && cmd.Role.IsLowerThan(actorRole) {
			return newSelfDemotionError(cmd.ActorID, actorRole, cmd.Role)
		}
		return nil
	})
}

func toBulkFailure(target uuid.UUID, err error) BulkFailure {
	appErr, ok := apperror.From(err)
	if !ok {
		appErr = apperror.Wrap(err, apperror.CodeInternalError, apperror.BusinessCodeGeneral,
			err.Error(), http.StatusInternalServerError)
	}
	return BulkFailure{
		TargetID: target,
		Code:     appErr.BusinessCode,
		Reason:   appErr.Message,
	}
}
