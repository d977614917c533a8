package application

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/platform/apperror"
	"github.com/philly/rolekeeper/internal/platform/validator"
	"github.com/philly/rolekeeper/internal/roles/domain"
)

// Sentinel errors for errors.Is comparisons. Call sites return fresh values
// built by the constructors below so details never leak between requests.
var (
	ErrLastOwnerProtected = apperror.New(
		apperror.CodeConflict,
		apperror.BusinessCodeLastOwnerProtected,
		"the last owner cannot lose the owner role",
		http.StatusConflict,
	)

	ErrSelfDemotionNeedsConfirmation = apperror.New(
		apperror.CodePreconditionRequired,
		apperror.BusinessCodeSelfDemotionNeedsConfirmation,
		"lowering your own role must be confirmed",
		http.StatusPreconditionRequired,
	)

	ErrAlreadyLowestRole = apperror.New(
		apperror.CodeUnprocessable,
		apperror.BusinessCodeAlreadyLowestRole,
		"user already holds the lowest role",
		http.StatusUnprocessableEntity,
	)

	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodeAssignmentNotFound,
		"user has no role assignment",
		http.StatusNotFound,
	)

	ErrInsufficientRole = apperror.New(
		apperror.CodeForbidden,
		apperror.BusinessCodeInsufficientRole,
		"actor's role does not allow this operation",
		http.StatusForbidden,
	)

	ErrOwnerAlreadyExists = apperror.New(
		apperror.CodeConflict,
		apperror.BusinessCodeOwnerAlreadyExists,
		"an owner already exists",
		http.StatusConflict,
	)

	ErrStoreFailure = apperror.New(
		apperror.CodeServiceUnavailable,
		apperror.BusinessCodeStoreFailure,
		"role store unavailable",
		http.StatusServiceUnavailable,
	)

	ErrInvalidCommand = apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeInvalidFormat,
		"invalid command",
		http.StatusBadRequest,
	)
)

func newLastOwnerError(targetID uuid.UUID, ownerCount int) *apperror.AppError {
	return apperror.New(apperror.CodeConflict, apperror.BusinessCodeLastOwnerProtected,
		"the last owner cannot lose the owner role", http.StatusConflict).
		WithDetail("target_id", targetID).
		WithDetail("owner_count", ownerCount)
}

func newBatchLastOwnerError(ownerCount, ownersInBatch int) *apperror.AppError {
	return apperror.New(apperror.CodeConflict, apperror.BusinessCodeLastOwnerProtected,
		"the batch would leave no owner", http.StatusConflict).
		WithDetail("owner_count", ownerCount).
		WithDetail("owners_in_batch", ownersInBatch)
}

func newSelfDemotionError(actorID uuid.UUID, from, to domain.Role) *apperror.AppError {
	return apperror.New(apperror.CodePreconditionRequired, apperror.BusinessCodeSelfDemotionNeedsConfirmation,
		"lowering your own role must be confirmed", http.StatusPreconditionRequired).
		WithDetail("target_id", actorID).
		WithDetail("from", from).
		WithDetail("to", to)
}

func newAlreadyLowestError(targetID uuid.UUID, role domain.Role) *apperror.AppError {
	return apperror.New(apperror.CodeUnprocessable, apperror.BusinessCodeAlreadyLowestRole,
		"user already holds the lowest role", http.StatusUnprocessableEntity).
		WithDetail("target_id", targetID).
		WithDetail("role", role)
}

func newNotFoundError(targetID uuid.UUID) *apperror.AppError {
	return apperror.New(apperror.CodeNotFound, apperror.BusinessCodeAssignmentNotFound,
		"user has no role assignment", http.StatusNotFound).
		WithDetail("target_id", targetID)
}

func newInsufficientRoleError(actorID uuid.UUID, role domain.Role, permissionID string) *apperror.AppError {
	return apperror.New(apperror.CodeForbidden, apperror.BusinessCodeInsufficientRole,
		"actor's role does not allow this operation", http.StatusForbidden).
		WithDetail("actor_id", actorID).
		WithDetail("role", role).
		WithDetail("required_permission", permissionID)
}

func newOwnerExistsError(ownerCount int) *apperror.AppError {
	return apperror.New(apperror.CodeConflict, apperror.BusinessCodeOwnerAlreadyExists,
		"an owner already exists", http.StatusConflict).
		WithDetail("owner_count", ownerCount)
}

func newInvalidCommandError(err error) *apperror.AppError {
	appErr := apperror.Wrap(err, apperror.CodeValidationFailed, apperror.BusinessCodeInvalidFormat,
		"invalid command", http.StatusBadRequest)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		appErr.WithDetails(map[string]any{"fields": []validator.ValidationError(verrs)})
	}
	return appErr
}

// asStoreFailure passes AppErrors through and wraps anything else as a
// store failure.
func asStoreFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.From(err); ok {
		return err
	}
	return apperror.Wrap(fmt.Errorf("%s: %w", op, err), apperror.CodeServiceUnavailable,
		apperror.BusinessCodeStoreFailure, "role store unavailable", http.StatusServiceUnavailable)
}
