package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/platform/apperror"
	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/philly/rolekeeper/internal/users/domain"
	"github.com/philly/rolekeeper/internal/users/ports"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodeUserNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrInvalidEmail = apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeInvalidEmail,
		"invalid email format",
		http.StatusBadRequest,
	)
)

// EnsureUserParams carries the claims of an authenticated subject
type EnsureUserParams struct {
	ExternalID  string
	Email       string
	DisplayName string
}

type UserService struct {
	repo   ports.UserRepository
	logger logger.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, logger logger.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// EnsureUser returns the user mapped to the external subject, creating the row
// on first sight.
func (s *UserService) EnsureUser(ctx context.Context, params EnsureUserParams) (*domain.User, error) {
	existing, err := s.repo.FindByExternalID(ctx, params.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	user, err := domain.NewUser(params.ExternalID, params.Email, params.DisplayName, s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEmail) {
			return nil, apperror.Wrap(err, ErrInvalidEmail.Code, ErrInvalidEmail.BusinessCode,
				ErrInvalidEmail.Message, ErrInvalidEmail.HTTPStatus)
		}
		return nil, apperror.Wrap(err, apperror.CodeValidationFailed, apperror.BusinessCodeInvalidFormat,
			err.Error(), http.StatusBadRequest)
	}

	stored, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if stored.ID == user.ID {
		s.logger.Info(ctx, "user provisioned", "user_id", stored.ID, "external_id", stored.ExternalID)
	}
	return stored, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, apperror.New(ErrUserNotFound.Code, ErrUserNotFound.BusinessCode,
			ErrUserNotFound.Message, ErrUserNotFound.HTTPStatus).WithDetail("user_id", id)
	}
	return user, nil
}
