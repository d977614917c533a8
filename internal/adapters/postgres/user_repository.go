package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/philly/rolekeeper/internal/platform/postgres"
	"github.com/philly/rolekeeper/internal/users/domain"
	"github.com/philly/rolekeeper/internal/users/ports"
)

type UserRepository struct {
	postgres.BaseRepository
}

func NewUserRepository(base postgres.BaseRepository) ports.UserRepository {
	return &UserRepository{
		BaseRepository: base,
	}
}

// Create inserts the user and falls back to the existing row when another
// request provisioned the same subject first.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, external_id, email, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id) DO NOTHING
	`

	tag, err := r.DB.Exec(ctx, query,
		user.ID,
		user.ExternalID,
		user.Email,
		nullString(user.DisplayName),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return user, nil
	}

	existing, err := r.FindByExternalID(ctx, user.ExternalID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("failed to create user: conflicting row for %q vanished", user.ExternalID)
	}
	return existing, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, external_id, email, display_name, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(r.DB.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	query := `
		SELECT id, external_id, email, display_name, created_at, updated_at
		FROM users
		WHERE external_id = $1
	`

	user, err := scanUser(r.DB.QueryRow(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by external ID: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var displayName *string

	err := row.Scan(
		&user.ID,
		&user.ExternalID,
		&user.Email,
		&displayName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.DisplayName = stringValue(displayName)
	return &user, nil
}

// Helper functions for handling null values
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
