package seeder

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/philly/rolekeeper/internal/roles/application"
)

// OwnerSeeder makes sure the platform has its first owner
type OwnerSeeder struct {
	assignments *application.AssignmentService
	ownerID     uuid.UUID
	logger      logger.Logger
}

// NewOwnerSeeder creates a seeder that bootstraps ownerID as the first owner
func NewOwnerSeeder(assignments *application.AssignmentService, ownerID uuid.UUID, logger logger.Logger) *OwnerSeeder {
	return &OwnerSeeder{
		assignments: assignments,
		ownerID:     ownerID,
		logger:      logger,
	}
}

// Name returns the name of this seeder
func (s *OwnerSeeder) Name() string {
	return "OwnerSeeder"
}

// Seed grants owner when no owner exists yet. An existing owner is left alone.
func (s *OwnerSeeder) Seed(ctx context.Context) error {
	_, err := s.assignments.BootstrapOwner(ctx, s.ownerID)
	if errors.Is(err, application.ErrOwnerAlreadyExists) {
		s.logger.Info(ctx, "owner already present, skipping bootstrap", "user_id", s.ownerID)
		return nil
	}
	return err
}
