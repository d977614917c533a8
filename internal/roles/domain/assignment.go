package domain

import (
	"time"

	"github.com/google/uuid"
)

// Assignment is the single role held by a user.
type Assignment struct {
	UserID    uuid.UUID
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAssignment creates an assignment first made at the given time.
func NewAssignment(userID uuid.UUID, role Role, at time.Time) *Assignment {
	return &Assignment{
		UserID:    userID,
		Role:      role,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// Reassign moves the assignment to a new role, keeping its identity.
func (a *Assignment) Reassign(role Role, at time.Time) {
	a.Role = role
	a.UpdatedAt = at
}

// Confirmation describes a change that needs the caller to confirm before it
// is applied.
type Confirmation struct {
	Reason Reason
	From   Role
	To     Role
}
