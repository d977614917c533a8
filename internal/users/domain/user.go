package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrEmptyExternalID = errors.New("external ID cannot be empty")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// User is the local record of an identity provider subject. Roles are keyed
// by ID, never by ExternalID.
type User struct {
	ID          uuid.UUID
	ExternalID  string
	Email       string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewUser(externalID, email, displayName string, now time.Time) (*User, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, ErrEmptyExternalID
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	return &User{
		ID:          uuid.New(),
		ExternalID:  externalID,
		Email:       email,
		DisplayName: strings.TrimSpace(displayName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func validateEmail(email string) error {
	// Basic email validation - the identity provider already validates this
	if email == "" || !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}
