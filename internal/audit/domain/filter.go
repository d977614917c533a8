package domain

import (
	"time"

	"github.com/google/uuid"
)

// Filter narrows an audit query. Zero fields match everything. From and To
// are inclusive.
type Filter struct {
	EntityType string
	Action     Action
	ActorID    *uuid.UUID
	From       *time.Time
	To         *time.Time
}

func (f Filter) Validate() error {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return ErrInvalidRange
	}
	return nil
}

// Matches reports whether e passes every set field of the filter.
func (f Filter) Matches(e *Entry) bool {
	if f.EntityType != "" && e.EntityType != f.EntityType {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.ActorID != nil && (e.ActorUserID == nil || *e.ActorUserID != *f.ActorID) {
		return false
	}
	if f.From != nil && e.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Timestamp.After(*f.To) {
		return false
	}
	return true
}
