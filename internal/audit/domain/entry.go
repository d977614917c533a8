package domain

import (
	"bytes"
	"errors"
	"maps"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyAction     = errors.New("audit action is required")
	ErrEmptyEntityType = errors.New("audit entity type is required")
	ErrEmptyEntityID   = errors.New("audit entity id is required")
	ErrInvalidRange    = errors.New("audit range start is after its end")
)

// Action names what happened to an entity.
type Action string

const (
	ActionRoleAssigned      Action = "role_assigned"
	ActionRoleUpdated       Action = "role_updated"
	ActionRoleRemoved       Action = "role_removed"
	ActionRoleDowngraded    Action = "role_downgraded"
	ActionOwnerBootstrapped Action = "owner_bootstrapped"
)

const EntityTypeRoleAssignment = "role_assignment"

// Metadata keys written by the role services.
const (
	MetaFrom    = "from"
	MetaTo      = "to"
	MetaReason  = "reason"
	MetaBatchID = "batch_id"
)

// Entry is an immutable record of a privilege-affecting action.
type Entry struct {
	ID          uuid.UUID
	Timestamp   time.Time
	ActorUserID *uuid.UUID // nil for system actions
	Action      Action
	EntityType  string
	EntityID    string
	Metadata    map[string]any
}

// NewEntry creates an entry without identity. ID and Timestamp are stamped
// when the entry is recorded.
func NewEntry(actor *uuid.UUID, action Action, entityType, entityID string) *Entry {
	var actorCopy *uuid.UUID
	if actor != nil {
		a := *actor
		actorCopy = &a
	}
	return &Entry{
		ActorUserID: actorCopy,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Metadata:    make(map[string]any),
	}
}

// With sets a metadata key. Empty string values are skipped.
func (e *Entry) With(key string, value any) *Entry {
	if s, ok := value.(string); ok && s == "" {
		return e
	}
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// Validate checks that the entry names what happened and to what.
func (e *Entry) Validate() error {
	switch {
	case e.Action == "":
		return ErrEmptyAction
	case e.EntityType == "":
		return ErrEmptyEntityType
	case e.EntityID == "":
		return ErrEmptyEntityID
	}
	return nil
}

// Clone returns a deep enough copy for stores that must not share maps with
// callers.
func (e *Entry) Clone() *Entry {
	c := *e
	if e.ActorUserID != nil {
		a := *e.ActorUserID
		c.ActorUserID = &a
	}
	if e.Metadata != nil {
		c.Metadata = maps.Clone(e.Metadata)
	}
	return &c
}

// MatchesKeyword reports whether the keyword occurs in the action, entity
// type or entity id, ignoring case.
func (e *Entry) MatchesKeyword(keyword string) bool {
	k := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(string(e.Action)), k) ||
		strings.Contains(strings.ToLower(e.EntityType), k) ||
		strings.Contains(strings.ToLower(e.EntityID), k)
}

// Before reports whether a sorts ahead of b: newest first, ties broken by
// ascending id.
func Before(a, b *Entry) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

// Sort orders entries newest first.
func Sort(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Before(entries[i], entries[j])
	})
}
