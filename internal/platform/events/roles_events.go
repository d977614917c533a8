package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/platform/eventbus"
)

// Role event topics
const (
	RoleChangedTopic eventbus.Topic = "roles.changed"
)

// RoleChangedEvent is published after a role mutation has committed
type RoleChangedEvent struct {
	TargetID   uuid.UUID
	ActorID    *uuid.UUID // nil for system actions such as owner bootstrap
	Action     string
	From       string // empty when the user had no role
	To         string // empty when the role was removed
	BatchID    *uuid.UUID
	OccurredAt time.Time
}
