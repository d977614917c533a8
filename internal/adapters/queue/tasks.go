// Package queue delivers audit entries through asynq. The API enqueues, the
// worker writes to the audit repository.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/philly/rolekeeper/internal/audit/domain"
)

const (
	// QueueAudit is the queue audit deliveries are placed on.
	QueueAudit = "audit"
	// TaskAuditAppend is the task type for appending one audit entry.
	TaskAuditAppend = "audit:append"

	defaultMaxRetry = 10
)

// AuditAppendPayload is the wire form of an audit entry.
type AuditAppendPayload struct {
	ID          uuid.UUID      `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	ActorUserID *uuid.UUID     `json:"actor_user_id,omitempty"`
	Action      string         `json:"action"`
	EntityType  string         `json:"entity_type"`
	EntityID    string         `json:"entity_id"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewAuditAppendTask builds the task for entry. The entry id doubles as the
// asynq task id, so enqueueing the same entry twice is rejected by the broker.
func NewAuditAppendTask(entry *domain.Entry, maxRetry int) (*asynq.Task, error) {
	body, err := json.Marshal(AuditAppendPayload{
		ID:          entry.ID,
		Timestamp:   entry.Timestamp,
		ActorUserID: entry.ActorUserID,
		Action:      string(entry.Action),
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Metadata:    entry.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("encode audit payload: %w", err)
	}
	if maxRetry <= 0 {
		maxRetry = defaultMaxRetry
	}
	return asynq.NewTask(TaskAuditAppend, body,
		asynq.Queue(QueueAudit),
		asynq.TaskID(entry.ID.String()),
		asynq.MaxRetry(maxRetry),
	), nil
}

// Entry converts the payload back into a validated audit entry.
func (p AuditAppendPayload) Entry() (*domain.Entry, error) {
	if p.ID == uuid.Nil {
		return nil, fmt.Errorf("audit payload: missing id")
	}
	entry := &domain.Entry{
		ID:          p.ID,
		Timestamp:   p.Timestamp,
		ActorUserID: p.ActorUserID,
		Action:      domain.Action(p.Action),
		EntityType:  p.EntityType,
		EntityID:    p.EntityID,
		Metadata:    p.Metadata,
	}
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("audit payload: %w", err)
	}
	return entry, nil
}
