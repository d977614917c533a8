package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/philly/rolekeeper/internal/audit/domain"
	"github.com/philly/rolekeeper/internal/audit/ports"
)

// Enqueuer is the part of *asynq.Client the dispatcher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AuditDispatcher is an audit sink that hands entries to the worker.
type AuditDispatcher struct {
	client   Enqueuer
	maxRetry int
}

var (
	_ ports.Sink = (*AuditDispatcher)(nil)
	_ Enqueuer   = (*asynq.Client)(nil)
)

func NewAuditDispatcher(client Enqueuer, maxRetry int) *AuditDispatcher {
	return &AuditDispatcher{client: client, maxRetry: maxRetry}
}

// Write enqueues entry. An entry already on the queue counts as delivered.
func (d *AuditDispatcher) Write(ctx context.Context, entry *domain.Entry) error {
	task, err := NewAuditAppendTask(entry, d.maxRetry)
	if err != nil {
		return err
	}

	if _, err := d.client.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return nil
		}
		return fmt.Errorf("AuditDispatcher.Write: enqueue %s: %w", entry.ID, err)
	}
	return nil
}
