package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/philly/rolekeeper/internal/audit/ports"
	"github.com/philly/rolekeeper/internal/platform/logger"
)

// AuditHandler writes queued audit entries to the durable sink.
type AuditHandler struct {
	sink   ports.Sink
	logger logger.Logger
}

func NewAuditHandler(sink ports.Sink, logger logger.Logger) *AuditHandler {
	return &AuditHandler{sink: sink, logger: logger}
}

// Handle processes TaskAuditAppend tasks. Malformed payloads are dropped
// without retry; sink errors are retried by asynq.
func (h *AuditHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AuditAppendPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error(ctx, "invalid audit task payload", "error", err)
		return fmt.Errorf("decode audit payload: %v: %w", err, asynq.SkipRetry)
	}

	entry, err := payload.Entry()
	if err != nil {
		h.logger.Error(ctx, "invalid audit task payload", "entry_id", payload.ID, "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if err := h.sink.Write(ctx, entry); err != nil {
		h.logger.Warn(ctx, "audit task write failed", "entry_id", entry.ID, "action", entry.Action, "error", err)
		return err
	}
	return nil
}
