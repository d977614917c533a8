package application

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/audit/domain"
	"github.com/philly/rolekeeper/internal/audit/ports"
	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/philly/rolekeeper/internal/platform/metrics"
)

const (
	defaultMaxRetries      = 5
	defaultInitialInterval = 50 * time.Millisecond
	deliveryTimeout        = 10 * time.Second
)

// RecorderConfig holds the delivery retry settings.
type RecorderConfig struct {
	MaxRetries      uint
	InitialInterval time.Duration
}

// Recorder appends audit entries after the change they describe has
// committed. Delivery is best-effort: a failure is logged and counted but
// never reported to the caller, since the change cannot be rolled back.
type Recorder struct {
	sink    ports.Sink
	logger  logger.Logger
	metrics *metrics.Metrics
	config  RecorderConfig
	now     func() time.Time
}

func NewRecorder(sink ports.Sink, logger logger.Logger, m *metrics.Metrics, config RecorderConfig) *Recorder {
	if config.MaxRetries == 0 {
		config.MaxRetries = defaultMaxRetries
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = defaultInitialInterval
	}
	return &Recorder{
		sink:    sink,
		logger:  logger,
		metrics: m,
		config:  config,
		now:     time.Now,
	}
}

// WithClock replaces the clock used to stamp entries.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Append stamps the entry with a time-ordered id and the current time, then
// delivers it. The stamped entry is returned whether or not delivery
// succeeded.
func (r *Recorder) Append(ctx context.Context, entry *domain.Entry) *domain.Entry {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	entry.ID = id
	entry.Timestamp = r.now().UTC()

	if err := entry.Validate(); err != nil {
		r.fail(ctx, entry, err)
		return entry
	}

	// The entry describes a committed change, so it must survive the caller
	// going away.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.config.InitialInterval

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, r.sink.Write(ctx, entry)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(r.config.MaxRetries),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.logger.Warn(ctx, "audit write failed, retrying",
				"audit_id", entry.ID, "action", entry.Action, "retry_in", next, "error", err)
		}),
	)
	if err != nil {
		r.fail(ctx, entry, err)
		return entry
	}

	r.metrics.AuditWritten()
	return entry
}

func (r *Recorder) fail(ctx context.Context, entry *domain.Entry, err error) {
	r.metrics.AuditFailed()
	r.logger.Error(ctx, "audit entry dropped",
		"audit_id", entry.ID,
		"action", entry.Action,
		"entity_type", entry.EntityType,
		"entity_id", entry.EntityID,
		"error", err,
	)
}
