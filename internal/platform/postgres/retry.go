package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// RetryConfig bounds how often a transactional unit is re-run on a transient
// failure.
type RetryConfig struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryConfig matches the STORE_RETRY_MAX_ATTEMPTS default.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialInterval: 25 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
	}
}

// IsTransient reports whether err is worth retrying: serialization failures,
// deadlocks, and errors pgconn marks as safe to retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlStateSerializationFailure || pgErr.Code == sqlStateDeadlockDetected
	}
	return pgconn.SafeToRetry(err)
}

// WithRetry runs op until it succeeds, fails permanently, or the attempts run
// out. Non-transient errors are returned on first sight.
func WithRetry(ctx context.Context, cfg RetryConfig, op func(ctx context.Context) error, notify func(err error, wait time.Duration)) error {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}

	b := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		b.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		b.MaxInterval = cfg.MaxInterval
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(cfg.MaxAttempts),
	}
	if notify != nil {
		opts = append(opts, backoff.WithNotify(notify))
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := op(ctx)
		if err != nil && !IsTransient(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, opts...)
	return err
}
