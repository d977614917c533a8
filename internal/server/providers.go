package server

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	cacheadapter "github.com/philly/rolekeeper/internal/adapters/cache"
	"github.com/philly/rolekeeper/internal/adapters/postgres"
	"github.com/philly/rolekeeper/internal/adapters/queue"
	"github.com/philly/rolekeeper/internal/adapters/rest"
	"github.com/philly/rolekeeper/internal/adapters/rest/middleware"
	auditapp "github.com/philly/rolekeeper/internal/audit/application"
	auditports "github.com/philly/rolekeeper/internal/audit/ports"
	"github.com/philly/rolekeeper/internal/platform/cache"
	"github.com/philly/rolekeeper/internal/platform/logger"
	platformpg "github.com/philly/rolekeeper/internal/platform/postgres"
	"github.com/philly/rolekeeper/internal/roles/application"
	"github.com/philly/rolekeeper/internal/roles/ports"
	"github.com/redis/go-redis/v9"
)

// version is overridden at build time with -ldflags "-X ..."
var version = "dev"

func provideVersion() rest.Version {
	return rest.Version(version)
}

// provideLoggerConfig creates logger config from server config
func provideLoggerConfig(config Config) logger.Config {
	return logger.Config{
		Environment: config.Environment,
		LogLevel:    config.LogLevel,
	}
}

func provideJWTConfig(config Config) (middleware.JWTConfig, error) {
	if err := config.ValidateAPI(); err != nil {
		return middleware.JWTConfig{}, err
	}
	return middleware.JWTConfig{JWKS: config.JWKSEndpoint, Issuer: config.JWTIssuer}, nil
}

func provideRateLimitConfig(config Config) middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		RequestsPerSecond: config.RateLimitRPS,
		Burst:             config.RateLimitBurst,
		IdleTimeout:       10 * time.Minute,
	}
}

func provideBulkConfig(config Config) application.BulkConfig {
	return application.BulkConfig{
		Concurrency: config.BulkConcurrency,
		MaxTargets:  config.BulkMaxTargets,
	}
}

func provideQueryConfig(config Config) application.QueryConfig {
	return application.QueryConfig{SearchLimit: config.SearchLimit}
}

func provideRecorderConfig(config Config) auditapp.RecorderConfig {
	return auditapp.RecorderConfig{MaxRetries: uint(max(config.AuditMaxRetries, 0))}
}

func provideRetryConfig(config Config) platformpg.RetryConfig {
	retry := platformpg.DefaultRetryConfig()
	if config.StoreRetryMaxAttempts > 0 {
		retry.MaxAttempts = uint(config.StoreRetryMaxAttempts)
	}
	return retry
}

func provideRedisConfig(config Config) cache.Config {
	return cache.Config{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	}
}

// provideCountsCache returns a nil interface when Redis is disabled so the
// query service reads the store directly.
func provideCountsCache(client *redis.Client, config Config) ports.CountsCache {
	if client == nil {
		return nil
	}
	return cacheadapter.NewCountsCache(client, config.RoleCountsCacheTTL)
}

func provideDatabaseChecker(pool *pgxpool.Pool) rest.DatabaseChecker {
	return pool
}

func provideCacheChecker(client *redis.Client) rest.CacheChecker {
	if client == nil {
		return nil
	}
	return redisPinger{client: client}
}

// provideAuditSink picks where the recorder delivers entries: straight into
// Postgres, or onto the audit queue for the worker.
func provideAuditSink(ctx context.Context, config Config, repo *postgres.AuditRepository, log logger.Logger) (auditports.Sink, func(), error) {
	if config.AuditDelivery != AuditDeliveryQueue {
		return repo, func() {}, nil
	}

	client := queue.NewClient(asynqRedisOpt(provideRedisConfig(config)))
	log.Info(ctx, "audit entries are delivered through the queue", "queue", queue.QueueAudit)

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warn(context.Background(), "failed to close queue client", "error", err)
		}
	}
	return queue.NewAuditDispatcher(client, config.AuditMaxRetries), cleanup, nil
}

func provideWorkerConfig(config Config) (queue.WorkerConfig, error) {
	if config.RedisAddr == "" {
		return queue.WorkerConfig{}, errors.New("the worker requires REDIS_ADDR")
	}
	return queue.WorkerConfig{
		RedisOpts:   asynqRedisOpt(provideRedisConfig(config)),
		Concurrency: config.WorkerConcurrency,
	}, nil
}
