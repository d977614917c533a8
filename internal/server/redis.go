package server

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/philly/rolekeeper/internal/platform/cache"
	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns nil when REDIS_ADDR is empty. A configured but
// unreachable Redis fails startup.
func ConnectRedis(ctx context.Context, cfg cache.Config, log logger.Logger) (*redis.Client, func(), error) {
	if !cfg.Enabled() {
		log.Info(ctx, "redis disabled, counts cache and audit queue are off")
		return nil, func() {}, nil
	}

	client, err := cache.New(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to connect to redis", "addr", cfg.Addr, "error", err)
		return nil, nil, err
	}
	log.Info(ctx, "redis connection established", "addr", cfg.Addr)

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warn(context.Background(), "failed to close redis client", "error", err)
		}
	}
	return client, cleanup, nil
}

// redisPinger adapts the go-redis client to the health checker interface.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func asynqRedisOpt(cfg cache.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
