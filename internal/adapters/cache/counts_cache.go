// Package cache holds the Redis-backed caches of the read side.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/philly/rolekeeper/internal/roles/ports"
	"github.com/redis/go-redis/v9"
)

const (
	countsKey     = "rolekeeper:role_counts"
	generationKey = "rolekeeper:role_counts:generation"
	DefaultTTL    = 30 * time.Second
)

// CountsCache stores role counts as one Redis hash with a TTL. A counter key
// holds the generation; Invalidate bumps it and Set only writes while it is
// unchanged.
type CountsCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.CountsCache = (*CountsCache)(nil)

func NewCountsCache(client *redis.Client, ttl time.Duration) *CountsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CountsCache{client: client, ttl: ttl}
}

func (c *CountsCache) Get(ctx context.Context) (map[domain.Role]int, int64, bool, error) {
	var (
		genCmd *redis.StringCmd
		rawCmd *redis.MapStringStringCmd
	)
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		genCmd = pipe.Get(ctx, generationKey)
		rawCmd = pipe.HGetAll(ctx, countsKey)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, fmt.Errorf("CountsCache.Get: %w", err)
	}

	generation, err := parseGeneration(genCmd)
	if err != nil {
		return nil, 0, false, fmt.Errorf("CountsCache.Get: %w", err)
	}
	raw, err := rawCmd.Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("CountsCache.Get: %w", err)
	}
	if len(raw) == 0 {
		return nil, generation, false, nil
	}

	counts := make(map[domain.Role]int, len(raw))
	for field, value := range raw {
		role, err := domain.ParseRole(field)
		if err != nil {
			return nil, 0, false, fmt.Errorf("CountsCache.Get: field %q: %w", field, err)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, 0, false, fmt.Errorf("CountsCache.Get: role %s: %w", role, err)
		}
		counts[role] = n
	}
	return counts, generation, true, nil
}

// Set stores counts read during generation. It is a no-op once the cache has
// been invalidated since.
func (c *CountsCache) Set(ctx context.Context, generation int64, counts map[domain.Role]int) error {
	if len(counts) == 0 {
		return nil
	}

	values := make(map[string]any, len(counts))
	for role, n := range counts {
		values[string(role)] = n
	}

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := parseGeneration(tx.Get(ctx, generationKey))
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, countsKey)
			pipe.HSet(ctx, countsKey, values)
			pipe.Expire(ctx, countsKey, c.ttl)
			return nil
		})
		return err
	}, generationKey)
	if errors.Is(err, redis.TxFailedErr) {
		// Invalidated while filling.
		return nil
	}
	if err != nil {
		return fmt.Errorf("CountsCache.Set: %w", err)
	}
	return nil
}

func (c *CountsCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, countsKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("CountsCache.Invalidate: %w", err)
	}
	return nil
}

func parseGeneration(cmd *redis.StringCmd) (int64, error) {
	n, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("generation: %w", err)
	}
	return n, nil
}
