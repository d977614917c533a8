package cache_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/philly/rolekeeper/internal/adapters/cache"
	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, ttl time.Duration) (*cache.CountsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewCountsCache(client, ttl), mr
}

func TestCountsCache_RoundTrip(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()

	_, gen, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache must miss")
	assert.Equal(t, int64(0), gen)

	want := map[domain.Role]int{
		domain.RoleOwner:     2,
		domain.RoleAdmin:     0,
		domain.RoleModerator: 5,
		domain.RoleUser:      40,
	}
	require.NoError(t, c.Set(ctx, gen, want))

	got, _, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestCountsCache_ExpiresAfterTTL(t *testing.T) {
	c, mr := newCache(t, 10*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, map[domain.Role]int{domain.RoleOwner: 1}))
	mr.FastForward(11 * time.Second)

	_, _, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCountsCache_SetReplacesPreviousValue(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, map[domain.Role]int{domain.RoleOwner: 1, domain.RoleAdmin: 3}))
	require.NoError(t, c.Set(ctx, 0, map[domain.Role]int{domain.RoleOwner: 2}))

	got, _, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[domain.Role]int{domain.RoleOwner: 2}, got)
}

func TestCountsCache_Invalidate(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, map[domain.Role]int{domain.RoleOwner: 1}))
	require.NoError(t, c.Invalidate(ctx))

	assert.False(t, mr.Exists("rolekeeper:role_counts"))
	_, gen, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), gen)
}

func TestCountsCache_FillFromBeforeInvalidateIsDropped(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	ctx := context.Background()

	_, gen, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	// A role change lands between the store read and the fill.
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, gen, map[domain.Role]int{domain.RoleOwner: 1}))

	assert.False(t, mr.Exists("rolekeeper:role_counts"))

	_, gen, ok, err = c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, c.Set(ctx, gen, map[domain.Role]int{domain.RoleOwner: 2}))

	got, _, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[domain.Role]int{domain.RoleOwner: 2}, got)
}

func TestCountsCache_CorruptEntryIsAnError(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	mr.HSet("rolekeeper:role_counts", "root", "1")

	_, _, ok, err := c.Get(context.Background())

	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCountsCache_ServerDown(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	mr.Close()

	_, _, _, err := c.Get(context.Background())

	assert.Error(t, err)
}
