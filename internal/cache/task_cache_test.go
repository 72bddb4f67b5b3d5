package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahmoudsallem/Backend/internal/domain"
)

// newTestCache connects to TEST_REDIS_ADDR on DB 15 and clears the list
// key. Skipped when the variable is unset.
func newTestCache(t *testing.T, ttl time.Duration) *TaskCache {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skipf("TEST_REDIS_ADDR not set (e.g. localhost:6379)")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rdb.Ping(ctx).Err())
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewTaskCache(rdb, ttl)
	require.NoError(t, c.Invalidate(context.Background()))
	return c
}

func strPtr(s string) *string { return &s }

func TestCache_MissReturnsNil(t *testing.T) {
	c := newTestCache(t, time.Minute)

	list, err := c.GetList(context.Background())
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestCache_RoundTrip(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	in := []domain.Task{
		{ID: 1, Title: "one", Description: strPtr("notes"), CreatedAt: now, UpdatedAt: now},
		{ID: 2, Title: "two", Completed: true, CreatedAt: now, UpdatedAt: now},
	}
	require.NoError(t, c.SetList(ctx, in))

	out, err := c.GetList(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in[0].ID, out[0].ID)
	require.NotNil(t, out[0].Description)
	assert.Equal(t, "notes", *out[0].Description)
	assert.Nil(t, out[1].Description)
	assert.True(t, out[1].Completed)
}

func TestCache_EmptyListIsAHit(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, nil))

	out, err := c.GetList(ctx)
	require.NoError(t, err)
	require.NotNil(t, out, "cached empty list must be a hit, not a miss")
	assert.Empty(t, out)
}

func TestCache_Invalidate(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, []domain.Task{{ID: 1, Title: "one"}}))
	require.NoError(t, c.Invalidate(ctx))

	out, err := c.GetList(ctx)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCache_Expiry(t *testing.T) {
	c := newTestCache(t, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, []domain.Task{{ID: 1, Title: "one"}}))
	time.Sleep(100 * time.Millisecond)

	out, err := c.GetList(ctx)
	require.NoError(t, err)
	assert.Nil(t, out)
}
