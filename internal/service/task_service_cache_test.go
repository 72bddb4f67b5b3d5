package service

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahmoudsallem/Backend/internal/cache"
	"github.com/mahmoudsallem/Backend/internal/domain"
	"github.com/mahmoudsallem/Backend/internal/repo"
)

// countingRepo counts List calls so cache hits are observable.
type countingRepo struct {
	repo.TaskRepo
	listCalls atomic.Int64
}

func (c *countingRepo) List(ctx context.Context) ([]domain.Task, error) {
	c.listCalls.Add(1)
	return c.TaskRepo.List(ctx)
}

func newCachedService(t *testing.T) (*TaskService, *countingRepo) {
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

	taskCache := cache.NewTaskCache(rdb, time.Minute)
	require.NoError(t, taskCache.Invalidate(context.Background()))

	counting := &countingRepo{TaskRepo: repo.NewMemoryTaskRepo()}
	return NewTaskService(counting, taskCache), counting
}

func TestService_ListServedFromCache(t *testing.T) {
	svc, counting := newCachedService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "one", nil, false)
	require.NoError(t, err)

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, int64(1), counting.listCalls.Load(), "second list must come from cache")
}

func TestService_MutationsInvalidateCache(t *testing.T) {
	svc, counting := newCachedService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "one", nil, false)
	require.NoError(t, err)

	_, err = svc.List(ctx)
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, nil, nil, boolPtr(true))
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Completed, "list after update must reflect the mutation")
	assert.Equal(t, int64(2), counting.listCalls.Load())

	require.NoError(t, svc.Delete(ctx, created.ID))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, int64(3), counting.listCalls.Load())
}

func TestService_EmptyListCachedAsHit(t *testing.T) {
	svc, counting := newCachedService(t)
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, first)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counting.listCalls.Load(), "empty result must still be cached")
}
