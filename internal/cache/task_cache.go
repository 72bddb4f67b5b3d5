package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mahmoudsallem/Backend/internal/domain"
)

const keyList = "tasks:list"

// TaskCache caches the full task list in Redis. A read-mostly API keeps
// list rendering off Postgres between mutations.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list or nil on miss.
func (c *TaskCache) GetList(ctx context.Context) ([]domain.Task, error) {
	b, err := c.rdb.Get(ctx, keyList).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []domain.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Task{}
	}
	return list, nil
}

// SetList stores the list in cache. An empty list is stored as [] so it
// still counts as a hit.
func (c *TaskCache) SetList(ctx context.Context, list []domain.Task) error {
	if list == nil {
		list = []domain.Task{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyList, b, c.ttl).Err()
}

// Invalidate drops the cached list after a mutation.
func (c *TaskCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyList).Err()
}
