package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/mahmoudsallem/Backend/internal/cache"
	"github.com/mahmoudsallem/Backend/internal/domain"
	"github.com/mahmoudsallem/Backend/internal/repo"
)

// ErrNotFound marks operations on an id the store does not hold.
var ErrNotFound = errors.New("task not found")

// TaskService owns the Task lifecycle. All access to the store goes
// through it; the repo and cache are injected so tests construct the
// service with in-memory doubles.
type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, cache: c}
}

// List returns every task ordered by ascending id. Concurrent cache fills
// are collapsed to a single repo query.
func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	if s.cache == nil {
		return s.listFromRepo(ctx)
	}
	v, err, _ := s.sf.Do("list", func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx); err == nil && list != nil {
			return list, nil
		}
		list, err := s.listFromRepo(ctx)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Task), nil
}

func (s *TaskService) listFromRepo(ctx context.Context) ([]domain.Task, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return list, nil
}

// Create persists a new task. The store assigns the id and sets
// created_at == updated_at.
func (s *TaskService) Create(ctx context.Context, title string, description *string, completed bool) (domain.Task, error) {
	title = strings.TrimSpace(title)

	t, err := s.repo.Create(ctx, domain.Task{
		Title:       title,
		Description: description,
		Completed:   completed,
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TaskService) GetByID(ctx context.Context, id int64) (domain.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrTaskNotFound) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Update applies the provided fields and refreshes updated_at. A call with
// no fields is a read: it returns the stored task without touching it.
func (s *TaskService) Update(ctx context.Context, id int64, title *string, description *string, completed *bool) (domain.Task, error) {
	if title == nil && description == nil && completed == nil {
		return s.GetByID(ctx, id)
	}
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		title = &trimmed
	}
	t, err := s.repo.Update(ctx, id, repo.TaskPatch{
		Title:       title,
		Description: description,
		Completed:   completed,
	})
	if err != nil {
		if errors.Is(err, repo.ErrTaskNotFound) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, fmt.Errorf("update task: %w", err)
	}
	s.invalidateCache(ctx)
	return t, nil
}

// Delete removes the task permanently. Deleting twice reports ErrNotFound
// the second time.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrTaskNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *TaskService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
}
