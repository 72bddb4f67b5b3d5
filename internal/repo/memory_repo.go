package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mahmoudsallem/Backend/internal/domain"
)

// MemoryTaskRepo is an in-memory TaskRepo for tests and local runs without
// Postgres. Ids are assigned monotonically and never reused after deletion.
type MemoryTaskRepo struct {
	mu     sync.Mutex
	tasks  map[int64]domain.Task
	nextID int64
}

var _ TaskRepo = (*MemoryTaskRepo)(nil)

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{tasks: make(map[int64]domain.Task), nextID: 1}
}

func (r *MemoryTaskRepo) Create(_ context.Context, t domain.Task) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Description = clonePtr(t.Description)
	r.tasks[t.ID] = t
	t.Description = clonePtr(t.Description)
	return t, nil
}

func (r *MemoryTaskRepo) GetByID(_ context.Context, id int64) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, ErrTaskNotFound
	}
	t.Description = clonePtr(t.Description)
	return t, nil
}

func (r *MemoryTaskRepo) List(_ context.Context) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		t.Description = clonePtr(t.Description)
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *MemoryTaskRepo) Update(_ context.Context, id int64, patch TaskPatch) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, ErrTaskNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = clonePtr(patch.Description)
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	t.UpdatedAt = time.Now().UTC()
	r.tasks[id] = t
	t.Description = clonePtr(t.Description)
	return t, nil
}

func (r *MemoryTaskRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
