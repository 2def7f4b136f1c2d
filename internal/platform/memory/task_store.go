// Package memory provides an in-memory TaskStore implementation with the
// same identity and pagination semantics as the Postgres store. It backs
// database-less runs and the property-style tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/taskforge/task-api/internal/domain"
	"github.com/taskforge/task-api/internal/store"
)

// MemoryTaskStore implements store.TaskStore with a mutex-guarded map.
// IDs come from a counter that only moves forward, so deleted IDs are
// never reused.
type MemoryTaskStore struct {
	mu     sync.RWMutex
	tasks  map[int64]*domain.Task
	nextID int64
}

// NewMemoryTaskStore creates an empty in-memory task store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks:  make(map[int64]*domain.Task),
		nextID: 1,
	}
}

// Ensure MemoryTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*MemoryTaskStore)(nil)

// clone returns a copy so callers never hold references into the map.
func clone(t *domain.Task) *domain.Task {
	cp := *t
	if t.Description != nil {
		desc := *t.Description
		cp.Description = &desc
	}
	return &cp
}

// Insert implements store.TaskStore.Insert
func (s *MemoryTaskStore) Insert(ctx context.Context, task *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return store.ErrStorageUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	task.ID = s.nextID
	s.nextID++
	task.CreatedAt = now
	task.UpdatedAt = now

	s.tasks[task.ID] = clone(task)
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *MemoryTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.ErrStorageUnavailable
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return clone(task), nil
}

// List implements store.TaskStore.List
func (s *MemoryTaskStore) List(ctx context.Context, skip, limit int) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.ErrStorageUnavailable
	}

	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		return []*domain.Task{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if skip >= len(ids) {
		return []*domain.Task{}, nil
	}

	end := skip + limit
	if end > len(ids) {
		end = len(ids)
	}

	tasks := make([]*domain.Task, 0, end-skip)
	for _, id := range ids[skip:end] {
		tasks = append(tasks, clone(s.tasks[id]))
	}
	return tasks, nil
}

// Update implements store.TaskStore.Update
func (s *MemoryTaskStore) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.ErrStorageUnavailable
	}

	// The relational backend's CHECK constraint rejects an empty title;
	// this store enforces the same contract.
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}

	patch.Apply(task)
	now := time.Now().UTC()
	if !now.After(task.UpdatedAt) {
		// Coarse clocks can land the refresh on the previous instant;
		// nudge forward so updated_at strictly increases.
		now = task.UpdatedAt.Add(time.Nanosecond)
	}
	task.UpdatedAt = now

	return clone(task), nil
}

// Delete implements store.TaskStore.Delete
func (s *MemoryTaskStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return store.ErrStorageUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

// Count implements store.TaskStore.Count
func (s *MemoryTaskStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, store.ErrStorageUnavailable
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.tasks)), nil
}

// Ping implements store.TaskStore.Ping
func (s *MemoryTaskStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return store.ErrStorageUnavailable
	}
	return nil
}
