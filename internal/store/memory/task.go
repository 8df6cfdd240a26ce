// Package memory provides a process-local TaskRepository with
// simulated remote behavior: configurable per-call latency and failure
// injection. It backs demos and tests where no database is available.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskhub/taskhub/internal/domain"
)

// TaskRepo is an in-memory domain.TaskRepository. Insertion order is
// preserved so Fetch is deterministic. All returned tasks are deep
// copies; callers can never mutate stored state directly.
type TaskRepo struct {
	mu      sync.RWMutex
	tasks   map[string]*domain.Task
	order   []string
	latency time.Duration
	failure error
}

// NewTaskRepo creates an empty repository. latency is applied to every
// call before it touches the store, simulating a remote round trip;
// zero disables the delay.
func NewTaskRepo(latency time.Duration) *TaskRepo {
	return &TaskRepo{
		tasks:   make(map[string]*domain.Task),
		latency: latency,
	}
}

// FailWith makes every subsequent call return err until called with
// nil again. Used to exercise failure paths in demos and tests.
func (r *TaskRepo) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure = err
}

func (r *TaskRepo) delay(ctx context.Context) error {
	if r.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *TaskRepo) injected() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.failure
}

func (r *TaskRepo) Fetch(ctx context.Context, filter *domain.TaskFilter) ([]*domain.Task, error) {
	if err := r.delay(ctx); err != nil {
		return nil, fmt.Errorf("memory.TaskRepo.Fetch: %w", err)
	}
	if err := r.injected(); err != nil {
		return nil, fmt.Errorf("memory.TaskRepo.Fetch: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Task, 0, len(r.order))
	for _, id := range r.order {
		t := r.tasks[id]
		if filter.Match(t) {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

func (r *TaskRepo) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	if err := r.delay(ctx); err != nil {
		return nil, fmt.Errorf("memory.TaskRepo.Create: %w", err)
	}
	if err := r.injected(); err != nil {
		return nil, fmt.Errorf("memory.TaskRepo.Create: %w", err)
	}

	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("memory.TaskRepo.Create: %w", err)
	}

	now := time.Now().UTC()
	t := &domain.Task{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		Assignee:    draft.Assignee,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, tag := range draft.Tags {
		t.AddTag(tag)
	}

	r.mu.Lock()
	r.tasks[t.ID] = t
	r.order = append(r.order, t.ID)
	r.mu.Unlock()

	return t.Clone(), nil
}

func (r *TaskRepo) Update(ctx context.Context, in *domain.Task) (*domain.Task, error) {
	if err := r.delay(ctx); err != nil {
		return nil, fmt.Errorf("memory.TaskRepo.Update: %w", err)
	}
	if err := r.injected(); err != nil {
		return nil, fmt.Errorf("memory.TaskRepo.Update: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[in.ID]
	if !ok {
		return nil, fmt.Errorf("memory.TaskRepo.Update: task %s: %w", in.ID, domain.ErrNotFound)
	}

	next := in.Clone()
	next.CreatedAt = stored.CreatedAt // creation time is immutable
	next.UpdatedAt = time.Now().UTC()
	r.tasks[in.ID] = next

	return next.Clone(), nil
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	if err := r.delay(ctx); err != nil {
		return fmt.Errorf("memory.TaskRepo.Delete: %w", err)
	}
	if err := r.injected(); err != nil {
		return fmt.Errorf("memory.TaskRepo.Delete: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return fmt.Errorf("memory.TaskRepo.Delete: task %s: %w", id, domain.ErrNotFound)
	}
	delete(r.tasks, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
