// Package collection owns the authoritative task collection and its
// UI-facing view state: the active filter, pagination, selection, and
// shared loading/error slots. Every persistence action goes through a
// domain.TaskRepository and is committed only after the repository
// confirms it; derived views are recomputed from committed state on
// every read, so they can never desync from it.
package collection

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/taskhub/taskhub/internal/domain"
)

// DefaultItemsPerPage is used when New is given a non-positive page size.
const DefaultItemsPerPage = 10

// Pagination is the 1-based page cursor over the filtered collection.
// TotalPages is derived and never less than 1.
type Pagination struct {
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
	TotalPages   int `json:"total_pages"`
}

// Snapshot is an immutable view of the store. All task values are deep
// copies; mutating a snapshot never touches committed state.
type Snapshot struct {
	Tasks         []*domain.Task    `json:"tasks"`
	FilteredTasks []*domain.Task    `json:"filtered_tasks"`
	PagedTasks    []*domain.Task    `json:"paged_tasks"`
	SelectedTask  *domain.Task      `json:"selected_task,omitempty"`
	Filter        domain.TaskFilter `json:"filter"`
	Pagination    Pagination        `json:"pagination"`
	Loading       bool              `json:"loading"`
	Error         string            `json:"error,omitempty"`
	AllTags       []string          `json:"all_tags"`
}

// Store is the single source of truth for the task collection.
// Constructed once per application instance and passed by reference;
// safe for concurrent use. Repository calls run outside the lock, so
// commands issued while another is in flight are not blocked by it.
type Store struct {
	repo domain.TaskRepository

	mu       sync.Mutex
	tasks    []*domain.Task
	filter   domain.TaskFilter
	page     int
	perPage  int
	selected string
	inflight int
	errMsg   string
	fetchGen uint64

	events *subscribers
}

// New creates an empty Store backed by repo.
func New(repo domain.TaskRepository, itemsPerPage int) *Store {
	if itemsPerPage < 1 {
		itemsPerPage = DefaultItemsPerPage
	}
	return &Store{
		repo:    repo,
		page:    1,
		perPage: itemsPerPage,
		events:  newSubscribers(),
	}
}

// Subscribe registers for committed change events.
func (s *Store) Subscribe() (<-chan Event, func()) {
	return s.events.Subscribe()
}

// Snapshot returns a consistent copy of the full state, with derived
// views recomputed from the committed collection.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := cloneTasks(s.tasks)
	filter := s.filter
	filtered := domain.ApplyFilter(tasks, &filter)
	paged, totalPages := domain.Paginate(filtered, s.page, s.perPage)

	var selected *domain.Task
	if s.selected != "" {
		for _, t := range tasks {
			if t.ID == s.selected {
				selected = t
				break
			}
		}
	}

	return Snapshot{
		Tasks:         tasks,
		FilteredTasks: filtered,
		PagedTasks:    paged,
		SelectedTask:  selected,
		Filter:        filter,
		Pagination: Pagination{
			CurrentPage:  domain.ClampPage(s.page, totalPages),
			ItemsPerPage: s.perPage,
			TotalPages:   totalPages,
		},
		Loading: s.inflight > 0,
		Error:   s.errMsg,
		AllTags: aggregateTags(tasks),
	}
}

// FetchAll replaces the collection with the repository's contents. The
// filter, when given, is forwarded for server-side narrowing but does
// not replace the store's active filter; the client-side filter engine
// stays authoritative for what is displayed. On failure the previous
// collection is kept intact. A fetch that resolves after a newer fetch
// has started is discarded as stale.
func (s *Store) FetchAll(ctx context.Context, filter *domain.TaskFilter) error {
	s.mu.Lock()
	s.fetchGen++
	gen := s.fetchGen
	s.inflight++
	s.errMsg = ""
	s.mu.Unlock()

	tasks, err := s.repo.Fetch(ctx, filter)

	s.mu.Lock()
	s.inflight--
	if gen != s.fetchGen {
		s.mu.Unlock()
		log.Debug().Uint64("generation", gen).Msg("discarding stale fetch result")
		return nil
	}
	if err != nil {
		s.errMsg = err.Error()
		s.mu.Unlock()
		return fmt.Errorf("collection.Store.FetchAll: %w", err)
	}
	s.tasks = cloneTasks(tasks)
	s.clampPageLocked()
	s.mu.Unlock()

	s.events.publish(Event{Type: EventRefreshed})
	return nil
}

// Create validates the draft, persists it, and appends the confirmed
// task (repository-assigned id and timestamps) to the collection.
// Concurrent creates each append their own confirmed result exactly once.
func (s *Store) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		s.setError(err)
		return nil, fmt.Errorf("collection.Store.Create: %w", err)
	}

	s.begin()
	created, err := s.repo.Create(ctx, draft)
	if err != nil {
		s.settleError(err)
		return nil, fmt.Errorf("collection.Store.Create: %w", err)
	}

	s.mu.Lock()
	s.inflight--
	s.tasks = append(s.tasks, created.Clone())
	s.clampPageLocked()
	s.mu.Unlock()

	s.events.publish(Event{Type: EventCreated, TaskID: created.ID, Task: created.Clone()})
	return created, nil
}

// Update merges the patch into the task as it exists at resolution
// time, persists the merged record, and replaces the element in place,
// preserving collection order. Returns domain.ErrNotFound if the id is
// absent from the collection.
func (s *Store) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		s.setError(err)
		return nil, fmt.Errorf("collection.Store.Update: %w", err)
	}

	s.mu.Lock()
	cur := s.findLocked(id)
	if cur == nil {
		s.errMsg = "task not found"
		s.mu.Unlock()
		return nil, fmt.Errorf("collection.Store.Update: task %s: %w", id, domain.ErrNotFound)
	}
	merged := cur.Clone()
	merged.Apply(patch)
	s.inflight++
	s.errMsg = ""
	s.mu.Unlock()

	updated, err := s.repo.Update(ctx, merged)
	if err != nil {
		s.settleError(err)
		return nil, fmt.Errorf("collection.Store.Update: %w", err)
	}

	s.mu.Lock()
	s.inflight--
	// The task may have been deleted while the call was in flight; in
	// that case the update result is simply not applied.
	if i := s.indexLocked(updated.ID); i >= 0 {
		s.tasks[i] = updated.Clone()
	}
	s.clampPageLocked()
	s.mu.Unlock()

	s.events.publish(Event{Type: EventUpdated, TaskID: updated.ID, Task: updated.Clone()})
	return updated, nil
}

// Delete removes the task after the repository confirms the deletion.
// Returns domain.ErrNotFound if the id is absent from the collection.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.indexLocked(id) < 0 {
		s.errMsg = "task not found"
		s.mu.Unlock()
		return fmt.Errorf("collection.Store.Delete: task %s: %w", id, domain.ErrNotFound)
	}
	s.inflight++
	s.errMsg = ""
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.settleError(err)
		return fmt.Errorf("collection.Store.Delete: %w", err)
	}

	s.mu.Lock()
	s.inflight--
	s.tasks = slices.DeleteFunc(s.tasks, func(t *domain.Task) bool { return t.ID == id })
	if s.selected == id {
		s.selected = ""
	}
	s.clampPageLocked()
	s.mu.Unlock()

	s.events.publish(Event{Type: EventDeleted, TaskID: id})
	return nil
}

// AddTag adds a tag to a task's tag set, persisted through the same
// repository-confirmed update path as every other mutation. Adding a
// tag the task already carries is a no-op.
func (s *Store) AddTag(ctx context.Context, id, tag string) (*domain.Task, error) {
	if tag == "" {
		err := fmt.Errorf("tag is required: %w", domain.ErrValidation)
		s.setError(err)
		return nil, fmt.Errorf("collection.Store.AddTag: %w", err)
	}

	s.mu.Lock()
	cur := s.findLocked(id)
	if cur == nil {
		s.errMsg = "task not found"
		s.mu.Unlock()
		return nil, fmt.Errorf("collection.Store.AddTag: task %s: %w", id, domain.ErrNotFound)
	}
	next := cur.Clone()
	if !next.AddTag(tag) {
		s.mu.Unlock()
		return cur.Clone(), nil
	}
	tags := next.Tags
	s.mu.Unlock()

	return s.Update(ctx, id, domain.TaskPatch{Tags: &tags})
}

// RemoveTag removes a tag from a task's tag set through the update
// path. Removing an absent tag is a no-op.
func (s *Store) RemoveTag(ctx context.Context, id, tag string) (*domain.Task, error) {
	s.mu.Lock()
	cur := s.findLocked(id)
	if cur == nil {
		s.errMsg = "task not found"
		s.mu.Unlock()
		return nil, fmt.Errorf("collection.Store.RemoveTag: task %s: %w", id, domain.ErrNotFound)
	}
	next := cur.Clone()
	if !next.RemoveTag(tag) {
		s.mu.Unlock()
		return cur.Clone(), nil
	}
	tags := next.Tags
	if tags == nil {
		tags = []string{}
	}
	s.mu.Unlock()

	return s.Update(ctx, id, domain.TaskPatch{Tags: &tags})
}

// SetFilter replaces the active filter wholesale and resets the page
// cursor to 1. Callers wanting a partial change construct the new
// filter from the current snapshot.
func (s *Store) SetFilter(f domain.TaskFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.page = 1
}

// SetPage moves the page cursor, silently clamped to the valid range
// for the current filtered collection.
func (s *Store) SetPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := domain.ApplyFilter(s.tasks, &s.filter)
	_, total := domain.Paginate(filtered, 1, s.perPage)
	s.page = domain.ClampPage(n, total)
}

// SetItemsPerPage changes the page size and resets the cursor to 1.
func (s *Store) SetItemsPerPage(n int) error {
	if n < 1 {
		err := fmt.Errorf("items per page must be positive, got %d: %w", n, domain.ErrValidation)
		s.setError(err)
		return fmt.Errorf("collection.Store.SetItemsPerPage: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.perPage = n
	s.page = 1
	return nil
}

// SelectTask marks a task as selected by id; the empty id clears the
// selection. Selection of an unknown id is allowed and simply resolves
// to no task in snapshots.
func (s *Store) SelectTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// ClearError resets the shared error slot.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// begin marks an operation as in flight and clears the error slot.
func (s *Store) begin() {
	s.mu.Lock()
	s.inflight++
	s.errMsg = ""
	s.mu.Unlock()
}

// settleError finishes a failed in-flight operation. The collection is
// left untouched; only the shared error slot changes.
func (s *Store) settleError(err error) {
	s.mu.Lock()
	s.inflight--
	s.errMsg = err.Error()
	s.mu.Unlock()
	log.Warn().Err(err).Msg("task operation failed")
}

func (s *Store) setError(err error) {
	s.mu.Lock()
	s.errMsg = err.Error()
	s.mu.Unlock()
}

// clampPageLocked re-establishes 1 <= page <= totalPages after any
// change to the collection. Callers hold s.mu.
func (s *Store) clampPageLocked() {
	filtered := domain.ApplyFilter(s.tasks, &s.filter)
	_, total := domain.Paginate(filtered, 1, s.perPage)
	s.page = domain.ClampPage(s.page, total)
}

func (s *Store) findLocked(id string) *domain.Task {
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i]
	}
	return nil
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(t *domain.Task) bool { return t.ID == id })
}

func cloneTasks(tasks []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// aggregateTags returns the sorted set union of every task's tags.
func aggregateTags(tasks []*domain.Task) []string {
	seen := make(map[string]struct{})
	for _, t := range tasks {
		for _, tag := range t.Tags {
			seen[tag] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
