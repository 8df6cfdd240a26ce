package domain

import (
	"context"
	"fmt"
	"slices"
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusArchived   TaskStatus = "ARCHIVED"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusArchived:
		return true
	default:
		return false
	}
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

// Task is the core entity. The ID is assigned by the repository at
// creation time and never changes afterwards. UpdatedAt >= CreatedAt
// always holds; every mutation refreshes UpdatedAt.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Assignee    string       `json:"assignee,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.Tags != nil {
		c.Tags = slices.Clone(t.Tags)
	}
	return &c
}

// HasTag reports whether the task carries the given tag. A nil tag
// slice is an empty set.
func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// AddTag appends the tag if not already present (set semantics).
// Returns true if the tag set changed.
func (t *Task) AddTag(tag string) bool {
	if tag == "" || t.HasTag(tag) {
		return false
	}
	t.Tags = append(t.Tags, tag)
	return true
}

// RemoveTag deletes the tag from the task's tag set.
// Returns true if the tag set changed.
func (t *Task) RemoveTag(tag string) bool {
	n := len(t.Tags)
	t.Tags = slices.DeleteFunc(t.Tags, func(s string) bool { return s == tag })
	return len(t.Tags) != n
}

// TaskDraft carries the caller-supplied fields of a task to be created.
// The repository assigns ID, CreatedAt and UpdatedAt.
type TaskDraft struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Assignee    string       `json:"assignee,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
}

// Normalize fills in defaults for zero-valued draft fields.
func (d *TaskDraft) Normalize() {
	if d.Status == "" {
		d.Status = TaskStatusTodo
	}
	if d.Priority == "" {
		d.Priority = TaskPriorityMedium
	}
}

// Validate checks the draft against the entity constraints. A draft
// with an empty title never reaches the repository.
func (d *TaskDraft) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	if d.Status != "" && !d.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", d.Status, ErrValidation)
	}
	if d.Priority != "" && !d.Priority.Valid() {
		return fmt.Errorf("unknown priority %q: %w", d.Priority, ErrValidation)
	}
	return nil
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	Assignee    *string       `json:"assignee,omitempty"`
	Tags        *[]string     `json:"tags,omitempty"`
}

// Validate checks the patch's set fields against the entity constraints.
func (p *TaskPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return fmt.Errorf("title must not be empty: %w", ErrValidation)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", *p.Status, ErrValidation)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("unknown priority %q: %w", *p.Priority, ErrValidation)
	}
	return nil
}

// Apply merges the patch's set fields into the task. Timestamps are
// owned by the repository and not touched here.
func (t *Task) Apply(p TaskPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Assignee != nil {
		t.Assignee = *p.Assignee
	}
	if p.Tags != nil {
		t.Tags = slices.Clone(*p.Tags)
	}
}

// TaskRepository is the asynchronous task store. Each call is a single
// round trip with no built-in retry; latency is nonzero and variable.
// Implementations report a missing id by wrapping ErrNotFound.
type TaskRepository interface {
	// Fetch returns the stored collection, optionally pre-filtered
	// server-side. The caller reapplies its own filter regardless.
	Fetch(ctx context.Context, filter *TaskFilter) ([]*Task, error)

	// Create persists a new task, assigning id and timestamps
	// (CreatedAt == UpdatedAt at creation), and returns the full record.
	Create(ctx context.Context, draft TaskDraft) (*Task, error)

	// Update persists the given merged record with a refreshed
	// UpdatedAt and returns the stored result.
	Update(ctx context.Context, t *Task) (*Task, error)

	// Delete removes the task with the given id.
	Delete(ctx context.Context, id string) error
}
