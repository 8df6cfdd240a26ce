package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/internal/domain"
)

func statusPtr(s domain.TaskStatus) *domain.TaskStatus       { return &s }
func priorityPtr(p domain.TaskPriority) *domain.TaskPriority { return &p }
func strPtr(s string) *string                                { return &s }

func sampleTasks() []*domain.Task {
	return []*domain.Task{
		{ID: "1", Title: "Write report", Description: "Quarterly numbers", Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityLow, Tags: []string{"work", "writing"}},
		{ID: "2", Title: "Fix login bug", Description: "Session expires early", Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityHigh, Assignee: "dana", Tags: []string{"work", "bug"}},
		{ID: "3", Title: "Plan trip", Description: "Book flights and hotel", Status: domain.TaskStatusInProgress, Priority: domain.TaskPriorityMedium, Tags: []string{"personal"}},
		{ID: "4", Title: "Archive old docs", Description: "", Status: domain.TaskStatusArchived, Priority: domain.TaskPriorityLow},
	}
}

// ---------------------------------------------------------------------------
// TaskFilter.Match — conjunction of present predicates
// ---------------------------------------------------------------------------

func TestTaskFilter_Match(t *testing.T) {
	t.Parallel()

	tasks := sampleTasks()

	tests := []struct {
		name   string
		filter domain.TaskFilter
		want   []string // expected matching IDs, in order
	}{
		{
			name:   "empty filter matches everything",
			filter: domain.TaskFilter{},
			want:   []string{"1", "2", "3", "4"},
		},
		{
			name:   "status only",
			filter: domain.TaskFilter{Status: statusPtr(domain.TaskStatusTodo)},
			want:   []string{"1", "2"},
		},
		{
			name: "status and priority conjunction",
			filter: domain.TaskFilter{
				Status:   statusPtr(domain.TaskStatusTodo),
				Priority: priorityPtr(domain.TaskPriorityHigh),
			},
			want: []string{"2"},
		},
		{
			name:   "assignee",
			filter: domain.TaskFilter{Assignee: strPtr("dana")},
			want:   []string{"2"},
		},
		{
			name:   "tags match any",
			filter: domain.TaskFilter{Tags: []string{"personal", "bug"}},
			want:   []string{"2", "3"},
		},
		{
			name:   "tags against task without tags",
			filter: domain.TaskFilter{Tags: []string{"work"}},
			want:   []string{"1", "2"},
		},
		{
			name:   "search matches title case-insensitively",
			filter: domain.TaskFilter{SearchQuery: "LOGIN"},
			want:   []string{"2"},
		},
		{
			name:   "search matches description",
			filter: domain.TaskFilter{SearchQuery: "flights"},
			want:   []string{"3"},
		},
		{
			name: "all predicates together",
			filter: domain.TaskFilter{
				Status:      statusPtr(domain.TaskStatusTodo),
				Priority:    priorityPtr(domain.TaskPriorityHigh),
				Tags:        []string{"bug"},
				SearchQuery: "session",
			},
			want: []string{"2"},
		},
		{
			name:   "no match",
			filter: domain.TaskFilter{SearchQuery: "does-not-exist"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := domain.ApplyFilter(tasks, &tt.filter)

			ids := make([]string, 0, len(got))
			for _, task := range got {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestApplyFilter_EmptyFilterIsIdentity(t *testing.T) {
	t.Parallel()

	tasks := sampleTasks()

	got := domain.ApplyFilter(tasks, &domain.TaskFilter{})
	require.Len(t, got, len(tasks))
	for i := range tasks {
		// Same elements, same order — not copies.
		assert.Same(t, tasks[i], got[i])
	}

	// nil filter behaves the same.
	got = domain.ApplyFilter(tasks, nil)
	assert.Len(t, got, len(tasks))
}

func TestApplyFilter_EmptyCollection(t *testing.T) {
	t.Parallel()

	got := domain.ApplyFilter(nil, &domain.TaskFilter{Status: statusPtr(domain.TaskStatusTodo)})
	assert.Empty(t, got)
}

func TestTaskFilter_IsZero(t *testing.T) {
	t.Parallel()

	var nilFilter *domain.TaskFilter
	assert.True(t, nilFilter.IsZero())
	assert.True(t, (&domain.TaskFilter{}).IsZero())
	assert.False(t, (&domain.TaskFilter{SearchQuery: "x"}).IsZero())
	assert.False(t, (&domain.TaskFilter{Tags: []string{"a"}}).IsZero())
	assert.False(t, (&domain.TaskFilter{Status: statusPtr(domain.TaskStatusTodo)}).IsZero())
}
