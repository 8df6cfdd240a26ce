package domain

import "strings"

// TaskFilter is a conjunction of optional predicates. An absent field
// means no constraint on that dimension.
type TaskFilter struct {
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	Assignee    *string       `json:"assignee,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	SearchQuery string        `json:"search_query,omitempty"`
}

// IsZero reports whether the filter constrains nothing.
func (f *TaskFilter) IsZero() bool {
	return f == nil ||
		(f.Status == nil && f.Priority == nil && f.Assignee == nil &&
			len(f.Tags) == 0 && f.SearchQuery == "")
}

// Match reports whether the task satisfies every present predicate.
// Tags use match-any semantics: the task's tag set must intersect the
// filter's tag list. The search query is a case-insensitive substring
// match against title or description.
func (f *TaskFilter) Match(t *Task) bool {
	if f == nil {
		return true
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Assignee != nil && t.Assignee != *f.Assignee {
		return false
	}
	if len(f.Tags) > 0 && !intersects(t.Tags, f.Tags) {
		return false
	}
	if f.SearchQuery != "" {
		q := strings.ToLower(f.SearchQuery)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}

// ApplyFilter returns the tasks matching f, preserving input order.
// A nil or zero filter is the identity.
func ApplyFilter(tasks []*Task, f *TaskFilter) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
