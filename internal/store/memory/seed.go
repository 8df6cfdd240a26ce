package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskhub/taskhub/internal/domain"
)

// SeedDrafts is demo data covering every status and priority, with
// enough volume to exercise filtering and pagination.
func SeedDrafts() []domain.TaskDraft {
	return []domain.TaskDraft{
		{Title: "Server downtime investigation", Description: "Production server experiencing intermittent outages", Status: domain.TaskStatusInProgress, Priority: domain.TaskPriorityUrgent, Assignee: "ops", Tags: []string{"infra", "incident"}},
		{Title: "Data breach response", Description: "Investigate and contain potential security incident", Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityUrgent, Tags: []string{"security", "incident"}},
		{Title: "SSL certificate expired", Description: "Production SSL certificate expired 2 hours ago", Status: domain.TaskStatusCompleted, Priority: domain.TaskPriorityUrgent, Tags: []string{"infra"}},
		{Title: "Fix critical security vulnerability", Description: "Address CVE-2024-1234 in authentication module", Status: domain.TaskStatusInProgress, Priority: domain.TaskPriorityHigh, Assignee: "dana", Tags: []string{"security"}},
		{Title: "Deploy production hotfix", Description: "Emergency fix for payment processing bug", Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityHigh, Tags: []string{"release"}},
		{Title: "Optimize slow database queries", Description: "Dashboard loading takes 15+ seconds", Status: domain.TaskStatusInProgress, Priority: domain.TaskPriorityHigh, Tags: []string{"performance", "database"}},
		{Title: "Implement backup system", Description: "Automated daily backups for production database", Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityHigh, Tags: []string{"database", "infra"}},
		{Title: "Update API documentation", Description: "Document new endpoints for v2.0 API", Status: domain.TaskStatusInProgress, Priority: domain.TaskPriorityMedium, Tags: []string{"docs"}},
		{Title: "Implement dark mode", Description: "Add theme toggle and dark color scheme", Status: domain.TaskStatusInProgress, Priority: domain.TaskPriorityMedium, Assignee: "sam", Tags: []string{"frontend"}},
		{Title: "Add error logging", Description: "Integrate structured error tracking", Status: domain.TaskStatusCompleted, Priority: domain.TaskPriorityMedium, Tags: []string{"observability"}},
		{Title: "Implement search functionality", Description: "Add full-text search across all content", Status: domain.TaskStatusInProgress, Priority: domain.TaskPriorityMedium, Tags: []string{"frontend", "backend"}},
		{Title: "Add export to CSV feature", Description: "Allow users to export data to spreadsheet", Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityMedium},
		{Title: "Update README documentation", Description: "Add installation instructions and examples", Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityLow, Tags: []string{"docs"}},
		{Title: "Clean up old dependencies", Description: "Remove unused packages", Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityLow},
		{Title: "Organize project files", Description: "Restructure components directory", Status: domain.TaskStatusCompleted, Priority: domain.TaskPriorityLow, Tags: []string{"chore"}},
		{Title: "Improve error messages", Description: "Make error messages more user-friendly", Status: domain.TaskStatusArchived, Priority: domain.TaskPriorityLow},
	}
}

// Seed inserts every draft directly, skipping the simulated latency so
// startup stays fast.
func (r *TaskRepo) Seed(_ context.Context, drafts []domain.TaskDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range drafts {
		d.Normalize()
		if err := d.Validate(); err != nil {
			return fmt.Errorf("memory.TaskRepo.Seed: %w", err)
		}

		now := time.Now().UTC()
		t := &domain.Task{
			ID:          uuid.NewString(),
			Title:       d.Title,
			Description: d.Description,
			Status:      d.Status,
			Priority:    d.Priority,
			Assignee:    d.Assignee,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, tag := range d.Tags {
			t.AddTag(tag)
		}
		r.tasks[t.ID] = t
		r.order = append(r.order, t.ID)
	}
	return nil
}
