package v1

import (
	"context"

	"github.com/taskhub/taskhub/internal/collection"
	"github.com/taskhub/taskhub/internal/domain"
)

// Collection abstracts the task collection store for handler testing.
// *collection.Store satisfies this interface.
type Collection interface {
	Snapshot() collection.Snapshot
	FetchAll(ctx context.Context, filter *domain.TaskFilter) error
	Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	AddTag(ctx context.Context, id, tag string) (*domain.Task, error)
	RemoveTag(ctx context.Context, id, tag string) (*domain.Task, error)
	SetFilter(f domain.TaskFilter)
	SetPage(n int)
	SetItemsPerPage(n int) error
	SelectTask(id string)
	ClearError()
}
