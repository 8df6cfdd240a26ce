package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/taskhub/taskhub/internal/collection"
	"github.com/taskhub/taskhub/internal/domain"
)

type ListTasksInput struct{}

type ListTasksOutput struct {
	Body struct {
		Tasks         []*domain.Task        `json:"tasks"`
		Pagination    collection.Pagination `json:"pagination"`
		TotalFiltered int                   `json:"total_filtered"`
	}
}

type CreateTaskInput struct {
	Body struct {
		Title       string              `json:"title" minLength:"1" maxLength:"500" doc:"Task title"`
		Description string              `json:"description,omitempty" doc:"Task description"`
		Status      domain.TaskStatus   `json:"status,omitempty" doc:"Initial status (default TODO)"`
		Priority    domain.TaskPriority `json:"priority,omitempty" doc:"Priority (default MEDIUM)"`
		Assignee    string              `json:"assignee,omitempty" doc:"Assignee name"`
		Tags        []string            `json:"tags,omitempty" doc:"Initial tag set"`
	}
}

type CreateTaskOutput struct {
	Body *domain.Task
}

type GetTaskInput struct {
	ID string `path:"id" doc:"Task ID"`
}

type GetTaskOutput struct {
	Body *domain.Task
}

type UpdateTaskInput struct {
	ID   string           `path:"id" doc:"Task ID"`
	Body domain.TaskPatch `doc:"Fields to change; omitted fields are untouched"`
}

type UpdateTaskOutput struct {
	Body *domain.Task
}

type DeleteTaskInput struct {
	ID string `path:"id" doc:"Task ID"`
}

type RefreshTasksInput struct {
	Body struct {
		Filter *domain.TaskFilter `json:"filter,omitempty" doc:"Optional server-side filter for the fetch"`
	}
}

type RefreshTasksOutput struct {
	Body struct {
		Total int `json:"total" doc:"Number of tasks after the refresh"`
	}
}

type AddTagInput struct {
	ID   string `path:"id" doc:"Task ID"`
	Body struct {
		Tag string `json:"tag" minLength:"1" maxLength:"100" doc:"Tag to add"`
	}
}

type AddTagOutput struct {
	Body *domain.Task
}

type RemoveTagInput struct {
	ID  string `path:"id" doc:"Task ID"`
	Tag string `path:"tag" doc:"Tag to remove"`
}

type RemoveTagOutput struct {
	Body *domain.Task
}

type ListTagsOutput struct {
	Body struct {
		Tags []string `json:"tags"`
	}
}

// collectionError converts a collection store failure into the matching
// HTTP error.
func collectionError(msg string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(msg)
	case errors.Is(err, domain.ErrValidation):
		return huma.Error422UnprocessableEntity(msg, err)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}

func RegisterTaskRoutes(api huma.API, coll Collection) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List the current page of filtered tasks",
		Tags:        []string{"Tasks"},
	}, func(_ context.Context, _ *ListTasksInput) (*ListTasksOutput, error) {
		snap := coll.Snapshot()

		out := &ListTasksOutput{}
		out.Body.Tasks = snap.PagedTasks
		out.Body.Pagination = snap.Pagination
		out.Body.TotalFiltered = len(snap.FilteredTasks)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/tasks",
		Summary:     "Create a new task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *CreateTaskInput) (*CreateTaskOutput, error) {
		created, err := coll.Create(ctx, domain.TaskDraft{
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Status:      input.Body.Status,
			Priority:    input.Body.Priority,
			Assignee:    input.Body.Assignee,
			Tags:        input.Body.Tags,
		})
		if err != nil {
			return nil, collectionError("failed to create task", err)
		}

		return &CreateTaskOutput{Body: created}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get a task by ID",
		Tags:        []string{"Tasks"},
	}, func(_ context.Context, input *GetTaskInput) (*GetTaskOutput, error) {
		for _, t := range coll.Snapshot().Tasks {
			if t.ID == input.ID {
				return &GetTaskOutput{Body: t}, nil
			}
		}
		return nil, huma.Error404NotFound("task not found")
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPut,
		Path:        "/tasks/{id}",
		Summary:     "Update a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *UpdateTaskInput) (*UpdateTaskOutput, error) {
		updated, err := coll.Update(ctx, input.ID, input.Body)
		if err != nil {
			return nil, collectionError("failed to update task", err)
		}

		return &UpdateTaskOutput{Body: updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-task",
		Method:      http.MethodDelete,
		Path:        "/tasks/{id}",
		Summary:     "Delete a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *DeleteTaskInput) (*struct{}, error) {
		if err := coll.Delete(ctx, input.ID); err != nil {
			return nil, collectionError("failed to delete task", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-tasks",
		Method:      http.MethodPost,
		Path:        "/tasks/refresh",
		Summary:     "Reload the collection from the repository",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *RefreshTasksInput) (*RefreshTasksOutput, error) {
		if err := coll.FetchAll(ctx, input.Body.Filter); err != nil {
			return nil, collectionError("failed to refresh tasks", err)
		}

		out := &RefreshTasksOutput{}
		out.Body.Total = len(coll.Snapshot().Tasks)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-task-tag",
		Method:      http.MethodPost,
		Path:        "/tasks/{id}/tags",
		Summary:     "Add a tag to a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *AddTagInput) (*AddTagOutput, error) {
		updated, err := coll.AddTag(ctx, input.ID, input.Body.Tag)
		if err != nil {
			return nil, collectionError("failed to add tag", err)
		}

		return &AddTagOutput{Body: updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-task-tag",
		Method:      http.MethodDelete,
		Path:        "/tasks/{id}/tags/{tag}",
		Summary:     "Remove a tag from a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *RemoveTagInput) (*RemoveTagOutput, error) {
		updated, err := coll.RemoveTag(ctx, input.ID, input.Tag)
		if err != nil {
			return nil, collectionError("failed to remove tag", err)
		}

		return &RemoveTagOutput{Body: updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tags",
		Method:      http.MethodGet,
		Path:        "/tags",
		Summary:     "List every tag in use, sorted",
		Tags:        []string{"Tasks"},
	}, func(_ context.Context, _ *struct{}) (*ListTagsOutput, error) {
		out := &ListTagsOutput{}
		out.Body.Tags = coll.Snapshot().AllTags
		return out, nil
	})
}
