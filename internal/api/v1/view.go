package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/taskhub/taskhub/internal/collection"
	"github.com/taskhub/taskhub/internal/domain"
)

type GetViewOutput struct {
	Body collection.Snapshot
}

type SetFilterInput struct {
	Body domain.TaskFilter `doc:"New filter; replaces the active filter wholesale"`
}

type SetPageInput struct {
	Body struct {
		Page int `json:"page" minimum:"1" doc:"1-based page number; clamped to the valid range"`
	}
}

type SetPageSizeInput struct {
	Body struct {
		ItemsPerPage int `json:"items_per_page" minimum:"1" doc:"Tasks per page"`
	}
}

type SelectTaskInput struct {
	Body struct {
		TaskID string `json:"task_id" doc:"Task to select; empty clears the selection"`
	}
}

type ViewStateOutput struct {
	Body struct {
		Filter     domain.TaskFilter     `json:"filter"`
		Pagination collection.Pagination `json:"pagination"`
	}
}

func viewState(coll Collection) *ViewStateOutput {
	snap := coll.Snapshot()
	out := &ViewStateOutput{}
	out.Body.Filter = snap.Filter
	out.Body.Pagination = snap.Pagination
	return out
}

func RegisterViewRoutes(api huma.API, coll Collection) {
	huma.Register(api, huma.Operation{
		OperationID: "get-view",
		Method:      http.MethodGet,
		Path:        "/view",
		Summary:     "Get the full collection view state",
		Tags:        []string{"View"},
	}, func(_ context.Context, _ *struct{}) (*GetViewOutput, error) {
		return &GetViewOutput{Body: coll.Snapshot()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-filter",
		Method:      http.MethodPut,
		Path:        "/view/filter",
		Summary:     "Replace the active filter and reset to page 1",
		Tags:        []string{"View"},
	}, func(_ context.Context, input *SetFilterInput) (*ViewStateOutput, error) {
		if input.Body.Status != nil && !input.Body.Status.Valid() {
			return nil, huma.Error422UnprocessableEntity("unknown status: " + string(*input.Body.Status))
		}
		if input.Body.Priority != nil && !input.Body.Priority.Valid() {
			return nil, huma.Error422UnprocessableEntity("unknown priority: " + string(*input.Body.Priority))
		}

		coll.SetFilter(input.Body)
		return viewState(coll), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-page",
		Method:      http.MethodPut,
		Path:        "/view/page",
		Summary:     "Move the page cursor",
		Tags:        []string{"View"},
	}, func(_ context.Context, input *SetPageInput) (*ViewStateOutput, error) {
		coll.SetPage(input.Body.Page)
		return viewState(coll), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-page-size",
		Method:      http.MethodPut,
		Path:        "/view/page-size",
		Summary:     "Change the page size and reset to page 1",
		Tags:        []string{"View"},
	}, func(_ context.Context, input *SetPageSizeInput) (*ViewStateOutput, error) {
		if err := coll.SetItemsPerPage(input.Body.ItemsPerPage); err != nil {
			return nil, collectionError("failed to set page size", err)
		}
		return viewState(coll), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "select-task",
		Method:      http.MethodPut,
		Path:        "/view/selection",
		Summary:     "Select a task for editing, or clear the selection",
		Tags:        []string{"View"},
	}, func(_ context.Context, input *SelectTaskInput) (*struct{}, error) {
		coll.SelectTask(input.Body.TaskID)
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "clear-error",
		Method:      http.MethodDelete,
		Path:        "/view/error",
		Summary:     "Clear the shared error state",
		Tags:        []string{"View"},
	}, func(_ context.Context, _ *struct{}) (*struct{}, error) {
		coll.ClearError()
		return nil, nil
	})
}
