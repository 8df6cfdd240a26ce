package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/taskhub/taskhub/internal/domain"
)

type TaskStats struct {
	Total      int                         `json:"total"`
	ByStatus   map[domain.TaskStatus]int   `json:"by_status"`
	ByPriority map[domain.TaskPriority]int `json:"by_priority"`
	TagCount   int                         `json:"tag_count"`
}

type GetStatsOutput struct {
	Body *TaskStats
}

func RegisterStatsRoutes(api huma.API, coll Collection) {
	huma.Register(api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/stats",
		Summary:     "Aggregate task counts by status and priority",
		Tags:        []string{"Stats"},
	}, func(_ context.Context, _ *struct{}) (*GetStatsOutput, error) {
		snap := coll.Snapshot()

		stats := &TaskStats{
			Total: len(snap.Tasks),
			ByStatus: map[domain.TaskStatus]int{
				domain.TaskStatusTodo:       0,
				domain.TaskStatusInProgress: 0,
				domain.TaskStatusCompleted:  0,
				domain.TaskStatusArchived:   0,
			},
			ByPriority: map[domain.TaskPriority]int{
				domain.TaskPriorityLow:    0,
				domain.TaskPriorityMedium: 0,
				domain.TaskPriorityHigh:   0,
				domain.TaskPriorityUrgent: 0,
			},
			TagCount: len(snap.AllTags),
		}
		for _, t := range snap.Tasks {
			stats.ByStatus[t.Status]++
			stats.ByPriority[t.Priority]++
		}

		return &GetStatsOutput{Body: stats}, nil
	})
}
