package v1_test

import (
	"context"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	v1 "github.com/taskhub/taskhub/internal/api/v1"
	"github.com/taskhub/taskhub/internal/collection"
	"github.com/taskhub/taskhub/internal/domain"
	"github.com/taskhub/taskhub/internal/store/memory"
)

// newAPI wires the full route set against a real collection store
// backed by a zero-latency in-memory repository seeded with drafts.
func newAPI(t *testing.T, drafts ...domain.TaskDraft) (humatest.TestAPI, *collection.Store, *memory.TaskRepo) {
	t.Helper()

	repo := memory.NewTaskRepo(0)
	if len(drafts) > 0 {
		require.NoError(t, repo.Seed(context.Background(), drafts))
	}

	store := collection.New(repo, 10)
	require.NoError(t, store.FetchAll(context.Background(), nil))

	_, api := humatest.New(t)
	v1.RegisterTaskRoutes(api, store)
	v1.RegisterViewRoutes(api, store)
	v1.RegisterStatsRoutes(api, store)

	return api, store, repo
}

func draft(title string, status domain.TaskStatus, priority domain.TaskPriority, tags ...string) domain.TaskDraft {
	return domain.TaskDraft{Title: title, Status: status, Priority: priority, Tags: tags}
}
