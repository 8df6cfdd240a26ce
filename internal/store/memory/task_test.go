package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/internal/domain"
	"github.com/taskhub/taskhub/internal/store/memory"
)

func TestTaskRepo_CreateAssignsIdentity(t *testing.T) {
	t.Parallel()

	repo := memory.NewTaskRepo(0)

	created, err := repo.Create(context.Background(), domain.TaskDraft{Title: "X", Tags: []string{"a", "a", "b"}})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, domain.TaskStatusTodo, created.Status)
	assert.Equal(t, domain.TaskPriorityMedium, created.Priority)
	assert.Equal(t, []string{"a", "b"}, created.Tags, "duplicate draft tags collapse to a set")

	other, err := repo.Create(context.Background(), domain.TaskDraft{Title: "Y"})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, other.ID)
}

func TestTaskRepo_CreateRejectsInvalidDraft(t *testing.T) {
	t.Parallel()

	repo := memory.NewTaskRepo(0)
	_, err := repo.Create(context.Background(), domain.TaskDraft{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskRepo_FetchOrderAndFilter(t *testing.T) {
	t.Parallel()

	repo := memory.NewTaskRepo(0)
	ctx := context.Background()

	for _, d := range []domain.TaskDraft{
		{Title: "alpha", Status: domain.TaskStatusTodo},
		{Title: "beta", Status: domain.TaskStatusCompleted},
		{Title: "gamma", Status: domain.TaskStatusTodo},
	} {
		_, err := repo.Create(ctx, d)
		require.NoError(t, err)
	}

	all, err := repo.Fetch(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"alpha", "beta", "gamma"},
		[]string{all[0].Title, all[1].Title, all[2].Title}, "insertion order is preserved")

	status := domain.TaskStatusTodo
	todos, err := repo.Fetch(ctx, &domain.TaskFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "alpha", todos[0].Title)
	assert.Equal(t, "gamma", todos[1].Title)
}

func TestTaskRepo_FetchReturnsCopies(t *testing.T) {
	t.Parallel()

	repo := memory.NewTaskRepo(0)
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.TaskDraft{Title: "original", Tags: []string{"keep"}})
	require.NoError(t, err)

	got, err := repo.Fetch(ctx, nil)
	require.NoError(t, err)
	got[0].Title = "mutated"
	got[0].Tags[0] = "mutated"

	fresh, err := repo.Fetch(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "original", fresh[0].Title)
	assert.Equal(t, "keep", fresh[0].Tags[0])
}

func TestTaskRepo_Update(t *testing.T) {
	t.Parallel()

	repo := memory.NewTaskRepo(0)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.TaskDraft{Title: "before"})
	require.NoError(t, err)

	in := created.Clone()
	in.Title = "after"
	in.CreatedAt = time.Now().Add(time.Hour) // must be ignored

	updated, err := repo.Update(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt, "creation time is immutable")
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	missing := created.Clone()
	missing.ID = "nope"
	_, err = repo.Update(ctx, missing)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskRepo_Delete(t *testing.T) {
	t.Parallel()

	repo := memory.NewTaskRepo(0)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.TaskDraft{Title: "X"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), domain.ErrNotFound)

	all, err := repo.Fetch(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTaskRepo_FailureInjection(t *testing.T) {
	t.Parallel()

	repo := memory.NewTaskRepo(0)
	ctx := context.Background()

	boom := errors.New("simulated outage")
	repo.FailWith(boom)

	_, err := repo.Fetch(ctx, nil)
	assert.ErrorIs(t, err, boom)
	_, err = repo.Create(ctx, domain.TaskDraft{Title: "X"})
	assert.ErrorIs(t, err, boom)

	repo.FailWith(nil)
	_, err = repo.Create(ctx, domain.TaskDraft{Title: "X"})
	assert.NoError(t, err)
}

func TestTaskRepo_LatencyRespectsContext(t *testing.T) {
	t.Parallel()

	repo := memory.NewTaskRepo(time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := repo.Fetch(ctx, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTaskRepo_Seed(t *testing.T) {
	t.Parallel()

	repo := memory.NewTaskRepo(time.Minute) // latency must not apply to seeding
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, memory.SeedDrafts()))

	fast := memory.NewTaskRepo(0)
	require.NoError(t, fast.Seed(ctx, memory.SeedDrafts()))

	all, err := fast.Fetch(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, len(memory.SeedDrafts()))
}
