package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhub/taskhub/internal/domain"
)

const taskColumns = `id, title, description, status, priority, assignee, tags, created_at, updated_at`

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

// Fetch lists tasks in creation order. A filter, when given, is pushed
// down into SQL; the caller may still reapply it in memory.
func (r *TaskRepo) Fetch(ctx context.Context, filter *domain.TaskFilter) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter != nil {
		if filter.Status != nil {
			where = append(where, "status = "+arg(*filter.Status))
		}
		if filter.Priority != nil {
			where = append(where, "priority = "+arg(*filter.Priority))
		}
		if filter.Assignee != nil {
			where = append(where, "assignee = "+arg(*filter.Assignee))
		}
		if len(filter.Tags) > 0 {
			where = append(where, "tags && "+arg(filter.Tags))
		}
		if filter.SearchQuery != "" {
			p := arg("%" + filter.SearchQuery + "%")
			where = append(where, "(title ILIKE "+p+" OR description ILIKE "+p+")")
		}
	}

	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY created_at, id LIMIT 1000"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.Fetch: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, "taskRepo.Fetch")
}

func (r *TaskRepo) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("taskRepo.Create: %w", err)
	}

	var t domain.Task
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tasks (id, title, description, status, priority, assignee, tags, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		 RETURNING `+taskColumns,
		uuid.NewString(), draft.Title, draft.Description, draft.Status,
		draft.Priority, draft.Assignee, tagSet(draft.Tags),
	).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.Assignee, &t.Tags, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.Create: %w", err)
	}

	return &t, nil
}

func (r *TaskRepo) Update(ctx context.Context, in *domain.Task) (*domain.Task, error) {
	var t domain.Task
	err := r.pool.QueryRow(ctx,
		`UPDATE tasks SET title = $1, description = $2, status = $3, priority = $4,
		        assignee = $5, tags = $6, updated_at = now()
		 WHERE id = $7
		 RETURNING `+taskColumns,
		in.Title, in.Description, in.Status, in.Priority,
		in.Assignee, tagSet(in.Tags), in.ID,
	).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.Assignee, &t.Tags, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("taskRepo.Update: task %s: %w", in.ID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("taskRepo.Update: %w", err)
	}

	return &t, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("taskRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Delete: task %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanTasks(rows pgx.Rows, op string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.Assignee, &t.Tags, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return tasks, nil
}

// tagSet deduplicates while preserving first-seen order, so the stored
// text[] honors the task's set semantics.
func tagSet(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok || tag == "" {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
