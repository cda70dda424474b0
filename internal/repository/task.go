package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taskdeck/taskdeck/internal/model"
)

// Common errors for task repository operations.
var (
	ErrTaskNotFound = errors.New("task not found")
)

// taskSortColumns maps API sort field names to SQL columns. Anything not
// listed here falls back to insertion order, which also keeps the ORDER BY
// clause free of caller-supplied strings.
var taskSortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"description": "description",
	"isCompleted": "is_completed",
}

// TaskFilter defines filters and ordering for listing tasks.
type TaskFilter struct {
	// Completed filters on is_completed when non-nil.
	Completed *bool
	// SortBy is the API field name to sort on; empty means insertion order.
	SortBy string
	// SortAsc selects ascending order; ignored when SortBy is empty.
	SortAsc bool
	Limit   int
	Offset  int
}

const taskColumns = `id, description, is_completed, owner_id, created_at, updated_at`

// CreateTask inserts a new task into the database.
func (r *Repository) CreateTask(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (id, description, is_completed, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Description,
		task.IsCompleted,
		task.OwnerID,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetTaskForOwner retrieves a task only if it belongs to the given owner.
// A task owned by someone else is indistinguishable from a missing one.
func (r *Repository) GetTaskForOwner(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`

	task, err := scanTask(r.pool.QueryRow(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// UpdateTask persists the mutable task fields, scoped to the owner.
func (r *Repository) UpdateTask(ctx context.Context, task *model.Task) error {
	query := `
		UPDATE tasks
		SET description = $3, is_completed = $4, updated_at = $5
		WHERE id = $1 AND owner_id = $2
	`

	tag, err := r.pool.Exec(ctx, query,
		task.ID,
		task.OwnerID,
		task.Description,
		task.IsCompleted,
		task.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// DeleteTaskForOwner deletes an owned task and returns its last state.
func (r *Repository) DeleteTaskForOwner(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	query := `
		DELETE FROM tasks
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return task, nil
}

// ListTasks retrieves a filtered, sorted, paginated slice of the owner's
// tasks. Without an explicit sort the list comes back in insertion order;
// created_at carries microsecond precision, with id as the final tie-break.
func (r *Repository) ListTasks(ctx context.Context, ownerID string, filter TaskFilter) ([]*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`
	args := []any{ownerID}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		query += fmt.Sprintf(" AND is_completed = $%d", len(args))
	}

	if column, ok := taskSortColumns[filter.SortBy]; ok {
		direction := "DESC"
		if filter.SortAsc {
			direction = "ASC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s, created_at ASC, id ASC", column, direction)
	} else {
		query += " ORDER BY created_at ASC, id ASC"
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// CountTasksByOwner returns the owner's full task count, independent of
// any listing filter.
func (r *Repository) CountTasksByOwner(ctx context.Context, ownerID string) (int, error) {
	query := `SELECT count(*) FROM tasks WHERE owner_id = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return count, nil
}

func scanTask(row pgx.Row) (*model.Task, error) {
	var task model.Task
	err := row.Scan(
		&task.ID,
		&task.Description,
		&task.IsCompleted,
		&task.OwnerID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
