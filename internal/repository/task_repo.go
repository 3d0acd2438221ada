package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/tasktimer/internal/db"
	"github.com/andy/tasktimer/internal/domain"
)

// TaskRepo is a SQLite implementation of TaskRepository
type TaskRepo struct {
	db *db.DB
}

// NewTaskRepo creates a new TaskRepo
func NewTaskRepo(database *db.DB) *TaskRepo {
	return &TaskRepo{db: database}
}

// Create inserts a new task into the database
func (r *TaskRepo) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks (project_id, name, created_at) VALUES (?, ?, ?)",
		task.ProjectID,
		task.Name,
		formatTime(task.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get task ID: %w", err)
	}

	task.ID = id
	return nil
}

// GetByID retrieves a task by ID
func (r *TaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	task := &domain.Task{}
	var createdAt string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, project_id, name, created_at FROM tasks WHERE id = ?", id,
	).Scan(&task.ID, &task.ProjectID, &task.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if task.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return task, nil
}

// ListByProject retrieves the tasks of a project in creation order
func (r *TaskRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, name, created_at
		FROM tasks
		WHERE project_id = ?
		ORDER BY created_at, id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task := &domain.Task{}
		var createdAt string

		if err := rows.Scan(&task.ID, &task.ProjectID, &task.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if task.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// Delete removes a task; its sessions and file rows cascade
func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return checkAffected(result, "task", id)
}
