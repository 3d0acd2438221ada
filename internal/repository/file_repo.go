package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/tasktimer/internal/db"
	"github.com/andy/tasktimer/internal/domain"
)

// FileRepo is a SQLite implementation of FileRepository
type FileRepo struct {
	db *db.DB
}

// NewFileRepo creates a new FileRepo
func NewFileRepo(database *db.DB) *FileRepo {
	return &FileRepo{db: database}
}

// Create records a new attachment
func (r *FileRepo) Create(ctx context.Context, file *domain.TaskFile) error {
	if err := file.Validate(); err != nil {
		return fmt.Errorf("invalid task file: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO task_files (task_id, name, object_key, content_type, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		file.TaskID,
		file.Name,
		file.ObjectKey,
		file.ContentType,
		file.Size,
		formatTime(file.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create task file: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get task file ID: %w", err)
	}

	file.ID = id
	return nil
}

// GetByID retrieves an attachment by ID
func (r *FileRepo) GetByID(ctx context.Context, id int64) (*domain.TaskFile, error) {
	file := &domain.TaskFile{}
	var createdAt string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, task_id, name, object_key, content_type, size, created_at
		FROM task_files
		WHERE id = ?
	`, id).Scan(
		&file.ID,
		&file.TaskID,
		&file.Name,
		&file.ObjectKey,
		&file.ContentType,
		&file.Size,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task file %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task file: %w", err)
	}

	if file.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return file, nil
}

// ListByTask retrieves the attachments of a task, newest first
func (r *FileRepo) ListByTask(ctx context.Context, taskID int64) ([]*domain.TaskFile, error) {
	return r.list(ctx, `
		SELECT id, task_id, name, object_key, content_type, size, created_at
		FROM task_files
		WHERE task_id = ?
		ORDER BY created_at DESC, id DESC
	`, taskID)
}

// ListByProject retrieves the attachments of every task in a project
func (r *FileRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.TaskFile, error) {
	return r.list(ctx, `
		SELECT f.id, f.task_id, f.name, f.object_key, f.content_type, f.size, f.created_at
		FROM task_files f
		JOIN tasks t ON t.id = f.task_id
		WHERE t.project_id = ?
		ORDER BY f.created_at DESC, f.id DESC
	`, projectID)
}

// ListAll retrieves every attachment
func (r *FileRepo) ListAll(ctx context.Context) ([]*domain.TaskFile, error) {
	return r.list(ctx, `
		SELECT id, task_id, name, object_key, content_type, size, created_at
		FROM task_files
		ORDER BY id
	`)
}

// Delete removes an attachment row. The blob is the caller's to remove.
func (r *FileRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM task_files WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task file: %w", err)
	}
	return checkAffected(result, "task file", id)
}

func (r *FileRepo) list(ctx context.Context, query string, args ...interface{}) ([]*domain.TaskFile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list task files: %w", err)
	}
	defer rows.Close()

	files := make([]*domain.TaskFile, 0)
	for rows.Next() {
		file := &domain.TaskFile{}
		var createdAt string

		err := rows.Scan(
			&file.ID,
			&file.TaskID,
			&file.Name,
			&file.ObjectKey,
			&file.ContentType,
			&file.Size,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task file: %w", err)
		}
		if file.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task files: %w", err)
	}

	return files, nil
}
