package repository

import (
	"context"
	"errors"

	"github.com/andy/tasktimer/internal/domain"
)

// ErrNotFound is returned when a lookup or delete matches no row
var ErrNotFound = errors.New("not found")

// ProjectRepository manages project persistence
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Delete(ctx context.Context, id int64) error // Cascades to tasks, sessions and files
}

// TaskRepository manages task persistence
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error)
	Delete(ctx context.Context, id int64) error // Cascades to sessions and files
}

// SessionRepository manages completed time sessions
type SessionRepository interface {
	Create(ctx context.Context, session *domain.TimeSession) error
	GetByID(ctx context.Context, id int64) (*domain.TimeSession, error)
	List(ctx context.Context, filter domain.SessionFilter) ([]*domain.TimeSession, error) // Newest first
	Delete(ctx context.Context, id int64) error
}

// FileRepository manages task attachment metadata
type FileRepository interface {
	Create(ctx context.Context, file *domain.TaskFile) error
	GetByID(ctx context.Context, id int64) (*domain.TaskFile, error)
	ListByTask(ctx context.Context, taskID int64) ([]*domain.TaskFile, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.TaskFile, error)
	ListAll(ctx context.Context) ([]*domain.TaskFile, error)
	Delete(ctx context.Context, id int64) error
}
