package service

import (
	"context"

	"github.com/andy/tasktimer/internal/domain"
	"github.com/andy/tasktimer/internal/repository"
	"github.com/andy/tasktimer/internal/storage"
	"github.com/sirupsen/logrus"
)

// ProjectService manages projects and the tasks inside them
type ProjectService interface {
	CreateProject(ctx context.Context, name string) (*domain.Project, error)
	GetProject(ctx context.Context, id int64) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]*domain.Project, error)

	// DeleteProject removes the project with its tasks, sessions and attachments
	DeleteProject(ctx context.Context, id int64) error

	CreateTask(ctx context.Context, projectID int64, name string) (*domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	ListTasks(ctx context.Context, projectID int64) ([]*domain.Task, error)

	// DeleteTask removes the task with its sessions and attachments
	DeleteTask(ctx context.Context, id int64) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	fileRepo    repository.FileRepository
	store       storage.FileStore
	log         logrus.FieldLogger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	fileRepo repository.FileRepository,
	store storage.FileStore,
	log logrus.FieldLogger,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		fileRepo:    fileRepo,
		store:       store,
		log:         log,
	}
}

func (s *projectService) CreateProject(ctx context.Context, name string) (*domain.Project, error) {
	project := domain.NewProject(name)
	if err := project.Validate(); err != nil {
		return nil, err
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	s.log.WithField("project_id", project.ID).Info("project created")
	return project, nil
}

func (s *projectService) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	return project, nil
}

func (s *projectService) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.projectRepo.List(ctx)
}

func (s *projectService) DeleteProject(ctx context.Context, id int64) error {
	if _, err := s.GetProject(ctx, id); err != nil {
		return err
	}

	files, err := s.fileRepo.ListByProject(ctx, id)
	if err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrProjectNotFound)
	}

	s.removeBlobs(files)
	s.log.WithFields(logrus.Fields{
		"project_id": id,
		"files":      len(files),
	}).Info("project deleted")
	return nil
}

func (s *projectService) CreateTask(ctx context.Context, projectID int64, name string) (*domain.Task, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	task := domain.NewTask(projectID, name)
	if err := task.Validate(); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"project_id": projectID,
		"task_id":    task.ID,
	}).Info("task created")
	return task, nil
}

func (s *projectService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}
	return task, nil
}

func (s *projectService) ListTasks(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	return s.taskRepo.ListByProject(ctx, projectID)
}

func (s *projectService) DeleteTask(ctx context.Context, id int64) error {
	files, err := s.fileRepo.ListByTask(ctx, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrTaskNotFound)
	}

	s.removeBlobs(files)
	s.log.WithFields(logrus.Fields{
		"task_id": id,
		"files":   len(files),
	}).Info("task deleted")
	return nil
}

// removeBlobs drops attachment content after its rows are gone. Failures
// leave orphaned blobs only, so they are logged rather than returned.
func (s *projectService) removeBlobs(files []*domain.TaskFile) {
	for _, f := range files {
		if err := s.store.Remove(f.ObjectKey); err != nil {
			s.log.WithError(err).WithField("object_key", f.ObjectKey).Warn("failed to remove attachment blob")
		}
	}
}
