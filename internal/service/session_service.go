package service

import (
	"context"

	"github.com/andy/tasktimer/internal/domain"
	"github.com/andy/tasktimer/internal/repository"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// ProjectSummary aggregates recorded active time for one project
type ProjectSummary struct {
	ProjectID    int64
	SessionCount int
	TotalSeconds int64
	PausedTotal  int64
	ByTask       map[int64]int64 // active seconds per task ID
}

// SessionService persists timer output and serves the session history
type SessionService interface {
	// Save stores a finalized timer record against a task
	Save(ctx context.Context, taskID int64, record domain.SessionRecord) (*domain.TimeSession, error)

	Get(ctx context.Context, id int64) (*domain.TimeSession, error)
	List(ctx context.Context, filter domain.SessionFilter) ([]*domain.TimeSession, error)
	Delete(ctx context.Context, id int64) error

	// Summarize totals the active time recorded against a project
	Summarize(ctx context.Context, projectID int64) (*ProjectSummary, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	taskRepo    repository.TaskRepository
	log         logrus.FieldLogger
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepository,
	taskRepo repository.TaskRepository,
	log logrus.FieldLogger,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		taskRepo:    taskRepo,
		log:         log,
	}
}

func (s *sessionService) Save(ctx context.Context, taskID int64, record domain.SessionRecord) (*domain.TimeSession, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}

	session := record.ToTimeSession(task)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.log.WithError(err).WithField("task_id", taskID).Error("failed to save time session")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session_id": session.ID,
		"task_id":    task.ID,
		"project_id": task.ProjectID,
		"duration":   session.DurationSeconds,
		"paused":     session.PausedSeconds,
	}).Info("time session saved")
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, id int64) (*domain.TimeSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSessionNotFound)
	}
	return session, nil
}

func (s *sessionService) List(ctx context.Context, filter domain.SessionFilter) ([]*domain.TimeSession, error) {
	return s.sessionRepo.List(ctx, filter)
}

func (s *sessionService) Delete(ctx context.Context, id int64) error {
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrSessionNotFound)
	}
	s.log.WithField("session_id", id).Info("time session deleted")
	return nil
}

func (s *sessionService) Summarize(ctx context.Context, projectID int64) (*ProjectSummary, error) {
	sessions, err := s.sessionRepo.List(ctx, domain.SessionFilter{ProjectID: &projectID})
	if err != nil {
		return nil, err
	}

	byTask := lo.MapValues(
		lo.GroupBy(sessions, func(ts *domain.TimeSession) int64 { return ts.TaskID }),
		func(group []*domain.TimeSession, _ int64) int64 {
			return lo.SumBy(group, func(ts *domain.TimeSession) int64 { return ts.DurationSeconds })
		},
	)

	return &ProjectSummary{
		ProjectID:    projectID,
		SessionCount: len(sessions),
		TotalSeconds: lo.SumBy(sessions, func(ts *domain.TimeSession) int64 { return ts.DurationSeconds }),
		PausedTotal:  lo.SumBy(sessions, func(ts *domain.TimeSession) int64 { return ts.PausedSeconds }),
		ByTask:       byTask,
	}, nil
}
