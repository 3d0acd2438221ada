package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/andy/tasktimer/internal/db"
	"github.com/andy/tasktimer/internal/domain"
)

const sessionColumns = `id, task_id, project_id, start_time, end_time,
	duration_seconds, paused_seconds, created_at`

// SessionRepo is a SQLite implementation of SessionRepository
type SessionRepo struct {
	db *db.DB
}

// NewSessionRepo creates a new SessionRepo
func NewSessionRepo(database *db.DB) *SessionRepo {
	return &SessionRepo{db: database}
}

// Create inserts a completed session
func (r *SessionRepo) Create(ctx context.Context, session *domain.TimeSession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("invalid time session: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO time_sessions (
			task_id, project_id, start_time, end_time,
			duration_seconds, paused_seconds, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		session.TaskID,
		session.ProjectID,
		formatTime(session.StartTime),
		formatTime(session.EndTime),
		session.DurationSeconds,
		session.PausedSeconds,
		formatTime(session.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create time session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get time session ID: %w", err)
	}

	session.ID = id
	return nil
}

// GetByID retrieves a session by ID
func (r *SessionRepo) GetByID(ctx context.Context, id int64) (*domain.TimeSession, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM time_sessions WHERE id = ?", id)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("time session %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get time session: %w", err)
	}
	return session, nil
}

// List retrieves sessions matching the filter, newest first
func (r *SessionRepo) List(ctx context.Context, filter domain.SessionFilter) ([]*domain.TimeSession, error) {
	var where []string
	args := make([]interface{}, 0)

	if filter.ProjectID != nil {
		where = append(where, "project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.TaskID != nil {
		where = append(where, "task_id = ?")
		args = append(args, *filter.TaskID)
	}

	query := "SELECT " + sessionColumns + " FROM time_sessions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_time DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*domain.TimeSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time sessions: %w", err)
	}

	return sessions, nil
}

// Delete removes a session
func (r *SessionRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM time_sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete time session: %w", err)
	}
	return checkAffected(result, "time session", id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSession reads one session row in sessionColumns order
func scanSession(row rowScanner) (*domain.TimeSession, error) {
	session := &domain.TimeSession{}
	var startTime, endTime, createdAt string

	err := row.Scan(
		&session.ID,
		&session.TaskID,
		&session.ProjectID,
		&startTime,
		&endTime,
		&session.DurationSeconds,
		&session.PausedSeconds,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if session.StartTime, err = parseTime(startTime); err != nil {
		return nil, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if session.EndTime, err = parseTime(endTime); err != nil {
		return nil, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return session, nil
}
