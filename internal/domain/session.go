package domain

import (
	"errors"
	"time"
)

// TimeSession is a persisted, completed run of the timer against a task
type TimeSession struct {
	ID              int64
	TaskID          int64
	ProjectID       int64
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int64
	PausedSeconds   int64
	CreatedAt       time.Time
}

// Validate returns an error if the session is invalid
func (s *TimeSession) Validate() error {
	if s.TaskID <= 0 {
		return errors.New("task ID is required")
	}
	if s.ProjectID <= 0 {
		return errors.New("project ID is required")
	}
	if s.StartTime.IsZero() {
		return errors.New("start time is required")
	}
	if s.EndTime.Before(s.StartTime) {
		return errors.New("end time must be after start time")
	}
	if s.DurationSeconds < 0 {
		return errors.New("duration cannot be negative")
	}
	return nil
}

// SessionFilter narrows a session listing. Nil fields are not applied.
type SessionFilter struct {
	ProjectID *int64
	TaskID    *int64
}

// TaskFile is a file attached to a task. The content lives in the blob
// store under ObjectKey.
type TaskFile struct {
	ID          int64
	TaskID      int64
	Name        string
	ObjectKey   string
	ContentType string
	Size        int64
	CreatedAt   time.Time
}

// Validate returns an error if the attachment is invalid
func (f *TaskFile) Validate() error {
	if f.TaskID <= 0 {
		return errors.New("task ID is required")
	}
	if f.Name == "" {
		return errors.New("file name is required")
	}
	if f.ObjectKey == "" {
		return errors.New("object key is required")
	}
	return nil
}
