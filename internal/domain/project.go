package domain

import (
	"errors"
	"strings"
	"time"
)

type Project struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// NewProject creates a new project with a trimmed name
func NewProject(name string) *Project {
	return &Project{
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}
}

// Validate returns an error if the project is invalid
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("project name is required")
	}
	return nil
}

type Task struct {
	ID        int64
	ProjectID int64
	Name      string
	CreatedAt time.Time
}

// NewTask creates a new task belonging to a project
func NewTask(projectID int64, name string) *Task {
	return &Task{
		ProjectID: projectID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}
}

// Validate returns an error if the task is invalid
func (t *Task) Validate() error {
	if t.ProjectID <= 0 {
		return errors.New("project ID is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("task name is required")
	}
	return nil
}
