package tui

import "github.com/andy/tasktimer/internal/domain"

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// OpenTasksMsg switches to the task list of a project
type OpenTasksMsg struct {
	Project *domain.Project
}

// OpenTimerMsg switches to the timer for a task
type OpenTimerMsg struct {
	Project *domain.Project
	Task    *domain.Task
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// OpenNewProjectFormMsg tells the projects screen to open the new project form
type OpenNewProjectFormMsg struct{}

// firstRunCheckMsg reports whether the database has any projects
type firstRunCheckMsg struct {
	hasProjects bool
}
