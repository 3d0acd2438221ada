package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/tasktimer/internal/app"
	"github.com/andy/tasktimer/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenProjects Screen = iota
	ScreenTasks
	ScreenTimer
	ScreenSessions
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenProjects:
		return "Projects"
	case ScreenTasks:
		return "Tasks"
	case ScreenTimer:
		return "Timer"
	case ScreenSessions:
		return "Session Log"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models; tasks and timer exist once a project or task is chosen
	projects tea.Model
	tasks    *TasksModel
	timer    *TimerModel
	sessions tea.Model

	// First-run state
	checkedFirstRun bool

	// Error state
	err     error
	quitMsg string // shown when quit is blocked
}

// Option configures the root model
type Option func(*Model)

// WithTimer opens the TUI directly on the timer for a task
func WithTimer(project *domain.Project, task *domain.Task) Option {
	return func(m *Model) {
		m.tasks = NewTasksModel(m.app, project)
		m.timer = NewTimerModel(m.app, project, task)
		m.currentScreen = ScreenTimer
		m.checkedFirstRun = true
	}
}

// New creates a new root model
func New(a *app.App, opts ...Option) Model {
	m := Model{
		app:           a,
		currentScreen: ScreenProjects,
		projects:      NewProjectsModel(a),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.projects.Init()}
	if !m.checkedFirstRun {
		cmds = append(cmds, m.checkFirstRun())
	}
	return tea.Batch(cmds...)
}

// checkFirstRun checks if any projects exist in the database
func (m *Model) checkFirstRun() tea.Cmd {
	svc := m.app.ProjectService
	return func() tea.Msg {
		projects, err := svc.ListProjects(context.Background())
		if err != nil {
			return firstRunCheckMsg{hasProjects: true} // assume yes on error
		}
		return firstRunCheckMsg{hasProjects: len(projects) > 0}
	}
}

// switchTo changes screen, lazily creating the sessions screen on first
// visit and refreshing list screens on later visits.
func (m *Model) switchTo(screen Screen) tea.Cmd {
	if m.currentScreen == ScreenTimer && screen != ScreenTimer && m.timer != nil && m.timer.Busy() {
		m.quitMsg = m.timer.busyReason()
		return nil
	}
	m.currentScreen = screen

	switch screen {
	case ScreenProjects:
		return refresh
	case ScreenTasks:
		if m.tasks == nil {
			m.currentScreen = ScreenProjects
			return nil
		}
		return refresh
	case ScreenTimer:
		if m.timer == nil {
			m.currentScreen = ScreenProjects
		}
		return nil
	case ScreenSessions:
		if m.sessions == nil {
			m.sessions = NewSessionsModel(m.app)
			return m.sessions.Init()
		}
		return refresh
	}
	return nil
}

func refresh() tea.Msg { return RefreshDataMsg{} }

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

func (m *Model) activeScreen() tea.Model {
	switch m.currentScreen {
	case ScreenProjects:
		return m.projects
	case ScreenTasks:
		if m.tasks != nil {
			return m.tasks
		}
	case ScreenTimer:
		if m.timer != nil {
			return m.timer
		}
	case ScreenSessions:
		return m.sessions
	}
	return nil
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.activeScreen().(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// tryQuit quits unless a timer run would be lost
func (m *Model) tryQuit() tea.Cmd {
	if m.timer != nil && m.timer.Busy() {
		m.quitMsg = m.timer.busyReason()
		return nil
	}
	if m.timer != nil {
		m.timer.Close()
	}
	return tea.Quit
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.quitMsg = ""

		if msg.String() == "ctrl+c" {
			return m, m.tryQuit()
		}

		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, m.tryQuit()
			case key.Matches(msg, DefaultKeyMap.Projects):
				return m, m.switchTo(ScreenProjects)
			case key.Matches(msg, DefaultKeyMap.Sessions):
				return m, m.switchTo(ScreenSessions)
			case key.Matches(msg, DefaultKeyMap.Timer):
				return m, m.switchTo(ScreenTimer)
			}
		}

	case firstRunCheckMsg:
		if !m.checkedFirstRun && !msg.hasProjects {
			m.checkedFirstRun = true
			m.currentScreen = ScreenProjects
			return m, func() tea.Msg { return OpenNewProjectFormMsg{} }
		}
		m.checkedFirstRun = true
		return m, nil

	case OpenTasksMsg:
		if m.timer != nil && !m.timer.Busy() {
			m.timer.Close()
			m.timer = nil
		}
		if m.tasks == nil || m.tasks.project.ID != msg.Project.ID {
			m.tasks = NewTasksModel(m.app, msg.Project)
			m.currentScreen = ScreenTasks
			return m, m.tasks.Init()
		}
		return m, m.switchTo(ScreenTasks)

	case OpenTimerMsg:
		if m.timer != nil {
			if m.timer.task.ID != msg.Task.ID && m.timer.Busy() {
				m.quitMsg = fmt.Sprintf("A timer for %s is still open. %s", m.timer.task.Name, m.timer.busyReason())
				return m, nil
			}
			if m.timer.task.ID != msg.Task.ID {
				m.timer.Close()
				m.timer = nil
			}
		}
		if m.timer == nil {
			m.timer = NewTimerModel(m.app, msg.Project, msg.Task)
		}
		m.currentScreen = ScreenTimer
		return m, m.timer.Init()

	case SwitchScreenMsg:
		return m, m.switchTo(msg.Screen)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	switch m.currentScreen {
	case ScreenProjects:
		m.projects, cmd = m.projects.Update(msg)
	case ScreenTasks:
		if m.tasks != nil {
			_, cmd = m.tasks.Update(msg)
		}
	case ScreenTimer:
		if m.timer != nil {
			_, cmd = m.timer.Update(msg)
		}
	case ScreenSessions:
		if m.sessions != nil {
			m.sessions, cmd = m.sessions.Update(msg)
		}
	}

	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("tasktimer - %s", m.currentScreen.String()))

	footerKeys := "[P]rojects  [L]og  [Q]uit"
	if m.timer != nil {
		footerKeys = "[P]rojects  [T]imer  [L]og  [Q]uit"
	}
	footer := footerStyle.Render(footerKeys)

	content := "Loading..."
	if screen := m.activeScreen(); screen != nil {
		content = screen.View()
	}

	errorDisplay := ""
	if m.quitMsg != "" {
		errorDisplay = lipgloss.NewStyle().
			Foreground(warningColor).
			Render(fmt.Sprintf("\n%s", m.quitMsg))
	} else if m.err != nil {
		errorDisplay = lipgloss.NewStyle().
			Foreground(errorColor).
			Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App, opts ...Option) error {
	p := tea.NewProgram(New(a, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
