package tui

import (
	"context"
	"fmt"

	"github.com/andy/tasktimer/internal/app"
	"github.com/andy/tasktimer/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TasksModel lists the tasks of one project
type TasksModel struct {
	app     *app.App
	project *domain.Project
	tasks   []*domain.Task
	byTask  map[int64]int64
	cursor  int
	loading bool
	err     error

	mode      listMode
	input     textinput.Model
	statusMsg string
}

type tasksDataMsg struct {
	tasks  []*domain.Task
	byTask map[int64]int64
	err    error
}

type taskSavedMsg struct {
	task *domain.Task
	err  error
}

type taskDeletedMsg struct {
	name string
	err  error
}

// NewTasksModel creates a task list for the project
func NewTasksModel(a *app.App, project *domain.Project) *TasksModel {
	return &TasksModel{
		app:     a,
		project: project,
		byTask:  make(map[int64]int64),
		loading: true,
	}
}

// IsCapturingInput returns true when the form or delete confirmation is active
func (m *TasksModel) IsCapturingInput() bool {
	return m.mode != modeList
}

func (m *TasksModel) Init() tea.Cmd {
	return m.loadTasks()
}

func (m *TasksModel) loadTasks() tea.Cmd {
	projects := m.app.ProjectService
	sessions := m.app.SessionService
	projectID := m.project.ID
	return func() tea.Msg {
		ctx := context.Background()
		tasks, err := projects.ListTasks(ctx, projectID)
		if err != nil {
			return tasksDataMsg{err: err}
		}
		summary, err := sessions.Summarize(ctx, projectID)
		if err != nil {
			return tasksDataMsg{err: err}
		}
		return tasksDataMsg{tasks: tasks, byTask: summary.ByTask}
	}
}

func (m *TasksModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeNew:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadTasks()

	case tasksDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.tasks = msg.tasks
			m.byTask = msg.byTask
			m.cursor = clampCursor(m.cursor, len(m.tasks))
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		m.statusMsg = ""
		m.err = nil

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.Back):
			return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenProjects} }
		case key.Matches(msg, DefaultKeyMap.New):
			m.mode = modeNew
			m.input = newNameInput("Task name")
			return m, textinput.Blink
		case key.Matches(msg, DefaultKeyMap.Delete):
			if len(m.tasks) > 0 {
				m.mode = modeConfirmDelete
			}
		case key.Matches(msg, DefaultKeyMap.Select):
			if len(m.tasks) > 0 {
				project, task := m.project, m.tasks[m.cursor]
				return m, func() tea.Msg { return OpenTimerMsg{Project: project, Task: task} }
			}
		}
	}

	return m, nil
}

func (m *TasksModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = modeList
		m.statusMsg = fmt.Sprintf("Created: %s", msg.task.Name)
		m.loading = true
		return m, m.loadTasks()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = modeList
			m.err = nil
			return m, nil
		case "enter":
			svc := m.app.ProjectService
			projectID, name := m.project.ID, m.input.Value()
			return m, func() tea.Msg {
				task, err := svc.CreateTask(context.Background(), projectID, name)
				return taskSavedMsg{task: task, err: err}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *TasksModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDeletedMsg:
		m.mode = modeList
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Deleted: %s", msg.name)
		m.loading = true
		return m, m.loadTasks()

	case tea.KeyMsg:
		if msg.String() != "y" {
			m.mode = modeList
			return m, nil
		}
		task := m.tasks[m.cursor]
		svc := m.app.ProjectService
		return m, func() tea.Msg {
			err := svc.DeleteTask(context.Background(), task.ID)
			return taskDeletedMsg{name: task.Name, err: err}
		}
	}
	return m, nil
}

func (m *TasksModel) View() string {
	switch m.mode {
	case modeNew:
		s := titleStyle.Render("New Task") + subtitleStyle.Render("  in "+m.project.Name) + "\n\n"
		s += fmt.Sprintf("  Name: %s\n\n", m.input.View())
		if m.err != nil {
			s += errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
		}
		return s + helpStyle.Render("  enter: save  esc: cancel")

	case modeConfirmDelete:
		task := m.tasks[m.cursor]
		s := titleStyle.Render("Delete Task") + "\n\n"
		s += fmt.Sprintf("  %s  %s recorded\n\n", task.Name, formatSeconds(m.byTask[task.ID]))
		return s + warnStyle.Render("  Delete this task with its sessions and files? (y/n)") + "\n"
	}

	if m.loading {
		return "Loading tasks..."
	}
	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	s := titleStyle.Render(m.project.Name) + subtitleStyle.Render("  tasks") + "\n\n"
	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if len(m.tasks) == 0 {
		s += subtitleStyle.Render("  No tasks yet. Press 'n' to add one.") + "\n"
		return s + "\n" + helpStyle.Render("  n: new  esc: projects")
	}

	for i, t := range m.tasks {
		line := fmt.Sprintf("%-40s %10s", truncateStr(t.Name, 40), formatSeconds(m.byTask[t.ID]))
		if i == m.cursor {
			s += cursorStyle.Render("> "+line) + "\n"
		} else {
			s += "  " + line + "\n"
		}
	}

	return s + "\n" + helpStyle.Render("  j/k: navigate  enter: open timer  n: new  d: delete  esc: projects")
}
