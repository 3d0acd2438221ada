package tui

import (
	"context"
	"fmt"

	"github.com/andy/tasktimer/internal/app"
	"github.com/andy/tasktimer/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// listMode is shared by the list screens
type listMode int

const (
	modeList listMode = iota
	modeNew
	modeConfirmDelete
)

// ProjectsModel lists projects with their recorded totals
type ProjectsModel struct {
	app      *app.App
	projects []*domain.Project
	totals   map[int64]int64
	cursor   int
	loading  bool
	err      error

	mode      listMode
	input     textinput.Model
	statusMsg string
	autoNew   bool // open the form once data has loaded
}

type projectsDataMsg struct {
	projects []*domain.Project
	totals   map[int64]int64
	err      error
}

type projectSavedMsg struct {
	project *domain.Project
	err     error
}

type projectDeletedMsg struct {
	name string
	err  error
}

// NewProjectsModel creates a new projects screen model
func NewProjectsModel(a *app.App) tea.Model {
	return &ProjectsModel{
		app:     a,
		totals:  make(map[int64]int64),
		loading: true,
	}
}

// IsCapturingInput returns true when the form or delete confirmation is active
func (m *ProjectsModel) IsCapturingInput() bool {
	return m.mode != modeList
}

func (m *ProjectsModel) Init() tea.Cmd {
	return m.loadProjects()
}

func (m *ProjectsModel) loadProjects() tea.Cmd {
	svc := m.app.ProjectService
	sessions := m.app.SessionService
	return func() tea.Msg {
		ctx := context.Background()

		projects, err := svc.ListProjects(ctx)
		if err != nil {
			return projectsDataMsg{err: err}
		}

		totals := make([]int64, len(projects))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for i, p := range projects {
			i, p := i, p
			g.Go(func() error {
				summary, err := sessions.Summarize(gctx, p.ID)
				if err != nil {
					return err
				}
				totals[i] = summary.TotalSeconds
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return projectsDataMsg{err: fmt.Errorf("failed to load project totals: %w", err)}
		}

		byID := make(map[int64]int64, len(projects))
		for i, p := range projects {
			byID[p.ID] = totals[i]
		}
		return projectsDataMsg{projects: projects, totals: byID}
	}
}

func (m *ProjectsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(OpenNewProjectFormMsg); ok {
		if m.loading {
			m.autoNew = true
			return m, nil
		}
		return m, m.openForm()
	}

	switch m.mode {
	case modeNew:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadProjects()

	case projectsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.projects = msg.projects
			m.totals = msg.totals
			m.cursor = clampCursor(m.cursor, len(m.projects))
		}
		if m.autoNew {
			m.autoNew = false
			return m, m.openForm()
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
			if m.cursor < len(m.projects)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.New):
			return m, m.openForm()
		case key.Matches(msg, DefaultKeyMap.Delete):
			if len(m.projects) > 0 {
				m.mode = modeConfirmDelete
			}
		case key.Matches(msg, DefaultKeyMap.Select):
			if len(m.projects) > 0 {
				project := m.projects[m.cursor]
				return m, func() tea.Msg { return OpenTasksMsg{Project: project} }
			}
		}
	}

	return m, nil
}

func (m *ProjectsModel) openForm() tea.Cmd {
	m.mode = modeNew
	m.err = nil
	m.input = newNameInput("Project name")
	return textinput.Blink
}

func (m *ProjectsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = modeList
		m.statusMsg = fmt.Sprintf("Created: %s", msg.project.Name)
		m.loading = true
		return m, m.loadProjects()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = modeList
			m.err = nil
			return m, nil
		case "enter":
			return m, m.saveProject(m.input.Value())
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ProjectsModel) saveProject(name string) tea.Cmd {
	svc := m.app.ProjectService
	return func() tea.Msg {
		project, err := svc.CreateProject(context.Background(), name)
		return projectSavedMsg{project: project, err: err}
	}
}

func (m *ProjectsModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectDeletedMsg:
		m.mode = modeList
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Deleted: %s", msg.name)
		m.loading = true
		return m, m.loadProjects()

	case tea.KeyMsg:
		if msg.String() != "y" {
			m.mode = modeList
			return m, nil
		}
		project := m.projects[m.cursor]
		svc := m.app.ProjectService
		return m, func() tea.Msg {
			err := svc.DeleteProject(context.Background(), project.ID)
			return projectDeletedMsg{name: project.Name, err: err}
		}
	}
	return m, nil
}

func (m *ProjectsModel) View() string {
	switch m.mode {
	case modeNew:
		return m.viewForm()
	case modeConfirmDelete:
		return m.viewConfirmDelete()
	}
	return m.viewList()
}

func (m *ProjectsModel) viewForm() string {
	var s string
	if len(m.projects) == 0 {
		s += titleStyle.Render("Welcome to tasktimer!") + "\n"
		s += subtitleStyle.Render("  Create your first project to get started.") + "\n\n"
	} else {
		s += titleStyle.Render("New Project") + "\n\n"
	}
	s += fmt.Sprintf("  Name: %s\n\n", m.input.View())
	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}
	s += helpStyle.Render("  enter: save  esc: cancel")
	return s
}

func (m *ProjectsModel) viewConfirmDelete() string {
	project := m.projects[m.cursor]
	var s string
	s += titleStyle.Render("Delete Project") + "\n\n"
	s += fmt.Sprintf("  %s  %s recorded\n\n", project.Name, formatSeconds(m.totals[project.ID]))
	s += warnStyle.Render("  Delete this project with all its tasks, sessions and files? (y/n)") + "\n"
	return s
}

func (m *ProjectsModel) viewList() string {
	if m.loading {
		return "Loading projects..."
	}
	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	var s string
	s += titleStyle.Render("Projects") + "\n\n"
	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}

	if len(m.projects) == 0 {
		s += subtitleStyle.Render("  No projects yet. Press 'n' to add one.") + "\n"
		return s
	}

	for i, p := range m.projects {
		line := fmt.Sprintf("%-40s %10s", truncateStr(p.Name, 40), formatSeconds(m.totals[p.ID]))
		if i == m.cursor {
			s += cursorStyle.Render("> "+line) + "\n"
		} else {
			s += "  " + line + "\n"
		}
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  enter: tasks  n: new  d: delete")
	return s
}
