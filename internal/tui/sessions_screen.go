package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/andy/tasktimer/internal/app"
	"github.com/andy/tasktimer/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// SessionsModel is the log of recorded sessions, newest first
type SessionsModel struct {
	app          *app.App
	sessions     []*domain.TimeSession
	projectNames map[int64]string
	taskNames    map[int64]string
	cursor       int
	loading      bool
	err          error

	mode      listMode
	statusMsg string
}

type sessionsDataMsg struct {
	sessions     []*domain.TimeSession
	projectNames map[int64]string
	taskNames    map[int64]string
	err          error
}

type sessionDeletedMsg struct {
	err error
}

// NewSessionsModel creates a new sessions screen model
func NewSessionsModel(a *app.App) tea.Model {
	return &SessionsModel{app: a, loading: true}
}

// IsCapturingInput returns true while a delete is being confirmed
func (m *SessionsModel) IsCapturingInput() bool {
	return m.mode == modeConfirmDelete
}

func (m *SessionsModel) Init() tea.Cmd {
	return m.loadSessions()
}

func (m *SessionsModel) loadSessions() tea.Cmd {
	projects := m.app.ProjectService
	sessions := m.app.SessionService
	return func() tea.Msg {
		var (
			list     []*domain.TimeSession
			projList []*domain.Project
			mu       sync.Mutex
			tasks    []*domain.Task
		)

		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			list, err = sessions.List(ctx, domain.SessionFilter{})
			return err
		})
		g.Go(func() error {
			var err error
			projList, err = projects.ListProjects(ctx)
			if err != nil {
				return err
			}
			tg, tctx := errgroup.WithContext(ctx)
			for _, p := range projList {
				p := p
				tg.Go(func() error {
					ts, err := projects.ListTasks(tctx, p.ID)
					if err != nil {
						return err
					}
					mu.Lock()
					tasks = append(tasks, ts...)
					mu.Unlock()
					return nil
				})
			}
			return tg.Wait()
		})
		if err := g.Wait(); err != nil {
			return sessionsDataMsg{err: fmt.Errorf("failed to load sessions: %w", err)}
		}

		return sessionsDataMsg{
			sessions: list,
			projectNames: lo.MapValues(lo.KeyBy(projList, func(p *domain.Project) int64 { return p.ID }),
				func(p *domain.Project, _ int64) string { return p.Name }),
			taskNames: lo.MapValues(lo.KeyBy(tasks, func(t *domain.Task) int64 { return t.ID }),
				func(t *domain.Task, _ int64) string { return t.Name }),
		}
	}
}

func (m *SessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadSessions()

	case sessionsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.sessions = msg.sessions
			m.projectNames = msg.projectNames
			m.taskNames = msg.taskNames
			m.cursor = clampCursor(m.cursor, len(m.sessions))
		}
		return m, nil

	case sessionDeletedMsg:
		m.mode = modeList
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = "Session deleted"
		m.loading = true
		return m, m.loadSessions()

	case tea.KeyMsg:
		if m.mode == modeConfirmDelete {
			if msg.String() != "y" {
				m.mode = modeList
				return m, nil
			}
			id := m.sessions[m.cursor].ID
			svc := m.app.SessionService
			return m, func() tea.Msg {
				return sessionDeletedMsg{err: svc.Delete(context.Background(), id)}
			}
		}
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
			if m.cursor < len(m.sessions)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			if len(m.sessions) > 0 {
				m.mode = modeConfirmDelete
			}
		}
	}
	return m, nil
}

// describe renders one session as date, names and "Xh Ym"
func (m *SessionsModel) describe(s *domain.TimeSession) string {
	taskName := m.taskNames[s.TaskID]
	if taskName == "" {
		taskName = unknownTask
	}
	projectName := m.projectNames[s.ProjectID]
	if projectName == "" {
		projectName = unknownProject
	}
	return fmt.Sprintf("%s  %-20s %-24s %8s",
		s.StartTime.Local().Format("2006-01-02 15:04"),
		truncateStr(projectName, 20),
		truncateStr(taskName, 24),
		formatSeconds(s.DurationSeconds))
}

func (m *SessionsModel) View() string {
	if m.loading {
		return "Loading sessions..."
	}
	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.mode == modeConfirmDelete {
		s := titleStyle.Render("Delete Session") + "\n\n"
		s += "  " + m.describe(m.sessions[m.cursor]) + "\n\n"
		return s + warnStyle.Render("  Delete this session? (y/n)") + "\n"
	}

	s := titleStyle.Render("Session Log") + "\n\n"
	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if len(m.sessions) == 0 {
		return s + subtitleStyle.Render("  No sessions recorded yet. Start a timer from a task.") + "\n"
	}

	total := lo.SumBy(m.sessions, func(s *domain.TimeSession) int64 { return s.DurationSeconds })
	for i, sess := range m.sessions {
		line := m.describe(sess)
		if i == m.cursor {
			s += cursorStyle.Render("> "+line) + "\n"
		} else {
			s += "  " + line + "\n"
		}
	}
	s += "\n" + subtitleStyle.Render(fmt.Sprintf("  %d session(s), %s total", len(m.sessions), formatSeconds(total))) + "\n"
	return s + "\n" + helpStyle.Render("  j/k: navigate  d: delete")
}
