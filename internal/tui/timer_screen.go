package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/andy/tasktimer/internal/app"
	"github.com/andy/tasktimer/internal/domain"
	"github.com/andy/tasktimer/internal/timer"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// timerRefreshMsg redraws the clock; seq ties it to one running period
type timerRefreshMsg struct {
	seq int
}

// sessionSavedMsg reports the outcome of persisting a stopped run
type sessionSavedMsg struct {
	session *domain.TimeSession
	err     error
}

// refreshTimer schedules the next redraw of a running clock
func refreshTimer(seq int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerRefreshMsg{seq: seq}
	})
}

// TimerModel drives the stopwatch for a single task and saves each run
type TimerModel struct {
	app     *app.App
	project *domain.Project
	task    *domain.Task
	timer   *timer.Timer
	log     logrus.FieldLogger

	// pending holds a stopped run until it is saved
	pending *domain.SessionRecord
	saving  bool
	seq     int

	err       error
	statusMsg string
}

// NewTimerModel creates an idle timer screen for the task
func NewTimerModel(a *app.App, project *domain.Project, task *domain.Task, opts ...timer.Option) *TimerModel {
	m := &TimerModel{
		app:     a,
		project: project,
		task:    task,
		log: a.Log.WithFields(logrus.Fields{
			"component": "timer",
			"task_id":   task.ID,
		}),
	}
	m.timer = timer.New(project.Name, task.Name, func(r domain.SessionRecord) {
		m.pending = &r
	}, opts...)
	return m
}

// IsCapturingInput is always true: the control keys overlap global navigation
func (m *TimerModel) IsCapturingInput() bool {
	return true
}

// Busy reports whether leaving the screen would lose time
func (m *TimerModel) Busy() bool {
	return m.timer.State() != domain.TimerStateIdle || m.pending != nil
}

// busyReason explains why the screen cannot be left
func (m *TimerModel) busyReason() string {
	if m.pending != nil {
		return "Session not saved yet. Press w to retry or D to discard it."
	}
	return "Timer is active. Stop it before leaving."
}

// Close tears down the underlying timer
func (m *TimerModel) Close() {
	m.timer.Close()
}

func (m *TimerModel) Init() tea.Cmd {
	return nil
}

func (m *TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerRefreshMsg:
		if msg.seq != m.seq || m.timer.State() != domain.TimerStateRunning {
			return m, nil
		}
		return m, refreshTimer(m.seq)

	case sessionSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.pending = nil
		m.err = nil
		m.statusMsg = fmt.Sprintf("Session saved: %s", domain.FormatClock(msg.session.DurationSeconds))
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""

		switch {
		case key.Matches(msg, DefaultKeyMap.Back):
			if m.Busy() {
				m.statusMsg = m.busyReason()
				return m, nil
			}
			project := m.project
			return m, func() tea.Msg { return OpenTasksMsg{Project: project} }

		case key.Matches(msg, DefaultKeyMap.Start):
			if m.pending != nil {
				m.statusMsg = m.busyReason()
				return m, nil
			}
			m.err = nil
			m.timer.Start()
			return m, m.restartRefresh()

		case key.Matches(msg, DefaultKeyMap.Pause):
			m.timer.Pause()
			m.seq++
			return m, nil

		case key.Matches(msg, DefaultKeyMap.Resume):
			m.timer.Resume()
			return m, m.restartRefresh()

		case key.Matches(msg, DefaultKeyMap.Stop):
			m.timer.Stop()
			m.seq++
			return m, m.save()

		case key.Matches(msg, DefaultKeyMap.Retry):
			return m, m.save()

		case key.Matches(msg, DefaultKeyMap.Discard):
			m.discard()
			return m, nil
		}
	}

	return m, nil
}

// restartRefresh begins a redraw chain for a new running period
func (m *TimerModel) restartRefresh() tea.Cmd {
	if m.timer.State() != domain.TimerStateRunning {
		return nil
	}
	m.seq++
	return refreshTimer(m.seq)
}

// save persists the pending record, if any. Only one save runs at a time.
func (m *TimerModel) save() tea.Cmd {
	if m.pending == nil || m.saving {
		return nil
	}
	m.saving = true
	record := *m.pending
	taskID := m.task.ID
	sessions := m.app.SessionService
	return func() tea.Msg {
		session, err := sessions.Save(context.Background(), taskID, record)
		return sessionSavedMsg{session: session, err: err}
	}
}

// discard drops a pending record that cannot be saved. The record is
// logged so the time can still be entered by hand.
func (m *TimerModel) discard() {
	if m.pending == nil || m.saving {
		return
	}
	r := m.pending
	entry := m.log.WithFields(logrus.Fields{
		"start":    r.StartTime.Format(time.RFC3339),
		"end":      r.EndTime.Format(time.RFC3339),
		"duration": r.Duration,
		"paused":   r.PausedSeconds,
	})
	if m.err != nil {
		entry = entry.WithError(m.err)
	}
	entry.Warn("unsaved session discarded")

	m.pending = nil
	m.err = nil
	m.statusMsg = fmt.Sprintf("Session discarded: %s (details in the log)", domain.FormatClock(r.Duration))
}

func (m *TimerModel) View() string {
	var s string
	s += titleStyle.Render(m.timer.TaskName()) + "\n"
	s += subtitleStyle.Render("  "+m.timer.ProjectName()) + "\n\n"

	clock, state := clockIdleStyle, timerIdleStyle.Render("IDLE")
	switch m.timer.State() {
	case domain.TimerStateRunning:
		clock, state = clockRunningStyle, timerRunningStyle.Render("RUNNING")
	case domain.TimerStatePaused:
		clock, state = clockPausedStyle, timerPausedStyle.Render("PAUSED")
	}

	s += clock.Render(domain.FormatClock(m.timer.Elapsed())) + "\n"
	s += fmt.Sprintf("  State: %s\n", state)
	if started, ok := m.timer.StartedAt(); ok {
		s += fmt.Sprintf("  Started: %s\n", started.Format("2006-01-02 15:04:05"))
	}
	s += "\n"

	if m.pending != nil {
		line := fmt.Sprintf("Unsaved session: %s (%s to %s)",
			domain.FormatClock(m.pending.Duration),
			m.pending.StartTime.Format("15:04:05"),
			m.pending.EndTime.Format("15:04:05"))
		s += "  " + pendingStyle.Render(line) + "\n"
	}
	if m.saving {
		s += subtitleStyle.Render("  Saving...") + "\n"
	}
	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("  Save failed: %v", m.err)) + "\n"
	}
	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n"
	}

	s += "\n" + helpStyle.Render(m.help())
	return s
}

func (m *TimerModel) help() string {
	switch {
	case m.pending != nil:
		return "  w: retry save  D: discard"
	case m.timer.State() == domain.TimerStateRunning:
		return "  p: pause  x: stop"
	case m.timer.State() == domain.TimerStatePaused:
		return "  r: resume  x: stop"
	default:
		return "  s: start  esc: back to tasks"
	}
}
