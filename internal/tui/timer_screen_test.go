package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andy/tasktimer/internal/app"
	"github.com/andy/tasktimer/internal/domain"
	"github.com/andy/tasktimer/internal/service"
	"github.com/andy/tasktimer/internal/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

// fakeSessions records saves and fails the first failFirst of them
type fakeSessions struct {
	service.SessionService
	failFirst int
	calls     int
	saved     []domain.SessionRecord
}

func (f *fakeSessions) Save(ctx context.Context, taskID int64, r domain.SessionRecord) (*domain.TimeSession, error) {
	f.calls++
	if f.calls <= f.failFirst {
		return nil, errors.New("database is locked")
	}
	f.saved = append(f.saved, r)
	task := &domain.Task{ID: taskID, ProjectID: 1}
	return r.ToTimeSession(task), nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	testProject = &domain.Project{ID: 1, Name: "Website"}
	testTask    = &domain.Task{ID: 2, ProjectID: 1, Name: "Landing page"}
)

func newTestApp(sessions *fakeSessions) (*app.App, *logtest.Hook) {
	log, hook := logtest.NewNullLogger()
	return &app.App{SessionService: sessions, Log: log}, hook
}

func newTestTimer(t *testing.T, sessions *fakeSessions) (*TimerModel, *testingclock.FakeClock) {
	clock := testingclock.NewFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	a, _ := newTestApp(sessions)
	m := NewTimerModel(a, testProject, testTask, timer.WithClock(clock))
	t.Cleanup(m.Close)
	return m, clock
}

func TestTimerModel_StopSavesAndRetriesOnFailure(t *testing.T) {
	sessions := &fakeSessions{failFirst: 1}
	m, clock := newTestTimer(t, sessions)

	_, cmd := m.Update(runes("s"))
	assert.NotNil(t, cmd, "running timer schedules a redraw")
	clock.Step(timer.TickInterval)
	require.Eventually(t, func() bool { return m.timer.Elapsed() == 1 }, time.Second, time.Millisecond)

	_, cmd = m.Update(runes("x"))
	require.NotNil(t, cmd)
	require.NotNil(t, m.pending)
	assert.Equal(t, int64(1), m.pending.Duration)

	_, _ = m.Update(cmd())
	assert.Error(t, m.err)
	assert.True(t, m.Busy(), "failed save keeps the record")
	assert.Contains(t, m.View(), "Unsaved session: 00:00:01")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	assert.Nil(t, cmd, "cannot leave with an unsaved record")

	_, cmd = m.Update(runes("s"))
	assert.Nil(t, cmd, "cannot start a new run with an unsaved record")
	assert.Equal(t, domain.TimerStateIdle, m.timer.State())

	_, cmd = m.Update(runes("w"))
	require.NotNil(t, cmd)
	_, _ = m.Update(cmd())
	assert.False(t, m.Busy())
	assert.NoError(t, m.err)
	require.Len(t, sessions.saved, 1)
	assert.Equal(t, int64(1), sessions.saved[0].Duration)
	assert.Contains(t, m.View(), "Session saved: 00:00:01")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, OpenTasksMsg{Project: testProject}, cmd())
}

func TestTimerModel_StaleRefreshIsDropped(t *testing.T) {
	m, _ := newTestTimer(t, &fakeSessions{})

	m.Update(runes("s"))
	stale := timerRefreshMsg{seq: m.seq}
	m.Update(runes("p"))
	m.Update(runes("r"))

	_, cmd := m.Update(stale)
	assert.Nil(t, cmd)
	_, cmd = m.Update(timerRefreshMsg{seq: m.seq})
	assert.NotNil(t, cmd)
}

func TestModel_QuitBlockedWhileTimerBusy(t *testing.T) {
	sessions := &fakeSessions{}
	a, _ := newTestApp(sessions)
	root := New(a, WithTimer(testProject, testTask))
	t.Cleanup(root.timer.Close)

	next, _ := root.Update(runes("s"))
	root = next.(Model)
	require.Equal(t, domain.TimerStateRunning, root.timer.timer.State())

	next, cmd := root.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	root = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, "Timer is active. Stop it before leaving.", root.quitMsg)

	next, cmd = root.Update(runes("x"))
	root = next.(Model)
	require.NotNil(t, cmd)
	next, _ = root.Update(cmd())
	root = next.(Model)

	_, cmd = root.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_DiscardReleasesUnsavableSession(t *testing.T) {
	sessions := &fakeSessions{failFirst: 1 << 30}
	a, hook := newTestApp(sessions)
	root := New(a, WithTimer(testProject, testTask))
	t.Cleanup(root.timer.Close)

	press := func(msg tea.KeyMsg) tea.Cmd {
		next, cmd := root.Update(msg)
		root = next.(Model)
		return cmd
	}
	deliver := func(cmd tea.Cmd) {
		require.NotNil(t, cmd)
		next, _ := root.Update(cmd())
		root = next.(Model)
	}

	press(runes("s"))
	deliver(press(runes("x")))
	for i := 0; i < 3; i++ {
		deliver(press(runes("w")))
	}
	require.NotNil(t, root.timer.pending)
	require.Error(t, root.timer.err)

	assert.Nil(t, press(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.Equal(t, "Session not saved yet. Press w to retry or D to discard it.", root.quitMsg)
	assert.Nil(t, press(tea.KeyMsg{Type: tea.KeyCtrlC}), "repeated ctrl+c does not drop the session")
	assert.Nil(t, press(runes("q")))
	assert.Nil(t, press(tea.KeyMsg{Type: tea.KeyEscape}))
	require.NotNil(t, root.timer.pending)

	duration := root.timer.pending.Duration
	assert.Nil(t, press(runes("D")))
	assert.Nil(t, root.timer.pending)
	assert.NoError(t, root.timer.err)
	assert.Contains(t, root.timer.View(), "Session discarded: "+domain.FormatClock(duration))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "unsaved session discarded", entry.Message)
	assert.Contains(t, entry.Data, "start")
	assert.Contains(t, entry.Data, "end")
	assert.Equal(t, duration, entry.Data["duration"])
	assert.Contains(t, entry.Data, logrus.ErrorKey)
	assert.Empty(t, sessions.saved)

	cmd := press(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
