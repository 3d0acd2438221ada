package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func at(seconds int) time.Time {
	return t0.Add(time.Duration(seconds) * time.Second)
}

func TestActiveSession_PauseResumeScenario(t *testing.T) {
	var s ActiveSession

	require.True(t, s.Start(at(0)))
	for i := 0; i < 5; i++ {
		require.True(t, s.Tick())
	}
	require.True(t, s.Pause(at(5)))
	assert.Equal(t, TimerStatePaused, s.State())

	// ticks delivered while paused are ignored
	assert.False(t, s.Tick())

	require.True(t, s.Resume(at(15)))
	for i := 0; i < 3; i++ {
		require.True(t, s.Tick())
	}

	record, ok := s.Stop(at(18))
	require.True(t, ok)
	assert.Equal(t, int64(8), record.Duration)
	assert.Equal(t, int64(10), record.PausedSeconds)
	assert.True(t, record.StartTime.Equal(at(0)))
	assert.True(t, record.EndTime.Equal(at(18)))

	assert.Equal(t, ActiveSession{}, s)
	assert.Equal(t, TimerStateIdle, s.State())
}

func TestActiveSession_StopWhenIdleIsNoop(t *testing.T) {
	var s ActiveSession

	_, ok := s.Stop(at(3))
	assert.False(t, ok)
	assert.Equal(t, ActiveSession{}, s)
}

func TestActiveSession_StopWhilePausedExcludesPause(t *testing.T) {
	var s ActiveSession
	s.Start(at(0))
	s.Tick()
	s.Tick()
	s.Pause(at(2))

	record, ok := s.Stop(at(62))
	require.True(t, ok)
	assert.Equal(t, int64(2), record.Duration)
	assert.Equal(t, int64(60), record.PausedSeconds)
}

func TestActiveSession_InvalidTransitionsAreNoops(t *testing.T) {
	var s ActiveSession

	assert.False(t, s.Pause(at(0)))
	assert.False(t, s.Resume(at(0)))
	assert.False(t, s.Tick())

	s.Start(at(0))
	s.Tick()
	assert.False(t, s.Start(at(1)), "start while running")
	assert.False(t, s.Resume(at(1)), "resume while running")
	assert.Equal(t, int64(1), s.ElapsedSeconds)

	s.Pause(at(1))
	assert.False(t, s.Pause(at(2)), "pause while paused")
	assert.False(t, s.Start(at(2)), "start while paused")
	assert.True(t, s.StartedAt.Equal(at(0)))
}

func TestActiveSession_RestartHasNoCarryOver(t *testing.T) {
	var s ActiveSession
	s.Start(at(0))
	s.Tick()
	s.Pause(at(1))
	s.Resume(at(4))
	s.Stop(at(5))

	require.True(t, s.Start(at(10)))
	assert.Zero(t, s.ElapsedSeconds)
	assert.Zero(t, s.PausedSeconds)

	record, ok := s.Stop(at(10))
	require.True(t, ok)
	assert.Zero(t, record.Duration)
	assert.True(t, record.StartTime.Equal(at(10)))
}

func TestSessionRecord_ToTimeSession(t *testing.T) {
	task := &Task{ID: 7, ProjectID: 3, Name: "Write report"}
	record := SessionRecord{StartTime: at(0), EndTime: at(90), Duration: 80, PausedSeconds: 10}

	session := record.ToTimeSession(task)
	assert.Equal(t, int64(7), session.TaskID)
	assert.Equal(t, int64(3), session.ProjectID)
	assert.Equal(t, int64(80), session.DurationSeconds)
	assert.True(t, session.EndTime.Equal(at(90)))
	require.NoError(t, session.Validate())
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{3661, "01:01:01"},
		{86399, "23:59:59"},
		{90000, "25:00:00"},
		{-5, "00:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatClock(tt.seconds), "seconds=%d", tt.seconds)
	}
}

func TestFormatHoursMinutes(t *testing.T) {
	assert.Equal(t, "0h 0m", FormatHoursMinutes(0))
	assert.Equal(t, "1h 1m", FormatHoursMinutes(3661))
	assert.Equal(t, "25h 0m", FormatHoursMinutes(90000))
}

func TestTimeSession_Validate(t *testing.T) {
	s := &TimeSession{TaskID: 1, ProjectID: 1, StartTime: at(10), EndTime: at(5)}
	assert.EqualError(t, s.Validate(), "end time must be after start time")

	s = &TimeSession{TaskID: 1, StartTime: at(0), EndTime: at(5)}
	assert.EqualError(t, s.Validate(), "project ID is required")
}

func TestProjectAndTask_Validate(t *testing.T) {
	assert.Error(t, NewProject("   ").Validate())
	assert.NoError(t, NewProject(" Website ").Validate())
	assert.Equal(t, "Website", NewProject(" Website ").Name)

	assert.EqualError(t, NewTask(0, "x").Validate(), "project ID is required")
	assert.EqualError(t, NewTask(1, " ").Validate(), "task name is required")
}
