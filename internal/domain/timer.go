package domain

import "time"

type TimerState string

const (
	TimerStateIdle    TimerState = "idle"
	TimerStateRunning TimerState = "running"
	TimerStatePaused  TimerState = "paused"
)

// ActiveSession is the transient bookkeeping of a session in progress.
// The zero value is an idle session. It holds no clock of its own: every
// transition takes the wall-clock time from the caller and ticks are
// counted, not measured.
type ActiveSession struct {
	IsRunning      bool
	IsPaused       bool
	StartedAt      *time.Time
	ElapsedSeconds int64
	LastPauseAt    *time.Time
	PausedSeconds  int64
}

// State returns the current timer state
func (s *ActiveSession) State() TimerState {
	switch {
	case !s.IsRunning:
		return TimerStateIdle
	case s.IsPaused:
		return TimerStatePaused
	default:
		return TimerStateRunning
	}
}

// Ticking reports whether elapsed seconds should currently advance
func (s *ActiveSession) Ticking() bool {
	return s.IsRunning && !s.IsPaused
}

// Start begins a fresh session. Only valid from idle.
func (s *ActiveSession) Start(now time.Time) bool {
	if s.IsRunning {
		return false
	}
	*s = ActiveSession{
		IsRunning: true,
		StartedAt: &now,
	}
	return true
}

// Pause pauses a running session. Only valid while running.
func (s *ActiveSession) Pause(now time.Time) bool {
	if !s.Ticking() {
		return false
	}
	s.IsPaused = true
	s.LastPauseAt = &now
	return true
}

// Resume resumes a paused session and accounts the paused interval
func (s *ActiveSession) Resume(now time.Time) bool {
	if !s.IsRunning || !s.IsPaused {
		return false
	}
	s.closePause(now)
	s.IsPaused = false
	return true
}

// Tick advances the active duration by one second
func (s *ActiveSession) Tick() bool {
	if !s.Ticking() {
		return false
	}
	s.ElapsedSeconds++
	return true
}

// Stop finalizes the session into a record and resets to idle.
// It reports false, leaving the state untouched, if no session was started.
func (s *ActiveSession) Stop(now time.Time) (SessionRecord, bool) {
	if s.StartedAt == nil {
		return SessionRecord{}, false
	}
	if s.IsPaused {
		s.closePause(now)
	}

	record := SessionRecord{
		StartTime:     *s.StartedAt,
		EndTime:       now,
		Duration:      s.ElapsedSeconds,
		PausedSeconds: s.PausedSeconds,
	}
	*s = ActiveSession{}
	return record, true
}

func (s *ActiveSession) closePause(now time.Time) {
	if s.LastPauseAt == nil {
		return
	}
	if delta := int64(now.Sub(*s.LastPauseAt) / time.Second); delta > 0 {
		s.PausedSeconds += delta
	}
	s.LastPauseAt = nil
}

// SessionRecord is the finalized outcome of one timer run, handed to the
// caller exactly once per stop.
type SessionRecord struct {
	StartTime     time.Time
	EndTime       time.Time
	Duration      int64 // active seconds, paused time excluded
	PausedSeconds int64 // wall-clock seconds spent paused
}

// ToTimeSession converts the record into a persistable session for a task
func (r SessionRecord) ToTimeSession(task *Task) *TimeSession {
	return &TimeSession{
		TaskID:          task.ID,
		ProjectID:       task.ProjectID,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		DurationSeconds: r.Duration,
		PausedSeconds:   r.PausedSeconds,
		CreatedAt:       time.Now(),
	}
}
