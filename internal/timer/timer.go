// Package timer runs the session stopwatch for a single task: it owns the
// per-second ticking loop and hands a finalized record to its caller on stop.
package timer

import (
	"sync"
	"time"

	"github.com/andy/tasktimer/internal/domain"
	"k8s.io/utils/clock"
)

// TickInterval is how often a running timer advances its active duration
const TickInterval = time.Second

// SaveFunc receives the finalized record when a run is stopped
type SaveFunc func(record domain.SessionRecord)

// Timer tracks active time for one task. All operations are safe to call
// from any goroutine; invalid transitions are silently ignored.
type Timer struct {
	clock       clock.WithTicker
	onSave      SaveFunc
	projectName string
	taskName    string

	mu      sync.Mutex
	session domain.ActiveSession
	loop    *tickLoop
	gen     uint64
	closed  bool
}

// tickLoop is one scheduled-repeat registration, alive only while running
type tickLoop struct {
	ticker clock.Ticker
	stop   chan struct{}
	done   chan struct{}
}

// Option configures a Timer
type Option func(*Timer)

// WithClock overrides the time source (the real clock by default)
func WithClock(c clock.WithTicker) Option {
	return func(t *Timer) {
		t.clock = c
	}
}

// New creates an idle timer labelled with the project and task it belongs to
func New(projectName, taskName string, onSave SaveFunc, opts ...Option) *Timer {
	t := &Timer{
		clock:       clock.RealClock{},
		onSave:      onSave,
		projectName: projectName,
		taskName:    taskName,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ProjectName returns the project label
func (t *Timer) ProjectName() string { return t.projectName }

// TaskName returns the task label
func (t *Timer) TaskName() string { return t.taskName }

// State returns the current timer state
func (t *Timer) State() domain.TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.State()
}

// Elapsed returns the active seconds accumulated in the current run
func (t *Timer) Elapsed() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.ElapsedSeconds
}

// StartedAt returns the start time of the current run, if any
func (t *Timer) StartedAt() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session.StartedAt == nil {
		return time.Time{}, false
	}
	return *t.session.StartedAt, true
}

// Start begins a new run from idle
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if t.session.Start(t.clock.Now()) {
		t.startTickingLocked()
	}
}

// Pause stops ticking while keeping the run open
func (t *Timer) Pause() {
	t.mu.Lock()
	if t.closed || !t.session.Pause(t.clock.Now()) {
		t.mu.Unlock()
		return
	}
	done := t.cancelTickingLocked()
	t.mu.Unlock()
	wait(done)
}

// Resume continues a paused run
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if t.session.Resume(t.clock.Now()) {
		t.startTickingLocked()
	}
}

// Stop ends the run and emits its record. Stopping an idle timer emits
// nothing.
func (t *Timer) Stop() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	record, ok := t.session.Stop(t.clock.Now())
	if !ok {
		t.mu.Unlock()
		return
	}
	done := t.cancelTickingLocked()
	t.mu.Unlock()
	wait(done)

	if t.onSave != nil {
		t.onSave(record)
	}
}

// Close tears the timer down: ticking is cancelled and any run in progress
// is discarded without emitting a record.
func (t *Timer) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.session = domain.ActiveSession{}
	done := t.cancelTickingLocked()
	t.mu.Unlock()
	wait(done)
}

func (t *Timer) startTickingLocked() {
	if t.loop != nil {
		return
	}
	t.gen++
	gen := t.gen
	l := &tickLoop{
		ticker: t.clock.NewTicker(TickInterval),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	t.loop = l

	go func() {
		defer close(l.done)
		defer l.ticker.Stop()
		for {
			select {
			case <-l.stop:
				return
			case <-l.ticker.C():
				t.tick(gen)
			}
		}
	}()
}

// cancelTickingLocked unregisters the loop and returns a channel closed once
// its goroutine has exited. The caller must wait on it after unlocking.
func (t *Timer) cancelTickingLocked() <-chan struct{} {
	l := t.loop
	if l == nil {
		return nil
	}
	t.loop = nil
	// a tick already in flight for this generation will be dropped
	t.gen++
	l.ticker.Stop()
	close(l.stop)
	return l.done
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return
	}
	t.session.Tick()
}

func wait(done <-chan struct{}) {
	if done != nil {
		<-done
	}
}
