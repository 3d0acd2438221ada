package timer

import (
	"testing"
	"time"

	"github.com/andy/tasktimer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	testingclock "k8s.io/utils/clock/testing"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type harness struct {
	clock   *testingclock.FakeClock
	timer   *Timer
	records []domain.SessionRecord
}

func newHarness(t *testing.T) *harness {
	h := &harness{clock: testingclock.NewFakeClock(t0)}
	h.timer = New("Website", "Landing page", func(r domain.SessionRecord) {
		h.records = append(h.records, r)
	}, WithClock(h.clock))
	t.Cleanup(h.timer.Close)
	return h
}

// tick advances the clock one second and waits for the running timer to
// observe it.
func (h *harness) tick(t *testing.T) {
	t.Helper()
	want := h.timer.Elapsed() + 1
	h.clock.Step(TickInterval)
	require.Eventually(t, func() bool {
		return h.timer.Elapsed() == want
	}, time.Second, time.Millisecond, "expected elapsed to reach %d", want)
}

func TestTimer_PauseResumeScenario(t *testing.T) {
	h := newHarness(t)

	h.timer.Start()
	assert.Equal(t, domain.TimerStateRunning, h.timer.State())
	for i := 0; i < 5; i++ {
		h.tick(t)
	}

	h.timer.Pause()
	assert.Equal(t, domain.TimerStatePaused, h.timer.State())

	h.clock.Step(10 * time.Second)
	assert.Never(t, func() bool {
		return h.timer.Elapsed() != 5
	}, 50*time.Millisecond, 5*time.Millisecond)

	h.timer.Resume()
	for i := 0; i < 3; i++ {
		h.tick(t)
	}

	h.timer.Stop()
	require.Len(t, h.records, 1)
	r := h.records[0]
	assert.Equal(t, int64(8), r.Duration)
	assert.Equal(t, int64(10), r.PausedSeconds)
	assert.True(t, r.StartTime.Equal(t0))
	assert.True(t, r.EndTime.Equal(t0.Add(18*time.Second)))
	assert.Equal(t, domain.TimerStateIdle, h.timer.State())
	assert.Zero(t, h.timer.Elapsed())
}

func TestTimer_DurationMatchesWallClockWithoutPause(t *testing.T) {
	h := newHarness(t)

	h.timer.Start()
	for i := 0; i < 42; i++ {
		h.tick(t)
	}
	h.timer.Stop()

	require.Len(t, h.records, 1)
	r := h.records[0]
	span := int64(r.EndTime.Sub(r.StartTime) / time.Second)
	assert.InDelta(t, span, r.Duration, 1)
}

func TestTimer_ImmediateStopHasZeroDuration(t *testing.T) {
	h := newHarness(t)

	h.timer.Start()
	h.timer.Stop()

	require.Len(t, h.records, 1)
	assert.Zero(t, h.records[0].Duration)
}

func TestTimer_StopWithoutStartEmitsNothing(t *testing.T) {
	h := newHarness(t)

	h.timer.Stop()
	h.timer.Stop()

	assert.Empty(t, h.records)
	assert.Equal(t, domain.TimerStateIdle, h.timer.State())
	_, started := h.timer.StartedAt()
	assert.False(t, started)
}

func TestTimer_NewRunStartsFromZero(t *testing.T) {
	h := newHarness(t)

	h.timer.Start()
	h.tick(t)
	h.tick(t)
	h.timer.Stop()

	h.clock.Step(time.Minute)
	h.timer.Start()
	assert.Zero(t, h.timer.Elapsed())
	h.tick(t)
	h.timer.Stop()

	require.Len(t, h.records, 2)
	assert.Equal(t, int64(2), h.records[0].Duration)
	assert.Equal(t, int64(1), h.records[1].Duration)
	assert.True(t, h.records[1].StartTime.Equal(t0.Add(2*time.Second+time.Minute)))
}

func TestTimer_NoTicksAfterStop(t *testing.T) {
	h := newHarness(t)

	h.timer.Start()
	h.tick(t)
	h.timer.Stop()

	h.clock.Step(5 * TickInterval)
	assert.Never(t, func() bool {
		return h.timer.Elapsed() != 0
	}, 50*time.Millisecond, 5*time.Millisecond)
}

func TestTimer_RepeatedPauseResumeDoesNotDuplicateTicks(t *testing.T) {
	h := newHarness(t)

	h.timer.Start()
	for i := 0; i < 4; i++ {
		h.timer.Resume() // no-op while running
		h.tick(t)
		h.timer.Pause()
		h.timer.Pause() // no-op while paused
		h.clock.Step(3 * time.Second)
		h.timer.Resume()
	}
	h.timer.Stop()

	require.Len(t, h.records, 1)
	assert.Equal(t, int64(4), h.records[0].Duration)
	assert.Equal(t, int64(12), h.records[0].PausedSeconds)
}

func TestTimer_CloseDiscardsRun(t *testing.T) {
	h := newHarness(t)

	h.timer.Start()
	h.tick(t)
	h.timer.Close()

	assert.Equal(t, domain.TimerStateIdle, h.timer.State())
	h.timer.Stop()
	h.timer.Start()
	assert.Empty(t, h.records)
	assert.Equal(t, domain.TimerStateIdle, h.timer.State())
}

func TestTimer_Labels(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "Website", h.timer.ProjectName())
	assert.Equal(t, "Landing page", h.timer.TaskName())
}
