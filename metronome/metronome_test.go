package metronome

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/robmorgan/pulse/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clock "k8s.io/utils/clock/testing"
)

// countingSink records beats without any audio backend.
type countingSink struct {
	beats int64
}

func (s *countingSink) PlayBeat() error {
	atomic.AddInt64(&s.beats, 1)
	return nil
}

func (s *countingSink) Healthy() bool { return true }
func (s *countingSink) Close() error  { return nil }

func (s *countingSink) count() int64 {
	return atomic.LoadInt64(&s.beats)
}

func newTestMetronome() (*Metronome, *countingSink, *clock.FakeClock) {
	fc := clock.NewFakeClock(time.Now())
	snk := &countingSink{}
	return NewWithClock(snk, scheduler.DefaultTuning(), fc), snk, fc
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestMetronome()
	assert.Equal(t, 120, m.GetCurrentBPM())
	assert.Equal(t, 500, m.GetBeatInterval())
	assert.False(t, m.IsPlaying())
	assert.True(t, m.ValidateState())
}

func TestBPMSequence(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestMetronome()

	assert.Equal(t, 500, m.GetBeatInterval())

	assert.True(t, m.SetBPM(100))
	assert.Equal(t, 100, m.GetCurrentBPM())
	assert.Equal(t, 600, m.GetBeatInterval())

	// 400 is clamped to 300
	assert.False(t, m.SetBPM(400))
	assert.Equal(t, 300, m.GetCurrentBPM())
	assert.Equal(t, 200, m.GetBeatInterval())
}

func TestStartAndStop(t *testing.T) {
	t.Parallel()

	m, snk, _ := newTestMetronome()

	require.True(t, m.StartMetronome())
	assert.True(t, m.IsPlaying())
	assert.True(t, m.GetScheduler().IsBeating())

	// the first beat fires immediately
	assert.Equal(t, int64(1), snk.count())

	// a second start is refused
	assert.False(t, m.StartMetronome())

	m.StopMetronome()
	assert.False(t, m.IsPlaying())
	assert.False(t, m.GetScheduler().IsBeating())

	// stopping again is a no-op
	m.StopMetronome()
	assert.True(t, m.ValidateState())
}

func TestTogglePlayback(t *testing.T) {
	t.Parallel()

	m, snk, _ := newTestMetronome()

	assert.True(t, m.TogglePlayback())
	assert.True(t, m.IsPlaying())
	assert.Equal(t, int64(1), snk.count())

	assert.False(t, m.TogglePlayback())
	assert.False(t, m.IsPlaying())
}

func TestSetBPMWhilePlayingUpdatesInterval(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestMetronome()
	require.True(t, m.StartMetronome())

	m.SetBPM(100)
	stats := m.GetTimingStats()
	assert.Equal(t, int64(600), stats.CurrentInterval)
	// the tempo change started a fresh measurement baseline
	assert.Equal(t, int64(0), stats.BeatCount)
	assert.Equal(t, 0.0, stats.CumulativeError)
}

func TestReset(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestMetronome()
	m.SetBPM(200)
	require.True(t, m.StartMetronome())

	m.Reset()
	assert.False(t, m.IsPlaying())
	assert.Equal(t, 120, m.GetCurrentBPM())
	assert.Equal(t, 500, m.GetBeatInterval())
	assert.True(t, m.ValidateState())
}

func TestValidateAndRecover(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestMetronome()
	require.True(t, m.StartMetronome())
	require.True(t, m.ValidateState())

	// stop the scheduler behind the metronome's back: state now says
	// playing but nothing is beating
	m.GetScheduler().Stop()
	assert.False(t, m.ValidateState())

	assert.True(t, m.RecoverFromInvalidState())
	assert.False(t, m.IsPlaying())
	assert.Equal(t, 120, m.GetCurrentBPM())
	assert.True(t, m.ValidateState())
}
