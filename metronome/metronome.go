package metronome

import (
	"sync"

	"github.com/robmorgan/pulse/logger"
	"github.com/robmorgan/pulse/scheduler"
	"github.com/robmorgan/pulse/sink"
	"github.com/robmorgan/pulse/tempo"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// Metronome is the consumer-facing control surface: it owns the tempo
// state, drives the beat scheduler, and forwards beats to a sink. All
// entry points serialize on one mutex because UIs call them from
// whatever goroutine they like.
type Metronome struct {
	mu    sync.Mutex
	state tempo.State
	sched *scheduler.Scheduler
	sink  sink.Sink
	log   *logrus.Entry
}

// New creates a stopped metronome at the default tempo, driven by the
// real clock.
func New(snk sink.Sink, tuning scheduler.Tuning) *Metronome {
	return NewWithClock(snk, tuning, clock.RealClock{})
}

// NewWithClock is New with an injected clock, for tests.
func NewWithClock(snk sink.Sink, tuning scheduler.Tuning, cl clock.Clock) *Metronome {
	return &Metronome{
		state: tempo.NewState(),
		sched: scheduler.New(cl, tuning),
		sink:  snk,
		log:   logger.GetProjectLogger(),
	}
}

// SetBPM changes the tempo, clamping out-of-range values rather than
// rejecting them. It returns false when the input had to be clamped.
// A tempo change while playing takes effect on the next beat.
func (m *Metronome) SetBPM(v int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	valid := tempo.IsValidBPM(v)
	if !valid {
		m.log.WithFields(logrus.Fields{
			"bpm": v,
			"min": tempo.MinBPM,
			"max": tempo.MaxBPM,
		}).Warn("bpm out of range, clamping")
	}
	m.state = m.state.WithBPM(v)
	if m.state.IsPlaying() {
		m.sched.UpdateInterval(int64(m.state.GetBeatInterval()))
	}
	return valid
}

// TogglePlayback starts or stops the metronome and returns the
// resulting playing state.
func (m *Metronome) TogglePlayback() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.IsPlaying() {
		m.stopLocked()
	} else {
		m.startLocked()
	}
	return m.state.IsPlaying()
}

// StartMetronome begins beating at the current tempo. It returns false
// when already playing or when the scheduler refuses to start.
func (m *Metronome) StartMetronome() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startLocked()
}

// StopMetronome halts the beat. Stopping a stopped metronome is a
// no-op.
func (m *Metronome) StopMetronome() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

// Reset stops playback and restores the default tempo.
func (m *Metronome) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()
	m.state = tempo.NewState()
	m.sched.UpdateInterval(int64(m.state.GetBeatInterval()))
}

// ValidateState checks that the tempo state and the scheduler agree:
// BPM in range, interval derived from it, playing flag matching
// IsBeating.
func (m *Metronome) ValidateState() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validateLocked()
}

// RecoverFromInvalidState forces the metronome back to a stopped,
// clamped-tempo baseline and reports whether that restored a valid
// state.
func (m *Metronome) RecoverFromInvalidState() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Warn("recovering metronome state")
	m.sched.Stop()
	m.state = tempo.NewState().WithBPM(tempo.ClampBPM(m.state.GetBPM()))
	return m.validateLocked()
}

// GetCurrentBPM returns the current tempo.
func (m *Metronome) GetCurrentBPM() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.GetBPM()
}

// GetBeatInterval returns the current beat interval in milliseconds.
func (m *Metronome) GetBeatInterval() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.GetBeatInterval()
}

// IsPlaying reports whether the metronome is playing.
func (m *Metronome) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.IsPlaying()
}

// GetTimingStats returns the scheduler's diagnostic snapshot.
func (m *Metronome) GetTimingStats() scheduler.Stats {
	return m.sched.GetTimingStats()
}

// GetScheduler returns the underlying beat scheduler.
func (m *Metronome) GetScheduler() *scheduler.Scheduler {
	return m.sched
}

func (m *Metronome) startLocked() bool {
	if m.state.IsPlaying() {
		return false
	}
	if err := m.sched.Start(int64(m.state.GetBeatInterval()), m.beat); err != nil {
		m.log.WithField("err", err).Error("could not start beat scheduler")
		return false
	}
	m.state = m.state.WithPlaying(true)
	m.log.WithField("bpm", m.state.GetBPM()).Info("metronome started")
	return true
}

func (m *Metronome) stopLocked() {
	if !m.state.IsPlaying() {
		return
	}
	m.sched.Stop()
	m.state = m.state.WithPlaying(false)
	m.log.Info("metronome stopped")
}

func (m *Metronome) validateLocked() bool {
	if !tempo.IsValidBPM(m.state.GetBPM()) {
		return false
	}
	if m.state.GetBeatInterval() != tempo.CalculateInterval(m.state.GetBPM()) {
		return false
	}
	return m.state.IsPlaying() == m.sched.IsBeating()
}

// beat is the scheduler callback. Sink failures degrade to silent
// beats, never to stopped timing. It deliberately takes no lock: the
// first beat fires inside Start while startLocked still holds the
// mutex.
func (m *Metronome) beat() error {
	if err := m.sink.PlayBeat(); err != nil {
		m.log.WithField("err", err).Warn("beat sink failure")
	}
	return nil
}
