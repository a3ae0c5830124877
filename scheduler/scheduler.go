package scheduler

import (
	"errors"
	"sync"
	"time"

	"github.com/robmorgan/pulse/logger"
	"github.com/robmorgan/pulse/utils"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// ErrAlreadyRunning is returned by Start when the scheduler is active.
var ErrAlreadyRunning = errors.New("beat scheduler is already running")

// ErrInvalidInterval is returned by Start when no positive beat
// interval is available.
var ErrInvalidInterval = errors.New("beat interval must be positive")

// BeatFunc is invoked once per scheduled beat. It must return quickly;
// errors are logged and swallowed so a failing sink never stops the
// cadence.
type BeatFunc func() error

// Tuning holds the damped-correction constants. The defaults are
// empirical values, not a derived control law, so keep them together
// where they can be retuned.
type Tuning struct {
	// InstantWeight is the weight of the latest beat's timing error.
	InstantWeight float64

	// CumulativeWeight is the weight of the average error across the run.
	CumulativeWeight float64

	// LatencyDamping divides the average dispatch latency before it
	// joins the correction.
	LatencyDamping float64

	// WarmupBeats is how many beats fire before the full blend kicks
	// in. Until then only half of the instant error is corrected.
	WarmupBeats int64

	// LatencyWindow is the size of the dispatch latency moving average.
	LatencyWindow int
}

// DefaultTuning returns the stock correction constants.
func DefaultTuning() Tuning {
	return Tuning{
		InstantWeight:    0.7,
		CumulativeWeight: 0.3,
		LatencyDamping:   2.0,
		WarmupBeats:      5,
		LatencyWindow:    10,
	}
}

// Stats is a diagnostic snapshot of the current run. Error and latency
// figures are in milliseconds.
type Stats struct {
	BeatCount       int64
	AverageError    float64
	AverageLatency  float64
	CumulativeError float64
	CurrentInterval int64
}

// Scheduler fires a beat callback at a fixed cadence with bounded
// long-run drift, using only the clock's timer primitive, which has
// variable dispatch latency.
//
// Firing with delay == interval accumulates systematic drift equal to
// the average dispatch latency; always rebasing to now + interval
// never converges back to the original phase. The scheduler instead
// advances an ideal schedule additively and feeds a damped blend of
// the measured error back into the next delay.
type Scheduler struct {
	mu     sync.Mutex
	clock  clock.Clock
	tuning Tuning
	log    *logrus.Entry

	intervalMs      int64
	targetBeatTime  time.Time
	beatCount       int64
	cumulativeError float64
	latency         *window
	active          bool
	quit            chan struct{}
	onBeat          BeatFunc
}

// New creates an idle scheduler. A nil clock means the real one.
func New(cl clock.Clock, tuning Tuning) *Scheduler {
	if cl == nil {
		cl = clock.RealClock{}
	}
	return &Scheduler{
		clock:   cl,
		tuning:  tuning,
		latency: newWindow(tuning.LatencyWindow),
		log:     logger.GetProjectLogger(),
	}
}

// Start begins the beat loop at the given interval. The first beat
// fires immediately, before Start returns; the self-correcting loop
// takes over from there. A non-positive intervalMs falls back to the
// last interval handed to UpdateInterval.
func (s *Scheduler) Start(intervalMs int64, onBeat BeatFunc) error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	if intervalMs > 0 {
		s.intervalMs = intervalMs
	}
	if s.intervalMs <= 0 {
		s.mu.Unlock()
		return ErrInvalidInterval
	}

	// fresh baseline: stale drift from a previous run must not
	// contaminate this one
	s.targetBeatTime = s.clock.Now()
	s.beatCount = 0
	s.cumulativeError = 0
	s.latency.Reset()
	s.onBeat = onBeat
	s.active = true
	quit := make(chan struct{})
	s.quit = quit
	interval := s.intervalMs
	s.mu.Unlock()

	s.log.WithField("interval_ms", interval).Debug("beat scheduler starting")

	delay, ok := s.fire(quit)
	if !ok {
		return nil
	}
	go s.run(quit, delay)
	return nil
}

// Stop halts the loop and cancels any pending beat. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	close(s.quit)
	s.quit = nil
}

// UpdateInterval changes the beat interval. While active this rebases
// the ideal schedule and clears the accumulated error and latency
// history: a tempo change is a new baseline, not drift from the old
// tempo. While idle it just stores the interval for the next Start.
func (s *Scheduler) UpdateInterval(newIntervalMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intervalMs = newIntervalMs
	if !s.active {
		return
	}
	s.targetBeatTime = s.clock.Now().Add(time.Duration(newIntervalMs) * time.Millisecond)
	s.beatCount = 0
	s.cumulativeError = 0
	s.latency.Reset()
}

// IsBeating reports whether the loop is running.
func (s *Scheduler) IsBeating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// GetTimingStats returns a diagnostic snapshot of the current run.
func (s *Scheduler) GetTimingStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := Stats{
		BeatCount:       s.beatCount,
		AverageLatency:  s.latency.Average(),
		CumulativeError: s.cumulativeError,
		CurrentInterval: s.intervalMs,
	}
	if s.beatCount > 0 {
		stats.AverageError = s.cumulativeError / float64(s.beatCount)
	}
	return stats
}

// run drives the loop after the immediate first beat. The timer is the
// only suspension point, and the quit channel cancels it without
// waiting out the delay.
func (s *Scheduler) run(quit chan struct{}, delay time.Duration) {
	for {
		t := s.clock.NewTimer(delay)
		select {
		case <-quit:
			t.Stop()
			return
		case <-t.C():
		}
		next, ok := s.fire(quit)
		if !ok {
			return
		}
		delay = next
	}
}

// fire runs one iteration of the self-correcting loop and returns the
// delay before the next beat. ok is false once this run has been
// stopped, so a firing that raced with Stop cannot resurrect the loop.
// The quit channel identifies the run the firing belongs to: a stale
// firing must not leak into a restarted scheduler.
func (s *Scheduler) fire(quit chan struct{}) (time.Duration, bool) {
	s.mu.Lock()
	if !s.active || s.quit != quit {
		s.mu.Unlock()
		return 0, false
	}
	actual := s.clock.Now()

	// how late this firing was against the ideal schedule
	lateness := millis(actual.Sub(s.targetBeatTime))
	s.latency.Push(lateness)
	onBeat := s.onBeat
	count := s.beatCount
	s.mu.Unlock()

	// the callback runs outside the lock and its errors stay here:
	// a broken sink degrades to silent beats, not stopped timing
	if onBeat != nil {
		if err := onBeat(); err != nil {
			s.log.WithFields(logrus.Fields{"beat": count, "err": err}).Warn("beat callback failed, keeping cadence")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.quit != quit {
		return 0, false
	}

	// advance the ideal schedule additively so dispatch latency never
	// compounds across beats
	s.targetBeatTime = s.targetBeatTime.Add(time.Duration(s.intervalMs) * time.Millisecond)

	// lateness of the firing just completed relative to its own ideal
	// time (the same quantity sampled above, measured after the
	// schedule advance)
	timingError := lateness
	s.cumulativeError += timingError

	var correction float64
	if s.beatCount > s.tuning.WarmupBeats {
		correction = s.tuning.InstantWeight*timingError +
			s.tuning.CumulativeWeight*(s.cumulativeError/float64(s.beatCount)) +
			s.latency.Average()/s.tuning.LatencyDamping
	} else {
		// not enough history yet to trust the blend
		correction = timingError / 2
	}

	baseDelay := millis(s.targetBeatTime.Sub(s.clock.Now()))
	adjusted := utils.Clamp(baseDelay-correction, 0, float64(s.intervalMs))
	s.beatCount++

	return time.Duration(adjusted * float64(time.Millisecond)), true
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
