package tempo

import "github.com/robmorgan/pulse/utils"

const (
	// MinBPM is the slowest supported tempo.
	MinBPM = 40

	// MaxBPM is the fastest supported tempo.
	MaxBPM = 300

	// DefaultBPM is the tempo a fresh session starts at.
	DefaultBPM = 120

	millisPerMinute = 60000
)

// State is an immutable tempo value: the current BPM, whether the
// metronome is playing, and the derived beat interval. Any change
// produces a new State, so a value handed to another goroutine can
// never shift underneath it. The interval is always re-derived from
// the BPM and is never set independently.
type State struct {
	bpm          int
	playing      bool
	beatInterval int // milliseconds
}

// NewState returns the default state: 120 BPM, stopped.
func NewState() State {
	return State{
		bpm:          DefaultBPM,
		beatInterval: CalculateInterval(DefaultBPM),
	}
}

// IsValidBPM reports whether v lies within the supported tempo range.
func IsValidBPM(v int) bool {
	return v >= MinBPM && v <= MaxBPM
}

// ClampBPM limits v to the supported tempo range.
func ClampBPM(v int) int {
	return utils.Clamp(v, MinBPM, MaxBPM)
}

// CalculateInterval returns the number of milliseconds a beat lasts at
// the given tempo, truncated toward zero (90 BPM is 666ms, not 667).
// bpm must be positive; callers clamp first.
func CalculateInterval(bpm int) int {
	return millisPerMinute / bpm
}

// WithBPM returns a copy of the state at the given tempo. Out-of-range
// values are clamped, never rejected, and the beat interval is
// re-derived. The playing flag is preserved.
func (s State) WithBPM(v int) State {
	bpm := ClampBPM(v)
	return State{
		bpm:          bpm,
		playing:      s.playing,
		beatInterval: CalculateInterval(bpm),
	}
}

// WithPlaying returns a copy of the state with the playing flag
// replaced. Tempo and interval are unchanged.
func (s State) WithPlaying(flag bool) State {
	s.playing = flag
	return s
}

// GetBPM returns the current tempo.
func (s State) GetBPM() int {
	return s.bpm
}

// GetBeatInterval returns the number of milliseconds a beat lasts.
func (s State) GetBeatInterval() int {
	return s.beatInterval
}

// IsPlaying reports whether the metronome is playing.
func (s State) IsPlaying() bool {
	return s.playing
}
