package sink

import (
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/robmorgan/pulse/utils"
)

const (
	clickSampleRate = 44100
	clickPulseMs    = 12.0

	// exponential decay constant for the click envelope
	clickDecay = 450.0
)

// ClickSink synthesizes a short decaying click through the speaker, so
// no sample file ships with the binary.
type ClickSink struct {
	sampleRate float64
	frequency  float64
	volume     float64
	pulseMs    float64
	healthy    bool
}

// NewClickSink opens the speaker and returns a click sink at the given
// frequency (Hz) and volume (0-1).
func NewClickSink(frequency, volume float64) (*ClickSink, error) {
	if frequency <= 0 {
		frequency = 1100
	}
	s := &ClickSink{
		sampleRate: clickSampleRate,
		frequency:  frequency,
		volume:     utils.Clamp(volume, 0.0, 1.0),
		pulseMs:    clickPulseMs,
	}

	sr := beep.SampleRate(clickSampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/20)); err != nil {
		return nil, err
	}
	s.healthy = true
	return s, nil
}

// PlayBeat queues one click on the speaker and returns immediately.
func (s *ClickSink) PlayBeat() error {
	if !s.healthy {
		return ErrNoHealthySink
	}
	speaker.Play(s.click())
	return nil
}

func (s *ClickSink) Healthy() bool {
	return s.healthy
}

func (s *ClickSink) Close() error {
	if s.healthy {
		s.healthy = false
		speaker.Close()
	}
	return nil
}

// click returns a one-shot streamer: a sine burst under an exponential
// decay envelope, a few milliseconds long.
func (s *ClickSink) click() beep.Streamer {
	pos := 0
	total := int(s.sampleRate * s.pulseMs / 1000.0)
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				return i, true
			}
			at := float64(pos) / s.sampleRate
			v := s.volume * math.Exp(-clickDecay*at) * math.Sin(2*math.Pi*s.frequency*at)
			samples[i][0] = v
			samples[i][1] = v
			pos++
		}
		return len(samples), true
	})
}
