package config

import (
	"github.com/robmorgan/pulse/scheduler"
	"github.com/robmorgan/pulse/tempo"
)

// GetPulseConfig returns the current configuration
func GetPulseConfig() PulseConfig {
	val, _ := NewPulseConfig()
	return val
}

// PulseConfig represents options that configure the global behavior of the program
type PulseConfig struct {
	// BPM is the starting tempo.
	BPM int

	// OSCAddress is an optional "host:port" to broadcast beats to.
	// Empty disables the OSC sink.
	OSCAddress string

	// ClickFrequency is the click pitch in Hz.
	ClickFrequency float64

	// ClickVolume is the click volume in the range 0-1.
	ClickVolume float64

	// Tuning holds the beat scheduler's correction constants.
	Tuning scheduler.Tuning
}

// Create a new PulseConfig object with reasonable defaults for real usage
func NewPulseConfig() (PulseConfig, error) {
	// TODO - support passing in a config file one day

	return PulseConfig{
		BPM:            tempo.DefaultBPM,
		ClickFrequency: 1100,
		ClickVolume:    0.8,
		Tuning:         scheduler.DefaultTuning(),
	}, nil
}
