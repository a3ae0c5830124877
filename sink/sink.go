package sink

import "errors"

// ErrNoHealthySink is returned by a Chain once every strategy has
// failed or reported unhealthy.
var ErrNoHealthySink = errors.New("no healthy beat sink available")

// Sink triggers an audible (or otherwise observable) beat. PlayBeat is
// called once per scheduled firing and must return quickly; slow
// outputs should fire asynchronously and report best-effort. The
// scheduler never sees sink errors, so a broken sink costs the click,
// not the cadence.
type Sink interface {
	PlayBeat() error
	Healthy() bool
	Close() error
}
