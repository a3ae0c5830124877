package sink

import (
	"github.com/robmorgan/pulse/logger"
	"github.com/sirupsen/logrus"
)

// Chain is an explicit ordered list of sink strategies. Each beat is
// handed to the first healthy sink; if that sink fails, the beat falls
// through to the next one rather than being retried on the same sink.
type Chain struct {
	sinks []Sink
	log   *logrus.Entry
}

func NewChain(sinks ...Sink) *Chain {
	return &Chain{
		sinks: sinks,
		log:   logger.GetProjectLogger(),
	}
}

func (c *Chain) PlayBeat() error {
	for _, s := range c.sinks {
		if !s.Healthy() {
			continue
		}
		if err := s.PlayBeat(); err != nil {
			c.log.WithField("err", err).Warn("beat sink failed, falling through")
			continue
		}
		return nil
	}
	return ErrNoHealthySink
}

// Healthy reports whether at least one strategy is still usable.
func (c *Chain) Healthy() bool {
	for _, s := range c.sinks {
		if s.Healthy() {
			return true
		}
	}
	return false
}

// Close closes every sink and returns the first error seen.
func (c *Chain) Close() error {
	var firstErr error
	for _, s := range c.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
