package sink

import (
	"github.com/robmorgan/pulse/logger"
	"github.com/sirupsen/logrus"
)

// LogSink is the always-available fallback: it just logs each beat.
type LogSink struct {
	log   *logrus.Entry
	count int64
}

func NewLogSink() *LogSink {
	return &LogSink{log: logger.GetProjectLogger()}
}

func (s *LogSink) PlayBeat() error {
	s.count++
	s.log.WithField("beat", s.count).Debug("tick")
	return nil
}

func (s *LogSink) Healthy() bool {
	return true
}

func (s *LogSink) Close() error {
	return nil
}
