package logger

import (
	"github.com/gruntwork-io/go-commons/logging"
	"github.com/sirupsen/logrus"
)

// GetProjectLogger returns the shared project logger.
func GetProjectLogger() *logrus.Entry {
	logger := logging.GetLogger("")
	return logger.WithField("name", "pulse")
}

// GetLogger returns a named logger for a specific subsystem.
func GetLogger(name string) *logrus.Logger {
	return logging.GetLogger(name)
}
