package main

import (
	"io"

	"github.com/fwojciec/distill/config"
	"github.com/sirupsen/logrus"
)

// newLogger builds the process logger. With a log file configured, entries
// go to a rotating file as JSON and the returned closer closes it; otherwise
// they go to stderr as text and the closer is nil.
func newLogger(lc config.LogConfig, stderr io.Writer) (*logrus.Logger, io.Closer) {
	logger := logrus.New()
	logger.SetLevel(lc.Level())
	if rot := lc.Rotator(); rot != nil {
		logger.SetOutput(rot)
		logger.SetFormatter(&logrus.JSONFormatter{})
		return logger, rot
	}
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger, nil
}
