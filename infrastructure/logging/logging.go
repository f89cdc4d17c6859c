// Package logging configures the structured logger shared by the server and commands.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options controls logger output
type Options struct {
	Level string // trace, debug, info, warn, error; unknown values fall back to info
	JSON  bool
	Out   io.Writer // defaults to stderr
}

// New creates a logger for opts
func New(opts Options) *logrus.Logger {
	logger := logrus.New()

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
