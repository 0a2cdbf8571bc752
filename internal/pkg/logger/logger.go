// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options controls formatter, level and output of the root logger.
type Options struct {
	Level  string
	Format string // "json" or "text"; empty picks text in development and json elsewhere
	Dev    bool
	Output io.Writer
}

// Init configures the standard logrus logger and returns it.
func Init(opts Options) *logrus.Logger {
	l := logrus.StandardLogger()

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	l.SetOutput(out)

	format := opts.Format
	if format == "" {
		format = "json"
		if opts.Dev {
			format = "text"
		}
	}
	if format == "text" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	return l
}
