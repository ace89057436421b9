// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Options mirror the global CLI flags.
type Options struct {
	// Verbosity follows logrus levels: 0 panic ... 6 trace.
	Verbosity uint32
	JSON      bool
	// File, when set, receives a copy of every entry and is rotated.
	File     string
	Rotation time.Duration
	MaxAge   time.Duration
}

// Setup applies opts to the standard logrus logger.
func Setup(opts Options) error {
	return Configure(logrus.StandardLogger(), opts)
}

// Configure applies opts to logger.
func Configure(logger *logrus.Logger, opts Options) error {
	level := logrus.Level(opts.Verbosity)
	if level > logrus.TraceLevel {
		level = logrus.TraceLevel
	}
	logger.SetLevel(level)

	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if opts.File == "" {
		return nil
	}
	w, err := rotating(opts)
	if err != nil {
		return err
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, w))
	return nil
}

func rotating(opts Options) (io.Writer, error) {
	rotation := opts.Rotation
	if rotation <= 0 {
		rotation = 24 * time.Hour
	}
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	w, err := rotatelogs.New(
		opts.File+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(opts.File),
		rotatelogs.WithRotationTime(rotation),
		rotatelogs.WithMaxAge(maxAge),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "open log file %s", opts.File)
	}
	return w, nil
}
