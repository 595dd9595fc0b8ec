// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/diewo77/sms-api/internal/config"
)

var logger = logrus.New()

// Initialize applies cfg to the shared logger. An unknown level is an error.
func Initialize(cfg config.LogConfig) error {
	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return errors.NewNotValid(err, "log level "+cfg.Level)
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return errors.NotValidf("log format %q", cfg.Format)
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if err != nil {
			return errors.Annotatef(err, "opening log file %s", cfg.File)
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, f))
	}
	return nil
}

// Get returns the underlying logrus logger.
func Get() *logrus.Logger {
	return logger
}

// SetOutput redirects log output, mostly useful in tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// WithField starts an entry with one field set.
func WithField(key string, value any) *logrus.Entry {
	return logger.WithField(key, value)
}

// WithFields starts an entry with several fields set.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

// WithError starts an entry carrying err.
func WithError(err error) *logrus.Entry {
	return logger.WithError(err)
}

func Infof(format string, args ...any) { logger.Infof(format, args...) }
func Warnf(format string, args ...any) { logger.Warnf(format, args...) }
