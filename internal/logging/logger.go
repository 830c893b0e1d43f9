package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger represents a logger instance
type Logger = *logrus.Logger

// Fields represents structured logging fields
type Fields = logrus.Fields

const (
	FormatJSON = "json"
	FormatText = "text"
)

type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// NewLogger creates a configured logger. Unknown levels are an error, an empty
// level means info.
func NewLogger(opts Options) (Logger, error) {
	level := logrus.InfoLevel
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		parsed, err := logrus.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	logger := logrus.New()
	logger.SetLevel(level)
	if opts.Output != nil {
		logger.SetOutput(opts.Output)
	}

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", FormatText:
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unsupported log format %q", opts.Format)
	}

	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
