// Package logging builds the logrus loggers shared by the widgets, the HTTP
// components and the formwidgets command.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Format names accepted by Config.Format.
const (
	FormatText = "text"
	FormatJSON = "json"

	// LevelEnv overrides Config.Level when set.
	LevelEnv = "FORMWIDGETS_LOG_LEVEL"
)

// Config selects the level, format and destination of a logger.
type Config struct {
	Level  string    `yaml:"level"`
	Format string    `yaml:"format"`
	Output io.Writer `yaml:"-"`
}

// Option configures a logger after construction.
type Option func(*logrus.Logger)

// WithOutput sets the logger output.
func WithOutput(w io.Writer) Option {
	return func(l *logrus.Logger) {
		if w != nil {
			l.SetOutput(w)
		}
	}
}

// WithLevel sets the log level.
func WithLevel(level logrus.Level) Option {
	return func(l *logrus.Logger) {
		l.SetLevel(level)
	}
}

// WithFormatter sets the log formatter.
func WithFormatter(formatter logrus.Formatter) Option {
	return func(l *logrus.Logger) {
		if formatter != nil {
			l.SetFormatter(formatter)
		}
	}
}

// New creates a logger from cfg. LevelEnv, when set, wins over cfg.Level; an
// empty level means info and an empty format means text.
func New(cfg Config, opts ...Option) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cfg.Output != nil {
		logger.SetOutput(cfg.Output)
	}

	level := logrus.InfoLevel
	raw := strings.TrimSpace(os.Getenv(LevelEnv))
	if raw == "" {
		raw = strings.TrimSpace(cfg.Level)
	}
	if raw != "" {
		parsed, err := logrus.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", FormatText:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(logger)
		}
	}
	return logger, nil
}

// Component returns an entry tagged with the component name.
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger.WithField("component", name)
}

// Discard returns an entry that drops everything written to it.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
