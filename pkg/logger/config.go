package logger

import (
	"errors"
	"io"
	"log/slog"
	"strings"
)

// ErrUnknownLevel is returned by ParseLevel for unrecognized names.
var ErrUnknownLevel = errors.New("logger: unknown level")

// Config selects the output format, the minimum level and an optional Sentry sink.
type Config struct {
	// Output defaults to os.Stdout.
	Output io.Writer `env:"-" yaml:"-"`

	Level       string `env:"LOG_LEVEL" envDefault:"info" yaml:"level"`
	Format      string `env:"LOG_FORMAT" envDefault:"json" yaml:"format"` // json or text
	SentryDSN   string `env:"SENTRY_DSN" yaml:"sentry_dsn"`
	SentryLevel string `env:"SENTRY_LEVEL" envDefault:"warn" yaml:"sentry_level"`
	Environment string `env:"APP_ENV" envDefault:"production" yaml:"environment"`
}

// ParseLevel accepts debug, info, warn, warning and error, case-insensitively.
// An empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.Join(ErrUnknownLevel, errors.New(s))
}
