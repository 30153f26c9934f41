package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// withSentry adds a Sentry sink next to base. Errors become issues; records
// from SentryLevel upward are kept as logs. If the SDK cannot start, base is
// returned unchanged and the failure is reported through it.
func withSentry(base slog.Handler, cfg Config) slog.Handler {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(base).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return base
	}

	minLevel, err := ParseLevel(cfg.SentryLevel)
	if err != nil {
		minLevel = slog.LevelWarn
	}

	var logLevels []slog.Level
	for _, l := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if l >= minLevel {
			logLevels = append(logLevels, l)
		}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background())

	return fanout{base, sentryHandler}
}
