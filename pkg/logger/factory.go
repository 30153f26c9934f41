package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New builds a logger from cfg. An unknown level falls back to info.
// When SentryDSN is set, records at or above SentryLevel are also sent to Sentry.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	level, err := ParseLevel(cfg.Level)
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler
	hopts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, hopts)
	} else {
		handler = slog.NewJSONHandler(out, hopts)
	}

	if cfg.SentryDSN != "" {
		handler = withSentry(handler, cfg)
	}

	log := slog.New(NewLogHandlerDecorator(handler, extractors...))
	if err != nil {
		log.Warn("invalid log level, using info", slog.String("level", cfg.Level))
	}
	return log
}

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
