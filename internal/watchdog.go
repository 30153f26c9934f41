package internal

import (
	"context"
	"log/slog"
	"time"
)

// Default watchdog thresholds.
const (
	DefaultWatchdogWarn  = 500 * time.Millisecond
	DefaultWatchdogStall = 2000 * time.Millisecond
)

// WatchdogConfig sets the latency thresholds reported in development.
// A zero value uses the defaults; a negative one disables that timer.
type WatchdogConfig struct {
	Warn  time.Duration
	Stall time.Duration
}

func (w WatchdogConfig) withDefaults() WatchdogConfig {
	if w.Warn == 0 {
		w.Warn = DefaultWatchdogWarn
	}
	if w.Stall == 0 {
		w.Stall = DefaultWatchdogStall
	}
	return w
}

// watch reports invocations of fn that outlive the thresholds. It only
// logs; the request continues untouched.
func (w WatchdogConfig) watch(log *slog.Logger, name string, fn HandlerFunc) HandlerFunc {
	return func(c Context) (any, error) {
		start := time.Now()
		attrs := []any{
			slog.String("middleware", name),
			slog.String("request_id", c.ID()),
			slog.String("method", c.Request().Method),
			slog.String("path", c.URL().Path),
		}
		// timers fire on their own goroutine and must not touch c
		report := func(level slog.Level, msg string) func() {
			return func() {
				log.Log(context.Background(), level, msg,
					append(attrs, slog.Duration("elapsed", time.Since(start)))...)
			}
		}

		if w.Warn > 0 {
			t := time.AfterFunc(w.Warn, report(slog.LevelWarn, "middleware is slow"))
			defer t.Stop()
		}
		if w.Stall > 0 {
			t := time.AfterFunc(w.Stall, report(slog.LevelError, "middleware appears stalled"))
			defer t.Stop()
		}
		return fn(c)
	}
}
