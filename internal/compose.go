package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNilMiddleware is returned when a factory builds nothing.
var ErrNilMiddleware = errors.New("compose: factory returned nil middleware")

// Composer folds middleware around a terminal handler.
type Composer struct {
	logger      *slog.Logger
	watchdog    WatchdogConfig
	development bool
}

// NewComposer creates a Composer. The watchdog runs only in development.
func NewComposer(log *slog.Logger, development bool, wd WatchdogConfig) *Composer {
	return &Composer{logger: log, development: development, watchdog: wd.withDefaults()}
}

// Compose builds every factory in order, then wraps right to left so the
// first factory is the outermost layer.
func (cp *Composer) Compose(ctx context.Context, factories []Factory, terminal HandlerFunc) (Handler, error) {
	built := make([]Middleware, len(factories))
	for i, f := range factories {
		if f.Build == nil {
			return nil, fmt.Errorf("middleware %q: %w", f.Name, ErrNilMiddleware)
		}
		mw, err := f.Build(ctx)
		if err != nil {
			return nil, fmt.Errorf("middleware %q: %w", f.Name, err)
		}
		if mw == nil {
			return nil, fmt.Errorf("middleware %q: %w", f.Name, ErrNilMiddleware)
		}
		built[i] = mw
	}

	h := Enforce(terminal)
	for i := len(built) - 1; i >= 0; i-- {
		h = cp.Layer(factories[i].Name, built[i], h)
	}
	return h, nil
}

// Layer wraps next with one middleware and the enforcer around it.
func (cp *Composer) Layer(name string, mw Middleware, next Handler) Handler {
	fn := mw.Wrap(next)
	if cp.development {
		fn = cp.watchdog.watch(cp.logger, name, fn)
	}
	return Enforce(fn)
}
