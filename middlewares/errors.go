package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrNoTransaction is returned by DB when Transaction is not installed.
	ErrNoTransaction = errors.New("middlewares: transaction middleware is not installed")

	// ErrTransactionDone is returned by DB after the transaction was finished.
	ErrTransactionDone = errors.New("middlewares: transaction already finished")

	// ErrNilPool is returned when Transaction is built without a pool.
	ErrNilPool = errors.New("middlewares: database pool is required")

	// ErrUnknownTemplate is returned when a response names a view that was not registered.
	ErrUnknownTemplate = errors.New("middlewares: unknown template")
)

// TimeoutError is produced when a handler fails because the request deadline passed.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

func (e *TimeoutError) StatusCode() int { return http.StatusServiceUnavailable }

func (e *TimeoutError) Payload() map[string]any {
	return map[string]any{"code": "timeout"}
}

// IsTimeoutError returns true if the error is a TimeoutError.
func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// AsTimeoutError extracts the TimeoutError from an error if present.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	var te *TimeoutError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
