package health

import "errors"

// Sentinel errors for the health package.
var (
	// ErrCheckTimeout is returned when a check does not finish before the deadline.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrUnexpectedStatus is returned by HTTPCheck for 4xx/5xx answers.
	ErrUnexpectedStatus = errors.New("health: unexpected status code")

	// ErrCheckPanicked is returned when a check panics.
	ErrCheckPanicked = errors.New("health: check panicked")
)
