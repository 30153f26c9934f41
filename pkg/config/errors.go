package config

import (
	"errors"
	"fmt"
)

var (
	ErrNilTarget = errors.New("config: target must be a non-nil pointer")
	ErrParseEnv  = errors.New("config: failed to parse environment")
)

// InvalidFileError is returned when a config file exists but cannot be decoded.
type InvalidFileError struct {
	Path  string
	cause error
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("config: invalid file %s: %s", e.Path, e.cause)
}

func (e *InvalidFileError) Unwrap() error { return e.cause }
