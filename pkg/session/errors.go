package session

import (
	"errors"
	"net/http"
)

// Session errors.
var (
	// ErrBadSession is matched by every BadSessionError.
	ErrBadSession = errors.New("session: malformed client id")

	ErrStoreClosed  = errors.New("session: store closed")
	ErrMarshal      = errors.New("session: failed to marshal data")
	ErrUnmarshal    = errors.New("session: failed to unmarshal data")
	ErrNotFound     = errors.New("session: value not found")
	ErrTypeMismatch = errors.New("session: value type mismatch")
)

// BadSessionError reports a session cookie that decrypted to an id that does
// not follow the client id format. It maps to HTTP 400.
type BadSessionError struct {
	ID string
}

func (e *BadSessionError) Error() string {
	return ErrBadSession.Error()
}

// Is lets errors.Is(err, ErrBadSession) match.
func (e *BadSessionError) Is(target error) bool {
	return target == ErrBadSession
}

func (e *BadSessionError) StatusCode() int {
	return http.StatusBadRequest
}

// Payload adds a stable code so clients can force a logout without parsing messages.
func (e *BadSessionError) Payload() map[string]any {
	return map[string]any{"code": "bad_session"}
}

// IsBadSession reports whether err is or wraps a BadSessionError.
func IsBadSession(err error) bool {
	return errors.Is(err, ErrBadSession)
}
