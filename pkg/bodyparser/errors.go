package bodyparser

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnsupported = errors.New("bodyparser: unsupported content type")
	ErrMalformed   = errors.New("bodyparser: malformed body")
	ErrTooLarge    = errors.New("bodyparser: body too large")
)

// UnsupportedError means no parser in the chain claimed the request.
type UnsupportedError struct {
	ContentType string
}

func (e *UnsupportedError) Error() string {
	if e.ContentType == "" {
		return "unsupported media type"
	}
	return fmt.Sprintf("unsupported media type %q", e.ContentType)
}

func (e *UnsupportedError) Is(target error) bool { return target == ErrUnsupported }

func (e *UnsupportedError) StatusCode() int { return http.StatusUnsupportedMediaType }

func (e *UnsupportedError) Payload() map[string]any {
	return map[string]any{"code": "unsupported_media_type"}
}

// MalformedError means a parser recognized the content type but could not decode the body.
type MalformedError struct {
	ContentType string
	cause       error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed %s body: %s", e.ContentType, e.cause)
}

func (e *MalformedError) Unwrap() error { return e.cause }

func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

func (e *MalformedError) StatusCode() int { return http.StatusUnprocessableEntity }

func (e *MalformedError) Payload() map[string]any {
	return map[string]any{"code": "malformed_body"}
}

// TooLargeError is returned once a body exceeds the configured limit.
type TooLargeError struct {
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

func (e *TooLargeError) Is(target error) bool { return target == ErrTooLarge }

func (e *TooLargeError) StatusCode() int { return http.StatusRequestEntityTooLarge }

func (e *TooLargeError) Payload() map[string]any {
	return map[string]any{"code": "body_too_large", "limit": e.Limit}
}
