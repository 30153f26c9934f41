package internal

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is an error with a status code and a client-facing message.
type HTTPError struct {
	// Err is the underlying cause. It is logged, never sent to clients.
	Err error

	Message string

	// Detail is an optional extended description.
	Detail string

	// ErrorCode is a stable machine-readable code, e.g. "invalid_version".
	ErrorCode string

	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

// Payload adds code and detail to the serialized error.
func (e *HTTPError) Payload() map[string]any {
	p := make(map[string]any, 2)
	if e.ErrorCode != "" {
		p["code"] = e.ErrorCode
	}
	if e.Detail != "" {
		p["detail"] = e.Detail
	}
	return p
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

func WithDetail(detail string) HTTPErrorOption {
	return func(e *HTTPError) { e.Detail = detail }
}

func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) { e.ErrorCode = code }
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) { e.Err = err }
}

// NewHTTPError creates an HTTPError. An empty message uses the status text.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusConflict, message, opts...)
}

func ErrUnsupportedMediaType(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnsupportedMediaType, message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, message, opts...)
}

// AsHTTPError returns the first *HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// ErrSessionNotConfigured is returned by Context.Session when no session
// middleware is installed.
var ErrSessionNotConfigured = &HTTPError{
	Code:      http.StatusInternalServerError,
	Message:   "session accessed but no session middleware is installed",
	ErrorCode: "configuration_error",
}

// ErrDuplicateRoute is returned when two routes share method, path and version.
var ErrDuplicateRoute = errors.New("router: duplicate route")

// ErrInvalidRoute is returned for descriptors that cannot be parsed.
var ErrInvalidRoute = errors.New("router: invalid route")

// NotFoundError is produced when no route matches a request.
type NotFoundError struct {
	Method  string
	Path    string
	Version string
}

func (e *NotFoundError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("Cannot %s %s (accept-version %s)", e.Method, e.Path, e.Version)
	}
	return fmt.Sprintf("Cannot %s %s", e.Method, e.Path)
}

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

func (e *NotFoundError) Payload() map[string]any {
	return map[string]any{"code": "not_found"}
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Rule    string `json:"rule,omitempty"`
}

// ValidationError carries field-level failures and maps to 400.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

func (e *ValidationError) Payload() map[string]any {
	return map[string]any{"code": "validation_failed", "errors": e.Fields}
}

// Add appends a field failure and returns e for chaining.
func (e *ValidationError) Add(field, rule, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Rule: rule, Message: message})
	return e
}

// Empty reports whether no failures were recorded.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// PanicError wraps a value recovered from a panicking handler or middleware.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
