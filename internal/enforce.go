package internal

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

type statusCoder interface {
	StatusCode() int
}

type payloader interface {
	Payload() map[string]any
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Enforce converts h into the canonical form. Errors and panics become
// threw responses; return values are coerced by Normalize.
func Enforce(h HandlerFunc) Handler {
	return func(c Context) (resp *Response) {
		defer func() {
			if rec := recover(); rec != nil {
				resp = Threw(c, pkgerrors.WithStack(&PanicError{Value: rec}))
			}
		}()

		v, err := h(c)
		if err != nil {
			return Threw(c, err)
		}
		return Normalize(v)
	}
}

// Normalize coerces a handler return value into a Response with status,
// header and content type filled in. Canonical values pass through unchanged.
func Normalize(v any) *Response {
	var r *Response
	switch x := v.(type) {
	case nil:
		r = Empty()
	case *Response:
		if x == nil {
			r = Empty()
		} else {
			r = x
		}
	case Response:
		r = &x
	case string:
		r = Text(x)
	case []byte:
		r = Bytes(x)
	case io.Reader:
		if isNil(x) {
			r = Empty()
		} else {
			r = Stream(x)
		}
	default:
		if isNil(x) {
			r = Empty()
		} else {
			r = JSON(x)
		}
	}
	return finalize(r)
}

// isNil reports a nil pointer, map, slice, channel or func held in v.
func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Threw builds the error response for err. The status comes from a
// StatusCode method anywhere in the chain, else 500. In development the
// payload carries a stack trace.
func Threw(c Context, err error) *Response {
	status := http.StatusInternalServerError
	var sc statusCoder
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code >= 400 && code <= 599 {
			status = code
		}
	}

	body := map[string]any{}
	var p payloader
	if errors.As(err, &p) {
		for k, v := range p.Payload() {
			body[k] = v
		}
	}
	body["message"] = err.Error()

	if c != nil && c.Development() {
		body["stack"] = stackOf(err)
	}

	r := JSON(body).WithStatus(status)
	r.Threw = true
	r.Err = err
	return finalize(r)
}

func stackOf(err error) string {
	var st stackTracer
	if !errors.As(err, &st) {
		if !errors.As(pkgerrors.WithStack(err), &st) {
			return ""
		}
	}
	return strings.TrimSpace(fmt.Sprintf("%+v", st.StackTrace()))
}

func finalize(r *Response) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}

	switch {
	case r.Kind == KindText && r.Text == "":
		r.Kind = KindEmpty
	case r.Kind == KindBytes && len(r.Data) == 0:
		r.Kind = KindEmpty
	case r.Kind == KindStream && r.Reader == nil:
		r.Kind = KindEmpty
	}

	if r.Status == 0 {
		if r.Kind == KindEmpty {
			r.Status = http.StatusNoContent
		} else {
			r.Status = http.StatusOK
		}
	}

	if r.Header.Get("Content-Type") == "" {
		switch r.Kind {
		case KindText:
			r.Header.Set("Content-Type", ContentTypeText)
		case KindBytes, KindStream:
			r.Header.Set("Content-Type", ContentTypeBytes)
		case KindJSON:
			r.Header.Set("Content-Type", ContentTypeJSON)
		}
	}
	return r
}
