package bodyparser

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
)

// DefaultLimit caps bodies read by the built-in parsers.
const DefaultLimit int64 = 1 << 20

// ParseFunc turns a request into a parsed body value.
type ParseFunc func(r *http.Request) (any, error)

// Parser either handles a request or delegates to next.
type Parser func(next ParseFunc) ParseFunc

// Chain folds parsers right to left so the first parser sees the request
// first. When none claims it the result is an *UnsupportedError.
// Requests without a body and without a content type parse to nil.
func Chain(parsers ...Parser) ParseFunc {
	var fn ParseFunc = func(r *http.Request) (any, error) {
		return nil, &UnsupportedError{ContentType: r.Header.Get("Content-Type")}
	}
	for i := len(parsers) - 1; i >= 0; i-- {
		if parsers[i] != nil {
			fn = parsers[i](fn)
		}
	}
	return func(r *http.Request) (any, error) {
		if isEmpty(r) {
			return nil, nil
		}
		return fn(r)
	}
}

// Defaults is the chain used when an application configures none.
func Defaults() []Parser {
	return []Parser{JSON(), Form(), Text()}
}

// Option configures a built-in parser.
type Option func(*options)

type options struct {
	limit int64
}

// WithLimit sets the maximum number of bytes read. Non-positive disables the cap.
func WithLimit(n int64) Option {
	return func(o *options) { o.limit = n }
}

func newOptions(opts []Option) options {
	o := options{limit: DefaultLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// JSON claims application/json and any +json media type.
func JSON(opts ...Option) Parser {
	o := newOptions(opts)
	return func(next ParseFunc) ParseFunc {
		return func(r *http.Request) (any, error) {
			mt := mediaType(r)
			if mt != "application/json" && !strings.HasSuffix(mt, "+json") {
				return next(r)
			}
			raw, err := readAll(r, o.limit)
			if err != nil {
				return nil, err
			}
			if len(bytes.TrimSpace(raw)) == 0 {
				return nil, nil
			}
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.UseNumber()
			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, &MalformedError{ContentType: mt, cause: err}
			}
			if dec.More() {
				return nil, &MalformedError{ContentType: mt, cause: errors.New("trailing data after JSON value")}
			}
			return v, nil
		}
	}
}

// Form claims urlencoded and multipart forms. Single values become strings,
// repeated keys become []string.
func Form(opts ...Option) Parser {
	o := newOptions(opts)
	return func(next ParseFunc) ParseFunc {
		return func(r *http.Request) (any, error) {
			mt := mediaType(r)
			switch mt {
			case "application/x-www-form-urlencoded":
				if o.limit > 0 {
					r.Body = &limitedBody{r: r.Body, left: o.limit, limit: o.limit}
				}
				if err := r.ParseForm(); err != nil {
					return nil, classify(mt, err)
				}
				return flatten(r.PostForm), nil
			case "multipart/form-data":
				mem := o.limit
				if mem <= 0 {
					mem = 32 << 20
				}
				if o.limit > 0 {
					r.Body = &limitedBody{r: r.Body, left: o.limit, limit: o.limit}
				}
				if err := r.ParseMultipartForm(mem); err != nil {
					return nil, classify(mt, err)
				}
				return flatten(r.MultipartForm.Value), nil
			}
			return next(r)
		}
	}
}

// Text claims every text/* media type and returns the body as a string.
func Text(opts ...Option) Parser {
	o := newOptions(opts)
	return func(next ParseFunc) ParseFunc {
		return func(r *http.Request) (any, error) {
			if !strings.HasPrefix(mediaType(r), "text/") {
				return next(r)
			}
			raw, err := readAll(r, o.limit)
			if err != nil {
				return nil, err
			}
			return string(raw), nil
		}
	}
}

// Decode copies a parsed body into dst through a JSON round trip.
func Decode(v, dst any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &MalformedError{ContentType: "application/json", cause: err}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &MalformedError{ContentType: "application/json", cause: err}
	}
	return nil
}

func mediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	}
	return mt
}

func isEmpty(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return r.Header.Get("Content-Type") == ""
	}
	return r.ContentLength == 0 && r.Header.Get("Content-Type") == ""
}

func readAll(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	if limit <= 0 {
		return io.ReadAll(r.Body)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > limit {
		return nil, &TooLargeError{Limit: limit}
	}
	return raw, nil
}

func classify(mt string, err error) error {
	var tooLarge *TooLargeError
	if errors.As(err, &tooLarge) {
		return tooLarge
	}
	return &MalformedError{ContentType: mt, cause: err}
}

func flatten(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, vs := range values {
		switch len(vs) {
		case 0:
		case 1:
			out[k] = vs[0]
		default:
			out[k] = append([]string(nil), vs...)
		}
	}
	return out
}

type limitedBody struct {
	r     io.ReadCloser
	left  int64
	limit int64
}

func (b *limitedBody) Read(p []byte) (int, error) {
	if b.left <= 0 {
		// probe one byte to tell an exact fit from an overflow
		var one [1]byte
		n, err := b.r.Read(one[:])
		if n > 0 {
			return 0, &TooLargeError{Limit: b.limit}
		}
		return 0, err
	}
	if int64(len(p)) > b.left {
		p = p[:b.left]
	}
	n, err := b.r.Read(p)
	b.left -= int64(n)
	return n, err
}

func (b *limitedBody) Close() error { return b.r.Close() }
