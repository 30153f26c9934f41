package internal

import (
	"io"
	"net/http"
)

// Kind tags the body shape of a Response.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindBytes
	KindStream
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindStream:
		return "stream"
	case KindJSON:
		return "json"
	}
	return "empty"
}

// Content types assigned when a layer left Content-Type unset.
const (
	ContentTypeText  = "text/plain; charset=utf-8"
	ContentTypeBytes = "application/octet-stream"
	ContentTypeJSON  = "application/json; charset=utf-8"
	ContentTypeHTML  = "text/html; charset=utf-8"
)

// Response is the canonical value every pipeline layer returns.
// Exactly one of Text, Data, Reader or Value is meaningful, selected by Kind.
type Response struct {
	Header http.Header

	// Err is the error a threw response was built from.
	Err error

	Reader io.Reader
	Value  any

	// Template names a view for render middleware; Value is its data.
	Template string

	Text string
	Data []byte

	Status int
	Kind   Kind

	// Threw marks a response produced from an error or panic.
	Threw bool
}

// Empty returns a body-less response (204 unless a status is set).
func Empty() *Response {
	return &Response{Kind: KindEmpty, Header: make(http.Header)}
}

func Text(s string) *Response {
	return &Response{Kind: KindText, Text: s, Header: make(http.Header)}
}

func Bytes(b []byte) *Response {
	return &Response{Kind: KindBytes, Data: b, Header: make(http.Header)}
}

// Stream returns a response copied from r at dispatch. r is closed afterwards
// if it implements io.Closer.
func Stream(r io.Reader) *Response {
	return &Response{Kind: KindStream, Reader: r, Header: make(http.Header)}
}

func JSON(v any) *Response {
	return &Response{Kind: KindJSON, Value: v, Header: make(http.Header)}
}

// Template returns a JSON response tagged with a view name. Render
// middleware turns it into HTML; without one the data is sent as JSON.
func Template(name string, data any) *Response {
	r := JSON(data)
	r.Template = name
	return r
}

// Redirect returns an empty response with a Location header.
func Redirect(code int, url string) *Response {
	return Empty().WithStatus(code).WithHeader("Location", url)
}

// WithStatus sets an explicit status that enforcement keeps.
func (r *Response) WithStatus(code int) *Response {
	r.Status = code
	return r
}

// WithHeader sets a response header.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}

// ContentType returns the Content-Type header.
func (r *Response) ContentType() string {
	if r.Header == nil {
		return ""
	}
	return r.Header.Get("Content-Type")
}
