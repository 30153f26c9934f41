package internal

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// maxRequestIDLen bounds ids accepted from clients.
const maxRequestIDLen = 128

// ExtractorSource reads a candidate value from the request.
// Returns ("", false) when the value is absent.
type ExtractorSource = func(Context) (string, bool)

// Extractor tries multiple sources in order and returns the first match.
type Extractor struct {
	sources []ExtractorSource
}

func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract returns the first non-empty value.
func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func FromHeader(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := c.Header(name)
		return v, v != ""
	}
}

func FromQuery(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := c.Query(name)
		return v, v != ""
	}
}

func FromParam(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := c.Param(name)
		return v, v != ""
	}
}

// FromCookie reads a plain cookie from the request jar.
func FromCookie(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v, ok := c.Cookies().Get(name)
		return v, ok && v != ""
	}
}

// DefaultRequestIDSources are consulted after the traceparent header.
func DefaultRequestIDSources() []ExtractorSource {
	return []ExtractorSource{
		FromHeader("X-Request-ID"),
		FromHeader("X-Correlation-ID"),
	}
}

func resolveRequestID(c Context, sources []ExtractorSource) string {
	if id := traceID(c); id != "" {
		return id
	}
	if sources == nil {
		sources = DefaultRequestIDSources()
	}
	if v, ok := NewExtractor(sources...).Extract(c); ok && validRequestID(v) {
		return v
	}
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// traceID prefers a span already on the context, then a W3C traceparent header.
func traceID(c Context) string {
	sc := trace.SpanContextFromContext(c)
	if !sc.IsValid() {
		carrier := propagation.HeaderCarrier(c.Request().Header)
		sc = trace.SpanContextFromContext(propagation.TraceContext{}.Extract(context.Background(), carrier))
	}
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

func validRequestID(v string) bool {
	if len(v) > maxRequestIDLen {
		return false
	}
	return !strings.ContainsFunc(v, func(r rune) bool {
		return r < 0x21 || r > 0x7e
	})
}
