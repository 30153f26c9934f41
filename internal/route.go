package internal

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/servo/pkg/bodyparser"
)

// Route is one registration: a descriptor, an optional version and the
// handler with its own middleware.
type Route struct {
	// Pattern is "METHOD /path/:param" or a bare "/path" (GET). Several
	// methods may be joined with commas: "GET,HEAD /x".
	Pattern string

	// Version is a semver version; requests select it with Accept-Version.
	Version string

	// Name labels the route in logs and listings.
	Name string

	Handler HandlerFunc

	// Middleware wraps the handler; the first entry is outermost.
	Middleware []Middleware

	// Decorators wrap the handler inside Middleware.
	//
	// Deprecated: use Middleware.
	Decorators []Middleware

	// BodyParsers replace the application's parsers for this route.
	BodyParsers []bodyparser.Parser
}

// RouteInfo describes a registered route.
type RouteInfo struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Version string `json:"version,omitempty"`
	Name    string `json:"name,omitempty"`
}

var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodConnect: true,
	http.MethodTrace:   true,
}

// ParseDescriptor splits a route descriptor into methods and a chi path.
// ":name" segments become "{name}"; "{name}" and a trailing "*" pass through.
func ParseDescriptor(s string) ([]string, string, error) {
	s = strings.TrimSpace(s)
	methodPart, path, found := strings.Cut(s, " ")
	if !found {
		methodPart, path = http.MethodGet, s
	}
	path = strings.TrimSpace(path)

	if !strings.HasPrefix(path, "/") {
		return nil, "", fmt.Errorf("%w: %q: path must start with /", ErrInvalidRoute, s)
	}

	var methods []string
	for _, m := range strings.Split(methodPart, ",") {
		m = strings.ToUpper(strings.TrimSpace(m))
		if !knownMethods[m] {
			return nil, "", fmt.Errorf("%w: %q: unknown method %q", ErrInvalidRoute, s, m)
		}
		methods = append(methods, m)
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if name == "" {
				return nil, "", fmt.Errorf("%w: %q: empty parameter name", ErrInvalidRoute, s)
			}
			segments[i] = "{" + name + "}"
		}
	}
	return methods, strings.Join(segments, "/"), nil
}

// displayPath converts a chi path back to the ":param" form.
func displayPath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			name, _, _ := strings.Cut(seg[1:len(seg)-1], ":")
			segments[i] = ":" + name
		}
	}
	return strings.Join(segments, "/")
}
