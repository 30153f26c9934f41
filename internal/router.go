package internal

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/go-chi/chi/v5"
)

// Router resolves requests to registered routes. Paths are matched with
// chi's radix tree, so literal segments beat parameters.
type Router struct {
	composer *Composer
	mux      *chi.Mux
	entries  map[string]*versionSet // "METHOD pattern"
	infos    []RouteInfo
	mu       sync.RWMutex
}

// NewRouter creates a Router. Route middleware is layered with composer.
func NewRouter(composer *Composer) *Router {
	return &Router{
		composer: composer,
		mux:      chi.NewMux(),
		entries:  make(map[string]*versionSet),
	}
}

// matchOnly marks chi endpoints; the router never serves through chi.
var matchOnly = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// Register compiles and adds routes. It stops at the first invalid or
// duplicate route.
func (rt *Router) Register(routes ...Route) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	for i := range routes {
		if err := rt.register(routes[i]); err != nil {
			return err
		}
	}
	return nil
}

func (rt *Router) register(route Route) error {
	if route.Handler == nil {
		return fmt.Errorf("%w: %q: nil handler", ErrInvalidRoute, route.Pattern)
	}
	methods, path, err := ParseDescriptor(route.Pattern)
	if err != nil {
		return err
	}

	var version *semver.Version
	if route.Version != "" {
		version, err = semver.NewVersion(route.Version)
		if err != nil {
			return fmt.Errorf("%w: %q: version %q: %w", ErrInvalidRoute, route.Pattern, route.Version, err)
		}
	}

	r := &route
	cr := &compiledRoute{route: r, version: version, handler: rt.compile(r)}

	for _, method := range methods {
		key := method + " " + path
		set, ok := rt.entries[key]
		if !ok {
			if err := rt.addPattern(method, path); err != nil {
				return err
			}
			set = &versionSet{}
			rt.entries[key] = set
		}
		if err := set.add(cr); err != nil {
			return fmt.Errorf("%w: %s %s version %q", err, method, displayPath(path), route.Version)
		}
		rt.infos = append(rt.infos, RouteInfo{
			Method:  method,
			Path:    displayPath(path),
			Version: route.Version,
			Name:    route.Name,
		})
	}
	return nil
}

// addPattern registers path with chi, which panics on malformed patterns.
func (rt *Router) addPattern(method, path string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s %s: %v", ErrInvalidRoute, method, path, rec)
		}
	}()
	rt.mux.Method(method, path, matchOnly)
	return nil
}

// compile wraps the handler: decorators innermost, then middleware, with
// the enforcer around every element.
func (rt *Router) compile(r *Route) Handler {
	name := r.Name
	if name == "" {
		name = r.Pattern
	}

	h := Enforce(r.Handler)
	for i := len(r.Decorators) - 1; i >= 0; i-- {
		h = rt.composer.Layer(fmt.Sprintf("%s decorator[%d]", name, i), r.Decorators[i], h)
	}
	for i := len(r.Middleware) - 1; i >= 0; i-- {
		h = rt.composer.Layer(fmt.Sprintf("%s middleware[%d]", name, i), r.Middleware[i], h)
	}
	return h
}

// Dispatch routes c to its handler. It is the terminal handler of the
// application pipeline.
func (rt *Router) Dispatch(c Context) (any, error) {
	req := c.Request()
	method := req.Method
	path := c.URL().Path
	if path == "" {
		path = "/"
	}

	set, params, ok := rt.match(method, path)
	if !ok && method == http.MethodHead {
		set, params, ok = rt.match(http.MethodGet, path)
	}
	if !ok {
		return nil, &NotFoundError{Method: method, Path: path}
	}

	header := req.Header.Get(AcceptVersionHeader)
	cr, err := set.pick(header)
	if err == nil && cr == nil {
		err = &NotFoundError{Method: method, Path: path, Version: header}
	}

	// Every response of a path with versions depends on Accept-Version,
	// the unversioned sibling and negotiation failures included.
	var resp *Response
	if err != nil {
		if !set.hasVersions() {
			return nil, err
		}
		resp = Threw(c, err)
	} else {
		if b, ok := c.(routeBinder); ok {
			b.bindRoute(cr.route, params)
		}
		resp = cr.handler(c)
	}
	if set.hasVersions() {
		resp.Header.Add("Vary", "accept-version")
	}
	return resp, nil
}

func (rt *Router) match(method, path string) (*versionSet, map[string]string, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	rctx := chi.NewRouteContext()
	pattern := rt.mux.Find(rctx, method, path)
	if pattern == "" {
		return nil, nil, false
	}
	set, ok := rt.entries[method+" "+pattern]
	if !ok {
		return nil, nil, false
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		params[k] = rctx.URLParams.Values[i]
	}
	return set, params, true
}

// Routes lists registrations sorted by path, method and version.
func (rt *Router) Routes() []RouteInfo {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	out := make([]RouteInfo, len(rt.infos))
	copy(out, rt.infos)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		if out[i].Method != out[j].Method {
			return out[i].Method < out[j].Method
		}
		return out[i].Version < out[j].Version
	})
	return out
}
