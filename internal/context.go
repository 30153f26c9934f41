package internal

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/servo/pkg/bodyparser"
	"github.com/dmitrymomot/servo/pkg/cookie"
	"github.com/dmitrymomot/servo/pkg/logger"
	"github.com/dmitrymomot/servo/pkg/session"
)

// Context carries per-request state through the pipeline. Derived views
// (URL, query, body, cookies, session, negotiator) are computed on first use
// and cached. Context never writes to the client; the dispatcher does.
type Context interface {
	context.Context

	// ID returns the request id: the trace id of an incoming traceparent,
	// else a known request id header, else a fresh UUIDv7.
	ID() string

	// Request returns the request with the current context attached.
	Request() *http.Request

	// SetContext replaces the request's context.Context.
	SetContext(ctx context.Context)

	// Started returns when the context was created.
	Started() time.Time

	Header(name string) string

	// URL returns the parsed request URL including the host.
	URL() *url.URL

	// SetURL replaces the URL and drops the cached query.
	SetURL(u *url.URL)

	Query(name string) string
	QueryValues() url.Values

	// Param returns a route parameter, or "" before routing.
	Param(name string) string
	Params() map[string]string

	// Route returns the matched route, or nil before routing.
	Route() *Route

	// Body parses the request body once. The matched route's parsers
	// replace the application defaults.
	Body() (any, error)

	// SetBody replaces the parsed body without running parsers.
	SetBody(v any)

	Cookies() *cookie.Jar

	// Session loads the session through the installed loader, once.
	// Without a loader it returns ErrSessionNotConfigured.
	Session() (*session.Session, error)

	// PeekSession returns the session only if it was already loaded.
	PeekSession() *session.Session

	// InstallSession sets the loader used by Session.
	InstallSession(loader SessionLoader)

	Accepts() *Accepts

	// Set stores a value on the request's context.Context.
	Set(key, value any)
	Get(key any) any

	// Logger returns the application logger bound to this request.
	Logger() *slog.Logger

	Development() bool
}

// SessionLoader resolves the session for a request.
type SessionLoader func(c Context) (*session.Session, error)

// ContextConfig holds the application-wide settings every Context shares.
type ContextConfig struct {
	Logger      *slog.Logger
	BodyParsers []bodyparser.Parser
	IDSources   []ExtractorSource
	Development bool
}

type routeBinder interface {
	bindRoute(route *Route, params map[string]string)
}

type requestContext struct {
	request *http.Request
	cfg     *ContextConfig
	started time.Time

	mu sync.Mutex

	id     string
	logger *slog.Logger

	url   *url.URL
	query url.Values

	route  *Route
	params map[string]string

	bodyDone bool
	body     any
	bodyErr  error

	jar     *cookie.Jar
	accepts *Accepts

	sessionLoader SessionLoader
	sessionDone   bool
	session       *session.Session
	sessionErr    error
}

// NewContext creates a Context for r. The dispatcher calls it once per
// request; tests use it to drive handlers and middleware directly.
func NewContext(r *http.Request, cfg ContextConfig) Context {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNope()
	}
	return newContext(r, &cfg)
}

func newContext(r *http.Request, cfg *ContextConfig) *requestContext {
	return &requestContext{request: r, cfg: cfg, started: time.Now()}
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.Request().Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.Request().Context().Done()
}

func (c *requestContext) Err() error {
	return c.Request().Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.Request().Context().Value(key)
}

func (c *requestContext) ID() string {
	c.mu.Lock()
	id := c.id
	c.mu.Unlock()
	if id != "" {
		return id
	}

	// sources read through c, so resolve unlocked
	id = resolveRequestID(c, c.cfg.IDSources)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id == "" {
		c.id = id
	}
	return c.id
}

func (c *requestContext) Request() *http.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.request
}

func (c *requestContext) SetContext(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Started() time.Time {
	return c.started
}

func (c *requestContext) Header(name string) string {
	return c.Request().Header.Get(name)
}

func (c *requestContext) URL() *url.URL {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.urlLocked()
}

func (c *requestContext) urlLocked() *url.URL {
	if c.url == nil {
		u := *c.request.URL
		if u.Host == "" {
			u.Host = c.request.Host
		}
		if u.Scheme == "" {
			u.Scheme = "http"
			if c.request.TLS != nil {
				u.Scheme = "https"
			}
		}
		c.url = &u
	}
	return c.url
}

func (c *requestContext) SetURL(u *url.URL) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.url = u
	c.query = nil
}

func (c *requestContext) Query(name string) string {
	return c.QueryValues().Get(name)
}

func (c *requestContext) QueryValues() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.query == nil {
		q, err := url.ParseQuery(c.urlLocked().RawQuery)
		if err != nil && q == nil {
			q = url.Values{}
		}
		c.query = q
	}
	return c.query
}

func (c *requestContext) Param(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params[name]
}

func (c *requestContext) Params() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.params))
	for k, v := range c.params {
		out[k] = v
	}
	return out
}

func (c *requestContext) Route() *Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.route
}

func (c *requestContext) bindRoute(route *Route, params map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.route = route
	c.params = params
}

func (c *requestContext) Body() (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.bodyDone {
		parsers := c.cfg.BodyParsers
		if c.route != nil && len(c.route.BodyParsers) > 0 {
			parsers = c.route.BodyParsers
		}
		if parsers == nil {
			parsers = bodyparser.Defaults()
		}
		c.body, c.bodyErr = bodyparser.Chain(parsers...)(c.request)
		c.bodyDone = true
	}
	return c.body, c.bodyErr
}

func (c *requestContext) SetBody(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.body, c.bodyErr, c.bodyDone = v, nil, true
}

func (c *requestContext) Cookies() *cookie.Jar {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.jar == nil {
		c.jar = cookie.NewJar(
			strings.Join(c.request.Header.Values("Cookie"), "; "),
			cookie.WithDevelopment(c.cfg.Development),
		)
	}
	return c.jar
}

// loadedJar returns the jar only if something instantiated it.
func (c *requestContext) loadedJar() *cookie.Jar {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jar
}

func (c *requestContext) InstallSession(loader SessionLoader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionLoader = loader
	c.sessionDone = false
	c.session, c.sessionErr = nil, nil
}

func (c *requestContext) Session() (*session.Session, error) {
	c.mu.Lock()
	if c.sessionDone {
		defer c.mu.Unlock()
		return c.session, c.sessionErr
	}
	loader := c.sessionLoader
	c.mu.Unlock()

	if loader == nil {
		return nil, ErrSessionNotConfigured
	}

	// the loader reads cookies through c, so it runs unlocked
	sess, err := loader(c)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sessionDone {
		c.session, c.sessionErr, c.sessionDone = sess, err, true
	}
	return c.session, c.sessionErr
}

func (c *requestContext) PeekSession() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sessionDone {
		return nil
	}
	return c.session
}

func (c *requestContext) Accepts() *Accepts {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accepts == nil {
		c.accepts = NewAccepts(c.request.Header)
	}
	return c.accepts
}

func (c *requestContext) Set(key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.Request().Context().Value(key)
}

func (c *requestContext) Logger() *slog.Logger {
	id := c.ID()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.logger == nil {
		c.logger = c.cfg.Logger.With(
			slog.String("request_id", id),
			slog.String("method", c.request.Method),
			slog.String("path", c.request.URL.Path),
		)
	}
	return c.logger
}

func (c *requestContext) Development() bool {
	return c.cfg.Development
}
