package servo

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/servo/internal"
	"github.com/dmitrymomot/servo/pkg/bodyparser"
	"github.com/dmitrymomot/servo/pkg/session"
)

// Type aliases - public API
type (
	// App assembles middleware and routes into one pipeline and serves it.
	App = internal.App

	// Context carries per-request state through the pipeline.
	Context = internal.Context

	// HandlerFunc is the raw handler form: any return value, optional error.
	HandlerFunc = internal.HandlerFunc

	// Handler is the canonical handler form returning a *Response.
	Handler = internal.Handler

	// Middleware wraps the next canonical handler.
	Middleware = internal.Middleware

	// MiddlewareFunc adapts a function to Middleware.
	MiddlewareFunc = internal.MiddlewareFunc

	// Factory builds a middleware once when the application builds.
	Factory = internal.Factory

	// RouteTable declares a group of routes.
	RouteTable = internal.RouteTable

	// Route is one registration: "METHOD /path", optional version, handler.
	Route = internal.Route

	// RouteInfo describes a registered route.
	RouteInfo = internal.RouteInfo

	// Response is the canonical value every pipeline layer returns.
	Response = internal.Response

	// Kind tags the body shape of a Response.
	Kind = internal.Kind

	// Accepts negotiates response formats.
	Accepts = internal.Accepts

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// WatchdogConfig sets development latency thresholds.
	WatchdogConfig = internal.WatchdogConfig

	// ExtractorSource reads a candidate request id from the request.
	ExtractorSource = internal.ExtractorSource

	// SessionConfig configures the session cookie and key derivation.
	SessionConfig = internal.SessionConfig

	// Session holds per-client values.
	Session = session.Session

	// SessionStore persists session data.
	SessionStore = session.Store

	// HTTPError is an error with a status code and a client-facing message.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// NotFoundError is produced when no route matches.
	NotFoundError = internal.NotFoundError

	// ValidationError carries field-level failures.
	ValidationError = internal.ValidationError

	// FieldError describes one invalid input field.
	FieldError = internal.FieldError

	// PanicError wraps a recovered panic value.
	PanicError = internal.PanicError

	// Scalar is the set of types Param and Query convert to.
	Scalar = internal.Scalar
)

// Response kinds.
const (
	KindEmpty  = internal.KindEmpty
	KindText   = internal.KindText
	KindBytes  = internal.KindBytes
	KindStream = internal.KindStream
	KindJSON   = internal.KindJSON
)

// AcceptVersionHeader selects among versioned routes.
const AcceptVersionHeader = internal.AcceptVersionHeader

// Errors for checking return values.
var (
	ErrSessionNotConfigured = internal.ErrSessionNotConfigured
	ErrDuplicateRoute       = internal.ErrDuplicateRoute
	ErrInvalidRoute         = internal.ErrInvalidRoute
	ErrNilMiddleware        = internal.ErrNilMiddleware
)

// Constructors

// New creates an application. Routes and middleware are assembled by
// Build, or implicitly by Run and the first request.
//
// Example:
//
//	app := servo.New(
//	    servo.WithLogger(log),
//	    servo.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Session(store, cfg.Session),
//	    ),
//	    servo.WithHandlers(
//	        handlers.NewUsers(repo),
//	        handlers.NewPosts(repo),
//	    ),
//	)
//
//	err := app.Run(servo.Address(":8080"))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewContext creates a Context outside a server, for tests that drive
// handlers or middleware directly.
func NewContext(r *http.Request, log *slog.Logger) Context {
	return internal.NewContext(r, internal.ContextConfig{Logger: log})
}

// Use wraps a ready middleware in a Factory.
func Use(name string, mw Middleware) Factory {
	return internal.Use(name, mw)
}

// App options

// WithMiddleware appends application-wide middleware. The first is outermost.
func WithMiddleware(factories ...Factory) Option {
	return internal.WithMiddleware(factories...)
}

// WithRoutes registers individual routes.
func WithRoutes(routes ...Route) Option {
	return internal.WithRoutes(routes...)
}

// WithHandlers registers route tables.
func WithHandlers(tables ...RouteTable) Option {
	return internal.WithHandlers(tables...)
}

// WithDevelopment enables stack traces in error payloads, the latency
// watchdog, non-Secure cookies and immediate shutdown.
func WithDevelopment(dev bool) Option {
	return internal.WithDevelopment(dev)
}

// WithLogger sets the application logger.
//
// Example:
//
//	servo.WithLogger(logger.New(cfg.Log, middlewares.RequestIDExtractor()))
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithBodyParsers replaces the default body parser chain.
func WithBodyParsers(parsers ...bodyparser.Parser) Option {
	return internal.WithBodyParsers(parsers...)
}

// WithWatchdog sets the development latency thresholds.
func WithWatchdog(cfg WatchdogConfig) Option {
	return internal.WithWatchdog(cfg)
}

// WithRequestIDSources replaces where incoming request ids are read from.
//
// Example:
//
//	servo.WithRequestIDSources(servo.FromHeader("X-Amzn-Trace-Id"), servo.FromQuery("rid"))
func WithRequestIDSources(sources ...ExtractorSource) Option {
	return internal.WithRequestIDSources(sources...)
}

// Request id sources

func FromHeader(name string) ExtractorSource { return internal.FromHeader(name) }
func FromQuery(name string) ExtractorSource { return internal.FromQuery(name) }
func FromParam(name string) ExtractorSource { return internal.FromParam(name) }
func FromCookie(name string) ExtractorSource { return internal.FromCookie(name) }

// Run options

// Address sets the listen address. Defaults to ":8080".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Listener serves on an existing listener instead of Address.
func Listener(ln net.Listener) RunOption {
	return internal.Listener(ln)
}

// Logger overrides the logger used for server lifecycle messages.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown. Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ShutdownHook registers a cleanup function run after the server stops.
//
// Example:
//
//	servo.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context; cancelling it stops the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Responses

// Empty returns a body-less response (204 unless a status is set).
func Empty() *Response { return internal.Empty() }

// Text returns a text/plain response.
func Text(s string) *Response { return internal.Text(s) }

// Bytes returns an application/octet-stream response.
func Bytes(b []byte) *Response { return internal.Bytes(b) }

// Stream returns a response copied from r at dispatch.
func Stream(r io.Reader) *Response { return internal.Stream(r) }

// JSON returns a JSON response.
func JSON(v any) *Response { return internal.JSON(v) }

// Template returns a response rendered by the render middleware.
func Template(name string, data any) *Response { return internal.Template(name, data) }

// Redirect returns an empty response with a Location header.
func Redirect(code int, url string) *Response { return internal.Redirect(code, url) }

// Errors

// NewHTTPError creates an HTTPError. An empty message uses the status text.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrConflict(message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnprocessable(message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrServiceUnavailable(message, opts...)
}

// WithDetail adds an extended description to an HTTPError payload.
func WithDetail(detail string) HTTPErrorOption { return internal.WithDetail(detail) }

// WithErrorCode adds a stable machine-readable code.
func WithErrorCode(code string) HTTPErrorOption { return internal.WithErrorCode(code) }

// WithError attaches the underlying cause.
func WithError(err error) HTTPErrorOption { return internal.WithError(err) }

// AsHTTPError returns the first *HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError { return internal.AsHTTPError(err) }

// Context helpers

// ContextValue retrieves a typed value stored with Context.Set.
// Returns the zero value of T if the key is missing or of another type.
//
// Example:
//
//	type tenantKey struct{}
//
//	tenant := servo.ContextValue[*Tenant](c, tenantKey{})
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param returns a typed route parameter, or the zero T if it does not parse.
//
// Example:
//
//	id := servo.Param[int64](c, "id")
func Param[T Scalar](c Context, name string) T {
	return internal.Param[T](c, name)
}

// Query returns a typed query parameter, or the zero T if it does not parse.
func Query[T Scalar](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault returns defaultValue when the parameter is missing or invalid.
//
// Example:
//
//	page := servo.QueryDefault(c, "page", 1)
func QueryDefault[T Scalar](c Context, name string, defaultValue T) T {
	return internal.QueryDefault(c, name, defaultValue)
}

// SessionValue retrieves a typed session value.
//
// Example:
//
//	userID, err := servo.SessionValue[string](sess, "user_id")
func SessionValue[T any](sess *Session, key string) (T, error) {
	return session.Value[T](sess, key)
}

// SessionValueOr returns defaultVal if the key is missing or of another type.
func SessionValueOr[T any](sess *Session, key string, defaultVal T) T {
	return session.ValueOr(sess, key, defaultVal)
}
