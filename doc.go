// Package servo is a small HTTP service runtime: an onion of middleware
// around a versioned router, with one rule holding everything together.
// Every handler and every middleware returns a value, never writes to the
// client; the value is coerced into a canonical [Response] and written once
// by the dispatcher.
//
// # Quick Start
//
//	app := servo.New(
//	    servo.WithLogger(log),
//	    servo.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Logging(log, slog.LevelInfo),
//	    ),
//	    servo.WithHandlers(handlers.NewUsers(repo)),
//	)
//
//	if err := app.Run(servo.Address(":8080")); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
// A handler returns anything. Strings become text/plain, byte slices
// application/octet-stream, readers are streamed, nil is a 204 and every
// other value is encoded as JSON. A returned error becomes an error response
// whose status comes from a StatusCode method on the error (500 otherwise);
// panics are recovered the same way.
//
//	func (h *Users) show(c servo.Context) (any, error) {
//	    user, err := h.repo.Get(c, servo.Param[int64](c, "id"))
//	    if errors.Is(err, pgx.ErrNoRows) {
//	        return nil, servo.ErrNotFound("user not found")
//	    }
//	    return user, err
//	}
//
// Use [Response] constructors for explicit statuses and headers:
//
//	return servo.JSON(user).WithStatus(http.StatusCreated).WithHeader("Location", url), nil
//
// # Routes
//
// Route tables implement [RouteTable]. Patterns are "METHOD /path" with
// ":name" parameters; a comma-separated method list registers several at
// once. Routes may carry a semver Version; requests choose one with the
// Accept-Version header:
//
//	func (h *Users) Routes() []servo.Route {
//	    return []servo.Route{
//	        {Pattern: "GET /users/:id", Handler: h.show},
//	        {Pattern: "GET /users/:id", Version: "2.0.0", Handler: h.showV2},
//	        {Pattern: "POST,PUT /users", Handler: h.save, Middleware: []servo.Middleware{auth}},
//	    }
//	}
//
// Without the header the unversioned route answers, or the highest version
// when there is none. "*" selects the highest version; a constraint such as
// "~1.2" selects the highest satisfying one.
//
// # Middleware
//
// Middleware receive the next layer in canonical form and return a raw
// handler, so they can inspect and replace the response:
//
//	secure := servo.MiddlewareFunc(func(next servo.Handler) servo.HandlerFunc {
//	    return func(c servo.Context) (any, error) {
//	        resp := next(c)
//	        resp.Header.Set("X-Frame-Options", "DENY")
//	        return resp, nil
//	    }
//	})
//
// Application-wide middleware are registered as [Factory] values and built
// once when the application builds. See the middlewares package.
//
// # Request context
//
// [Context] is a context.Context. Derived views are computed lazily: the
// parsed body, cookies, the session and content negotiation cost nothing
// unless a layer asks for them.
//
// # Development mode
//
// WithDevelopment adds stack traces to error payloads, logs layers that
// hold a request longer than the watchdog thresholds, drops the Secure
// cookie default and closes connections immediately on shutdown.
package servo
