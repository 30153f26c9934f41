package internal

import "context"

// HandlerFunc is the raw form of handlers and middleware bodies. It may
// return any value; enforcement coerces it into a *Response.
//
//	func hello(c servo.Context) (any, error) {
//	    return map[string]string{"message": "hi"}, nil
//	}
type HandlerFunc func(c Context) (any, error)

// Handler is the canonical form: it always returns a non-nil *Response.
type Handler func(c Context) *Response

// Middleware wraps the next canonical handler.
//
// Example:
//
//	servo.MiddlewareFunc(func(next servo.Handler) servo.HandlerFunc {
//	    return func(c servo.Context) (any, error) {
//	        resp := next(c)
//	        resp.Header.Set("X-Frame-Options", "DENY")
//	        return resp, nil
//	    }
//	})
type Middleware interface {
	Wrap(next Handler) HandlerFunc
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(next Handler) HandlerFunc

func (f MiddlewareFunc) Wrap(next Handler) HandlerFunc {
	return f(next)
}

// Factory builds a middleware once, when the application is built.
// Build may do setup such as checking that a dependency is reachable.
type Factory struct {
	Name  string
	Build func(ctx context.Context) (Middleware, error)
}

// Use wraps a ready middleware in a Factory.
func Use(name string, mw Middleware) Factory {
	return Factory{
		Name:  name,
		Build: func(context.Context) (Middleware, error) { return mw, nil },
	}
}

// RouteTable declares a group of routes.
//
// Example:
//
//	type Users struct{ repo *repository.Queries }
//
//	func (h *Users) Routes() []servo.Route {
//	    return []servo.Route{
//	        {Pattern: "GET /users/:id", Handler: h.show},
//	        {Pattern: "POST /users", Handler: h.create, Middleware: []servo.Middleware{auth}},
//	    }
//	}
type RouteTable interface {
	Routes() []Route
}
