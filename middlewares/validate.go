package middlewares

import (
	"github.com/dmitrymomot/servo/internal"
	"github.com/dmitrymomot/servo/pkg/bodyparser"
)

// Validate returns route middleware that rejects the request with a 400
// ValidationError when fn reports field failures.
//
//	{
//	    Pattern:    "GET /search",
//	    Handler:    h.search,
//	    Middleware: []servo.Middleware{middlewares.Validate(requireQuery("q"))},
//	}
func Validate(fn func(c internal.Context) []internal.FieldError) internal.Middleware {
	return internal.MiddlewareFunc(func(next internal.Handler) internal.HandlerFunc {
		return func(c internal.Context) (any, error) {
			if fields := fn(c); len(fields) > 0 {
				return nil, &internal.ValidationError{Fields: fields}
			}
			return next(c), nil
		}
	})
}

// ValidateBody decodes the parsed body into T, runs fn on it and replaces
// the body with the typed value, so the handler can read it back with
// Body[T]. A body that does not decode is a 422.
//
//	type signup struct {
//	    Email string `json:"email"`
//	}
//
//	middlewares.ValidateBody(func(in signup) []servo.FieldError {
//	    if in.Email == "" {
//	        return []servo.FieldError{{Field: "email", Rule: "required", Message: "is required"}}
//	    }
//	    return nil
//	})
func ValidateBody[T any](fn func(T) []internal.FieldError) internal.Middleware {
	return internal.MiddlewareFunc(func(next internal.Handler) internal.HandlerFunc {
		return func(c internal.Context) (any, error) {
			raw, err := c.Body()
			if err != nil {
				return nil, err
			}

			var in T
			if raw != nil {
				if err := bodyparser.Decode(raw, &in); err != nil {
					return nil, internal.ErrUnprocessable("request body does not match the expected shape",
						internal.WithError(err),
						internal.WithErrorCode("invalid_body"),
					)
				}
			}

			if fields := fn(in); len(fields) > 0 {
				return nil, &internal.ValidationError{Fields: fields}
			}

			c.SetBody(in)
			return next(c), nil
		}
	})
}

// Body returns the value ValidateBody stored, or the zero T.
func Body[T any](c internal.Context) T {
	v, _ := c.Body()
	t, _ := v.(T)
	return t
}
