// Package internal implements the request pipeline behind package servo.
//
// A request flows through these pieces:
//
//   - [App.ServeHTTP] creates a [Context] for the request.
//   - The composed pipeline runs: each middleware built from a [Factory]
//     wraps the next, with [Enforce] between every pair so a layer always
//     sees a canonical [*Response].
//   - [Router.Dispatch] is the terminal handler. It matches the path with
//     chi's radix tree, picks a version from Accept-Version and calls the
//     route's pre-wrapped handler.
//   - The dispatcher serializes the response, flushing cookie jar changes
//     as Set-Cookie headers.
//
// Handlers return any value or an error:
//
//	func show(c servo.Context) (any, error) {
//	    user, err := repo.Find(c, c.Param("id"))
//	    if err != nil {
//	        return nil, servo.ErrNotFound("user not found", servo.WithError(err))
//	    }
//	    return user, nil // 200 application/json
//	}
//
// Return values are coerced: nil and "" give 204, strings give text/plain,
// []byte and io.Reader give application/octet-stream, anything else is
// encoded as JSON. Errors become JSON payloads with the status from their
// StatusCode method (500 otherwise); development mode adds a stack trace.
//
// The Context never writes to the client. Derived views such as the body,
// cookies and session are computed on first access and cached for the
// rest of the request.
package internal
