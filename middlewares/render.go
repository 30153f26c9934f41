package middlewares

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/servo/internal"
)

// Views maps template names to component constructors. The constructor
// receives the response value.
type Views map[string]func(data any) templ.Component

// ErrorPage renders a threw response for browsers.
type ErrorPage func(status int, message string) templ.Component

type renderConfig struct {
	errorPage ErrorPage
}

// RenderOption configures the Render middleware.
type RenderOption func(*renderConfig)

// WithErrorPage replaces the built-in error page. Nil disables error pages.
func WithErrorPage(page ErrorPage) RenderOption {
	return func(cfg *renderConfig) { cfg.errorPage = page }
}

// Render returns middleware that turns template responses into HTML.
// A response built with Template(name, data) renders views[name] for
// clients preferring HTML; others keep the JSON data. Error responses for
// those clients become an HTML error page with the same status.
//
//	views := middlewares.Views{
//	    "posts/show": func(data any) templ.Component { return views.Post(data.(*Post)) },
//	}
//	servo.WithMiddleware(middlewares.Render(views))
func Render(views Views, opts ...RenderOption) internal.Factory {
	cfg := &renderConfig{errorPage: DefaultErrorPage}
	for _, opt := range opts {
		opt(cfg)
	}

	return internal.Use("render", internal.MiddlewareFunc(func(next internal.Handler) internal.HandlerFunc {
		return func(c internal.Context) (any, error) {
			resp := next(c)

			if c.Accepts().Type("json", "html") != "html" {
				return resp, nil
			}

			switch {
			case resp.Template != "" && !resp.Threw:
				view, ok := views[resp.Template]
				if !ok {
					return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, resp.Template)
				}
				return renderHTML(c, resp, view(resp.Value))

			case resp.Threw && cfg.errorPage != nil:
				return renderHTML(c, resp, cfg.errorPage(resp.Status, errorMessage(resp)))
			}

			return resp, nil
		}
	}))
}

func renderHTML(ctx context.Context, resp *internal.Response, component templ.Component) (*internal.Response, error) {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	out := internal.Bytes(buf.Bytes()).WithStatus(resp.Status)
	for k, v := range resp.Header {
		out.Header[k] = v
	}
	out.Header.Set("Content-Type", internal.ContentTypeHTML)
	out.Header.Add("Vary", "Accept")
	out.Threw = resp.Threw
	out.Err = resp.Err
	return out, nil
}

func errorMessage(resp *internal.Response) string {
	if body, ok := resp.Value.(map[string]any); ok {
		if msg, ok := body["message"].(string); ok && resp.Status < http.StatusInternalServerError {
			return msg
		}
	}
	return http.StatusText(resp.Status)
}

// DefaultErrorPage is a minimal standalone HTML page.
func DefaultErrorPage(status int, message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		code := strconv.Itoa(status)
		_, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="utf-8"><title>`+
			code+" "+templ.EscapeString(http.StatusText(status))+
			`</title></head><body><main><h1>`+code+`</h1><p>`+
			templ.EscapeString(message)+
			`</p></main></body></html>`)
		return err
	})
}
