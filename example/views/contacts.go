package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/servo/example/repository"
)

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!doctype html><html lang="en"><head><meta charset="utf-8"><title>%s</title></head><body><main>`,
			templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// ContactList renders the address book.
func ContactList(contacts []repository.Contact) templ.Component {
	return Layout("Contacts", templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>Contacts <small>%d</small></h1><ul>`, len(contacts)); err != nil {
			return err
		}
		for _, c := range contacts {
			if _, err := fmt.Fprintf(w, `<li><a href="/contacts/%s">%s</a> &lt;%s&gt; <time>%s</time></li>`,
				c.ID, templ.EscapeString(c.Name), templ.EscapeString(c.Email), formatTime(c)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	}))
}

// ContactDetail renders one contact.
func ContactDetail(c repository.Contact) templ.Component {
	return Layout(c.Name, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h1>%s</h1><p><a href="mailto:%s">%s</a></p><p>Added %s</p>`,
			templ.EscapeString(c.Name), templ.EscapeString(c.Email), templ.EscapeString(c.Email), formatTime(c))
		return err
	}))
}

// ErrorPage is the browser error page.
func ErrorPage(status int, message string) templ.Component {
	return Layout("Error", templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h1>%d</h1><p>%s</p><p><a href="/contacts">Back to contacts</a></p>`,
			status, templ.EscapeString(message))
		return err
	}))
}

func formatTime(c repository.Contact) string {
	return c.CreatedAt.Format("Jan 2, 2006")
}
