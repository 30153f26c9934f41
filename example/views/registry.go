package views

import (
	"github.com/a-h/templ"

	"github.com/dmitrymomot/servo/example/repository"
	"github.com/dmitrymomot/servo/middlewares"
)

// Template names returned by handlers.
const (
	ContactsIndex = "contacts/index"
	ContactsShow  = "contacts/show"
)

// Registry maps template names to views for the render middleware.
func Registry() middlewares.Views {
	return middlewares.Views{
		ContactsIndex: func(data any) templ.Component {
			contacts, _ := data.([]repository.Contact)
			return ContactList(contacts)
		},
		ContactsShow: func(data any) templ.Component {
			c, _ := data.(repository.Contact)
			return ContactDetail(c)
		},
	}
}
