package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/servo"
	"github.com/dmitrymomot/servo/example/repository"
	"github.com/dmitrymomot/servo/example/views"
	"github.com/dmitrymomot/servo/middlewares"
)

// CreateContact is the body accepted by POST /contacts.
type CreateContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Contacts serves the address book.
type Contacts struct {
	repo repository.Contacts
}

func NewContacts() *Contacts {
	return &Contacts{}
}

// Routes implements servo.RouteTable.
func (h *Contacts) Routes() []servo.Route {
	return []servo.Route{
		{Pattern: "GET /contacts", Name: "contacts.index", Handler: h.index},
		{Pattern: "GET /contacts/:id", Name: "contacts.show", Handler: h.show},
		{Pattern: "GET /contacts/:id", Version: "2.0.0", Name: "contacts.show.v2", Handler: h.showV2},
		{
			Pattern:    "POST /contacts",
			Name:       "contacts.create",
			Handler:    h.create,
			Middleware: []servo.Middleware{middlewares.ValidateBody(validateCreate)},
		},
		{Pattern: "DELETE /contacts/:id", Name: "contacts.delete", Handler: h.delete},
	}
}

func (h *Contacts) index(c servo.Context) (any, error) {
	q, err := middlewares.DB(c)
	if err != nil {
		return nil, err
	}
	contacts, err := h.repo.List(c, q)
	if err != nil {
		return nil, err
	}
	return servo.Template(views.ContactsIndex, contacts), nil
}

func (h *Contacts) show(c servo.Context) (any, error) {
	contact, err := h.find(c)
	if err != nil {
		return nil, err
	}
	return servo.Template(views.ContactsShow, contact), nil
}

// showV2 wraps the contact in an envelope with links.
func (h *Contacts) showV2(c servo.Context) (any, error) {
	contact, err := h.find(c)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"data":  contact,
		"links": map[string]string{"self": "/contacts/" + contact.ID.String()},
	}, nil
}

func (h *Contacts) create(c servo.Context) (any, error) {
	in := middlewares.Body[CreateContact](c)

	q, err := middlewares.DB(c)
	if err != nil {
		return nil, err
	}
	contact, err := h.repo.Create(c, q, strings.TrimSpace(in.Name), strings.ToLower(in.Email))
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, servo.ErrConflict("a contact with this email already exists",
			servo.WithErrorCode("duplicate_email"))
	}
	if err != nil {
		return nil, err
	}

	if s, err := c.Session(); err == nil {
		s.Set("last_created", contact.ID.String())
	}

	return servo.JSON(contact).
		WithStatus(http.StatusCreated).
		WithHeader("Location", "/contacts/"+contact.ID.String()), nil
}

func (h *Contacts) delete(c servo.Context) (any, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, servo.ErrNotFound("contact not found")
	}
	q, err := middlewares.DB(c)
	if err != nil {
		return nil, err
	}
	if err := h.repo.Delete(c, q, id); errors.Is(err, repository.ErrNotFound) {
		return nil, servo.ErrNotFound("contact not found")
	} else if err != nil {
		return nil, err
	}
	return nil, nil
}

func (h *Contacts) find(c servo.Context) (repository.Contact, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return repository.Contact{}, servo.ErrNotFound("contact not found")
	}
	q, err := middlewares.DB(c)
	if err != nil {
		return repository.Contact{}, err
	}
	contact, err := h.repo.Get(c, q, id)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Contact{}, servo.ErrNotFound("contact not found")
	}
	return contact, err
}

func validateCreate(in CreateContact) []servo.FieldError {
	var fields []servo.FieldError
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		fields = append(fields, servo.FieldError{Field: "name", Rule: "required", Message: "is required"})
	case len(name) > 100:
		fields = append(fields, servo.FieldError{Field: "name", Rule: "max", Message: "must be at most 100 characters"})
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		fields = append(fields, servo.FieldError{Field: "email", Rule: "email", Message: "must be a valid email address"})
	}
	return fields
}
