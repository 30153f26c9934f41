package handlers

import (
	"github.com/dmitrymomot/servo"
)

// Account exposes what the session knows about the visitor.
type Account struct{}

func (Account) Routes() []servo.Route {
	return []servo.Route{
		{Pattern: "GET /me", Name: "account.show", Handler: me},
		{Pattern: "POST /me/rotate", Name: "account.rotate", Handler: rotate},
	}
}

func me(c servo.Context) (any, error) {
	s, err := c.Session()
	if err != nil {
		return nil, err
	}
	visits := servo.SessionValueOr(s, "visits", 0.0) + 1
	s.Set("visits", visits)

	return map[string]any{
		"request_id":   c.ID(),
		"visits":       visits,
		"last_created": servo.SessionValueOr(s, "last_created", ""),
	}, nil
}

// rotate issues a new session id, keeping the values.
func rotate(c servo.Context) (any, error) {
	s, err := c.Session()
	if err != nil {
		return nil, err
	}
	s.Reissue()
	return nil, nil
}
