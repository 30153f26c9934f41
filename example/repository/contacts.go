package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/servo/pkg/db"
)

var (
	ErrNotFound       = errors.New("repository: contact not found")
	ErrDuplicateEmail = errors.New("repository: email already exists")
)

// Contact is one address book entry.
type Contact struct {
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Name      string    `db:"name"       json:"name"`
	Email     string    `db:"email"      json:"email"`
	ID        uuid.UUID `db:"id"         json:"id"`
}

// Contacts runs contact queries against whatever querier the request holds:
// the pool for reads, the request transaction for writes.
type Contacts struct{}

func (Contacts) List(ctx context.Context, q db.Querier) ([]Contact, error) {
	rows, err := q.Query(ctx, `SELECT id, name, email, created_at FROM contacts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Contact])
}

func (Contacts) Get(ctx context.Context, q db.Querier, id uuid.UUID) (Contact, error) {
	rows, err := q.Query(ctx, `SELECT id, name, email, created_at FROM contacts WHERE id = $1`, id)
	if err != nil {
		return Contact{}, err
	}
	c, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Contact])
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	return c, err
}

func (Contacts) Create(ctx context.Context, q db.Querier, name, email string) (Contact, error) {
	c := Contact{ID: uuid.New(), Name: name, Email: email}
	err := q.QueryRow(ctx,
		`INSERT INTO contacts (id, name, email) VALUES ($1, $2, $3) RETURNING created_at`,
		c.ID, c.Name, c.Email,
	).Scan(&c.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Contact{}, ErrDuplicateEmail
	}
	return c, err
}

func (Contacts) Delete(ctx context.Context, q db.Querier, id uuid.UUID) error {
	tag, err := q.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
