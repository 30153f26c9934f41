package session

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Migrations creates the sessions table used by PostgresStore.
// Apply it with db.Migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const (
	loadSessionQuery = `SELECT data FROM sessions WHERE key = $1 AND expires_at > now()`

	saveSessionQuery = `INSERT INTO sessions (key, data, expires_at, updated_at)
VALUES ($1, $2::jsonb, $3, now())
ON CONFLICT (key) DO UPDATE
SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at, updated_at = now()`

	deleteSessionQuery = `DELETE FROM sessions WHERE key = $1`

	purgeSessionsQuery = `DELETE FROM sessions WHERE expires_at <= now()`
)

// PostgresDB is the subset of *pgxpool.Pool used by PostgresStore.
type PostgresDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps sessions in the sessions table.
type PostgresStore struct {
	db         PostgresDB
	defaultTTL time.Duration
}

// NewPostgresStore creates a store; ttl is used when Save receives a non-positive ttl.
func NewPostgresStore(db PostgresDB, defaultTTL time.Duration) *PostgresStore {
	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	return &PostgresStore{db: db, defaultTTL: defaultTTL}
}

func (s *PostgresStore) Load(ctx context.Context, key string) (map[string]any, error) {
	var raw []byte
	if err := s.db.QueryRow(ctx, loadSessionQuery, key).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Join(ErrUnmarshal, err)
	}
	return data, nil
}

func (s *PostgresStore) Save(ctx context.Context, key string, data map[string]any, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Join(ErrMarshal, err)
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	_, err = s.db.Exec(ctx, saveSessionQuery, key, string(raw), time.Now().Add(ttl))
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, deleteSessionQuery, key)
	return err
}

// Purge removes expired rows and returns how many were deleted.
func (s *PostgresStore) Purge(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, purgeSessionsQuery)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var (
	_ Store   = (*PostgresStore)(nil)
	_ Deleter = (*PostgresStore)(nil)
)
