package session_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servo/pkg/session"
)

// fakeRow implements pgx.Row.
type fakeRow struct {
	raw []byte
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.raw
	return nil
}

// fakeDB records statements and serves a fixed row.
type fakeDB struct {
	row   fakeRow
	execs []string
	args  [][]any
	tag   string
}

func (d *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.execs = append(d.execs, sql)
	d.args = append(d.args, args)
	return pgconn.NewCommandTag(d.tag), nil
}

func (d *fakeDB) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return d.row
}

func TestPostgresStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing row loads as nil", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
		s := session.NewPostgresStore(db, time.Hour)

		data, err := s.Load(ctx, "k")
		require.NoError(t, err)
		require.Nil(t, data)
	})

	t.Run("decodes stored json", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{row: fakeRow{raw: []byte(`{"user":"ada","visits":3}`)}}
		s := session.NewPostgresStore(db, time.Hour)

		data, err := s.Load(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "ada", data["user"])
		require.InDelta(t, 3.0, data["visits"], 0)
	})

	t.Run("corrupt json is reported", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{row: fakeRow{raw: []byte(`{`)}}
		s := session.NewPostgresStore(db, time.Hour)

		_, err := s.Load(ctx, "k")
		require.ErrorIs(t, err, session.ErrUnmarshal)
	})

	t.Run("save upserts json with expiry", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{tag: "INSERT 0 1"}
		s := session.NewPostgresStore(db, time.Hour)

		before := time.Now()
		require.NoError(t, s.Save(ctx, "k", map[string]any{"a": "b"}, 0))
		require.Len(t, db.execs, 1)
		require.Contains(t, db.execs[0], "ON CONFLICT (key)")

		args := db.args[0]
		require.Equal(t, "k", args[0])

		var stored map[string]any
		require.NoError(t, json.Unmarshal([]byte(args[1].(string)), &stored))
		require.Equal(t, "b", stored["a"])

		expires := args[2].(time.Time)
		require.WithinDuration(t, before.Add(time.Hour), expires, time.Second)
	})

	t.Run("purge reports affected rows", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{tag: "DELETE 3"}
		s := session.NewPostgresStore(db, time.Hour)

		n, err := s.Purge(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 3, n)
	})
}
