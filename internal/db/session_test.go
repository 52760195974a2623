package db

//
// session_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"gitlab.com/kabes/go-pariwisata/internal/assert"
	"gitlab.com/kabes/go-pariwisata/internal/config"
)

func TestSessionLazyConnection(t *testing.T) {
	ctx, engine, driver := prepareEngine(t, nil)
	factory := NewSessionFactory(engine, engine.SessionOptions())
	connects := driver.connects.Load()

	session, err := factory.NewSession(ctx)
	assert.NoErr(t, err)
	assert.False(t, session.Connected())
	assert.Equal(t, driver.connects.Load(), connects)

	rows, err := session.QueryxContext(ctx, "SELECT id, name FROM items")
	assert.NoErr(t, err)
	assert.NoErr(t, rows.Close())
	assert.True(t, session.Connected())
	assert.Equal(t, driver.connects.Load(), connects+1)

	// connection is reused
	_, err = session.ExecContext(ctx, "SELECT 1")
	assert.NoErr(t, err)
	assert.Equal(t, driver.connects.Load(), connects+1)

	assert.NoErr(t, session.Close(ctx))
	assert.False(t, session.Connected())
	assert.Equal(t, engine.DB().Stats().InUse, 0)

	// close is idempotent
	assert.NoErr(t, session.Close(ctx))
}

func TestSessionClosed(t *testing.T) {
	ctx, engine, _ := prepareEngine(t, nil)
	factory := NewSessionFactory(engine, engine.SessionOptions())

	session, err := factory.NewSession(ctx)
	assert.NoErr(t, err)
	assert.NoErr(t, session.Close(ctx))

	_, err = session.ExecContext(ctx, "SELECT 1")
	assert.ErrSpec(t, err, ErrSessionClosed)

	var it item

	assert.ErrSpec(t, session.GetContext(ctx, &it, "SELECT * FROM items"), ErrSessionClosed)

	var items []item

	assert.ErrSpec(t, session.SelectContext(ctx, &items, "SELECT * FROM items"), ErrSessionClosed)
	assert.ErrSpec(t, session.Begin(ctx), ErrSessionClosed)
	assert.ErrSpec(t, session.Commit(ctx), ErrSessionClosed)
	assert.ErrSpec(t, session.Rollback(ctx), ErrSessionClosed)
}

func TestSessionTransactionMisuse(t *testing.T) {
	ctx, engine, _ := prepareEngine(t, nil)
	factory := NewSessionFactory(engine, engine.SessionOptions())

	session, err := factory.NewSession(ctx)
	assert.NoErr(t, err)

	defer session.Close(ctx)

	assert.ErrSpec(t, session.Commit(ctx), ErrNoTransaction)
	assert.ErrSpec(t, session.Rollback(ctx), ErrNoTransaction)

	assert.NoErr(t, session.Begin(ctx))
	assert.True(t, session.InTransaction())
	assert.ErrSpec(t, session.Begin(ctx), ErrTransactionActive)
	assert.NoErr(t, session.Rollback(ctx))
	assert.False(t, session.InTransaction())
}

func TestSessionErrorsUnchanged(t *testing.T) {
	ctx, engine, _ := prepareEngine(t, nil)
	factory := NewSessionFactory(engine, engine.SessionOptions())

	session, err := factory.NewSession(ctx)
	assert.NoErr(t, err)

	defer session.Close(ctx)

	_, err = session.ExecContext(ctx, "INSERT INTO items (id, name) VALUES (?, ?)", 1, "first")

	var serr sqlite3.Error

	assert.True(t, errors.As(err, &serr))
	assert.Equal(t, serr.ExtendedCode, sqlite3.ErrConstraintPrimaryKey)

	// session is usable after statement error
	var name string

	assert.NoErr(t, session.GetContext(ctx, &name, "SELECT name FROM items WHERE id=?", 1))
	assert.Equal(t, name, "first")
}

func TestSessionStateAfterCommit(t *testing.T) {
	tests := []struct {
		name           string
		expireOnCommit bool
	}{
		{"default", false},
		{"expire on commit", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, engine, _ := prepareEngine(t, func(c *config.DBConfig) {
				c.ExpireOnCommit = tt.expireOnCommit
			})
			factory := NewSessionFactory(engine, engine.SessionOptions())

			session, err := factory.NewSession(ctx)
			assert.NoErr(t, err)

			defer session.Close(ctx)

			assert.NoErr(t, session.Begin(ctx))

			it := item{}
			assert.NoErr(t, session.GetContext(ctx, &it, "SELECT id, name FROM items WHERE id=?", 1))

			_, err = session.ExecContext(ctx, "UPDATE items SET name=? WHERE id=?", "changed", 1)
			assert.NoErr(t, err)
			assert.NoErr(t, session.Commit(ctx))

			assert.Equal(t, it.expired, tt.expireOnCommit)
			// loaded state is accessible after commit
			assert.Equal(t, it.Name, "first")
			assert.Equal(t, it.ID, int64(1))
		})
	}
}

func TestSessionRollbackExpire(t *testing.T) {
	ctx, engine, _ := prepareEngine(t, nil)
	factory := NewSessionFactory(engine, engine.SessionOptions())

	session, err := factory.NewSession(ctx)
	assert.NoErr(t, err)

	defer session.Close(ctx)

	assert.NoErr(t, session.Begin(ctx))

	it := item{}
	assert.NoErr(t, session.GetContext(ctx, &it, "SELECT id, name FROM items WHERE id=?", 1))

	other := &item{ID: 2}
	session.Track(other, nil)

	_, err = session.ExecContext(ctx, "DELETE FROM items")
	assert.NoErr(t, err)
	assert.NoErr(t, session.Rollback(ctx))

	assert.True(t, it.expired)
	assert.True(t, other.expired)
	assert.Equal(t, countItems(ctx, t, engine), 1)
}

func TestSessionEcho(t *testing.T) {
	ctx, engine, _ := prepareEngine(t, nil)

	var buf bytes.Buffer

	ctx = zerolog.New(&buf).Level(zerolog.InfoLevel).WithContext(ctx)

	factory := NewSessionFactory(engine, SessionOptions{Echo: true})

	session, err := factory.NewSession(ctx)
	assert.NoErr(t, err)
	assert.NoErr(t, session.Begin(ctx))

	var name string

	assert.NoErr(t, session.GetContext(ctx, &name, "SELECT name FROM items WHERE id=?", 1))
	assert.NoErr(t, session.Commit(ctx))
	assert.NoErr(t, session.Close(ctx))

	out := buf.String()
	assert.Contains(t, out, `"sql":"BEGIN"`)
	assert.Contains(t, out, "SELECT name FROM items WHERE id=?")
	assert.Contains(t, out, `"sql":"COMMIT"`)
	assert.Contains(t, out, session.ID())

	// echo disabled
	buf.Reset()

	factory = NewSessionFactory(engine, SessionOptions{Echo: false})

	session, err = factory.NewSession(ctx)
	assert.NoErr(t, err)
	assert.NoErr(t, session.GetContext(ctx, &name, "SELECT name FROM items WHERE id=?", 1))
	assert.NoErr(t, session.Close(ctx))
	assert.Equal(t, buf.String(), "")
}
