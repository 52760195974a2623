package db

//
// testhelpers_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"gitlab.com/kabes/go-pariwisata/internal/assert"
	"gitlab.com/kabes/go-pariwisata/internal/config"
)

var errTest = errors.New("test error")

// testDriver is minimal sqlite driver counting connect/close calls.
type testDriver struct {
	connects atomic.Int32
	closes   atomic.Int32
}

func (*testDriver) Name() string {
	return "sqlite3"
}

func (*testDriver) PrepareConnstr(connstr string) (string, error) {
	if connstr == "" {
		return "", errTest
	}

	return connstr + "?_fk=ON&_journal_mode=WAL", nil
}

func (*testDriver) PoolDefaults() PoolSettings {
	return PoolSettings{MaxOpenConns: 4, MaxIdleConns: 1} //nolint:mnd
}

func (d *testDriver) OnConnect(ctx context.Context, conn sqlx.ExecerContext) error {
	d.connects.Add(1)

	_, err := conn.ExecContext(ctx, "PRAGMA busy_timeout = 1000")

	return err //nolint:wrapcheck
}

func (d *testDriver) OnClose(_ context.Context, _ sqlx.ExecerContext) error {
	d.closes.Add(1)

	return nil
}

func (*testDriver) Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		"CREATE TABLE IF NOT EXISTS items (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)")

	return err //nolint:wrapcheck
}

type item struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`

	expired bool
}

func (i *item) Expire() {
	i.expired = true
}

func prepareEngine(t *testing.T, cfg func(*config.DBConfig)) (context.Context, *Engine, *testDriver) {
	t.Helper()

	ctx := context.Background()
	dbconf := config.NewDBConfig(config.DriverSqlite, filepath.Join(t.TempDir(), "test.db"))
	dbconf.Echo = false

	if cfg != nil {
		cfg(&dbconf)
	}

	driver := &testDriver{}

	engine, err := NewEngine(&dbconf, driver)
	assert.NoErr(t, err)
	assert.NoErr(t, engine.Open(ctx))
	assert.NoErr(t, engine.Migrate(ctx))

	t.Cleanup(func() {
		_ = engine.Shutdown(context.Background())
	})

	_, err = engine.DB().ExecContext(ctx, "INSERT INTO items (id, name) VALUES (1, 'first')")
	assert.NoErr(t, err)

	return ctx, engine, driver
}

func countItems(ctx context.Context, t *testing.T, engine *Engine) int {
	t.Helper()

	var count int

	err := engine.DB().GetContext(ctx, &count, "SELECT count(*) FROM items")
	assert.NoErr(t, err)

	return count
}
