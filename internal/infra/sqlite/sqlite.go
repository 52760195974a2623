// Package sqlite implement database driver for SQLite3.
package sqlite

//
// sqlite.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/db"
)

//go:embed "migrations/*.sql"
var embedMigrations embed.FS

//------------------------------------------------------------------------------

const (
	ConnMaxIdleTime = 30 * time.Second
	ConnMaxLifetime = 60 * time.Second
	MaxIdleConns    = 1
	MaxOpenConns    = 10
)

//------------------------------------------------------------------------------

type Driver struct{}

var _ db.Driver = Driver{}

func (Driver) Name() string {
	return "sqlite3"
}

func (Driver) PrepareConnstr(connstr string) (string, error) {
	return prepareSqliteConnstr(connstr)
}

func (Driver) PoolDefaults() db.PoolSettings {
	return db.PoolSettings{
		MaxOpenConns:    MaxOpenConns,
		MaxIdleConns:    MaxIdleConns,
		ConnMaxLifetime: ConnMaxLifetime,
		ConnMaxIdleTime: ConnMaxIdleTime,
	}
}

func (Driver) OnConnect(ctx context.Context, conn sqlx.ExecerContext) error {
	_, err := conn.ExecContext(ctx,
		`PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 1000;
		`,
	)
	if err != nil {
		return aerr.Wrapf(err, "execute onConnect script failed")
	}

	return nil
}

func (Driver) OnClose(ctx context.Context, conn sqlx.ExecerContext) error {
	_, err := conn.ExecContext(ctx, `PRAGMA optimize`)
	if err != nil {
		return aerr.Wrapf(err, "execute onClose script failed")
	}

	return nil
}

func (d Driver) Migrate(ctx context.Context, sqldb *sql.DB) error {
	migdir, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return aerr.Wrapf(err, "prepare migration fs failed").WithTag(aerr.InternalError)
	}

	if err := db.RunMigrations(ctx, goose.DialectSQLite3, sqldb, migdir); err != nil {
		return err //nolint:wrapcheck
	}

	return d.OnClose(ctx, sqldb)
}

//------------------------------------------------------------------------------

const sharedMemoryConnstr = "file::memory:?cache=shared&_fk=ON"

func prepareSqliteConnstr(connstr string) (string, error) {
	if connstr == "" {
		return "", aerr.ErrInvalidConf.WithUserMsg("invalid (empty) database connection string")
	}

	// each connection to plain :memory: open own, empty database
	if connstr == ":memory:" {
		return sharedMemoryConnstr, nil
	}

	parsed, err := url.Parse(connstr)
	if err != nil {
		return "", aerr.ApplyFor(aerr.ErrInvalidConf, err, "", "failed to parse database connections string")
	}

	if parsed.Path == "" && parsed.Opaque == "" {
		return "", aerr.ErrInvalidConf.WithUserMsg("invalid database connection string - missing path")
	}

	if parsed.Scheme != "" && parsed.Scheme != "file" {
		return "", aerr.ErrInvalidConf.WithUserMsg("invalid database connection string - unsupported scheme").
			WithMeta("scheme", parsed.Scheme)
	}

	query := parsed.Query()
	if !query.Has("_fk") && !query.Has("_foreign_keys") {
		query.Set("_fk", "ON")
	}

	if !query.Has("_journal_mode") && !query.Has("mode") {
		query.Set("_journal_mode", "WAL")
	}

	if !query.Has("_synchronous") {
		query.Set("_synchronous", "NORMAL")
	}

	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
