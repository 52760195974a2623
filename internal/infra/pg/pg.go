// Package pg implement database driver for PostgreSQL.
package pg

//
// pg.go
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

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/db"
)

//go:embed "migrations/*.sql"
var embedMigrations embed.FS

//------------------------------------------------------------------------------

const (
	ConnMaxIdleTime = 300 * time.Second
	ConnMaxLifetime = 600 * time.Second
	MaxIdleConns    = 1
	MaxOpenConns    = 10
)

// ------------------------------------------------------------------------------

type Driver struct{}

var _ db.Driver = Driver{}

func (Driver) Name() string {
	return "pgx"
}

// PrepareConnstr accept postgres:// urls and key=value DSN.
func (Driver) PrepareConnstr(connstr string) (string, error) {
	if connstr == "" {
		return "", aerr.ErrInvalidConf.WithUserMsg("invalid (empty) database connection string")
	}

	parsed, err := url.Parse(connstr)
	if err != nil || parsed.Scheme == "" {
		// key=value format; validated by driver on connect
		return connstr, nil
	}

	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return "", aerr.ErrInvalidConf.WithUserMsg("invalid database connection string - unsupported scheme").
			WithMeta("scheme", parsed.Scheme)
	}

	return connstr, nil
}

func (Driver) PoolDefaults() db.PoolSettings {
	return db.PoolSettings{
		MaxOpenConns:    MaxOpenConns,
		MaxIdleConns:    MaxIdleConns,
		ConnMaxLifetime: ConnMaxLifetime,
		ConnMaxIdleTime: ConnMaxIdleTime,
	}
}

func (Driver) OnConnect(_ context.Context, _ sqlx.ExecerContext) error {
	return nil
}

func (Driver) OnClose(_ context.Context, _ sqlx.ExecerContext) error {
	return nil
}

func (Driver) Migrate(ctx context.Context, sqldb *sql.DB) error {
	migdir, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return aerr.Wrapf(err, "prepare migration fs failed").WithTag(aerr.InternalError)
	}

	return db.RunMigrations(ctx, goose.DialectPostgres, sqldb, migdir) //nolint:wrapcheck
}
