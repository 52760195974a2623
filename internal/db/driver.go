package db

//
// driver.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// PoolSettings configure connection pool of Engine.
type PoolSettings struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// merge return settings with zero values replaced by values from `defaults`.
func (p PoolSettings) merge(defaults PoolSettings) PoolSettings {
	if p.MaxOpenConns == 0 {
		p.MaxOpenConns = defaults.MaxOpenConns
	}

	if p.MaxIdleConns == 0 {
		p.MaxIdleConns = defaults.MaxIdleConns
	}

	if p.ConnMaxLifetime == 0 {
		p.ConnMaxLifetime = defaults.ConnMaxLifetime
	}

	if p.ConnMaxIdleTime == 0 {
		p.ConnMaxIdleTime = defaults.ConnMaxIdleTime
	}

	return p
}

// Driver implement database specific part of Engine.
type Driver interface {
	// Name return database/sql driver name.
	Name() string
	// PrepareConnstr validate connection string and add required parameters.
	PrepareConnstr(connstr string) (string, error)
	// PoolDefaults return default pool settings for database.
	PoolDefaults() PoolSettings
	// OnConnect is called on each connection borrowed by session.
	OnConnect(ctx context.Context, db sqlx.ExecerContext) error
	// OnClose is called before connection is returned to pool.
	OnClose(ctx context.Context, db sqlx.ExecerContext) error
	// Migrate database schema to the latest version.
	Migrate(ctx context.Context, db *sql.DB) error
}
