package db

//
// engine.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/common"
	"gitlab.com/kabes/go-pariwisata/internal/config"
)

// Engine hold the one, shared pool of database connections.
// Engine is safe for concurrent use.
type Engine struct {
	mu sync.RWMutex
	db *sqlx.DB

	driver  Driver
	connstr string
	pool    PoolSettings
	options SessionOptions

	events  *common.EventLog
	metrics atomic.Pointer[engineMetrics]
}

func NewEngineI(i do.Injector) (*Engine, error) {
	dbconf := do.MustInvoke[config.DBConfig](i)
	driver := do.MustInvoke[Driver](i)

	return NewEngine(&dbconf, driver)
}

func NewEngine(dbconf *config.DBConfig, driver Driver) (*Engine, error) {
	connstr, err := driver.PrepareConnstr(dbconf.Connstr)
	if err != nil {
		return nil, aerr.Wrapf(err, "invalid db.connstr")
	}

	pool := PoolSettings{
		MaxOpenConns:    dbconf.MaxOpenConns,
		MaxIdleConns:    dbconf.MaxIdleConns,
		ConnMaxLifetime: dbconf.ConnMaxLifetime,
		ConnMaxIdleTime: dbconf.ConnMaxIdleTime,
	}

	return &Engine{
		driver:  driver,
		connstr: connstr,
		pool:    pool.merge(driver.PoolDefaults()),
		events:  common.NewEventLog("db.Engine", driver.Name()),
		options: SessionOptions{
			Echo:           dbconf.Echo,
			ExpireOnCommit: dbconf.ExpireOnCommit,
		},
	}, nil
}

// Open connect to the database. Engine must be opened before first session is created.
func (e *Engine) Open(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db != nil {
		return nil
	}

	logger := log.Ctx(ctx)
	logger.Debug().Str("driver", e.driver.Name()).Msg("db.Engine: connecting to database")

	db, err := sqlx.Open(e.driver.Name(), e.connstr)
	if err != nil {
		return aerr.Wrapf(err, "open database failed").WithTag(aerr.InternalError).
			WithMeta("driver", e.driver.Name())
	}

	db.SetConnMaxIdleTime(e.pool.ConnMaxIdleTime)
	db.SetConnMaxLifetime(e.pool.ConnMaxLifetime)
	db.SetMaxIdleConns(e.pool.MaxIdleConns)
	db.SetMaxOpenConns(e.pool.MaxOpenConns)

	if err := e.driver.OnConnect(ctx, db); err != nil {
		_ = db.Close()

		e.events.Errorf("run init script error: %v", err)

		return aerr.Wrapf(err, "open database failed - run init script error").WithTag(aerr.InternalError)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		e.events.Errorf("ping error: %v", err)

		return aerr.Wrapf(err, "ping database failed").WithTag(aerr.InternalError)
	}

	e.db = db
	e.events.Printf("opened; max_open_conns=%d", e.pool.MaxOpenConns)

	logger.Info().Str("driver", e.driver.Name()).Int("max_open_conns", e.pool.MaxOpenConns).
		Bool("echo", e.options.Echo).Msg("db.Engine: database connected")

	return nil
}

// Shutdown close all connections. Called by samber/do.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil
	}

	logger := log.Ctx(ctx)
	logger.Debug().Msg("db.Engine: closing database...")

	err := e.db.Close()
	e.db = nil

	e.events.Printf("closed")

	if err != nil {
		return aerr.Wrapf(err, "close db error")
	}

	return nil
}

// HealthCheck ping database. Called by samber/do.
func (e *Engine) HealthCheck(ctx context.Context) error {
	db := e.DB()
	if db == nil {
		return ErrEngineClosed
	}

	if err := db.PingContext(ctx); err != nil {
		return aerr.Wrapf(err, "ping database failed").WithTag(aerr.InternalError)
	}

	return nil
}

// Migrate update database schema.
func (e *Engine) Migrate(ctx context.Context) error {
	db := e.DB()
	if db == nil {
		return ErrEngineClosed
	}

	e.events.Printf("migrate")

	if err := e.driver.Migrate(ctx, db.DB); err != nil {
		e.events.Errorf("migrate error: %v", err)

		return aerr.Wrapf(err, "migrate database failed")
	}

	return nil
}

// DB return underlying pool; nil when engine is not open.
func (e *Engine) DB() *sqlx.DB {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.db
}

func (e *Engine) DriverName() string {
	return e.driver.Name()
}

// PoolSettings return effective pool configuration.
func (e *Engine) PoolSettings() PoolSettings {
	return e.pool
}

// SessionOptions return configured default options for new sessions.
func (e *Engine) SessionOptions() SessionOptions {
	return e.options
}

// connect borrow one connection from pool and run connect script on it.
func (e *Engine) connect(ctx context.Context) (*sqlx.Conn, error) {
	db := e.DB()
	if db == nil {
		return nil, ErrEngineClosed
	}

	conn, err := db.Connx(ctx)
	if err != nil {
		return nil, aerr.ApplyFor(aerr.ErrDatabase, err, "failed open connection")
	}

	if err := e.driver.OnConnect(ctx, conn); err != nil {
		_ = conn.Close()

		return nil, aerr.ApplyFor(aerr.ErrDatabase, err, "failed run onConnect scripts")
	}

	return conn, nil
}

// release return connection to the pool. Connection is released even when close script failed.
func (e *Engine) release(ctx context.Context, conn *sqlx.Conn) error {
	var errs []error

	if err := e.driver.OnClose(ctx, conn); err != nil {
		errs = append(errs, aerr.ApplyFor(aerr.ErrDatabase, err, "run scripts onClose failed"))
	}

	if err := conn.Close(); err != nil {
		errs = append(errs, aerr.ApplyFor(aerr.ErrDatabase, err, "close connection failed"))
	}

	return errors.Join(errs...)
}
