package db

//
// session.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/common"
)

// SessionOptions configure behaviour of sessions.
type SessionOptions struct {
	// Echo enable logging of every executed statement.
	Echo bool
	// ExpireOnCommit mark all objects tracked by session as stale after commit.
	ExpireOnCommit bool
}

// Expirer is implemented by objects loaded by session that can be marked as stale.
type Expirer interface {
	Expire()
}

type executor interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
	sqlx.PreparerContext

	Rebind(query string) string
}

// Session is one unit of work against database. Session borrow connection
// from engine pool on first statement and return it on Close.
// Session is not safe for concurrent use; each goroutine should use own session.
type Session struct {
	id      xid.ID
	engine  *Engine
	opts    SessionOptions
	logger  zerolog.Logger
	started time.Time

	conn   *sqlx.Conn
	tx     *sqlx.Tx
	loaded []Expirer
	closed bool
}

var _ Interface = (*Session)(nil)

func newSession(ctx context.Context, engine *Engine, opts SessionOptions) *Session {
	sessionID := xid.New()

	return &Session{
		id:      sessionID,
		engine:  engine,
		opts:    opts,
		logger:  log.Ctx(ctx).With().Str(common.LogKeySessionID, sessionID.String()).Logger(),
		started: time.Now(),
	}
}

// ID return unique session identifier.
func (s *Session) ID() string {
	return s.id.String()
}

func (s *Session) Options() SessionOptions {
	return s.opts
}

func (s *Session) Closed() bool {
	return s.closed
}

func (s *Session) InTransaction() bool {
	return s.tx != nil
}

// Connected return true when session hold connection from pool.
func (s *Session) Connected() bool {
	return s.conn != nil
}

// Track register objects to expire on rollback and, when ExpireOnCommit is enabled, on commit.
func (s *Session) Track(objs ...Expirer) {
	for _, o := range objs {
		if o != nil {
			s.loaded = append(s.loaded, o)
		}
	}
}

// Begin start transaction.
func (s *Session) Begin(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}

	if s.tx != nil {
		return ErrTransactionActive
	}

	conn, err := s.connection(ctx)
	if err != nil {
		return err
	}

	s.echo("BEGIN", nil)

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "begin transaction failed")
	}

	s.tx = tx

	return nil
}

// Commit current transaction.
func (s *Session) Commit(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}

	if s.tx == nil {
		return ErrNoTransaction
	}

	s.echo("COMMIT", nil)
	common.TraceLazyPrintf(ctx, "db: commit session_id=%s", s.id)

	tx := s.tx
	s.tx = nil

	if err := tx.Commit(); err != nil {
		common.TraceErrorLazyPrintf(ctx, "db: commit failed session_id=%s error=%q", s.id, err)

		return aerr.ApplyFor(aerr.ErrDatabase, err, "commit transaction failed")
	}

	s.engine.metrics.Load().committed()

	if s.opts.ExpireOnCommit {
		s.expireAll()
	}

	return nil
}

// Rollback current transaction. All tracked objects are expired.
func (s *Session) Rollback(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}

	if s.tx == nil {
		return ErrNoTransaction
	}

	common.TraceLazyPrintf(ctx, "db: rollback session_id=%s", s.id)

	if err := s.rollback(); err != nil {
		common.TraceErrorLazyPrintf(ctx, "db: rollback failed session_id=%s error=%q", s.id, err)

		return err
	}

	return nil
}

func (s *Session) rollback() error {
	s.echo("ROLLBACK", nil)

	tx := s.tx
	s.tx = nil

	s.expireAll()

	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "rollback transaction failed")
	}

	s.engine.metrics.Load().rolledBack()

	return nil
}

// Close release all resources held by session. Opened transaction is rolled back.
// Close is idempotent.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}

	s.closed = true
	ctx = context.WithoutCancel(ctx)

	var errs []error

	if s.tx != nil {
		s.logger.Debug().Msg("db.Session: rollback not finished transaction on close")

		if err := s.rollback(); err != nil {
			errs = append(errs, err)
		}
	}

	s.loaded = nil

	if s.conn != nil {
		if err := s.engine.release(ctx, s.conn); err != nil {
			errs = append(errs, err)
		}

		s.conn = nil
	}

	s.engine.metrics.Load().sessionClosed(s.started)
	s.logger.Debug().Dur("duration", time.Since(s.started)).Msg("db.Session: closed")

	return errors.Join(errs...)
}

// ExecContext execute statement that not return rows.
func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	exec, err := s.executor(ctx)
	if err != nil {
		return nil, err
	}

	query = exec.Rebind(query)
	s.echo(query, args)

	return exec.ExecContext(ctx, query, args...) //nolint:wrapcheck
}

func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	exec, err := s.executor(ctx)
	if err != nil {
		return nil, err
	}

	query = exec.Rebind(query)
	s.echo(query, args)

	return exec.QueryContext(ctx, query, args...) //nolint:wrapcheck
}

func (s *Session) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	exec, err := s.executor(ctx)
	if err != nil {
		return nil, err
	}

	query = exec.Rebind(query)
	s.echo(query, args)

	return exec.QueryxContext(ctx, query, args...) //nolint:wrapcheck
}

func (s *Session) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	exec, err := s.executor(ctx)
	if err != nil {
		return nil, err
	}

	query = exec.Rebind(query)
	s.echo(query, nil)

	return exec.PrepareContext(ctx, query) //nolint:wrapcheck
}

// SelectContext load rows into `dest` slice.
func (s *Session) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	exec, err := s.executor(ctx)
	if err != nil {
		return err
	}

	query = exec.Rebind(query)
	s.echo(query, args)

	return sqlx.SelectContext(ctx, exec, dest, query, args...) //nolint:wrapcheck
}

// GetContext load one row into `dest`. When `dest` implement Expirer, it is tracked by session.
func (s *Session) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	exec, err := s.executor(ctx)
	if err != nil {
		return err
	}

	query = exec.Rebind(query)
	s.echo(query, args)

	if err := sqlx.GetContext(ctx, exec, dest, query, args...); err != nil {
		return err //nolint:wrapcheck
	}

	if e, ok := dest.(Expirer); ok {
		s.Track(e)
	}

	return nil
}

// executor return transaction when started or session connection.
func (s *Session) executor(ctx context.Context) (executor, error) { //nolint:ireturn
	if s.closed {
		return nil, ErrSessionClosed
	}

	if s.tx != nil {
		return s.tx, nil
	}

	return s.connection(ctx)
}

func (s *Session) connection(ctx context.Context) (*sqlx.Conn, error) {
	if s.conn != nil {
		return s.conn, nil
	}

	conn, err := s.engine.connect(ctx)
	if err != nil {
		return nil, err
	}

	s.conn = conn

	return conn, nil
}

func (s *Session) expireAll() {
	for _, o := range s.loaded {
		o.Expire()
	}

	s.loaded = nil
}

func (s *Session) echo(query string, args []any) {
	if !s.opts.Echo {
		return
	}

	event := s.logger.Info().Str("sql", query)
	if len(args) > 0 {
		event = event.Interface("args", args)
	}

	event.Msg("db.Session: execute")
}
