package db

// dbcontext.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// ------------------------------------------------------------------------------

// Interface define object used by repositories to query database.
type Interface interface {
	sqlx.PreparerContext
	sqlx.ExecerContext

	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

// ------------------------------------------------------------------------------

//nolint:gochecknoglobals
var ctxSessionKey = any("CtxDBSessionKey")

// WithCtx create new context with session. When `ctx` already has open
// session, return `ctx` unchanged; closed session is replaced.
func WithCtx(ctx context.Context, session *Session) context.Context {
	s, ok := ctx.Value(ctxSessionKey).(*Session)
	if ok && s != nil && !s.Closed() {
		return ctx
	}

	return context.WithValue(ctx, ctxSessionKey, session)
}

// Ctx return session from context.
func Ctx(ctx context.Context) (*Session, bool) {
	value, ok := ctx.Value(ctxSessionKey).(*Session)
	if !ok || value == nil {
		return nil, false
	}

	return value, true
}

// MustCtx return session from context. Panic when not exists.
func MustCtx(ctx context.Context) *Session {
	value, ok := ctx.Value(ctxSessionKey).(*Session)
	if !ok || value == nil {
		panic("no db session in context")
	}

	return value
}
