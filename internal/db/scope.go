package db

//
// scope.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-pariwisata/internal/common"
)

// InSession run `fun` with session. When `ctx` already contains session, it is
// reused and not closed. Otherwise new session is created and always closed
// after `fun` finish. Error returned by `fun` is returned unchanged.
func InSession(ctx context.Context, f *SessionFactory, fun func(context.Context, *Session) error) error {
	defer f.engine.queryTimer()()

	_, err := inSession(ctx, f, func(ctx context.Context, s *Session) (struct{}, error) {
		return struct{}{}, fun(ctx, s)
	})

	return err
}

// InSessionR run `fun` with session like InSession and return `fun` result.
func InSessionR[T any](ctx context.Context, f *SessionFactory,
	fun func(context.Context, *Session) (T, error),
) (T, error) {
	defer f.engine.queryTimer()()

	return inSession(ctx, f, fun)
}

// InTransaction run `fun` in transaction. Transaction is committed when `fun`
// return nil, otherwise (also on panic) rolled back. When session from context
// is already in transaction, `fun` join it.
func InTransaction(ctx context.Context, f *SessionFactory, fun func(context.Context, *Session) error) error {
	defer f.engine.queryTimer()()

	_, err := inSession(ctx, f, func(ctx context.Context, s *Session) (struct{}, error) {
		return inTransaction(ctx, s, func(ctx context.Context, s *Session) (struct{}, error) {
			return struct{}{}, fun(ctx, s)
		})
	})

	return err
}

// InTransactionR run `fun` in transaction like InTransaction; return `fun` result.
func InTransactionR[T any](ctx context.Context, f *SessionFactory,
	fun func(context.Context, *Session) (T, error),
) (T, error) {
	defer f.engine.queryTimer()()

	return inSession(ctx, f, func(ctx context.Context, s *Session) (T, error) {
		return inTransaction(ctx, s, fun)
	})
}

//------------------------------------------------------------------------------

func inSession[T any](ctx context.Context, f *SessionFactory,
	fun func(context.Context, *Session) (T, error),
) (res T, err error) {
	if session, ok := Ctx(ctx); ok && !session.Closed() {
		return fun(ctx, session)
	}

	ctx, endTask := common.NewTask(ctx, "db.session")
	defer endTask()

	session, err := f.NewSession(ctx)
	if err != nil {
		return res, err
	}

	defer func() {
		if cerr := session.Close(ctx); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	return fun(WithCtx(ctx, session), session)
}

func inTransaction[T any](ctx context.Context, session *Session,
	fun func(context.Context, *Session) (T, error),
) (res T, err error) {
	if session.InTransaction() {
		return fun(ctx, session)
	}

	if err := session.Begin(ctx); err != nil {
		return res, err
	}

	committed := false

	defer func() {
		if committed || !session.InTransaction() {
			return
		}

		if rerr := session.Rollback(ctx); rerr != nil {
			log.Ctx(ctx).Error().Err(rerr).Msg("db.InTransaction: rollback failed")

			err = errors.Join(err, rerr)
		}
	}()

	res, err = fun(ctx, session)
	if err != nil {
		return res, err
	}

	committed = true

	if err := session.Commit(ctx); err != nil {
		return res, err
	}

	return res, nil
}
