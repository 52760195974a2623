package db

//
// factory.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"iter"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-pariwisata/internal/common"
)

// SessionFactory create sessions bound to one Engine.
type SessionFactory struct {
	engine *Engine
	opts   SessionOptions
}

func NewSessionFactoryI(i do.Injector) (*SessionFactory, error) {
	engine := do.MustInvoke[*Engine](i)

	return NewSessionFactory(engine, engine.SessionOptions()), nil
}

func NewSessionFactory(engine *Engine, opts SessionOptions) *SessionFactory {
	return &SessionFactory{engine: engine, opts: opts}
}

func (f *SessionFactory) Engine() *Engine {
	return f.engine
}

// Options return options used for new sessions.
func (f *SessionFactory) Options() SessionOptions {
	return f.opts
}

// WithOptions return copy of factory that create sessions with `opts`.
func (f *SessionFactory) WithOptions(opts SessionOptions) *SessionFactory {
	return &SessionFactory{engine: f.engine, opts: opts}
}

// NewSession create new, not connected session. Caller is responsible for closing it.
func (f *SessionFactory) NewSession(ctx context.Context) (*Session, error) {
	if f.engine.DB() == nil {
		return nil, ErrEngineClosed
	}

	session := newSession(ctx, f.engine, f.opts)
	f.engine.metrics.Load().sessionOpened()

	session.logger.Debug().Msg("db.Session: created")

	return session, nil
}

// Sessions return sequence that yield exactly one session. Session is closed
// when the consumer finish, also on break or panic. Sequence can be used only once;
// next iteration yield ErrSequenceConsumed.
//
//	for session, err := range factory.Sessions(ctx) {
//		if err != nil { return err }
//		...
//	}
func (f *SessionFactory) Sessions(ctx context.Context) iter.Seq2[*Session, error] {
	var consumed atomic.Bool

	return func(yield func(*Session, error) bool) {
		if !consumed.CompareAndSwap(false, true) {
			yield(nil, ErrSequenceConsumed)

			return
		}

		session, err := f.NewSession(ctx)
		if err != nil {
			yield(nil, err)

			return
		}

		defer func() {
			if err := session.Close(ctx); err != nil {
				log.Ctx(ctx).Error().Err(err).Str(common.LogKeySessionID, session.ID()).
					Msg("db.SessionFactory: close session error")
			}
		}()

		yield(session, nil)
	}
}
