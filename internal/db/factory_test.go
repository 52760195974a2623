package db

//
// factory_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"sync"
	"testing"

	"gitlab.com/kabes/go-pariwisata/internal/assert"
)

func TestSessionsYieldExactlyOne(t *testing.T) {
	ctx, engine, driver := prepareEngine(t, nil)
	factory := NewSessionFactory(engine, engine.SessionOptions())
	closes := driver.closes.Load()

	var (
		yielded int
		session *Session
	)

	for s, err := range factory.Sessions(ctx) {
		assert.NoErr(t, err)

		yielded++
		session = s

		var name string

		assert.NoErr(t, s.GetContext(ctx, &name, "SELECT name FROM items WHERE id=?", 1))
		assert.Equal(t, name, "first")
		assert.False(t, s.Closed())
	}

	assert.Equal(t, yielded, 1)
	assert.True(t, session.Closed())
	assert.False(t, session.Connected())
	assert.Equal(t, driver.closes.Load(), closes+1)
}

func TestSessionsClosedOnError(t *testing.T) {
	ctx, engine, _ := prepareEngine(t, nil)
	factory := NewSessionFactory(engine, engine.SessionOptions())

	var session *Session

	run := func() error {
		for s, err := range factory.Sessions(ctx) {
			if err != nil {
				return err
			}

			session = s

			if err := s.Begin(ctx); err != nil {
				return err
			}

			if _, err := s.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", "second"); err != nil {
				return err
			}

			return errTest
		}

		return nil
	}

	err := run()
	assert.Equal(t, err, errTest)
	assert.True(t, session.Closed())
	// not committed transaction is rolled back on close
	assert.Equal(t, countItems(ctx, t, engine), 1)
}

func TestSessionsClosedOnPanic(t *testing.T) {
	ctx, engine, _ := prepareEngine(t, nil)
	factory := NewSessionFactory(engine, engine.SessionOptions())

	var session *Session

	assert.Panics(t, func() {
		for s, err := range factory.Sessions(ctx) {
			assert.NoErr(t, err)

			session = s

			_, err = s.ExecContext(ctx, "SELECT 1")
			assert.NoErr(t, err)

			panic("test")
		}
	})

	assert.True(t, session.Closed())
	assert.False(t, session.Connected())
}

func TestSessionsSingleUse(t *testing.T) {
	ctx, engine, _ := prepareEngine(t, nil)
	factory := NewSessionFactory(engine, engine.SessionOptions())
	seq := factory.Sessions(ctx)

	for s, err := range seq {
		assert.NoErr(t, err)
		assert.True(t, s != nil)
	}

	yielded := 0

	for s, err := range seq {
		yielded++

		assert.ErrSpec(t, err, ErrSequenceConsumed)
		assert.True(t, s == nil)
	}

	assert.Equal(t, yielded, 1)
}

func TestSessionsEngineClosed(t *testing.T) {
	ctx, engine, _ := prepareEngine(t, nil)
	factory := NewSessionFactory(engine, engine.SessionOptions())

	assert.NoErr(t, engine.Shutdown(ctx))

	yielded := 0

	for s, err := range factory.Sessions(ctx) {
		yielded++

		assert.ErrSpec(t, err, ErrEngineClosed)
		assert.True(t, s == nil)
	}

	assert.Equal(t, yielded, 1)
}

func TestSessionsConcurrent(t *testing.T) {
	const workers = 4

	ctx, engine, _ := prepareEngine(t, nil)
	factory := NewSessionFactory(engine, engine.SessionOptions())

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]struct{})
	)

	// all sessions hold transaction at the same time
	started := make(chan struct{}, workers)
	release := make(chan struct{})

	for i := range workers {
		wg.Go(func() {
			for s, err := range factory.Sessions(ctx) {
				assert.NoErr(t, err)

				mu.Lock()
				ids[s.ID()] = struct{}{}
				mu.Unlock()

				var count int

				assert.NoErr(t, s.GetContext(ctx, &count, "SELECT count(*) FROM items"))
				assert.True(t, s.Connected())

				started <- struct{}{}

				<-release
			}

			// each worker insert own row in own session
			for s, err := range factory.Sessions(ctx) {
				assert.NoErr(t, err)

				_, err = s.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", fmt.Sprintf("item-%d", i))
				assert.NoErr(t, err)
			}
		})
	}

	for range workers {
		<-started
	}

	close(release)
	wg.Wait()

	assert.Equal(t, len(ids), workers)
	assert.Equal(t, countItems(ctx, t, engine), workers+1)
}

func TestSessionFactoryWithOptions(t *testing.T) {
	ctx, engine, _ := prepareEngine(t, nil)
	factory := NewSessionFactory(engine, SessionOptions{})
	factory2 := factory.WithOptions(SessionOptions{ExpireOnCommit: true})

	assert.Equal(t, factory.Options(), SessionOptions{})
	assert.Equal(t, factory2.Options(), SessionOptions{ExpireOnCommit: true})

	session, err := factory2.NewSession(ctx)
	assert.NoErr(t, err)
	assert.True(t, session.Options().ExpireOnCommit)
	assert.False(t, session.Connected())
	assert.NoErr(t, session.Close(ctx))
}
