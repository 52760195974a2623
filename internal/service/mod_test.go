package service

//
// mod_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	stdlog "log"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-pariwisata/internal/command"
	"gitlab.com/kabes/go-pariwisata/internal/config"
	"gitlab.com/kabes/go-pariwisata/internal/db"
	"gitlab.com/kabes/go-pariwisata/internal/infra"
)

func prepareTests(t *testing.T) (context.Context, *do.RootScope) {
	t.Helper()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout}).With().Caller().Logger()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)

	ctx := log.Logger.WithContext(context.Background())
	i := do.New(Package, db.Package, infra.Package)

	dbconf := config.NewDBConfig(config.DriverSqlite, filepath.Join(t.TempDir(), "test.db"))
	do.ProvideValue(i, dbconf)

	engine := do.MustInvoke[*db.Engine](i)
	if err := engine.Open(ctx); err != nil {
		t.Fatalf("connect to db error: %#+v", err)
	}

	if err := engine.Migrate(ctx); err != nil {
		t.Fatalf("prepare db error: %#+v", err)
	}

	t.Cleanup(func() {
		i.ShutdownWithContext(context.Background())
	})

	return ctx, i
}

func prepareTestDestination(ctx context.Context, t *testing.T, i do.Injector, name, city string, rating float64,
) int64 {
	t.Helper()

	srv := do.MustInvoke[*DestinationsSrv](i)

	res, err := srv.AddDestination(ctx, &command.AddDestinationCmd{
		Name:     name,
		City:     city,
		Category: "nature",
		Rating:   rating,
	})
	if err != nil {
		t.Fatalf("create test destination failed: %#+v", err)
	}

	return res.DestinationID
}
