package db

//
// migrate.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
)

// RunMigrations apply all pending goose migrations from `migrations` one by one.
func RunMigrations(ctx context.Context, dialect goose.Dialect, db *sql.DB, migrations fs.FS) error {
	logger := log.Ctx(ctx)

	provider, err := goose.NewProvider(dialect, db, migrations)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "create goose provider failed")
	}

	ver, err := provider.GetDBVersion(ctx)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "failed to check current database version")
	}

	logger.Info().Msgf("db.Migrate: current database version: %d", ver)

	for {
		res, err := provider.UpByOne(ctx)
		if res != nil {
			logger.Debug().Msgf("db.Migrate: migration: %s", res)
		}

		if errors.Is(err, goose.ErrNoNextVersion) {
			break
		} else if err != nil {
			return aerr.ApplyFor(aerr.ErrDatabase, err, "migrate database up failed")
		}
	}

	ver, err = provider.GetDBVersion(ctx)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "failed to check current database version")
	}

	logger.Info().Msgf("db.Migrate: migrated database version: %d", ver)

	return nil
}
