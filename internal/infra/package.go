// Package infra provide database drivers and repositories implementations.
package infra

//
// package.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/config"
	"gitlab.com/kabes/go-pariwisata/internal/db"
	"gitlab.com/kabes/go-pariwisata/internal/infra/pg"
	"gitlab.com/kabes/go-pariwisata/internal/infra/sqlite"
	"gitlab.com/kabes/go-pariwisata/internal/repository"
)

//nolint:gochecknoglobals
var Package = do.Package(
	do.Lazy(NewDriverI),
	do.Lazy(NewRepositoryI),
	do.Lazy(func(i do.Injector) (repository.DestinationsRepository, error) {
		return do.Invoke[repository.Repository](i)
	}),
	do.Lazy(func(i do.Injector) (repository.MaintenanceRepository, error) {
		return do.Invoke[repository.Repository](i)
	}),
)

// NewDriverI return database driver for configured database.
func NewDriverI(i do.Injector) (db.Driver, error) { //nolint:ireturn
	dbconf := do.MustInvoke[config.DBConfig](i)

	switch dbconf.Driver {
	case config.DriverSqlite:
		return sqlite.Driver{}, nil
	case config.DriverPostgres:
		return pg.Driver{}, nil
	}

	return nil, aerr.ErrInvalidConf.WithUserMsg("unsupported database driver").WithMeta("driver", dbconf.Driver)
}

// NewRepositoryI return repository implementation for configured database.
func NewRepositoryI(i do.Injector) (repository.Repository, error) { //nolint:ireturn
	dbconf := do.MustInvoke[config.DBConfig](i)

	switch dbconf.Driver {
	case config.DriverSqlite:
		return sqlite.Repository{}, nil
	case config.DriverPostgres:
		return pg.Repository{}, nil
	}

	return nil, aerr.ErrInvalidConf.WithUserMsg("unsupported database driver").WithMeta("driver", dbconf.Driver)
}
