package cli

//
// common.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/config"
	"gitlab.com/kabes/go-pariwisata/internal/db"
	"gitlab.com/kabes/go-pariwisata/internal/infra"
	"gitlab.com/kabes/go-pariwisata/internal/service"
)

type commandFunc func(ctx context.Context, clicmd *cli.Command, i do.Injector) error

// wrap configure logger and database, create injector and open database engine
// before calling `cmdfunc`. Engine and all services are closed after command finish.
func wrap(cmdfunc commandFunc) func(ctx context.Context, clicmd *cli.Command) error {
	return func(ctx context.Context, clicmd *cli.Command) error {
		if err := initializeLogger(clicmd.String("log.level"), clicmd.String("log.format")); err != nil {
			return err
		}

		ctx = log.Logger.WithContext(ctx)

		dbconf, err := loadDBConfig(clicmd)
		if err != nil {
			return err
		}

		injector := createInjector(ctx, dbconf, config.NewDebugFLags(clicmd.String("debug")))
		defer shutdownInjector(ctx, injector)

		engine := do.MustInvoke[*db.Engine](injector)
		if err := engine.Open(ctx); err != nil {
			return aerr.Wrapf(err, "connect to database failed")
		}

		return cmdfunc(ctx, clicmd, injector)
	}
}

// loadDBConfig load database configuration from environment and overwrite it by
// command line flags.
func loadDBConfig(clicmd *cli.Command) (config.DBConfig, error) {
	dbconf, err := config.LoadDBConfigEnv()
	if err != nil {
		return dbconf, err //nolint:wrapcheck
	}

	if clicmd.IsSet("database") || dbconf.Connstr == "" {
		override := config.NewDBConfig(clicmd.String("db.driver"), clicmd.String("database"))
		dbconf.Connstr, dbconf.Driver = override.Connstr, override.Driver
	} else if clicmd.IsSet("db.driver") {
		dbconf.Driver = config.NewDBConfig(clicmd.String("db.driver"), dbconf.Connstr).Driver
	}

	if clicmd.IsSet("db.echo") {
		dbconf.Echo = clicmd.Bool("db.echo")
	}

	if clicmd.IsSet("db.expire-on-commit") {
		dbconf.ExpireOnCommit = clicmd.Bool("db.expire-on-commit")
	}

	if clicmd.IsSet("db.max-open-conns") {
		dbconf.MaxOpenConns = int(clicmd.Int("db.max-open-conns"))
	}

	if err := dbconf.Validate(); err != nil {
		return dbconf, aerr.Wrapf(err, "invalid database configuration")
	}

	return dbconf, nil
}

func createInjector(ctx context.Context, dbconf config.DBConfig, debugFlags config.DebugFlags) *do.RootScope {
	injector := do.New(
		db.Package,
		infra.Package,
		service.Package,
	)

	do.ProvideValue(injector, dbconf)

	if debugFlags.HasFlag(config.DebugDo) {
		logger := log.Ctx(ctx)
		logger.Debug().Msgf("Available services: %v", injector.ListProvidedServices())
	}

	return injector
}

func shutdownInjector(ctx context.Context, injector *do.RootScope) {
	logger := log.Ctx(ctx)

	report := injector.ShutdownWithContext(ctx)
	if !report.Succeed {
		logger.Error().Msgf("shutdown services failed: %s", report.Error())

		return
	}

	logger.Debug().Msg("all services stopped")
}

func enableDoDebug(ctx context.Context, injector do.Injector) {
	logger := log.Ctx(ctx)

	explanation := do.ExplainInjector(injector)
	logger.Debug().Msgf("Injector: %s", explanation.String())
}
