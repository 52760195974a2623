package cli

//
// main.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/config"
)

//nolint:forbidigo
func Main() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "print-version",
		Aliases: []string{"V"},
		Usage:   "Print version.",
	}

	cmd := newRootCmd()

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Printf("Error: %s\n", aerr.GetUserMessageOr(err, err.Error()))

		if cmd.String("log.level") == "debug" {
			fmt.Printf("Error: %#+v\n", err)
		}

		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:    config.AppName,
		Usage:   "tourist destinations catalog",
		Version: config.VersionString,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      "database",
				Value:     "pariwisata.sqlite",
				Usage:     "Database connection url or sqlite file; overwrite DATABASE_URL",
				Aliases:   []string{"D"},
				Validator: dbConnstrValidator,
				Config:    cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "db.driver",
				Usage:   "Database driver (sqlite3, postgres); detected from url when empty",
				Sources: cli.EnvVars("DATABASE_DRIVER"),
			},
			&cli.BoolFlag{
				Name:  "db.echo",
				Usage: "Log all executed sql statements; overwrite DATABASE_ECHO",
			},
			&cli.BoolFlag{
				Name:  "db.expire-on-commit",
				Usage: "Mark loaded objects as stale after commit; overwrite DATABASE_EXPIRE_ON_COMMIT",
			},
			&cli.IntFlag{
				Name:  "db.max-open-conns",
				Usage: "Maximal number of open connections (0 = driver default)",
			},
			&cli.StringFlag{
				Name:    "log.level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("PARIWISATA_LOGLEVEL"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "log.format",
				Value:   "console",
				Usage:   "Log format (console, logfmt, json, journald, syslog)",
				Sources: cli.EnvVars("PARIWISATA_LOGFORMAT"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "debug",
				Usage:   "Debug flags (do, go, router, querymetrics, trace, msgbody, flightrecorder, all)",
				Sources: cli.EnvVars("PARIWISATA_DEBUG"),
			},
		},
		Commands: []*cli.Command{
			newStartServerCmd(),
			databaseSubCmd(),
			destinationsSubCmd(),
		},
	}
}

func databaseSubCmd() *cli.Command {
	return &cli.Command{
		Name:  "database",
		Usage: "manage database",
		Commands: []*cli.Command{
			newMigrateCmd(),
			newMaintenanceCmd(),
		},
	}
}

func destinationsSubCmd() *cli.Command {
	return &cli.Command{
		Name:  "destination",
		Usage: "manage destinations",
		Commands: []*cli.Command{
			newListDestinationsCmd(),
			newAddDestinationCmd(),
			newDeleteDestinationCmd(),
		},
	}
}

//---------------------------------------------------------------------

func dbConnstrValidator(connstr string) error {
	if connstr == "" {
		return aerr.ErrValidation.WithUserMsg("database connection string cannot be empty")
	}

	return nil
}
