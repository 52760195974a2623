package cli

//
// cli_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-pariwisata/internal/assert"
	"gitlab.com/kabes/go-pariwisata/internal/config"
	"gitlab.com/kabes/go-pariwisata/internal/model"
)

func TestNextMaintenanceRun(t *testing.T) {
	tests := []struct {
		now  time.Time
		next time.Time
	}{
		{
			time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC),
		},
		{
			time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 11, 4, 0, 0, 0, time.UTC),
		},
		{
			time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC),
			time.Date(2025, 4, 1, 4, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		assert.Equal(t, nextMaintenanceRun(tt.now), tt.next)
	}
}

func TestLoadDBConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://user@localhost/pariwisata")
	t.Setenv("DATABASE_ECHO", "false")

	tests := []struct {
		name string
		args []string
		exp  config.DBConfig
	}{
		{
			"env only",
			[]string{"app"},
			config.DBConfig{Driver: config.DriverPostgres, Connstr: "postgres://user@localhost/pariwisata"},
		},
		{
			"database flag",
			[]string{"app", "--database", "test.db", "--db.expire-on-commit"},
			config.DBConfig{Driver: config.DriverSqlite, Connstr: "test.db", ExpireOnCommit: true},
		},
		{
			"echo flag",
			[]string{"app", "--db.echo", "--db.max-open-conns", "3"},
			config.DBConfig{
				Driver:       config.DriverPostgres,
				Connstr:      "postgres://user@localhost/pariwisata",
				Echo:         true,
				MaxOpenConns: 3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dbconf config.DBConfig

			cmd := newRootCmd()
			cmd.Commands = nil
			cmd.Action = func(_ context.Context, clicmd *cli.Command) error {
				var err error

				dbconf, err = loadDBConfig(clicmd)

				return err
			}

			assert.NoErr(t, cmd.Run(context.Background(), tt.args))
			assert.Equal(t, dbconf, tt.exp)
		})
	}
}

func TestDestinationCommands(t *testing.T) {
	dbfile := filepath.Join(t.TempDir(), "test.db")
	run := func(args ...string) error {
		args = append([]string{"app", "--database", dbfile, "--log.level", "error"}, args...)

		return newRootCmd().Run(context.Background(), args)
	}

	assert.NoErr(t, run("database", "migrate"))
	assert.NoErr(t, run("destination", "add", "--name", "Kuta", "--city", "Badung",
		"--category", "beach", "--rating", "4.3"))
	// duplicated destination
	assert.Err(t, run("destination", "add", "--name", "Kuta", "--city", "Badung"))
	assert.NoErr(t, run("destination", "list", "--city", "badung"))
	assert.NoErr(t, run("database", "maintenance"))
	assert.NoErr(t, run("destination", "delete", "--id", "1"))
	assert.Err(t, run("destination", "delete", "--id", "1"))
}

func TestPrintDestinations(t *testing.T) {
	var buf bytes.Buffer

	printDestinations(&buf, []*model.Destination{
		{ID: 1, Name: "Kuta", City: "Badung", Category: "beach", Rating: 4.3},
	})

	out := buf.String()
	assert.Contains(t, out, "Kuta")
	assert.Contains(t, out, "4.3")
	assert.Contains(t, out, "Total: 1")
}
