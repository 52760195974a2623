//
// migrate.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package cli

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/db"
)

func newMigrateCmd() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "create or update database schema",
		Action: wrap(migrateCmd),
	}
}

func migrateCmd(ctx context.Context, _ *cli.Command, injector do.Injector) error {
	engine := do.MustInvoke[*db.Engine](injector)

	if err := engine.Migrate(ctx); err != nil {
		return aerr.Wrapf(err, "migrate error")
	}

	//nolint:forbidigo
	fmt.Println("Migration finished")

	return nil
}
