package pg

//
// pg_maint.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/db"
)

func (r Repository) Maintenance(ctx context.Context) error {
	logger := log.Ctx(ctx)
	dbi := db.MustCtx(ctx)

	for idx, sql := range maintScripts {
		logger.Debug().Msgf("pg.Repository: run maintenance script=%d sql=%q", idx, sql)

		if _, err := dbi.ExecContext(ctx, sql); err != nil {
			return aerr.ApplyFor(aerr.ErrDatabase, err, "execute maintenance script failed").
				WithMeta("sql", sql)
		}
	}

	count, err := r.CountDestinations(ctx)
	if err != nil {
		return err
	}

	logger.Info().Msgf("pg.Repository: database maintenance finished; destinations=%d", count)

	return nil
}

//nolint:gochecknoglobals
var maintScripts = []string{
	`VACUUM ANALYZE destinations;`,
}
