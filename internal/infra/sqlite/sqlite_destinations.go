package sqlite

//
// sqlite_destinations.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/common"
	"gitlab.com/kabes/go-pariwisata/internal/db"
	"gitlab.com/kabes/go-pariwisata/internal/model"
)

func (Repository) GetDestination(ctx context.Context, id int64) (*model.Destination, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Int64(common.LogKeyDestinationID, id).Msg("get destination")

	session := db.MustCtx(ctx)

	dest := DestinationDB{}

	err := session.GetContext(ctx, &dest,
		"SELECT id, name, city, category, description, rating, created_at, updated_at "+
			"FROM destinations WHERE id=?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNoData
	} else if err != nil {
		return nil, aerr.Wrapf(err, "select destination failed").WithMeta(common.LogKeyDestinationID, id)
	}

	res := dest.toModel()
	session.Track(res)

	return res, nil
}

func (Repository) FindDestination(ctx context.Context, name, city string) (*model.Destination, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Str("name", name).Str("city", city).Msg("find destination")

	session := db.MustCtx(ctx)

	dest := DestinationDB{}

	err := session.GetContext(ctx, &dest,
		"SELECT id, name, city, category, description, rating, created_at, updated_at "+
			"FROM destinations WHERE name=? AND city=? COLLATE NOCASE", name, city)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNoData
	} else if err != nil {
		return nil, aerr.Wrapf(err, "select destination failed").WithMeta("name", name, "city", city)
	}

	res := dest.toModel()
	session.Track(res)

	return res, nil
}

func (Repository) ListDestinations(ctx context.Context, filter *model.DestinationsFilter,
) ([]*model.Destination, error) {
	if filter == nil {
		filter = &model.DestinationsFilter{}
	}

	logger := log.Ctx(ctx)
	logger.Debug().Any("filter", filter).Msg("list destinations")

	session := db.MustCtx(ctx)

	var (
		where strings.Builder
		args  []any
	)

	where.WriteString(" WHERE rating >= ?")

	args = append(args, filter.MinRating)

	if filter.City != "" {
		where.WriteString(" AND city = ? COLLATE NOCASE")

		args = append(args, filter.City)
	}

	if filter.Category != "" {
		where.WriteString(" AND category = ? COLLATE NOCASE")

		args = append(args, filter.Category)
	}

	query := "SELECT id, name, city, category, description, rating, created_at, updated_at " +
		"FROM destinations" + where.String() + " ORDER BY rating DESC, name"

	if filter.Limit > 0 {
		query += " LIMIT ?"

		args = append(args, int64(filter.Limit))
	}

	rows := []DestinationDB{}
	if err := session.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, aerr.Wrapf(err, "select destinations failed")
	}

	logger.Debug().Msgf("list destinations: %d", len(rows))

	res := destinationsFromDB(rows)
	for _, d := range res {
		session.Track(d)
	}

	return res, nil
}

func (Repository) SaveDestination(ctx context.Context, dest *model.Destination) (int64, error) {
	logger := log.Ctx(ctx)
	session := db.MustCtx(ctx)

	now := time.Now().UTC()

	if dest.ID == 0 {
		logger.Debug().Object("destination", dest).Msg("insert destination")

		res, err := session.ExecContext(ctx,
			"INSERT INTO destinations (name, city, category, description, rating, created_at, updated_at) "+
				"VALUES(?, ?, ?, ?, ?, ?, ?)",
			dest.Name, dest.City, dest.Category, dest.Description, dest.Rating, now, now)
		if err != nil {
			return 0, mapError(err, "insert destination failed").WithMeta("name", dest.Name, "city", dest.City)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return 0, aerr.Wrapf(err, "get last id destination failed").WithMeta("name", dest.Name)
		}

		return id, nil
	}

	logger.Debug().Object("destination", dest).Msg("update destination")

	res, err := session.ExecContext(ctx,
		"UPDATE destinations SET name=?, city=?, category=?, description=?, rating=?, updated_at=? WHERE id=?",
		dest.Name, dest.City, dest.Category, dest.Description, dest.Rating, now, dest.ID)
	if err != nil {
		return dest.ID, mapError(err, "update destination failed").WithMeta(common.LogKeyDestinationID, dest.ID)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return dest.ID, common.ErrNoData
	}

	return dest.ID, nil
}

func (Repository) DeleteDestination(ctx context.Context, id int64) error {
	logger := log.Ctx(ctx)
	logger.Debug().Int64(common.LogKeyDestinationID, id).Msg("delete destination")

	session := db.MustCtx(ctx)

	res, err := session.ExecContext(ctx, "DELETE FROM destinations WHERE id=?", id)
	if err != nil {
		return aerr.Wrapf(err, "delete destination failed").WithMeta(common.LogKeyDestinationID, id)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return aerr.Wrapf(err, "delete destination - get rows affected failed")
	}

	if affected == 0 {
		return common.ErrNoData
	}

	return nil
}

func (Repository) CountDestinations(ctx context.Context) (int, error) {
	var count int
	if err := db.MustCtx(ctx).GetContext(ctx, &count, "SELECT count(*) FROM destinations"); err != nil {
		return 0, aerr.Wrapf(err, "count destinations failed")
	}

	return count, nil
}

//------------------------------------------------------------------------------

func mapError(err error, msg string) aerr.AppError {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return aerr.ApplyFor(common.ErrDestinationExists, err)
	}

	return aerr.Wrapf(err, "%s", msg)
}
