//
// destinations.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/command"
	"gitlab.com/kabes/go-pariwisata/internal/common"
	"gitlab.com/kabes/go-pariwisata/internal/db"
	"gitlab.com/kabes/go-pariwisata/internal/model"
	"gitlab.com/kabes/go-pariwisata/internal/query"
	"gitlab.com/kabes/go-pariwisata/internal/repository"
)

type DestinationsSrv struct {
	sessions *db.SessionFactory
	destRepo repository.DestinationsRepository
}

func NewDestinationsSrv(i do.Injector) (*DestinationsSrv, error) {
	return &DestinationsSrv{
		sessions: do.MustInvoke[*db.SessionFactory](i),
		destRepo: do.MustInvoke[repository.DestinationsRepository](i),
	}, nil
}

func (d *DestinationsSrv) GetDestination(ctx context.Context, q *query.GetDestinationQuery,
) (*model.Destination, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	dest, err := db.InSessionR(ctx, d.sessions, func(ctx context.Context, _ *db.Session) (*model.Destination, error) {
		return d.destRepo.GetDestination(ctx, q.ID)
	})

	if errors.Is(err, common.ErrNoData) {
		return nil, common.ErrUnknownDestination
	} else if err != nil {
		return nil, aerr.ApplyFor(ErrRepositoryError, err)
	}

	return dest, nil
}

func (d *DestinationsSrv) ListDestinations(ctx context.Context, q *query.ListDestinationsQuery,
) ([]*model.Destination, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	//nolint:wrapcheck
	return db.InSessionR(ctx, d.sessions, func(ctx context.Context, _ *db.Session) ([]*model.Destination, error) {
		dests, err := d.destRepo.ListDestinations(ctx, q.Filter())
		if err != nil {
			return nil, aerr.ApplyFor(ErrRepositoryError, err)
		}

		return dests, nil
	})
}

func (d *DestinationsSrv) AddDestination(ctx context.Context, cmd *command.AddDestinationCmd,
) (command.AddDestinationCmdResult, error) {
	if cmd == nil {
		panic("cmd is nil")
	}

	res := command.AddDestinationCmdResult{}

	if err := cmd.Validate(); err != nil {
		return res, aerr.Wrapf(err, "validate destination to add failed")
	}

	//nolint:wrapcheck
	return db.InTransactionR(ctx, d.sessions, func(ctx context.Context, _ *db.Session,
	) (command.AddDestinationCmdResult, error) {
		dest := cmd.Destination()

		_, err := d.destRepo.FindDestination(ctx, dest.Name, dest.City)
		switch {
		case errors.Is(err, common.ErrNoData):
			// ok; destination not exists
		case err == nil:
			return res, common.ErrDestinationExists
		default:
			return res, aerr.ApplyFor(ErrRepositoryError, err)
		}

		id, err := d.destRepo.SaveDestination(ctx, dest)
		if errors.Is(err, common.ErrDestinationExists) {
			return res, err
		} else if err != nil {
			return res, aerr.ApplyFor(ErrRepositoryError, err)
		}

		log.Ctx(ctx).Info().Int64(common.LogKeyDestinationID, id).Str("name", dest.Name).
			Msg("new destination added")

		res.DestinationID = id

		return res, nil
	})
}

func (d *DestinationsSrv) UpdateDestination(ctx context.Context, cmd *command.UpdateDestinationCmd,
) (*model.Destination, error) {
	if cmd == nil {
		panic("cmd is nil")
	}

	if err := cmd.Validate(); err != nil {
		return nil, aerr.Wrapf(err, "validate destination to update failed")
	}

	//nolint:wrapcheck
	return db.InTransactionR(ctx, d.sessions, func(ctx context.Context, _ *db.Session) (*model.Destination, error) {
		dest, err := d.destRepo.GetDestination(ctx, cmd.ID)
		if errors.Is(err, common.ErrNoData) {
			return nil, common.ErrUnknownDestination
		} else if err != nil {
			return nil, aerr.ApplyFor(ErrRepositoryError, err)
		}

		cmd.Apply(dest)

		if _, err := d.destRepo.SaveDestination(ctx, dest); err != nil {
			switch {
			case errors.Is(err, common.ErrDestinationExists):
				return nil, err
			case errors.Is(err, common.ErrNoData):
				return nil, common.ErrUnknownDestination
			default:
				return nil, aerr.ApplyFor(ErrRepositoryError, err)
			}
		}

		return dest, nil
	})
}

func (d *DestinationsSrv) DeleteDestination(ctx context.Context, cmd *command.DeleteDestinationCmd) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	//nolint:wrapcheck
	return db.InTransaction(ctx, d.sessions, func(ctx context.Context, _ *db.Session) error {
		err := d.destRepo.DeleteDestination(ctx, cmd.ID)
		if errors.Is(err, common.ErrNoData) {
			return common.ErrUnknownDestination
		} else if err != nil {
			return aerr.ApplyFor(ErrRepositoryError, err)
		}

		return nil
	})
}
