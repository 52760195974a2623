package api

// destinations.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/command"
	"gitlab.com/kabes/go-pariwisata/internal/common"
	"gitlab.com/kabes/go-pariwisata/internal/model"
	"gitlab.com/kabes/go-pariwisata/internal/query"
	"gitlab.com/kabes/go-pariwisata/internal/server/srvsupport"
	"gitlab.com/kabes/go-pariwisata/internal/service"
)

// destinationsResource handle request to /api/v1/destinations resource.
type destinationsResource struct {
	destSrv *service.DestinationsSrv
}

func newDestinationsResource(i do.Injector) (destinationsResource, error) {
	return destinationsResource{
		destSrv: do.MustInvoke[*service.DestinationsSrv](i),
	}, nil
}

func (d destinationsResource) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Get(`/`, srvsupport.WrapNamed(d.list, "api_dest_list"))
	r.Post(`/`, srvsupport.WrapNamed(d.create, "api_dest_create"))
	r.Get(`/{id:[0-9]+}`, srvsupport.WrapNamed(d.get, "api_dest_get"))
	r.Put(`/{id:[0-9]+}`, srvsupport.WrapNamed(d.update, "api_dest_update"))
	r.Delete(`/{id:[0-9]+}`, srvsupport.WrapNamed(d.delete, "api_dest_delete"))

	return r
}

func (d destinationsResource) list(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	logger *zerolog.Logger,
) {
	q, err := getListQuery(r)
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)
		logger.Debug().Err(err).Msg("parse list query error")

		return
	}

	dests, err := d.destSrv.ListDestinations(ctx, q)
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)
		logger.WithLevel(aerr.LogLevelForError(err)).Err(err).Msg("list destinations error")

		return
	}

	res := make([]destination, 0, len(dests))
	for _, dest := range dests {
		res = append(res, newDestinationFromModel(dest))
	}

	render.Status(r, http.StatusOK)
	srvsupport.RenderJSON(w, r, res)
}

func (d destinationsResource) get(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	logger *zerolog.Logger,
) {
	id, err := getIDParameter(r)
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)

		return
	}

	dest, err := d.destSrv.GetDestination(ctx, &query.GetDestinationQuery{ID: id})
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)
		logger.WithLevel(aerr.LogLevelForError(err)).Err(err).Int64(common.LogKeyDestinationID, id).
			Msg("get destination error")

		return
	}

	render.Status(r, http.StatusOK)
	srvsupport.RenderJSON(w, r, newDestinationFromModel(dest))
}

func (d destinationsResource) create(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	logger *zerolog.Logger,
) {
	var cmd command.AddDestinationCmd

	if err := srvsupport.DecodeJSON(r, &cmd); err != nil {
		logger.Debug().Err(err).Msg("error decoding json payload")
		srvsupport.CheckAndWriteError(w, r, err)

		return
	}

	res, err := d.destSrv.AddDestination(ctx, &cmd)
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)
		logger.WithLevel(aerr.LogLevelForError(err)).Err(err).Msg("add destination error")

		return
	}

	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+strconv.FormatInt(res.DestinationID, 10))
	render.Status(r, http.StatusCreated)
	srvsupport.RenderJSON(w, r, struct {
		ID int64 `json:"id"`
	}{res.DestinationID})
}

func (d destinationsResource) update(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	logger *zerolog.Logger,
) {
	id, err := getIDParameter(r)
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)

		return
	}

	cmd := command.UpdateDestinationCmd{}

	if err := srvsupport.DecodeJSON(r, &cmd); err != nil {
		logger.Debug().Err(err).Msg("error decoding json payload")
		srvsupport.CheckAndWriteError(w, r, err)

		return
	}

	cmd.ID = id

	dest, err := d.destSrv.UpdateDestination(ctx, &cmd)
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)
		logger.WithLevel(aerr.LogLevelForError(err)).Err(err).Int64(common.LogKeyDestinationID, id).
			Msg("update destination error")

		return
	}

	render.Status(r, http.StatusOK)
	srvsupport.RenderJSON(w, r, newDestinationFromModel(dest))
}

func (d destinationsResource) delete(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	logger *zerolog.Logger,
) {
	id, err := getIDParameter(r)
	if err != nil {
		srvsupport.CheckAndWriteError(w, r, err)

		return
	}

	if err := d.destSrv.DeleteDestination(ctx, &command.DeleteDestinationCmd{ID: id}); err != nil {
		srvsupport.CheckAndWriteError(w, r, err)
		logger.WithLevel(aerr.LogLevelForError(err)).Err(err).Int64(common.LogKeyDestinationID, id).
			Msg("delete destination error")

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

//-------------------------------------------------------------

type destination struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newDestinationFromModel(d *model.Destination) destination {
	return destination{
		ID:          d.ID,
		Name:        d.Name,
		City:        d.City,
		Category:    d.Category,
		Description: d.Description,
		Rating:      d.Rating,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
