// helpers.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/query"
)

// getIDParameter from request url path.
func getIDParameter(r *http.Request) (int64, error) {
	s := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, aerr.ErrValidation.WithUserMsg("invalid destination id").WithMeta("id", s)
	}

	return id, nil
}

// getListQuery build query from request url query parameters.
func getListQuery(r *http.Request) (*query.ListDestinationsQuery, error) {
	params := r.URL.Query()

	q := query.ListDestinationsQuery{
		City:     params.Get("city"),
		Category: params.Get("category"),
	}

	if s := params.Get("min_rating"); s != "" {
		rating, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, aerr.ErrValidation.WithUserMsg("invalid min_rating parameter").WithError(err)
		}

		q.MinRating = rating
	}

	if s := params.Get("limit"); s != "" {
		limit, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, aerr.ErrValidation.WithUserMsg("invalid limit parameter").WithError(err)
		}

		q.Limit = uint(limit)
	}

	return &q, nil
}
