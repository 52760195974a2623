package query

//
// destinations.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"strings"

	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/model"
)

// MaxListLimit is maximal number of destinations returned by one query.
const MaxListLimit = 1000

type GetDestinationQuery struct {
	ID int64
}

func (q *GetDestinationQuery) Validate() error {
	if q.ID <= 0 {
		return aerr.ErrValidation.WithUserMsg("invalid destination id")
	}

	return nil
}

// ------------------------------------------------------

type ListDestinationsQuery struct {
	City      string
	Category  string
	MinRating float64
	Limit     uint
}

func (q *ListDestinationsQuery) Validate() error {
	if q.Limit > MaxListLimit {
		return aerr.ErrValidation.WithUserMsg("limit can't be greater than %d", MaxListLimit)
	}

	return q.Filter().Validate()
}

func (q *ListDestinationsQuery) Filter() *model.DestinationsFilter {
	limit := q.Limit
	if limit == 0 {
		limit = MaxListLimit
	}

	return &model.DestinationsFilter{
		City:      strings.TrimSpace(q.City),
		Category:  strings.ToLower(strings.TrimSpace(q.Category)),
		MinRating: q.MinRating,
		Limit:     limit,
	}
}
