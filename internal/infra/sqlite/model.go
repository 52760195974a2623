package sqlite

// model.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.

import (
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/kabes/go-pariwisata/internal/model"
)

type Repository struct{}

//----------------------------------------

type DestinationDB struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	City        string    `db:"city"`
	Category    string    `db:"category"`
	Description string    `db:"description"`
	Rating      float64   `db:"rating"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (d *DestinationDB) toModel() *model.Destination {
	return &model.Destination{
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

func (d *DestinationDB) MarshalZerologObject(event *zerolog.Event) {
	event.Int64("id", d.ID).
		Str("name", d.Name).
		Str("city", d.City).
		Str("category", d.Category).
		Float64("rating", d.Rating).
		Time("created_at", d.CreatedAt).
		Time("updated_at", d.UpdatedAt)
}

func destinationsFromDB(rows []DestinationDB) []*model.Destination {
	res := make([]*model.Destination, len(rows))
	for i, r := range rows {
		res[i] = r.toModel()
	}

	return res
}
