package model

//
// destinations.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/common"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

type Destination struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	stale bool
}

// Expire mark object as stale; its state may not reflect database any more.
func (d *Destination) Expire() {
	d.stale = true
}

// Stale return true when object was expired by session.
func (d *Destination) Stale() bool {
	return d.stale
}

func (d *Destination) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return common.ErrInvalidDestination.WithUserMsg("name can't be empty")
	}

	if strings.TrimSpace(d.City) == "" {
		return common.ErrInvalidDestination.WithUserMsg("city can't be empty")
	}

	if d.Rating < MinRating || d.Rating > MaxRating {
		return common.ErrInvalidDestination.WithUserMsg("rating must be between %0.0f and %0.0f", MinRating, MaxRating).
			WithMeta("rating", d.Rating)
	}

	return nil
}

func (d *Destination) MarshalZerologObject(event *zerolog.Event) {
	event.Int64("id", d.ID).
		Str("name", d.Name).
		Str("city", d.City).
		Str("category", d.Category).
		Float64("rating", d.Rating).
		Time("created_at", d.CreatedAt).
		Time("updated_at", d.UpdatedAt).
		Bool("stale", d.stale)
}

//------------------------------------------------------------------------------

// DestinationsFilter limit list of destinations; empty fields are ignored.
type DestinationsFilter struct {
	City      string
	Category  string
	MinRating float64
	Limit     uint
}

func (f *DestinationsFilter) Validate() error {
	if f.MinRating < MinRating || f.MinRating > MaxRating {
		return aerr.ErrValidation.WithUserMsg("invalid min rating")
	}

	return nil
}
