package command

//
// destinations.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"strings"

	"gitlab.com/kabes/go-pariwisata/internal/common"
	"gitlab.com/kabes/go-pariwisata/internal/model"
)

type AddDestinationCmd struct {
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
}

func (a *AddDestinationCmd) Validate() error {
	return a.toModel().Validate()
}

func (a *AddDestinationCmd) toModel() *model.Destination {
	return &model.Destination{
		Name:        strings.TrimSpace(a.Name),
		City:        strings.TrimSpace(a.City),
		Category:    strings.ToLower(strings.TrimSpace(a.Category)),
		Description: strings.TrimSpace(a.Description),
		Rating:      a.Rating,
	}
}

// Destination return new destination object created from command.
func (a *AddDestinationCmd) Destination() *model.Destination {
	return a.toModel()
}

type AddDestinationCmdResult struct {
	DestinationID int64
}

// ------------------------------------------------------

type UpdateDestinationCmd struct {
	ID          int64   `json:"-"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
}

func (u *UpdateDestinationCmd) Validate() error {
	if u.ID <= 0 {
		return common.ErrInvalidDestination.WithUserMsg("invalid destination id")
	}

	add := AddDestinationCmd{u.Name, u.City, u.Category, u.Description, u.Rating}

	return add.Validate()
}

// Apply copy updated values to `dest`.
func (u *UpdateDestinationCmd) Apply(dest *model.Destination) {
	add := AddDestinationCmd{u.Name, u.City, u.Category, u.Description, u.Rating}
	upd := add.toModel()

	dest.Name = upd.Name
	dest.City = upd.City
	dest.Category = upd.Category
	dest.Description = upd.Description
	dest.Rating = upd.Rating
}

// ------------------------------------------------------

type DeleteDestinationCmd struct {
	ID int64
}

func (d *DeleteDestinationCmd) Validate() error {
	if d.ID <= 0 {
		return common.ErrInvalidDestination.WithUserMsg("invalid destination id")
	}

	return nil
}
