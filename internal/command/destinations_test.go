package command

//
// destinations_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"testing"

	"gitlab.com/kabes/go-pariwisata/internal/assert"
	"gitlab.com/kabes/go-pariwisata/internal/common"
	"gitlab.com/kabes/go-pariwisata/internal/model"
)

func TestAddDestinationCmd(t *testing.T) {
	cmd := AddDestinationCmd{
		Name:     " Tanah Lot ",
		City:     "Tabanan",
		Category: " Temple",
		Rating:   4.5,
	}
	assert.NoErr(t, cmd.Validate())

	dest := cmd.Destination()
	assert.Equal(t, dest.Name, "Tanah Lot")
	assert.Equal(t, dest.Category, "temple")
	assert.Equal(t, dest.ID, int64(0))

	cmd.City = ""
	assert.ErrSpec(t, cmd.Validate(), common.ErrInvalidDestination)
}

func TestUpdateDestinationCmd(t *testing.T) {
	cmd := UpdateDestinationCmd{Name: "Kuta Beach", City: "Badung", Rating: 4}
	assert.ErrSpec(t, cmd.Validate(), common.ErrInvalidDestination)

	cmd.ID = 12
	assert.NoErr(t, cmd.Validate())

	dest := model.Destination{ID: 12, Name: "Kuta", City: "Bali", Rating: 1}
	cmd.Apply(&dest)
	assert.Equal(t, dest, model.Destination{ID: 12, Name: "Kuta Beach", City: "Badung", Rating: 4})
}

func TestDeleteDestinationCmd(t *testing.T) {
	assert.Err(t, (&DeleteDestinationCmd{}).Validate())
	assert.NoErr(t, (&DeleteDestinationCmd{ID: 1}).Validate())
}
