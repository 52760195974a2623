package service

//
// destinations_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"testing"

	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-pariwisata/internal/assert"
	"gitlab.com/kabes/go-pariwisata/internal/command"
	"gitlab.com/kabes/go-pariwisata/internal/common"
	"gitlab.com/kabes/go-pariwisata/internal/db"
	"gitlab.com/kabes/go-pariwisata/internal/query"
)

func TestDestinationsAddGet(t *testing.T) {
	ctx, i := prepareTests(t)
	srv := do.MustInvoke[*DestinationsSrv](i)

	id := prepareTestDestination(ctx, t, i, "Borobudur", "Magelang", 4.8)
	assert.True(t, id > 0)

	dest, err := srv.GetDestination(ctx, &query.GetDestinationQuery{ID: id})
	assert.NoErr(t, err)
	assert.Equal(t, dest.ID, id)
	assert.Equal(t, dest.Name, "Borobudur")
	assert.Equal(t, dest.City, "Magelang")
	assert.Equal(t, dest.Category, "nature")
	assert.Equal(t, dest.Rating, 4.8)
	assert.False(t, dest.CreatedAt.IsZero())
	// session is closed but object state is still valid
	assert.False(t, dest.Stale())

	_, err = srv.GetDestination(ctx, &query.GetDestinationQuery{ID: id + 100})
	assert.ErrSpec(t, err, common.ErrUnknownDestination)
}

func TestDestinationsAddDuplicate(t *testing.T) {
	ctx, i := prepareTests(t)
	srv := do.MustInvoke[*DestinationsSrv](i)

	prepareTestDestination(ctx, t, i, "Borobudur", "Magelang", 4.8)

	_, err := srv.AddDestination(ctx, &command.AddDestinationCmd{Name: "Borobudur", City: "magelang"})
	assert.ErrSpec(t, err, common.ErrDestinationExists)

	_, err = srv.AddDestination(ctx, &command.AddDestinationCmd{Name: "", City: "Magelang"})
	assert.ErrSpec(t, err, common.ErrInvalidDestination)
}

func TestDestinationsList(t *testing.T) {
	ctx, i := prepareTests(t)
	srv := do.MustInvoke[*DestinationsSrv](i)

	prepareTestDestination(ctx, t, i, "Borobudur", "Magelang", 4.8)
	prepareTestDestination(ctx, t, i, "Prambanan", "Sleman", 4.7)
	prepareTestDestination(ctx, t, i, "Merapi", "Sleman", 4.2)
	prepareTestDestination(ctx, t, i, "Malioboro", "Yogyakarta", 3.9)

	dests, err := srv.ListDestinations(ctx, &query.ListDestinationsQuery{})
	assert.NoErr(t, err)
	assert.Equal(t, len(dests), 4)
	// ordered by rating
	assert.Equal(t, dests[0].Name, "Borobudur")
	assert.Equal(t, dests[3].Name, "Malioboro")

	dests, err = srv.ListDestinations(ctx, &query.ListDestinationsQuery{City: "sleman"})
	assert.NoErr(t, err)
	assert.Equal(t, len(dests), 2)
	assert.Equal(t, dests[0].Name, "Prambanan")
	assert.Equal(t, dests[1].Name, "Merapi")

	dests, err = srv.ListDestinations(ctx, &query.ListDestinationsQuery{MinRating: 4.5})
	assert.NoErr(t, err)
	assert.Equal(t, len(dests), 2)

	dests, err = srv.ListDestinations(ctx, &query.ListDestinationsQuery{Limit: 1, Category: "Nature"})
	assert.NoErr(t, err)
	assert.Equal(t, len(dests), 1)

	dests, err = srv.ListDestinations(ctx, &query.ListDestinationsQuery{Category: "beach"})
	assert.NoErr(t, err)
	assert.Equal(t, len(dests), 0)
}

func TestDestinationsUpdate(t *testing.T) {
	ctx, i := prepareTests(t)
	srv := do.MustInvoke[*DestinationsSrv](i)

	id := prepareTestDestination(ctx, t, i, "Kuta", "Badung", 4.0)
	prepareTestDestination(ctx, t, i, "Sanur", "Denpasar", 4.1)

	dest, err := srv.UpdateDestination(ctx, &command.UpdateDestinationCmd{
		ID: id, Name: "Kuta Beach", City: "Badung", Category: "beach", Rating: 4.4,
	})
	assert.NoErr(t, err)
	assert.Equal(t, dest.Name, "Kuta Beach")
	// object loaded in committed transaction is not expired
	assert.False(t, dest.Stale())

	dest, err = srv.GetDestination(ctx, &query.GetDestinationQuery{ID: id})
	assert.NoErr(t, err)
	assert.Equal(t, dest.Name, "Kuta Beach")
	assert.Equal(t, dest.Category, "beach")
	assert.Equal(t, dest.Rating, 4.4)

	_, err = srv.UpdateDestination(ctx, &command.UpdateDestinationCmd{
		ID: id + 100, Name: "Kuta Beach", City: "Badung",
	})
	assert.ErrSpec(t, err, common.ErrUnknownDestination)

	// unique name in city
	_, err = srv.UpdateDestination(ctx, &command.UpdateDestinationCmd{ID: id, Name: "Sanur", City: "Denpasar"})
	assert.ErrSpec(t, err, common.ErrDestinationExists)
}

func TestDestinationsUpdateExpireOnCommit(t *testing.T) {
	ctx, i := prepareTests(t)
	engine := do.MustInvoke[*db.Engine](i)

	id := prepareTestDestination(ctx, t, i, "Kuta", "Badung", 4.0)

	srv := &DestinationsSrv{
		sessions: db.NewSessionFactory(engine, db.SessionOptions{ExpireOnCommit: true}),
		destRepo: do.MustInvoke[*DestinationsSrv](i).destRepo,
	}

	dest, err := srv.UpdateDestination(ctx, &command.UpdateDestinationCmd{ID: id, Name: "Kuta", City: "Badung"})
	assert.NoErr(t, err)
	assert.True(t, dest.Stale())
}

func TestDestinationsDelete(t *testing.T) {
	ctx, i := prepareTests(t)
	srv := do.MustInvoke[*DestinationsSrv](i)

	id := prepareTestDestination(ctx, t, i, "Kuta", "Badung", 4.0)

	assert.NoErr(t, srv.DeleteDestination(ctx, &command.DeleteDestinationCmd{ID: id}))
	assert.ErrSpec(t, srv.DeleteDestination(ctx, &command.DeleteDestinationCmd{ID: id}),
		common.ErrUnknownDestination)

	_, err := srv.GetDestination(ctx, &query.GetDestinationQuery{ID: id})
	assert.ErrSpec(t, err, common.ErrUnknownDestination)
}

func TestDestinationsSharedSession(t *testing.T) {
	ctx, i := prepareTests(t)
	srv := do.MustInvoke[*DestinationsSrv](i)
	factory := do.MustInvoke[*db.SessionFactory](i)

	// all service calls in one request reuse session from context
	err := db.InSession(ctx, factory, func(ctx context.Context, session *db.Session) error {
		res, err := srv.AddDestination(ctx, &command.AddDestinationCmd{Name: "Ubud", City: "Gianyar"})
		if err != nil {
			return err
		}

		dest, err := srv.GetDestination(ctx, &query.GetDestinationQuery{ID: res.DestinationID})
		if err != nil {
			return err
		}

		assert.Equal(t, dest.Name, "Ubud")
		assert.False(t, session.Closed())

		return nil
	})
	assert.NoErr(t, err)
}

func TestMaintenance(t *testing.T) {
	ctx, i := prepareTests(t)
	srv := do.MustInvoke[*MaintenanceSrv](i)

	prepareTestDestination(ctx, t, i, "Kuta", "Badung", 4.0)

	assert.NoErr(t, srv.MaintainDatabase(ctx))
}
