// Package repository define interfaces of data access objects.
// Repositories use session from context (db.MustCtx).
package repository

//
// repository.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"gitlab.com/kabes/go-pariwisata/internal/model"
)

// ------------------------------------------------------

type DestinationsRepository interface {
	GetDestination(ctx context.Context, id int64) (*model.Destination, error)
	FindDestination(ctx context.Context, name, city string) (*model.Destination, error)
	ListDestinations(ctx context.Context, filter *model.DestinationsFilter) ([]*model.Destination, error)
	SaveDestination(ctx context.Context, destination *model.Destination) (int64, error)
	DeleteDestination(ctx context.Context, id int64) error
	CountDestinations(ctx context.Context) (int, error)
}

type MaintenanceRepository interface {
	Maintenance(ctx context.Context) error
}

type Repository interface {
	DestinationsRepository
	MaintenanceRepository
}
