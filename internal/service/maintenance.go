//
// maintenance.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package service

import (
	"context"

	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-pariwisata/internal/db"
	"gitlab.com/kabes/go-pariwisata/internal/repository"
)

type MaintenanceSrv struct {
	sessions  *db.SessionFactory
	maintRepo repository.MaintenanceRepository
}

func NewMaintenanceSrv(i do.Injector) (*MaintenanceSrv, error) {
	return &MaintenanceSrv{
		sessions:  do.MustInvoke[*db.SessionFactory](i),
		maintRepo: do.MustInvoke[repository.MaintenanceRepository](i),
	}, nil
}

// MaintainDatabase run maintenance scripts. Scripts are run outside transaction.
func (m *MaintenanceSrv) MaintainDatabase(ctx context.Context) error {
	//nolint:wrapcheck
	return db.InSession(ctx, m.sessions, func(ctx context.Context, _ *db.Session) error {
		return m.maintRepo.Maintenance(ctx)
	})
}
