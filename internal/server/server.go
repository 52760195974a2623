//
// server.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

// Package server provide http servers for api and management endpoints.
package server

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-pariwisata/internal/api"
	"gitlab.com/kabes/go-pariwisata/internal/common"
	"gitlab.com/kabes/go-pariwisata/internal/config"
)

// Server serve api and, when configured on the same address, management endpoints.
type Server struct {
	httpServer

	cfg *config.ServerConf
}

func New(injector do.Injector) (*Server, error) {
	cfg := do.MustInvoke[*config.ServerConf](injector)
	apiRes := do.MustInvoke[api.API](injector)
	dbSessionMW := do.MustInvoke[dbSessionMiddleware](injector)
	logMW := do.MustInvoke[logMiddleware](injector)
	reg, _ := metricsRegistry(injector)

	webroot := cfg.MainServer.WebRoot

	router := chi.NewRouter()
	router.Use(middleware.Heartbeat(webroot + "/ping"))
	router.Use(middleware.RealIP)

	router.Group(func(group chi.Router) {
		group.Use(hlog.RequestIDHandler(common.LogKeyReqID, "Request-Id"))

		if cfg.DebugFlags.HasFlag(config.DebugFlightRecorder) {
			group.Use(newFRMiddleware())
		}

		if cfg.DebugFlags.HasFlag(config.DebugTrace) {
			group.Use(newTracingMiddleware(cfg))
		}

		group.Use(logMW)
		group.Use(newRecoverMiddleware)
		group.Use(middleware.CleanPath)
		group.Use(dbSessionMW)
		group.
			With(newPromMiddleware(reg, "api")).
			With(middleware.NoCache).
			Mount(webroot+"/", apiRes.Routes())
	})

	if cfg.MgmtEnabledOnMainServer() {
		createMgmtRouters(injector, router, cfg, cfg.MainServer)
	}

	return &Server{
		httpServer: newHTTPServer("Server", router, cfg.MainServer, cfg.DebugFlags),
		cfg:        cfg,
	}, nil
}

func (s *Server) Start(ctx context.Context) error {
	if s.cfg.MgmtEnabledOnMainServer() {
		log.Ctx(ctx).Warn().Msg("Server: management endpoints enabled on main server")
	}

	return s.httpServer.Start(ctx)
}
