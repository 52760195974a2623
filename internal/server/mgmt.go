//
// mgmt.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package server

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	dochi "github.com/samber/do/http/chi/v2"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-pariwisata/internal/common"
	"gitlab.com/kabes/go-pariwisata/internal/config"
)

// MgmtServer serve health, metrics and debug endpoints on separate address.
type MgmtServer struct {
	httpServer
}

func NewMgmt(injector do.Injector) (*MgmtServer, error) {
	cfg := do.MustInvoke[*config.ServerConf](injector)

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Heartbeat(cfg.MgmtServer.WebRoot + "/ping"))

	createMgmtRouters(injector, router, cfg, cfg.MgmtServer)

	return &MgmtServer{
		httpServer: newHTTPServer("MgmtServer", router, cfg.MgmtServer, cfg.DebugFlags),
	}, nil
}

//-------------------------------------------------------------

// createMgmtRouters register management endpoints in router. Debug endpoints
// are enabled by debug flags and guarded by management access list.
func createMgmtRouters(injector do.Injector, router *chi.Mux, cfg *config.ServerConf, scfg config.ListenConf) {
	webroot := scfg.WebRoot
	flags := cfg.DebugFlags

	router.Get(webroot+"/health", newHealthChecker(injector, cfg))

	if cfg.EnableMetrics {
		router.Method(http.MethodGet, webroot+"/metrics", newMetricsHandler(metricsRegistry(injector)))
	}

	if !flags.HasFlag(config.DebugDo) && !flags.HasFlag(config.DebugGo) && !flags.HasFlag(config.DebugTrace) {
		return
	}

	router.Group(func(group chi.Router) {
		group.Use(hlog.RequestIDHandler(common.LogKeyReqID, "Request-Id"))
		group.Use(newVerySimpleLogMiddleware("MgmtServer"))
		group.Use(newRecoverMiddleware)
		group.Use(middleware.CleanPath)
		group.Use(newAuthMgmtMiddleware(cfg))

		if flags.HasFlag(config.DebugDo) {
			dochi.Use(router, webroot+"/debug/do", injector)
		}

		if flags.HasFlag(config.DebugGo) {
			group.Mount(webroot+"/debug", middleware.Profiler())
		}

		if flags.HasFlag(config.DebugTrace) {
			mountXTrace(group, webroot)
		}
	})
}

// newAuthMgmtMiddleware reject requests not accepted by ServerConf.AuthMgmtRequest.
func newAuthMgmtMiddleware(cfg *config.ServerConf) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowed, _ := cfg.AuthMgmtRequest(r); !allowed {
				hlog.FromRequest(r).Warn().Str("remote", r.RemoteAddr).Msg("MgmtServer: access denied")
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// newHealthChecker create handler for /health endpoint that run health checks
// of all services in injector (database engine ping). Response is "ok" or
// "error" with 503 status.
func newHealthChecker(injector do.Injector, cfg *config.ServerConf) http.HandlerFunc {
	rootscope := injector.RootScope()

	return func(w http.ResponseWriter, r *http.Request) {
		if allowed, _ := cfg.AuthMgmtRequest(r); !allowed {
			w.WriteHeader(http.StatusForbidden)

			return
		}

		var failed []string

		for service, err := range rootscope.HealthCheckWithContext(r.Context()) {
			if err != nil {
				log.Logger.Error().Err(err).Str("service", service).
					Msgf("HealthChecker: service=%q failed on healthcheck: %s", service, err)

				failed = append(failed, service)
			}
		}

		if len(failed) == 0 {
			render.PlainText(w, r, "ok")

			return
		}

		slices.Sort(failed)
		log.Logger.Warn().Strs("services", failed).Msg("HealthChecker: unhealthy")

		render.Status(r, http.StatusServiceUnavailable)
		render.PlainText(w, r, "error")
	}
}
