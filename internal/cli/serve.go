package cli

//
// serve.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Merovius/systemd"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/api"
	"gitlab.com/kabes/go-pariwisata/internal/common"
	"gitlab.com/kabes/go-pariwisata/internal/config"
	"gitlab.com/kabes/go-pariwisata/internal/db"
	"gitlab.com/kabes/go-pariwisata/internal/server"
	"gitlab.com/kabes/go-pariwisata/internal/service"
)

func newStartServerCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Value:   ":8080",
				Usage:   "listen address",
				Aliases: []string{"a"},
				Sources: cli.EnvVars("PARIWISATA_SERVER_ADDRESS"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "web-root",
				Value:   "/",
				Usage:   "path root",
				Sources: cli.EnvVars("PARIWISATA_SERVER_WEBROOT"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.BoolFlag{
				Name:    "enable-metrics",
				Usage:   "enable prometheus metrics (/metrics endpoint)",
				Sources: cli.EnvVars("PARIWISATA_SERVER_METRICS"),
			},
			&cli.StringFlag{
				Name:      "cert",
				Usage:     "tls certificate file",
				Sources:   cli.EnvVars("PARIWISATA_SERVER_CERT"),
				Config:    cli.StringConfig{TrimSpace: true},
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:      "key",
				Usage:     "tls key file",
				Sources:   cli.EnvVars("PARIWISATA_SERVER_KEY"),
				Config:    cli.StringConfig{TrimSpace: true},
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:    "mgmt-address",
				Value:   "",
				Usage:   "listen address for management endpoints; empty disable management; may be the same as main 'address'",
				Aliases: []string{"m"},
				Sources: cli.EnvVars("PARIWISATA_MGMT_SERVER_ADDRESS"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "mgmt-access-list",
				Value:   "",
				Usage:   "list of ip or networks separated by ',' allowed to connected to mgmt endpoints.",
				Sources: cli.EnvVars("PARIWISATA_MGMT_SERVER_ACCESS_LIST"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.BoolFlag{
				Name:    "migrate",
				Usage:   "update database schema before start",
				Value:   true,
				Sources: cli.EnvVars("PARIWISATA_SERVER_MIGRATE"),
			},
			&cli.BoolFlag{
				Name:    "background-maintenance",
				Usage:   "run database maintenance every day at 4:00 UTC",
				Sources: cli.EnvVars("PARIWISATA_SERVER_MAINTENANCE"),
			},
		},
		Action: wrap(startServerCmd),
	}
}

func startServerCmd(ctx context.Context, clicmd *cli.Command, rootInjector do.Injector) error {
	injector := rootInjector.Scope("server",
		api.Package,
		server.Package,
	)

	serverConf := config.ServerConf{
		MainServer: config.ListenConf{
			Address: strings.TrimSpace(clicmd.String("address")),
			WebRoot: strings.TrimSuffix(clicmd.String("web-root"), "/"),
			TLSKey:  clicmd.String("key"),
			TLSCert: clicmd.String("cert"),
		},
		MgmtServer: config.ListenConf{
			Address: strings.TrimSpace(clicmd.String("mgmt-address")),
		},
		DebugFlags:     config.NewDebugFLags(clicmd.String("debug")),
		EnableMetrics:  clicmd.Bool("enable-metrics"),
		MgmtAccessList: clicmd.String("mgmt-access-list"),
	}

	if err := serverConf.Validate(); err != nil {
		return aerr.Wrapf(err, "server config validation failed")
	}

	do.ProvideValue(injector, &serverConf)

	if serverConf.DebugFlags.HasFlag(config.DebugDo) {
		enableDoDebug(ctx, injector.RootScope())
	}

	if !common.TracingAvailable && (serverConf.DebugFlags.HasFlag(config.DebugTrace) ||
		serverConf.DebugFlags.HasFlag(config.DebugFlightRecorder)) {
		log.Ctx(ctx).Warn().Msg("Server: tracing debug flags ignored; binary built without 'trace' tag")
	}

	s := Server{
		migrate:     clicmd.Bool("migrate"),
		maintenance: clicmd.Bool("background-maintenance"),
	}

	return s.start(ctx, injector, &serverConf)
}

type Server struct {
	migrate     bool
	maintenance bool
}

func (s *Server) start(ctx context.Context, injector do.Injector, cfg *config.ServerConf) error {
	logger := log.Ctx(ctx)
	logger.Log().Msgf("Starting %s (%s)...", config.AppName, config.VersionString)
	logger.Debug().Msgf("Server: debug_flags=%q", cfg.DebugFlags)

	engine := do.MustInvoke[*db.Engine](injector)

	if s.migrate {
		if err := engine.Migrate(ctx); err != nil {
			return aerr.Wrapf(err, "migrate database failed")
		}
	}

	if cfg.EnableMetrics {
		if err := engine.RegisterMetrics(prometheus.DefaultRegisterer,
			cfg.DebugFlags.HasFlag(config.DebugDBQueryMetrics)); err != nil {
			return aerr.Wrapf(err, "register database metrics failed")
		}
	}

	s.startSystemdWatchdog(logger)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	srv := do.MustInvoke[*server.Server](injector)
	if err := srv.Start(ctx); err != nil {
		return aerr.Wrapf(err, "start server failed")
	}

	if cfg.SeparateMgmtEnabled() {
		msrv := do.MustInvoke[*server.MgmtServer](injector)
		if err := msrv.Start(ctx); err != nil {
			return aerr.Wrapf(err, "start mgmt server failed")
		}
	}

	if s.maintenance {
		maintSrv := do.MustInvoke[*service.MaintenanceSrv](injector)
		go s.runBackgroundMaintenance(ctx, maintSrv)
	}

	systemd.NotifyReady()           //nolint:errcheck
	systemd.NotifyStatus("running") //nolint:errcheck

	<-ctx.Done()

	logger.Log().Msg("Server: shutting down...")
	systemd.NotifyStatus("stopping") //nolint:errcheck

	return nil
}

func (*Server) startSystemdWatchdog(logger *zerolog.Logger) {
	if ok, dur, err := systemd.AutoWatchdog(); ok {
		logger.Info().Msgf("Systemd: autowatchdog started; duration=%s", dur)
	} else if err != nil {
		logger.Warn().Err(err).Msgf("Systemd: autowatchdog start error=%q", err)
	}
}

// nextMaintenanceRun return time of next maintenance run after `now`.
func nextMaintenanceRun(now time.Time) time.Time {
	const startHour = 4

	now = now.UTC()
	nextRun := time.Date(now.Year(), now.Month(), now.Day(), startHour, 0, 0, 0, time.UTC)

	if !nextRun.After(now) {
		nextRun = nextRun.AddDate(0, 0, 1)
	}

	return nextRun
}

func (s *Server) runBackgroundMaintenance(ctx context.Context, maintSrv *service.MaintenanceSrv) {
	logger := log.Ctx(ctx)
	logger.Info().Msg("Maintenance: start background maintenance task")

	eventlog := common.NewEventLog("db maintenance", "worker")
	defer eventlog.Close()

	for {
		nextRun := nextMaintenanceRun(time.Now())
		wait := time.Until(nextRun)

		logger.Debug().Msgf("Maintenance: next_run=%q wait=%q", nextRun, wait)
		eventlog.Printf("maintenance next_run=%q wait=%q", nextRun, wait)

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
			taskid := xid.New()
			llog := logger.With().Str("task_id", taskid.String()).Logger()
			eventlog.Printf("start maintenance task_id=%s", taskid.String())

			if err := maintSrv.MaintainDatabase(hlog.CtxWithID(llog.WithContext(ctx), taskid)); err != nil {
				llog.Error().Err(err).Msgf("Maintenance: run database maintenance task error=%q", err)
				eventlog.Errorf("maintenance error task_id=%s error=%q", taskid.String(), err)
			} else {
				eventlog.Printf("maintenance finished task_id=%s", taskid.String())
			}
		}
	}
}
