//
// httpserver.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package server

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/config"
)

const (
	defaultReadTimeout    = 60 * time.Second
	defaultWriteTimeout   = 60 * time.Second
	defaultMaxHeaderBytes = 1 << 20
)

// httpServer is http.Server bound to one ListenConf; shared by api and management servers.
type httpServer struct {
	name       string
	router     *chi.Mux
	listenConf config.ListenConf
	logRoutes  bool

	s *http.Server
}

func newHTTPServer(name string, router *chi.Mux, lcfg config.ListenConf, debugFlags config.DebugFlags) httpServer {
	return httpServer{
		name:       name,
		router:     router,
		listenConf: lcfg,
		logRoutes:  debugFlags.HasFlag(config.DebugRouter),
		s: &http.Server{
			Addr:           lcfg.Address,
			Handler:        router,
			ReadTimeout:    defaultReadTimeout,
			WriteTimeout:   defaultWriteTimeout,
			MaxHeaderBytes: defaultMaxHeaderBytes,
		},
	}
}

// Handler return root http handler of server.
func (h *httpServer) Handler() http.Handler {
	return h.router
}

// Start listening and serve requests in background.
func (h *httpServer) Start(ctx context.Context) error {
	if h.logRoutes {
		logRoutes(ctx, h.name, h.router)
	}

	listener, err := newListener(ctx, h.listenConf)
	if err != nil {
		return aerr.Wrapf(err, "start listen error").WithMeta("server", h.name)
	}

	log.Logger.Log().Msgf("%s: listen on address=%s https=%v webroot=%q",
		h.name, listener.Addr(), h.listenConf.TLSEnabled(), h.listenConf.WebRoot)

	go func() {
		if err := h.s.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Error().Err(err).Msgf("%s: serve error: %s", h.name, err)
		}
	}()

	return nil
}

// Shutdown gracefully stop server; called by injector on shutdown.
func (h *httpServer) Shutdown(ctx context.Context) error {
	logger := log.Ctx(ctx)
	logger.Debug().Msgf("%s: stopping...", h.name)

	if err := h.s.Shutdown(ctx); err != nil {
		return aerr.Wrapf(err, "shutdown server failed").WithMeta("server", h.name)
	}

	logger.Debug().Msgf("%s: stopped", h.name)

	return nil
}

//-------------------------------------------------------------

func logRoutes(ctx context.Context, name string, r chi.Routes) {
	logger := log.Ctx(ctx)

	walkFunc := func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		logger.Debug().Msgf("%s: ROUTE: %s %s", name, method, strings.ReplaceAll(route, "/*/", "/"))

		return nil
	}

	if err := chi.Walk(r, walkFunc); err != nil {
		logger.Error().Err(err).Msgf("%s: routers walk error: %s", name, err)
	}
}

func newListener(ctx context.Context, cfg config.ListenConf) (net.Listener, error) {
	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", cfg.Address)
	if err != nil {
		return nil, aerr.Wrapf(err, "listen failed").WithMeta("address", cfg.Address)
	}

	if !cfg.TLSEnabled() {
		return listener, nil
	}

	cert, err := tls.LoadX509KeyPair(cfg.TLSCert, cfg.TLSKey)
	if err != nil {
		_ = listener.Close()

		return nil, aerr.Wrapf(err, "load certificates failed").
			WithMeta("cert", cfg.TLSCert, "key", cfg.TLSKey)
	}

	return tls.NewListener(listener, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}), nil
}
