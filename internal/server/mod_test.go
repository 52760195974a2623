package server

//
// mod_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-pariwisata/internal/api"
	"gitlab.com/kabes/go-pariwisata/internal/assert"
	"gitlab.com/kabes/go-pariwisata/internal/config"
	"gitlab.com/kabes/go-pariwisata/internal/db"
	"gitlab.com/kabes/go-pariwisata/internal/infra"
	"gitlab.com/kabes/go-pariwisata/internal/service"
)

func prepareTests(t *testing.T, cfg *config.ServerConf) *do.RootScope {
	t.Helper()

	ctx := context.Background()
	i := do.New(Package, api.Package, service.Package, db.Package, infra.Package)

	dbconf := config.NewDBConfig(config.DriverSqlite, filepath.Join(t.TempDir(), "test.db"))
	dbconf.Echo = false
	do.ProvideValue(i, dbconf)
	do.ProvideValue(i, prometheus.NewRegistry())

	if cfg == nil {
		cfg = &config.ServerConf{MainServer: config.ListenConf{Address: "127.0.0.1:0"}}
	}

	assert.NoErr(t, cfg.Validate())
	do.ProvideValue(i, cfg)

	engine := do.MustInvoke[*db.Engine](i)
	assert.NoErr(t, engine.Open(ctx))
	assert.NoErr(t, engine.Migrate(ctx))

	t.Cleanup(func() {
		i.ShutdownWithContext(context.Background())
	})

	return i
}

func doRequest(handler http.Handler, method, url, remote, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")

	if remote != "" {
		req.RemoteAddr = remote
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}
