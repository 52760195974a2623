package api

//
// mod_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-pariwisata/internal/assert"
	"gitlab.com/kabes/go-pariwisata/internal/config"
	"gitlab.com/kabes/go-pariwisata/internal/db"
	"gitlab.com/kabes/go-pariwisata/internal/infra"
	"gitlab.com/kabes/go-pariwisata/internal/service"
)

func prepareTests(t *testing.T) (context.Context, http.Handler) {
	t.Helper()

	ctx := context.Background()
	i := do.New(Package, service.Package, db.Package, infra.Package)

	dbconf := config.NewDBConfig(config.DriverSqlite, filepath.Join(t.TempDir(), "test.db"))
	dbconf.Echo = false
	do.ProvideValue(i, dbconf)

	engine := do.MustInvoke[*db.Engine](i)
	assert.NoErr(t, engine.Open(ctx))
	assert.NoErr(t, engine.Migrate(ctx))

	t.Cleanup(func() {
		i.ShutdownWithContext(context.Background())
	})

	api := do.MustInvoke[API](i)

	return ctx, api.Routes()
}

func doRequest(t *testing.T, handler http.Handler, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var res T

	assert.NoErr(t, json.NewDecoder(rec.Body).Decode(&res))

	return res
}
