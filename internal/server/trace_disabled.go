//go:build !trace

package server

//
// trace_disabled.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"gitlab.com/kabes/go-pariwisata/internal/config"
)

func newTracingMiddleware(_ *config.ServerConf) func(http.Handler) http.Handler {
	return passThrough
}

func mountXTrace(_ chi.Router, _ string) {}

func newFRMiddleware() func(http.Handler) http.Handler {
	return passThrough
}

func passThrough(next http.Handler) http.Handler {
	return next
}
