package srvsupport

//
// httpsupport.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/common"
)

//nolint:gochecknoglobals
var ErrInvalidBody = aerr.New("invalid request body").WithTag(aerr.DataError).
	WithUserMsg("invalid request body")

// HandlerFunc is http handler with context and request logger.
type HandlerFunc func(ctx context.Context, w http.ResponseWriter, r *http.Request, logger *zerolog.Logger)

// WrapNamed add context and logger to handler. `name` is put as `handler` in logger context.
func WrapNamed(handler HandlerFunc, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := hlog.FromRequest(r).
			With().Str("handler", name).
			Logger()

		ctx := logger.WithContext(r.Context())
		r = r.WithContext(ctx)

		handler(ctx, w, r, &logger)
	}
}

// WriteError write error response; json if client send json.
func WriteError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if msg == "" {
		msg = http.StatusText(code)
	}

	if acceptJSON(r) {
		res := struct {
			Error string `json:"error"`
		}{msg}

		render.Status(r, code)
		RenderJSON(w, r, &res)

		return
	}

	http.Error(w, msg, code)
}

// StatusForError map application error into http status code.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, common.ErrUnknownDestination):
		return http.StatusNotFound

	case errors.Is(err, common.ErrDestinationExists):
		return http.StatusConflict

	case aerr.HasTag(err, aerr.InternalError):
		return http.StatusInternalServerError

	case aerr.HasTag(err, aerr.ValidationError), aerr.HasTag(err, aerr.DataError):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// CheckAndWriteError decode and write error to ResponseWriter.
func CheckAndWriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusForError(err)

	msg := aerr.GetUserMessage(err)
	if status == http.StatusInternalServerError && !aerr.HasTag(err, aerr.InternalError) {
		// unknown error; newer show details
		msg = ""
	}

	WriteError(w, r, status, msg)
}

func acceptJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
