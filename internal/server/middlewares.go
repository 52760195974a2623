package server

//
// middlewares.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-pariwisata/internal/common"
	"gitlab.com/kabes/go-pariwisata/internal/config"
	"gitlab.com/kabes/go-pariwisata/internal/db"
	"gitlab.com/kabes/go-pariwisata/internal/server/srvsupport"
)

type (
	logMiddleware       func(http.Handler) http.Handler
	dbSessionMiddleware func(http.Handler) http.Handler
)

//-------------------------------------------------------------

func newLogMiddleware(i do.Injector) (logMiddleware, error) {
	cfg := do.MustInvoke[*config.ServerConf](i)
	rl := requestLog{withBody: cfg.DebugFlags.HasFlag(config.DebugMsgBody)}

	return rl.handler, nil
}

// requestLog log start and end of each request; with `withBody` also headers
// and bodies of request and response.
type requestLog struct {
	withBody bool
}

func (rl requestLog) handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if shouldSkipLogRequest(request) {
			next.ServeHTTP(writer, request)

			return
		}

		start := time.Now()
		llog, request := requestLogger(request)

		event := llog.Info().
			Str("url", request.URL.Redacted()).
			Str("remote", request.RemoteAddr).
			Str("method", request.Method)
		if rl.withBody {
			event = event.Interface(common.LogKeyRequestHeaders, request.Header)
		}

		event.Msg("webhandler: request start")

		lrw := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)

		var reqBody, respBody bytes.Buffer

		if rl.withBody {
			request.Body = io.NopCloser(io.TeeReader(request.Body, &reqBody))
			lrw.Tee(&respBody)
		}

		defer func() {
			if rl.withBody {
				llog.Debug().
					Str("request_body", reqBody.String()).
					Str("response_body", respBody.String()).
					Interface(common.LogKeyResponseHeaders, lrw.Header()).
					Msg("webhandler: request data")
			}

			llog.WithLevel(logLevelForStatus(lrw.Status())).
				Str("uri", request.RequestURI).
				Int("status", lrw.Status()).
				Int("size", lrw.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("webhandler: request finished")
		}()

		next.ServeHTTP(lrw, request)
	})
}

func requestLogger(request *http.Request) (zerolog.Logger, *http.Request) {
	ctx := request.Context()
	requestID, _ := hlog.IDFromCtx(ctx)
	llog := log.Logger.With().Str(common.LogKeyReqID, requestID.String()).Logger()

	return llog, request.WithContext(llog.WithContext(ctx))
}

func logLevelForStatus(status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest && status != http.StatusNotFound:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// shouldSkipLogRequest determine which request should not be logged.
func shouldSkipLogRequest(request *http.Request) bool {
	path := request.URL.Path

	return strings.HasPrefix(path, "/metrics") || strings.HasPrefix(path, "/debug")
}

//-------------------------------------------------------------

func newVerySimpleLogMiddleware(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			llog, request := requestLogger(request)
			start := time.Now()
			lrw := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)

			next.ServeHTTP(lrw, request)

			llog.Debug().
				Str("method", request.Method).
				Str("uri", request.RequestURI).
				Int("status", lrw.Status()).
				Dur("duration", time.Since(start)).
				Msgf("%s: request finished", name)
		})
	}
}

//-------------------------------------------------------------

func newRecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func(ctx context.Context) {
			rec := recover()
			if rec == nil {
				return
			}

			logger := log.Ctx(ctx)

			switch t := rec.(type) {
			case error:
				if errors.Is(t, http.ErrAbortHandler) {
					panic(t)
				}

				logger.Error().Err(t).Msg("panic when handling request")
			case string:
				logger.Error().Str("err", t).Msg("panic when handling request")
			default:
				logger.Error().Interface("err", t).Msg("panic when handling request")
			}

			if req.Header.Get("Connection") != "Upgrade" {
				srvsupport.WriteError(w, req, http.StatusInternalServerError, "")
			}
		}(req.Context())

		next.ServeHTTP(w, req)
	})
}

//-------------------------------------------------------------

// newDBSessionMiddleware put into request context one database session.
// Session is connected on first use and closed when request is finished.
func newDBSessionMiddleware(i do.Injector) (dbSessionMiddleware, error) {
	factory := do.MustInvoke[*db.SessionFactory](i)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			for session, err := range factory.Sessions(req.Context()) {
				if err != nil {
					hlog.FromRequest(req).Error().Err(err).Msg("create db session failed")
					srvsupport.CheckAndWriteError(w, req, err)

					return
				}

				ctx := req.Context()
				logger := log.Ctx(ctx).With().Str(common.LogKeySessionID, session.ID()).Logger()
				ctx = db.WithCtx(logger.WithContext(ctx), session)

				next.ServeHTTP(w, req.WithContext(ctx))
			}
		})
	}, nil
}
