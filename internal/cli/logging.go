// logging.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
package cli

import (
	"fmt"
	"io"
	stdlog "log"
	"log/syslog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/journald"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/config"
)

const (
	logFormatConsole  = "console"
	logFormatLogfmt   = "logfmt"
	logFormatJSON     = "json"
	logFormatSyslog   = "syslog"
	logFormatJournald = "journald"
)

//nolint:gochecknoglobals
var logFormats = []string{logFormatConsole, logFormatLogfmt, logFormatJSON, logFormatSyslog, logFormatJournald}

// initializeLogger configure global logger level and output format; standard
// library logger is redirected to zerolog.
func initializeLogger(level, format string) error {
	zerolog.ErrorMarshalFunc = aerr.ErrorMarshalFunc //nolint:reassign

	console := outputIsConsole()

	writer, err := newLogWriter(resolveLogFormat(format, console), os.Stderr, console)
	if err != nil {
		return err
	}

	log.Logger = zerolog.New(writer).With().Timestamp().Caller().Logger()

	lvl, err := parseLogLevel(level)
	if err != nil {
		log.Warn().Err(err).Msgf("logger: unknown log level %q; using debug", level)
	}

	zerolog.SetGlobalLevel(lvl)

	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)

	return nil
}

func parseLogLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.DebugLevel, aerr.ErrInvalidConf.WithUserMsg("invalid log level %q", level)
	}

	return lvl, nil
}

// resolveLogFormat return known log format; for empty or unknown format
// console is used when stderr is terminal, logfmt otherwise.
func resolveLogFormat(format string, console bool) string {
	if slices.Contains(logFormats, format) {
		return format
	}

	if format != "" {
		fmt.Fprintf(os.Stderr, "unknown log format %q; using default\n", format)
	}

	if console {
		return logFormatConsole
	}

	return logFormatLogfmt
}

func newLogWriter(format string, out io.Writer, console bool) (io.Writer, error) {
	switch format {
	case logFormatJSON:
		return out, nil
	case logFormatSyslog:
		syslogwriter, err := syslog.New(syslog.LOG_USER, config.AppName)
		if err != nil {
			return nil, aerr.Wrapf(err, "init syslog error")
		}

		return zerolog.SyslogLevelWriter(syslogwriter), nil
	case logFormatJournald:
		return journald.NewJournalDWriter(), nil
	case logFormatLogfmt:
		return newLogfmtWriter(out), nil
	default:
		return newConsoleWriter(out, console), nil
	}
}

func outputIsConsole() bool {
	fileInfo, _ := os.Stderr.Stat()

	return fileInfo != nil && (fileInfo.Mode()&os.ModeCharDevice) != 0
}

// newConsoleWriter create human readable writer; on terminal colored with
// time only, otherwise with full timestamp.
func newConsoleWriter(out io.Writer, console bool) io.Writer {
	tformat := time.RFC3339
	if console {
		tformat = time.TimeOnly
	}

	return zerolog.ConsoleWriter{ //nolint:exhaustruct
		Out:        out,
		NoColor:    !console,
		TimeFormat: tformat,
	}
}

// newLogfmtWriter create writer that output all fields as key=value.
func newLogfmtWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{ //nolint:exhaustruct
		Out:        out,
		NoColor:    true,
		TimeFormat: time.RFC3339,
		FormatLevel: func(i any) string {
			if i == nil {
				return ""
			}

			return fmt.Sprintf("level=%s", i)
		},
		FormatTimestamp: func(i any) string { return fmt.Sprintf("ts=%s", i) },
		FormatMessage: func(i any) string {
			if i == nil {
				return "msg="
			}

			return "msg=" + strconv.Quote(fmt.Sprint(i))
		},
		FormatCaller: func(i any) string {
			if i == nil {
				return "caller=UNKNOWN"
			}

			return "caller=" + logfmtValue(i)
		},
		FormatFieldValue:    logfmtValue,
		FormatErrFieldValue: logfmtValue,
	}
}

// logfmtValue quote value when it contains spaces, quotes or '='. Values
// already quoted by ConsoleWriter are returned as is.
func logfmtValue(i any) string {
	if i == nil {
		return "<nil>"
	}

	s := fmt.Sprint(i)
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) > 1 {
		return s
	}

	if s == "" || strings.ContainsAny(s, " \"=") {
		return strconv.Quote(s)
	}

	return s
}
