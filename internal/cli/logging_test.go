package cli

//
// logging_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
		err   bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.DebugLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			lvl, err := parseLogLevel(tt.level)
			assert.Equal(t, lvl, tt.want)

			if tt.err {
				assert.ErrSpec(t, err, aerr.ErrInvalidConf)
			} else {
				assert.NoErr(t, err)
			}
		})
	}
}

func TestResolveLogFormat(t *testing.T) {
	assert.Equal(t, resolveLogFormat(logFormatJSON, true), logFormatJSON)
	assert.Equal(t, resolveLogFormat(logFormatJournald, false), logFormatJournald)
	assert.Equal(t, resolveLogFormat("", true), logFormatConsole)
	assert.Equal(t, resolveLogFormat("", false), logFormatLogfmt)
	assert.Equal(t, resolveLogFormat("xml", false), logFormatLogfmt)
}

func TestLogfmtWriter(t *testing.T) {
	var buf bytes.Buffer

	writer, err := newLogWriter(logFormatLogfmt, &buf, false)
	assert.NoErr(t, err)

	logger := zerolog.New(writer)
	logger.Info().Str("city", "Ubud").Str("name", "Tegallalang Rice Terrace").Msg("destination added")

	out := buf.String()
	assert.Contains(t, out, "level=info")
	assert.Contains(t, out, `msg="destination added"`)
	assert.Contains(t, out, "city=Ubud")
	assert.Contains(t, out, `name="Tegallalang Rice Terrace"`)
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer

	writer, err := newLogWriter(logFormatJSON, &buf, false)
	assert.NoErr(t, err)

	logger := zerolog.New(writer)
	logger.Warn().Int("id", 7).Msg("test")
	assert.Equal(t, buf.String(), `{"level":"warn","id":7,"message":"test"}`+"\n")
}
