package srvsupport

//
// httpsupport_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gitlab.com/kabes/go-pariwisata/internal/aerr"
	"gitlab.com/kabes/go-pariwisata/internal/assert"
	"gitlab.com/kabes/go-pariwisata/internal/common"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{common.ErrUnknownDestination, http.StatusNotFound},
		{fmt.Errorf("get: %w", common.ErrUnknownDestination), http.StatusNotFound},
		{common.ErrDestinationExists, http.StatusConflict},
		{common.ErrInvalidDestination.WithUserMsg("name can't be empty"), http.StatusBadRequest},
		{ErrInvalidBody, http.StatusBadRequest},
		{aerr.ErrDatabase, http.StatusInternalServerError},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, StatusForError(tt.err), tt.status)
	}
}

func TestCheckAndWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", common.ErrInvalidDestination.WithUserMsg("name can't be empty"), 400, `{"error":"name can't be empty"}`},
		{"not found", common.ErrUnknownDestination, 404, `{"error":"destination not found"}`},
		{"internal", aerr.ErrDatabase, 500, `{"error":"database error"}`},
		{"unknown", errors.New("secret details"), 500, `{"error":"Internal Server Error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			CheckAndWriteError(rec, req, tt.err)

			assert.Equal(t, rec.Code, tt.status)
			assert.Equal(t, strings.TrimSpace(rec.Body.String()), tt.body)
		})
	}
}

func TestWriteErrorPlain(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, http.StatusNotFound, "")

	assert.Equal(t, rec.Code, http.StatusNotFound)
	assert.Equal(t, strings.TrimSpace(rec.Body.String()), "Not Found")
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name": "Kuta"}`))
	assert.NoErr(t, DecodeJSON(req, &v))
	assert.Equal(t, v.Name, "Kuta")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name": `))
	err := DecodeJSON(req, &v)
	assert.ErrSpec(t, err, ErrInvalidBody)
	assert.True(t, aerr.HasTag(err, aerr.DataError))
}
