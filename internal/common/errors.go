package common

//
// Common application errors
//
// errors.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"

	"gitlab.com/kabes/go-pariwisata/internal/aerr"
)

// Validation errors.
//
//nolint:gochecknoglobals
var (
	ErrUnknownDestination = aerr.New("unknown destination").WithTag(aerr.ValidationError).
				WithUserMsg("destination not found")
	ErrInvalidDestination = aerr.New("invalid destination").WithTag(aerr.ValidationError)
	ErrDestinationExists  = aerr.New("destination exists").WithTag(aerr.ValidationError).
				WithUserMsg("destination with this name already exists in the city")
)

//nolint:gochecknoglobals
var ErrNoData = errors.New("no result")
