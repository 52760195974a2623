package db

//
// errors.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import "gitlab.com/kabes/go-pariwisata/internal/aerr"

//nolint:gochecknoglobals
var (
	ErrEngineClosed      = aerr.New("database engine is not open").WithTag(aerr.InternalError)
	ErrSessionClosed     = aerr.New("session is closed").WithTag(aerr.InternalError)
	ErrTransactionActive = aerr.New("transaction already started").WithTag(aerr.InternalError)
	ErrNoTransaction     = aerr.New("no active transaction").WithTag(aerr.InternalError)
	ErrSequenceConsumed  = aerr.New("session sequence already consumed").WithTag(aerr.InternalError)
)
