// Package db provide database engine (connection pool) and scoped sessions.
//
// Engine is created once per process and injected where database access is
// required. SessionFactory create sessions bound to the engine; one session is
// one unit of work over at most one borrowed connection. Sessions are always
// closed when the scope that requested them exits (see InSession,
// InTransaction and SessionFactory.Sessions).
package db

//
// package.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import "github.com/samber/do/v2"

//nolint:gochecknoglobals
var Package = do.Package(
	do.Lazy(NewEngineI),
	do.Lazy(NewSessionFactoryI),
)
