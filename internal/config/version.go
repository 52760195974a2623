package config

//
// version.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"runtime/debug"
)

const AppName = "go-pariwisata"

// Set by ldflags.
//
//nolint:gochecknoglobals
var (
	Version   = "dev"
	Revision  = ""
	BuildDate = ""
	BuildUser = ""
	Branch    = ""

	VersionString = buildVersionString()
)

func buildVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("Ver: %s, Rev: %s, Build: %s by %s from %s",
			Version, Revision, BuildDate, BuildUser, Branch)
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}

	var dirty string

	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			Revision = kv.Value
		case "vcs.time":
			BuildDate = kv.Value
		case "vcs.modified":
			dirty = kv.Value
		}
	}

	return fmt.Sprintf("Rev: %s at %s %s", Revision, BuildDate, dirty)
}
