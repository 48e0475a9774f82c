// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/pkgman/internal/adapters/cas"
	_ "go.trai.ch/pkgman/internal/adapters/config"
	_ "go.trai.ch/pkgman/internal/adapters/fs"
	_ "go.trai.ch/pkgman/internal/adapters/logger"
	_ "go.trai.ch/pkgman/internal/adapters/makefile"
	_ "go.trai.ch/pkgman/internal/adapters/registry"
	_ "go.trai.ch/pkgman/internal/adapters/scaffold"
	_ "go.trai.ch/pkgman/internal/adapters/script"
	_ "go.trai.ch/pkgman/internal/adapters/shell"
	_ "go.trai.ch/pkgman/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/pkgman/internal/adapters/toolchain"
	// Register app and engine nodes.
	_ "go.trai.ch/pkgman/internal/app"
	_ "go.trai.ch/pkgman/internal/engine/tracker"
)
