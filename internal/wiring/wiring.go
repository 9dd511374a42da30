// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/weld/internal/adapters/buildlog"
	_ "go.trai.ch/weld/internal/adapters/cas"
	_ "go.trai.ch/weld/internal/adapters/config"
	_ "go.trai.ch/weld/internal/adapters/fs"
	_ "go.trai.ch/weld/internal/adapters/handoff"
	_ "go.trai.ch/weld/internal/adapters/logger"
	_ "go.trai.ch/weld/internal/adapters/orderer"
	_ "go.trai.ch/weld/internal/adapters/shell"
	_ "go.trai.ch/weld/internal/adapters/staleness"
	_ "go.trai.ch/weld/internal/adapters/symbols"
	_ "go.trai.ch/weld/internal/adapters/toolchain"
	_ "go.trai.ch/weld/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/weld/internal/app"
)
