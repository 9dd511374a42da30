package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/weld/internal/adapters/buildlog"
	"go.trai.ch/weld/internal/adapters/config"
	"go.trai.ch/weld/internal/adapters/handoff"
	"go.trai.ch/weld/internal/adapters/logger"
	"go.trai.ch/weld/internal/adapters/orderer"
	"go.trai.ch/weld/internal/adapters/staleness"
	"go.trai.ch/weld/internal/adapters/symbols"
	"go.trai.ch/weld/internal/adapters/toolchain"
	"go.trai.ch/weld/internal/adapters/watcher"
	"go.trai.ch/weld/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components the CLI layer needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			orderer.NodeID,
			toolchain.NodeID,
			staleness.NodeID,
			symbols.NodeID,
			buildlog.NodeID,
			handoff.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	modules, err := graft.Dep[ports.ModuleOrderer](ctx)
	if err != nil {
		return nil, err
	}

	toolchains, err := graft.Dep[ports.ToolchainProvider](ctx)
	if err != nil {
		return nil, err
	}

	oracle, err := graft.Dep[ports.StalenessOracle](ctx)
	if err != nil {
		return nil, err
	}

	allocator, err := graft.Dep[ports.SymbolAllocator](ctx)
	if err != nil {
		return nil, err
	}

	logs, err := graft.Dep[ports.BuildLogOpener](ctx)
	if err != nil {
		return nil, err
	}

	sink, err := graft.Dep[ports.ObjectSink](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, modules, toolchains, oracle, allocator, logs, sink, w, log), nil
}
