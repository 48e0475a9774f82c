package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgman/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgman/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgman/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgman/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgman/internal/adapters/makefile"           //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgman/internal/adapters/registry"           //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgman/internal/adapters/scaffold"           //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgman/internal/adapters/script"             //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgman/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgman/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgman/internal/adapters/toolchain"          //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgman/internal/core/ports"
	"go.trai.ch/pkgman/internal/engine/tracker"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			script.NodeID,
			cas.GraphCacheNodeID,
			fs.HasherNodeID,
			toolchain.NodeID,
			makefile.NodeID,
			tracker.NodeID,
			registry.NodeID,
			cas.InstallStoreNodeID,
			shell.NodeID,
			scaffold.NodeID,
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
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

//nolint:cyclop // one lookup per port
func runAppNode(ctx context.Context) (*App, error) {
	var (
		deps Deps
		err  error
	)

	if deps.Settings, err = graft.Dep[ports.SettingsLoader](ctx); err != nil {
		return nil, err
	}
	if deps.Evaluator, err = graft.Dep[ports.ConfigEvaluator](ctx); err != nil {
		return nil, err
	}
	if deps.GraphCache, err = graft.Dep[ports.GraphCache](ctx); err != nil {
		return nil, err
	}
	if deps.Hasher, err = graft.Dep[ports.Hasher](ctx); err != nil {
		return nil, err
	}
	if deps.Toolchains, err = graft.Dep[ports.ToolchainResolver](ctx); err != nil {
		return nil, err
	}
	if deps.Emitter, err = graft.Dep[ports.Emitter](ctx); err != nil {
		return nil, err
	}
	if deps.Builder, err = graft.Dep[ports.Builder](ctx); err != nil {
		return nil, err
	}
	if deps.Fetcher, err = graft.Dep[ports.PackageFetcher](ctx); err != nil {
		return nil, err
	}
	if deps.Installs, err = graft.Dep[ports.InstallStore](ctx); err != nil {
		return nil, err
	}
	if deps.Executor, err = graft.Dep[ports.Executor](ctx); err != nil {
		return nil, err
	}
	if deps.Scaffolder, err = graft.Dep[ports.Scaffolder](ctx); err != nil {
		return nil, err
	}
	if deps.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
		return nil, err
	}

	return New(deps), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       app,
		Logger:    log,
		Telemetry: telemetry,
	}, nil
}
