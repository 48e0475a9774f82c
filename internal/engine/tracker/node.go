package tracker

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgman/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pkgman/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pkgman/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pkgman/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pkgman/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pkgman/internal/core/ports"
)

// NodeID is the unique identifier for the tracker Graft node.
const NodeID graft.ID = "engine.tracker"

func init() {
	graft.Register(graft.Node[ports.Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			fs.HasherNodeID,
			cas.ManifestNodeID,
			fs.VerifierNodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (ports.Builder, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			manifests, err := graft.Dep[ports.ManifestStore](ctx)
			if err != nil {
				return nil, err
			}

			verifier, err := graft.Dep[ports.Verifier](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewTracker(executor, hasher, manifests, verifier, telemetry, log), nil
		},
	})
}
