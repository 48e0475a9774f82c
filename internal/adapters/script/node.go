package script

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgman/internal/adapters/fs"
	"go.trai.ch/pkgman/internal/adapters/logger"
	"go.trai.ch/pkgman/internal/core/ports"
)

// NodeID is the unique identifier for the build script evaluator node.
const NodeID graft.ID = "adapter.config_evaluator"

func init() {
	graft.Register(graft.Node[ports.ConfigEvaluator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.ResolverNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigEvaluator, error) {
			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewEvaluator(resolver, log), nil
		},
	})
}
