package registry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgman/internal/adapters/logger"
	"go.trai.ch/pkgman/internal/core/ports"
)

// NodeID is the unique identifier for the package fetcher node.
const NodeID graft.ID = "adapter.registry"

func init() {
	graft.Register(graft.Node[ports.PackageFetcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.PackageFetcher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFetcher(log), nil
		},
	})
}
