package scaffold

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgman/internal/core/ports"
)

// NodeID is the unique identifier for the scaffolder node.
const NodeID graft.ID = "adapter.scaffold"

func init() {
	graft.Register(graft.Node[ports.Scaffolder]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Scaffolder, error) {
			return New(), nil
		},
	})
}
