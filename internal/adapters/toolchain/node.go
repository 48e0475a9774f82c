package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgman/internal/adapters/shell"
	"go.trai.ch/pkgman/internal/core/ports"
)

// NodeID is the unique identifier for the toolchain resolver node.
const NodeID graft.ID = "adapter.toolchain"

func init() {
	graft.Register(graft.Node[ports.ToolchainResolver]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ToolchainResolver, error) {
			return NewResolver(shell.LookPath), nil
		},
	})
}
