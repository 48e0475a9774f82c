package makefile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgman/internal/adapters/fs"
	"go.trai.ch/pkgman/internal/core/ports"
)

// NodeID is the unique identifier for the Makefile emitter node.
const NodeID graft.ID = "adapter.makefile"

func init() {
	graft.Register(graft.Node[ports.Emitter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.VerifierNodeID},
		Run: func(ctx context.Context) (ports.Emitter, error) {
			verifier, err := graft.Dep[ports.Verifier](ctx)
			if err != nil {
				return nil, err
			}
			return NewEmitter(verifier), nil
		},
	})
}
