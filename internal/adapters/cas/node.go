package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports"
)

const (
	// GraphCacheNodeID is the unique identifier for the graph cache node.
	GraphCacheNodeID graft.ID = "adapter.cas.graph_cache"
	// ManifestNodeID is the unique identifier for the hash manifest store node.
	ManifestNodeID graft.ID = "adapter.cas.manifest"
	// InstallStoreNodeID is the unique identifier for the install record store node.
	InstallStoreNodeID graft.ID = "adapter.cas.install_store"
)

func init() {
	graft.Register(graft.Node[ports.GraphCache]{
		ID:        GraphCacheNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.GraphCache, error) {
			return NewGraphCache(domain.DefaultDigestPath(), domain.DefaultGraphCachePath()), nil
		},
	})

	graft.Register(graft.Node[ports.ManifestStore]{
		ID:        ManifestNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ManifestStore, error) {
			return NewManifestStore(domain.DefaultManifestPath()), nil
		},
	})

	graft.Register(graft.Node[ports.InstallStore]{
		ID:        InstallStoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.InstallStore, error) {
			store, err := NewInstallStore(domain.DefaultInstallRecordsPath())
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
