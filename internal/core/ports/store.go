package ports

import "go.trai.ch/pkgman/internal/core/domain"

// GraphCache persists the last evaluated build graph together with the
// digest of the script it came from.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type GraphCache interface {
	// Digest returns the stored script digest, or "" if there is none.
	Digest() (string, error)

	// Load returns the cached graph, or nil, nil if there is none.
	Load() (*domain.BuildGraph, error)

	// Store saves the graph first and the digest second.
	Store(digest string, graph *domain.BuildGraph) error
}

// ManifestStore persists the hash manifest.
type ManifestStore interface {
	// Load returns the stored manifest. A missing file yields an empty manifest.
	Load() (domain.HashManifest, error)

	// Save replaces the stored manifest.
	Save(manifest domain.HashManifest) error
}

// InstallStore records which packages have been installed.
type InstallStore interface {
	// Get retrieves the record for a package name.
	// Returns nil, nil if not found.
	Get(name string) (*domain.InstallRecord, error)

	// Put stores the record.
	Put(record domain.InstallRecord) error
}
