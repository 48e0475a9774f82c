package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	pkgfs "go.trai.ch/pkgman/internal/adapters/fs"
	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestStore = (*ManifestStore)(nil)

// ManifestStore implements ports.ManifestStore as an indented JSON object.
type ManifestStore struct {
	path string
}

// NewManifestStore creates a store for the manifest file at path.
func NewManifestStore(path string) *ManifestStore {
	return &ManifestStore{path: filepath.Clean(path)}
}

// Load returns the stored manifest. A missing or empty file yields an empty
// manifest. An undecodable file yields an empty manifest and an error
// wrapping domain.ErrManifestCorrupted.
func (s *ManifestStore) Load() (domain.HashManifest, error) {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewHashManifest(), nil
		}
		return domain.NewHashManifest(), zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", s.path)
	}

	manifest := domain.NewHashManifest()
	if len(data) == 0 {
		return manifest, nil
	}

	if err := json.Unmarshal(data, &manifest); err != nil {
		return domain.NewHashManifest(), errors.Join(
			domain.ErrManifestCorrupted,
			zerr.With(zerr.Wrap(err, "failed to unmarshal manifest"), "path", s.path),
		)
	}
	if manifest == nil {
		manifest = domain.NewHashManifest()
	}
	return manifest, nil
}

// Save replaces the stored manifest atomically.
func (s *ManifestStore) Save(manifest domain.HashManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal manifest")
	}

	if err := pkgfs.WriteFileAtomic(s.path, data); err != nil {
		return zerr.Wrap(err, "failed to write manifest")
	}
	return nil
}
