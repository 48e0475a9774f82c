// Package cas implements the persisted build state: the graph cache, the hash
// manifest and the install records.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	pkgfs "go.trai.ch/pkgman/internal/adapters/fs"
	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InstallStore = (*InstallStore)(nil)

// InstallStore implements ports.InstallStore using a flat JSON file.
type InstallStore struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.InstallRecord
}

// NewInstallStore creates a new InstallStore backed by the file at the given path.
func NewInstallStore(path string) (*InstallStore, error) {
	s := &InstallStore{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.InstallRecord),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *InstallStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read install records")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal install records"), "path", s.path)
	}

	return nil
}

func (s *InstallStore) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.cache, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return zerr.Wrap(err, "failed to marshal install records")
	}

	if err := pkgfs.WriteFileAtomic(s.path, data); err != nil {
		return zerr.Wrap(err, "failed to write install records")
	}
	return nil
}

// Get retrieves the record for a package name.
func (s *InstallStore) Get(name string) (*domain.InstallRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.cache[name]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Put stores the record.
func (s *InstallStore) Put(record domain.InstallRecord) error {
	// Update cache first
	s.mu.Lock()
	s.cache[record.Name] = record
	s.mu.Unlock()

	// Then save to disk
	return s.save()
}
