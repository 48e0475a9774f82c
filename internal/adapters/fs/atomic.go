package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/zerr"
)

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", dir)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temp file"), "path", path)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	if _, writeErr := tmpFile.Write(data); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return zerr.With(zerr.Wrap(writeErr, "failed to write temp file"), "path", path)
	}

	if syncErr := tmpFile.Sync(); syncErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return zerr.With(zerr.Wrap(syncErr, "failed to sync temp file"), "path", path)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return zerr.With(zerr.Wrap(closeErr, "failed to close temp file"), "path", path)
	}

	if err := os.Chmod(tmpPath, domain.FilePerm); err != nil {
		cleanup()
		return zerr.With(zerr.Wrap(err, "failed to set file permissions"), "path", path)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return zerr.With(zerr.Wrap(err, "failed to rename temp file"), "path", path)
	}
	return nil
}
