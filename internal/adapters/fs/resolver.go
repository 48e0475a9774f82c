package fs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements the InputResolver interface using doublestar globs,
// so "**" matches any number of directories.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveInputs resolves the given patterns to a sorted list of regular files,
// relative to root and using forward slashes.
// A pattern without glob metacharacters names one file, which must exist.
// A glob may match nothing.
func (r *Resolver) ResolveInputs(patterns []string, root string) ([]string, error) {
	if root == "" {
		root = "."
	}
	uniquePaths := make(map[string]struct{})

	for _, pattern := range patterns {
		path := filepath.Join(root, filepath.FromSlash(pattern))

		if !isGlob(pattern) {
			if _, err := os.Stat(path); err != nil {
				return nil, zerr.With(zerr.Wrap(domain.ErrMissingFile, "input not found"), "path", path)
			}
			uniquePaths[filepath.ToSlash(filepath.Clean(pattern))] = struct{}{}
			continue
		}

		matches, err := doublestar.FilepathGlob(path, doublestar.WithFilesOnly())
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", path)
		}

		for _, match := range matches {
			rel, err := filepath.Rel(root, match)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to relativize match"), "path", match)
			}
			uniquePaths[filepath.ToSlash(rel)] = struct{}{}
		}
	}

	result := make([]string, 0, len(uniquePaths))
	for path := range uniquePaths {
		result = append(result, path)
	}
	slices.Sort(result)

	return result, nil
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
