package ports

import (
	"context"

	"go.trai.ch/pkgman/internal/core/domain"
)

// PackageFetcher downloads registry packages.
//
//go:generate go run go.uber.org/mock/mockgen -source=package_manager.go -destination=mocks/mock_package_manager.go -package=mocks
type PackageFetcher interface {
	// Fetch resolves the package folder for the host platform and downloads
	// every file below it. It returns the local directory holding the files.
	Fetch(ctx context.Context, req domain.DependencyRequest, opts domain.FetchOptions) (dir string, err error)
}

// Scaffolder creates the skeleton of a new project.
type Scaffolder interface {
	// Init scaffolds dir and returns the project name it used.
	Init(dir, name string) (string, error)
}
