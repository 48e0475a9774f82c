package ports

import (
	"context"
	"io"

	"go.trai.ch/pkgman/internal/core/domain"
)

// Emitter serializes a build graph into a native build script.
//
//go:generate go run go.uber.org/mock/mockgen -source=build.go -destination=mocks/mock_build.go -package=mocks
type Emitter interface {
	Emit(w io.Writer, graph *domain.BuildGraph, toolchain domain.Toolchain) error
}

// Builder compiles, archives and links a build graph in-process.
type Builder interface {
	Build(
		ctx context.Context,
		graph *domain.BuildGraph,
		toolchain domain.Toolchain,
		opts domain.BuildOptions,
	) (*domain.BuildReport, error)
}
