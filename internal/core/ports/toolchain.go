package ports

import "go.trai.ch/pkgman/internal/core/domain"

// ToolchainResolver locates the compiler, archiver and linker.
//
//go:generate go run go.uber.org/mock/mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type ToolchainResolver interface {
	// Resolve returns the toolchain, probing the search path for every
	// category the overrides leave empty.
	Resolve(overrides domain.ToolOverrides) (domain.Toolchain, error)
}
