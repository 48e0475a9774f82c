// Package toolchain locates the C compiler, archiver and linker on the search path.
package toolchain

import (
	"sync"

	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ToolchainResolver = (*Resolver)(nil)

// LookupFunc reports whether a binary is on the search path.
type LookupFunc func(name string) (string, error)

// Resolver implements ports.ToolchainResolver. Probe results are cached for
// the lifetime of the resolver.
type Resolver struct {
	lookup LookupFunc

	mu     sync.Mutex
	probed map[string]string
}

// NewResolver creates a Resolver that probes with lookup.
func NewResolver(lookup LookupFunc) *Resolver {
	return &Resolver{
		lookup: lookup,
		probed: make(map[string]string),
	}
}

// Resolve returns the toolchain. Every category without an override is
// probed in candidate order and the first present binary wins, recorded by
// its bare name. The link driver is the linker override if there is one,
// and the compiler otherwise.
func (r *Resolver) Resolve(overrides domain.ToolOverrides) (domain.Toolchain, error) {
	compiler, err := r.pick(domain.ToolCompiler, overrides.Compiler, domain.CompilerCandidates)
	if err != nil {
		return domain.Toolchain{}, err
	}
	archiver, err := r.pick(domain.ToolArchiver, overrides.Archiver, domain.ArchiverCandidates)
	if err != nil {
		return domain.Toolchain{}, err
	}
	linker, err := r.pick(domain.ToolLinker, overrides.Linker, domain.LinkerCandidates)
	if err != nil {
		return domain.Toolchain{}, err
	}

	driver := compiler
	if overrides.Linker != "" {
		driver = overrides.Linker
	}

	return domain.Toolchain{
		Compiler:   compiler,
		Archiver:   archiver,
		Linker:     linker,
		LinkDriver: driver,
	}, nil
}

func (r *Resolver) pick(category, override string, candidates []string) (string, error) {
	if override != "" {
		return override, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if found, ok := r.probed[category]; ok {
		return found, nil
	}

	for _, candidate := range candidates {
		if _, err := r.lookup(candidate); err == nil {
			r.probed[category] = candidate
			return candidate, nil
		}
	}

	return "", zerr.With(zerr.With(zerr.Wrap(domain.ErrToolchainNotFound, "no candidate on PATH"),
		"category", category), "candidates", candidates)
}
