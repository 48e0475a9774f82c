// Package tracker drives incremental compilation of a build graph. A
// translation unit is recompiled only when the content of its source or of a
// header the compiler reports for it differs from the hash manifest.
package tracker

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Builder = (*Tracker)(nil)

// Tracker implements ports.Builder. Builds run sequentially; concurrent
// builds against the same output directory must be serialized by the caller.
type Tracker struct {
	executor  ports.Executor
	hasher    ports.Hasher
	manifests ports.ManifestStore
	verifier  ports.Verifier
	telemetry ports.Telemetry
	logger    ports.Logger
}

// NewTracker creates a new Tracker.
func NewTracker(
	executor ports.Executor,
	hasher ports.Hasher,
	manifests ports.ManifestStore,
	verifier ports.Verifier,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Tracker {
	return &Tracker{
		executor:  executor,
		hasher:    hasher,
		manifests: manifests,
		verifier:  verifier,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Build compiles every library and executable of graph, archives the
// libraries and links the executables. The first failure aborts the build
// and leaves the stored manifest untouched.
func (t *Tracker) Build(
	ctx context.Context,
	graph *domain.BuildGraph,
	toolchain domain.Toolchain,
	opts domain.BuildOptions,
) (*domain.BuildReport, error) {
	loaded, err := t.manifests.Load()
	if err != nil {
		if !errors.Is(err, domain.ErrManifestCorrupted) {
			return nil, zerr.Wrap(err, "failed to load hash manifest")
		}
		t.logger.Warn("hash manifest is corrupted, every translation unit will be recompiled")
		loaded = nil
	}
	if loaded == nil {
		loaded = domain.NewHashManifest()
	}

	r := &run{
		Tracker:   t,
		graph:     graph,
		toolchain: toolchain,
		opts:      opts,
		project:   graph.Project().Name,
		loaded:    loaded,
		pending:   domain.NewHashManifest(),
		report:    &domain.BuildReport{},
	}

	for _, lib := range graph.Libraries() {
		if err := r.library(ctx, lib); err != nil {
			return r.report, err
		}
	}
	for _, exe := range graph.Executables() {
		if err := r.executable(ctx, exe); err != nil {
			return r.report, err
		}
	}

	if err := t.manifests.Save(r.pending); err != nil {
		return r.report, zerr.Wrap(err, "failed to save hash manifest")
	}
	return r.report, nil
}

// run is the state of one Build call.
type run struct {
	*Tracker
	graph     *domain.BuildGraph
	toolchain domain.Toolchain
	opts      domain.BuildOptions
	project   string

	// loaded is the manifest as it was on disk; staleness is always judged
	// against it. pending holds only the files this build hashed and replaces
	// the stored manifest at the end.
	loaded  domain.HashManifest
	pending domain.HashManifest
	report  *domain.BuildReport
}

func (r *run) library(ctx context.Context, lib *domain.Target) error {
	objects, err := r.compileAll(ctx, lib)
	if err != nil {
		return err
	}
	return r.archive(ctx, lib, objects)
}

func (r *run) executable(ctx context.Context, exe *domain.Target) error {
	objects, err := r.compileAll(ctx, exe)
	if err != nil {
		return err
	}
	return r.link(ctx, exe, objects)
}

func (r *run) compileAll(ctx context.Context, target *domain.Target) ([]string, error) {
	objects := target.Objects(r.project)
	for i, src := range target.Sources {
		if err := ctx.Err(); err != nil {
			return nil, zerr.Wrap(err, "build canceled")
		}
		if err := r.compile(ctx, target, src, objects[i]); err != nil {
			return nil, err
		}
	}
	return objects, nil
}

func (r *run) compile(ctx context.Context, target *domain.Target, src, obj string) error {
	step := domain.StepResult{Kind: domain.StepCompile, Target: target.Name.String(), Input: src, Output: obj}
	_, vertex := r.telemetry.Record(ctx, "compile "+src)

	if !r.verifier.Exists(src) {
		return r.fail(step, vertex, zerr.With(zerr.Wrap(domain.ErrMissingFile, "source not found"), "path", src))
	}

	flags := r.graph.CompileFlags(target, r.verifier.Exists)
	deps, scanned := r.scan(ctx, src, flags)

	hashes, err := r.hash(deps)
	if err != nil {
		return r.fail(step, vertex, err)
	}

	if scanned && r.loaded.Matches(hashes) && r.verifier.Exists(obj) {
		r.logger.Info("skip " + src)
		r.pending.Merge(hashes)
		vertex.Cached()
		vertex.Complete(nil)
		step.Status = domain.StepStatusCached
		r.report.Record(step)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(obj), domain.DirPerm); err != nil {
		return r.fail(step, vertex, zerr.With(zerr.Wrap(err, "failed to create object directory"), "path", obj))
	}

	r.logger.Info("compile " + src)
	command := append([]string{r.toolchain.Compiler}, flags...)
	command = append(command, "-c", src, "-o", obj)
	if err := r.exec(ctx, command, vertex); err != nil {
		return r.fail(step, vertex, errors.Join(domain.ErrCompileFailed,
			zerr.With(zerr.Wrap(err, "failed to compile "+src), "path", src)))
	}

	r.pending.Merge(hashes)
	return r.done(step, vertex)
}

// scan asks the compiler for the files src depends on. The source is always
// part of the result. A failed scan is reported as not scanned, which forces
// a recompile.
func (r *run) scan(ctx context.Context, src string, flags []string) ([]string, bool) {
	command := append([]string{r.toolchain.Compiler, "-M"}, flags...)
	command = append(command, src)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	out, err := r.executor.Output(ctx, command)
	if err == nil {
		var deps []string
		deps, err = domain.ParseDependencyScan(string(out))
		if err == nil {
			return withSource(src, deps), true
		}
	}

	r.logger.Warn("dependency scan failed for " + src)
	return []string{src}, false
}

func (r *run) hash(paths []string) (map[string]string, error) {
	hashes := make(map[string]string, len(paths))
	for _, path := range paths {
		if !r.verifier.Exists(path) {
			continue
		}
		sum, err := r.hasher.ComputeFileHash(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to hash dependency"), "path", path)
		}
		hashes[path] = sum
	}
	return hashes, nil
}

func (r *run) archive(ctx context.Context, lib *domain.Target, objects []string) error {
	artifact := lib.Artifact()
	step := domain.StepResult{Kind: domain.StepArchive, Target: lib.Name.String(), Output: artifact}
	_, vertex := r.telemetry.Record(ctx, "archive "+artifact)

	if err := os.MkdirAll(filepath.Dir(artifact), domain.DirPerm); err != nil {
		return r.fail(step, vertex, zerr.With(zerr.Wrap(err, "failed to create library directory"), "path", artifact))
	}
	if err := os.Remove(artifact); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return r.fail(step, vertex, zerr.With(zerr.Wrap(err, "failed to remove stale archive"), "path", artifact))
	}

	r.logger.Info("archive " + artifact)
	command := append([]string{r.toolchain.Archiver, "rcs", artifact}, objects...)
	if err := r.exec(ctx, command, vertex); err != nil {
		return r.fail(step, vertex, errors.Join(domain.ErrArchiveFailed,
			zerr.With(zerr.Wrap(err, "failed to archive "+lib.Name.String()), "target", lib.Name.String())))
	}
	return r.done(step, vertex)
}

func (r *run) link(ctx context.Context, exe *domain.Target, objects []string) error {
	artifact := exe.Artifact()
	step := domain.StepResult{Kind: domain.StepLink, Target: exe.Name.String(), Output: artifact}
	_, vertex := r.telemetry.Record(ctx, "link "+artifact)

	if err := os.MkdirAll(filepath.Dir(artifact), domain.DirPerm); err != nil {
		return r.fail(step, vertex, zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", artifact))
	}

	r.logger.Info("link " + artifact)
	command := append([]string{r.toolchain.LinkDriver}, objects...)
	command = append(command, "-o", artifact)
	command = append(command, r.graph.LinkFlags(exe, r.verifier.Exists)...)
	command = append(command, r.graph.Config().LDFlags()...)
	if err := r.exec(ctx, command, vertex); err != nil {
		return r.fail(step, vertex, errors.Join(domain.ErrLinkFailed,
			zerr.With(zerr.Wrap(err, "failed to link "+exe.Name.String()), "target", exe.Name.String())))
	}
	return r.done(step, vertex)
}

func (r *run) exec(ctx context.Context, command []string, vertex ports.Vertex) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.executor.Execute(ctx, command, vertex.Stdout(), vertex.Stderr())
}

func (r *run) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.Timeout > 0 {
		return context.WithTimeout(ctx, r.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

func (r *run) done(step domain.StepResult, vertex ports.Vertex) error {
	vertex.Complete(nil)
	step.Status = domain.StepStatusCompleted
	r.report.Record(step)
	return nil
}

func (r *run) fail(step domain.StepResult, vertex ports.Vertex, err error) error {
	vertex.Complete(err)
	step.Status = domain.StepStatusFailed
	r.report.Record(step)
	return err
}

func withSource(src string, deps []string) []string {
	for _, d := range deps {
		if d == src {
			return deps
		}
	}
	return append([]string{src}, deps...)
}
