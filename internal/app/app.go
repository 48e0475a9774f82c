// Package app implements the application layer for pkgman.
package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"

	pkgfs "go.trai.ch/pkgman/internal/adapters/fs" //nolint:depguard // Atomic writes shared with the adapters
	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports"
	"go.trai.ch/zerr"
)

// Deps groups the ports the App orchestrates.
type Deps struct {
	Settings   ports.SettingsLoader
	Evaluator  ports.ConfigEvaluator
	GraphCache ports.GraphCache
	Hasher     ports.Hasher
	Toolchains ports.ToolchainResolver
	Emitter    ports.Emitter
	Builder    ports.Builder
	Fetcher    ports.PackageFetcher
	Installs   ports.InstallStore
	Executor   ports.Executor
	Scaffolder ports.Scaffolder
	Logger     ports.Logger
}

// App represents the main application logic.
type App struct {
	Deps

	settingsPath string
	stdout       io.Writer
	stderr       io.Writer
}

// New creates a new App instance.
func New(deps Deps) *App {
	return &App{
		Deps:         deps,
		settingsPath: domain.SettingsFileName,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// GlobalOptions are the options shared by every command.
type GlobalOptions struct {
	// SettingsPath overrides the settings file. Empty keeps pkgman.yaml.
	SettingsPath string
	// JSON switches the logger to JSON output.
	JSON bool
}

// Configure applies the global options.
func (a *App) Configure(opts GlobalOptions) {
	if opts.SettingsPath != "" {
		a.settingsPath = opts.SettingsPath
	}
	if j, ok := a.Logger.(interface{ SetJSON(bool) }); ok {
		j.SetJSON(opts.JSON)
	}
}

// WithOutput redirects the output of install scripts. Used for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// EmitOnly writes the Makefile without compiling anything.
	EmitOnly bool
}

// Build evaluates the build script, installs missing packages, writes the
// Makefile and, unless EmitOnly is set, builds every target in-process.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	settings, err := a.Settings.Load(a.settingsPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load settings")
	}

	graph, err := a.loadGraph(ctx, settings.Script)
	if err != nil {
		return err
	}

	if err := a.installMissing(ctx, settings, graph); err != nil {
		return err
	}

	toolchain, err := a.Toolchains.Resolve(graph.Config().Overrides())
	if err != nil {
		return err
	}

	if err := a.emit(settings.Makefile, graph, toolchain); err != nil {
		return err
	}

	if opts.EmitOnly {
		return nil
	}

	report, err := a.Builder.Build(ctx, graph, toolchain, domain.BuildOptions{Timeout: settings.Timeout})
	if err != nil {
		return zerr.Wrap(err, "build failed")
	}

	a.Logger.Info("compiled " + strconv.Itoa(report.Count(domain.StepCompile, domain.StepStatusCompleted)) +
		", up to date " + strconv.Itoa(report.Count(domain.StepCompile, domain.StepStatusCached)))
	for _, artifact := range report.Artifacts() {
		a.Logger.Info("built " + artifact)
	}
	return nil
}

// Generate writes the Makefile without building.
func (a *App) Generate(ctx context.Context) error {
	return a.Build(ctx, BuildOptions{EmitOnly: true})
}

// Clean removes the build directory. A missing directory is not an error.
func (a *App) Clean(_ context.Context) error {
	if _, err := os.Stat(domain.BuildDirName); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			a.Logger.Info("nothing to clean")
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to stat build directory"), "path", domain.BuildDirName)
	}

	if err := os.RemoveAll(domain.BuildDirName); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove build directory"), "path", domain.BuildDirName)
	}
	a.Logger.Info("removed " + domain.BuildDirName)
	return nil
}

// Rebuild cleans and then builds.
func (a *App) Rebuild(ctx context.Context) error {
	if err := a.Clean(ctx); err != nil {
		return err
	}
	return a.Build(ctx, BuildOptions{})
}

// InitOptions configuration for the Init method.
type InitOptions struct {
	// Name of the project. Empty uses the directory name.
	Name string
}

// Init scaffolds a new project in the working directory.
func (a *App) Init(_ context.Context, opts InitOptions) error {
	wd, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to get working directory")
	}

	a.Logger.Info("initializing C project in " + wd)
	name, err := a.Scaffolder.Init(wd, opts.Name)
	if err != nil {
		return zerr.Wrap(err, "failed to initialize project")
	}
	a.Logger.Info("project " + name + " initialized")
	return nil
}

// loadGraph reuses the cached graph while the script digest is unchanged and
// evaluates the script otherwise. Cache failures only cost a re-evaluation.
func (a *App) loadGraph(ctx context.Context, script string) (*domain.BuildGraph, error) {
	digest, hashErr := a.Hasher.ComputeFileHash(script)
	if hashErr == nil {
		if graph := a.cachedGraph(digest); graph != nil {
			a.Logger.Info(script + " unchanged, using cached build graph")
			return graph, nil
		}
	}

	graph, err := a.Evaluator.Evaluate(ctx, script)
	if err != nil {
		return nil, err
	}

	if hashErr == nil {
		if err := a.GraphCache.Store(digest, graph); err != nil {
			a.Logger.Warn("failed to cache build graph: " + err.Error())
		}
	}
	return graph, nil
}

func (a *App) cachedGraph(digest string) *domain.BuildGraph {
	stored, err := a.GraphCache.Digest()
	if err != nil {
		a.Logger.Warn("failed to read graph digest: " + err.Error())
		return nil
	}
	if stored == "" || stored != digest {
		return nil
	}

	graph, err := a.GraphCache.Load()
	if err != nil {
		a.Logger.Warn("cached build graph is unusable, re-evaluating: " + err.Error())
		return nil
	}
	return graph
}

func (a *App) emit(path string, graph *domain.BuildGraph, toolchain domain.Toolchain) error {
	var buf bytes.Buffer
	if err := a.Emitter.Emit(&buf, graph, toolchain); err != nil {
		return err
	}
	if err := pkgfs.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return zerr.Wrap(err, "failed to write makefile")
	}
	a.Logger.Info("generated " + path)
	return nil
}
