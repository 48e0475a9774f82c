package app_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pkgman/internal/app"
	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var toolchain = domain.Toolchain{Compiler: "cc", Archiver: "ar", Linker: "ld", LinkDriver: "cc"}

type fixture struct {
	app        *app.App
	settings   *mocks.MockSettingsLoader
	evaluator  *mocks.MockConfigEvaluator
	graphCache *mocks.MockGraphCache
	hasher     *mocks.MockHasher
	toolchains *mocks.MockToolchainResolver
	emitter    *mocks.MockEmitter
	builder    *mocks.MockBuilder
	fetcher    *mocks.MockPackageFetcher
	installs   *mocks.MockInstallStore
	executor   *mocks.MockExecutor
	scaffolder *mocks.MockScaffolder

	infos []string
	warns []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Chdir(t.TempDir())

	ctrl := gomock.NewController(t)
	f := &fixture{
		settings:   mocks.NewMockSettingsLoader(ctrl),
		evaluator:  mocks.NewMockConfigEvaluator(ctrl),
		graphCache: mocks.NewMockGraphCache(ctrl),
		hasher:     mocks.NewMockHasher(ctrl),
		toolchains: mocks.NewMockToolchainResolver(ctrl),
		emitter:    mocks.NewMockEmitter(ctrl),
		builder:    mocks.NewMockBuilder(ctrl),
		fetcher:    mocks.NewMockPackageFetcher(ctrl),
		installs:   mocks.NewMockInstallStore(ctrl),
		executor:   mocks.NewMockExecutor(ctrl),
		scaffolder: mocks.NewMockScaffolder(ctrl),
	}

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).Do(func(msg string) { f.infos = append(f.infos, msg) }).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).Do(func(msg string) { f.warns = append(f.warns, msg) }).AnyTimes()

	f.app = app.New(app.Deps{
		Settings:   f.settings,
		Evaluator:  f.evaluator,
		GraphCache: f.graphCache,
		Hasher:     f.hasher,
		Toolchains: f.toolchains,
		Emitter:    f.emitter,
		Builder:    f.builder,
		Fetcher:    f.fetcher,
		Installs:   f.installs,
		Executor:   f.executor,
		Scaffolder: f.scaffolder,
		Logger:     log,
	}).WithOutput(io.Discard, io.Discard)

	return f
}

func demoGraph(t *testing.T) *domain.BuildGraph {
	t.Helper()
	g := domain.NewBuildGraph()
	require.NoError(t, g.AddTarget(&domain.Target{
		Kind:    domain.TargetExecutable,
		Name:    domain.NewInternedString("app"),
		Sources: []string{"src/main.c"},
	}))
	return g
}

// expectFreshGraph sets up a cache miss followed by an evaluation of g.
func (f *fixture) expectFreshGraph(g *domain.BuildGraph) {
	f.settings.EXPECT().Load("pkgman.yaml").Return(domain.DefaultSettings(), nil)
	f.hasher.EXPECT().ComputeFileHash("pkgman.star").Return("digest-1", nil)
	f.graphCache.EXPECT().Digest().Return("", nil)
	f.evaluator.EXPECT().Evaluate(gomock.Any(), "pkgman.star").Return(g, nil)
	f.graphCache.EXPECT().Store("digest-1", g).Return(nil)
}

func (f *fixture) expectEmit(g *domain.BuildGraph) {
	f.toolchains.EXPECT().Resolve(domain.ToolOverrides{}).Return(toolchain, nil)
	f.emitter.EXPECT().Emit(gomock.Any(), g, toolchain).DoAndReturn(
		func(w io.Writer, _ *domain.BuildGraph, _ domain.Toolchain) error {
			_, err := io.WriteString(w, "all: build/app\n")
			return err
		})
}

func TestApp_Build(t *testing.T) {
	f := newFixture(t)
	g := demoGraph(t)

	f.expectFreshGraph(g)
	f.expectEmit(g)

	report := &domain.BuildReport{}
	report.Record(domain.StepResult{Kind: domain.StepCompile, Target: "app", Input: "src/main.c", Status: domain.StepStatusCompleted})
	report.Record(domain.StepResult{Kind: domain.StepLink, Target: "app", Output: "build/app", Status: domain.StepStatusCompleted})
	f.builder.EXPECT().Build(gomock.Any(), g, toolchain, domain.BuildOptions{}).Return(report, nil)

	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{}))

	makefile, err := os.ReadFile("Makefile")
	require.NoError(t, err)
	assert.Equal(t, "all: build/app\n", string(makefile))
	assert.Contains(t, f.infos, "generated Makefile")
	assert.Contains(t, f.infos, "compiled 1, up to date 0")
	assert.Contains(t, f.infos, "built build/app")
}

func TestApp_Build_EmitOnly(t *testing.T) {
	f := newFixture(t)
	g := demoGraph(t)

	f.expectFreshGraph(g)
	f.expectEmit(g)

	require.NoError(t, f.app.Generate(context.Background()))
	assert.FileExists(t, "Makefile")
}

func TestApp_Build_UsesCachedGraph(t *testing.T) {
	f := newFixture(t)
	g := demoGraph(t)

	f.settings.EXPECT().Load("pkgman.yaml").Return(domain.DefaultSettings(), nil)
	f.hasher.EXPECT().ComputeFileHash("pkgman.star").Return("digest-1", nil)
	f.graphCache.EXPECT().Digest().Return("digest-1", nil)
	f.graphCache.EXPECT().Load().Return(g, nil)
	f.expectEmit(g)

	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{EmitOnly: true}))
	assert.Contains(t, f.infos, "pkgman.star unchanged, using cached build graph")
}

func TestApp_Build_StaleDigestReevaluates(t *testing.T) {
	f := newFixture(t)
	g := demoGraph(t)

	f.settings.EXPECT().Load("pkgman.yaml").Return(domain.DefaultSettings(), nil)
	f.hasher.EXPECT().ComputeFileHash("pkgman.star").Return("digest-2", nil)
	f.graphCache.EXPECT().Digest().Return("digest-1", nil)
	f.evaluator.EXPECT().Evaluate(gomock.Any(), "pkgman.star").Return(g, nil)
	f.graphCache.EXPECT().Store("digest-2", g).Return(errors.New("disk full"))
	f.expectEmit(g)

	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{EmitOnly: true}))
	require.Len(t, f.warns, 1)
	assert.Contains(t, f.warns[0], "failed to cache build graph")
}

func TestApp_Build_CorruptCacheReevaluates(t *testing.T) {
	f := newFixture(t)
	g := demoGraph(t)

	f.settings.EXPECT().Load("pkgman.yaml").Return(domain.DefaultSettings(), nil)
	f.hasher.EXPECT().ComputeFileHash("pkgman.star").Return("digest-1", nil)
	f.graphCache.EXPECT().Digest().Return("digest-1", nil)
	f.graphCache.EXPECT().Load().Return(nil, errors.New("bad json"))
	f.evaluator.EXPECT().Evaluate(gomock.Any(), "pkgman.star").Return(g, nil)
	f.graphCache.EXPECT().Store("digest-1", g).Return(nil)
	f.expectEmit(g)

	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{EmitOnly: true}))
	assert.Len(t, f.warns, 1)
}

func TestApp_Build_MissingScriptSkipsCache(t *testing.T) {
	f := newFixture(t)

	evalErr := errors.Join(domain.ErrConfigEvaluation, domain.ErrMissingFile)
	f.settings.EXPECT().Load("pkgman.yaml").Return(domain.DefaultSettings(), nil)
	f.hasher.EXPECT().ComputeFileHash("pkgman.star").Return("", errors.New("no such file"))
	f.evaluator.EXPECT().Evaluate(gomock.Any(), "pkgman.star").Return(nil, evalErr)

	err := f.app.Build(context.Background(), app.BuildOptions{})
	require.ErrorIs(t, err, domain.ErrConfigEvaluation)
	require.ErrorIs(t, err, domain.ErrMissingFile)
	assert.NoFileExists(t, "Makefile")
}

func TestApp_Build_SettingsFromConfigure(t *testing.T) {
	f := newFixture(t)
	g := demoGraph(t)

	settings := domain.DefaultSettings()
	settings.Script = "build.star"
	settings.Makefile = "out/Makefile"

	f.app.Configure(app.GlobalOptions{SettingsPath: "custom.yaml"})
	f.settings.EXPECT().Load("custom.yaml").Return(settings, nil)
	f.hasher.EXPECT().ComputeFileHash("build.star").Return("digest-1", nil)
	f.graphCache.EXPECT().Digest().Return("", nil)
	f.evaluator.EXPECT().Evaluate(gomock.Any(), "build.star").Return(g, nil)
	f.graphCache.EXPECT().Store("digest-1", g).Return(nil)
	f.expectEmit(g)

	require.NoError(t, f.app.Generate(context.Background()))
	assert.FileExists(t, filepath.Join("out", "Makefile"))
}

func TestApp_Build_PassesTimeout(t *testing.T) {
	f := newFixture(t)
	g := demoGraph(t)

	settings := domain.DefaultSettings()
	settings.Timeout = 90 * time.Second
	f.settings.EXPECT().Load("pkgman.yaml").Return(settings, nil)
	f.hasher.EXPECT().ComputeFileHash("pkgman.star").Return("digest-1", nil)
	f.graphCache.EXPECT().Digest().Return("digest-1", nil)
	f.graphCache.EXPECT().Load().Return(g, nil)
	f.expectEmit(g)
	f.builder.EXPECT().Build(gomock.Any(), g, toolchain, domain.BuildOptions{Timeout: settings.Timeout}).
		Return(&domain.BuildReport{}, nil)

	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{}))
}

func TestApp_Build_Failures(t *testing.T) {
	t.Run("toolchain", func(t *testing.T) {
		f := newFixture(t)
		g := demoGraph(t)
		f.expectFreshGraph(g)
		f.toolchains.EXPECT().Resolve(domain.ToolOverrides{}).Return(domain.Toolchain{}, domain.ErrToolchainNotFound)

		err := f.app.Build(context.Background(), app.BuildOptions{})
		require.ErrorIs(t, err, domain.ErrToolchainNotFound)
		assert.NoFileExists(t, "Makefile")
	})

	t.Run("compile", func(t *testing.T) {
		f := newFixture(t)
		g := demoGraph(t)
		f.expectFreshGraph(g)
		f.expectEmit(g)
		f.builder.EXPECT().Build(gomock.Any(), g, toolchain, domain.BuildOptions{}).
			Return(&domain.BuildReport{}, errors.Join(domain.ErrCompileFailed, errors.New("exit status 1")))

		err := f.app.Build(context.Background(), app.BuildOptions{})
		require.ErrorIs(t, err, domain.ErrCompileFailed)
		assert.FileExists(t, "Makefile")
	})

	t.Run("settings", func(t *testing.T) {
		f := newFixture(t)
		f.settings.EXPECT().Load("pkgman.yaml").Return(domain.Settings{}, domain.ErrInvalidSettings)

		err := f.app.Build(context.Background(), app.BuildOptions{})
		require.ErrorIs(t, err, domain.ErrInvalidSettings)
	})
}

// writeFetched creates a downloaded package folder as the fetcher would.
func writeFetched(t *testing.T, withScript bool) string {
	t.Helper()
	dir := filepath.Join(".cache", "zlib", "linux")
	require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
	if withScript {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "install.sh"), []byte("#!/bin/sh\n"), domain.FilePerm))
	}
	return dir
}

func TestApp_Build_InstallsMissingPackages(t *testing.T) {
	f := newFixture(t)
	g := demoGraph(t)
	g.AddPackage(domain.NewDependencyRequest("zlib", ""))
	g.AddPackage(domain.NewDependencyRequest("cjson", "1.7.0"))

	f.expectFreshGraph(g)

	dir := writeFetched(t, true)
	script, err := filepath.Abs(filepath.Join(dir, "install.sh"))
	require.NoError(t, err)

	f.installs.EXPECT().Get("zlib").Return(nil, nil)
	f.installs.EXPECT().Get("cjson").Return(&domain.InstallRecord{Name: "cjson", Version: "1.7.0"}, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), domain.NewDependencyRequest("zlib", "latest"), domain.FetchOptions{
		Registry: domain.DefaultRegistry(),
		Jobs:     4,
	}).Return(dir, nil)
	f.executor.EXPECT().Execute(gomock.Any(), []string{script}, gomock.Any(), gomock.Any()).Return(nil)
	f.installs.EXPECT().Put(gomock.Any()).DoAndReturn(func(rec domain.InstallRecord) error {
		assert.Equal(t, "zlib", rec.Name)
		assert.Equal(t, "latest", rec.Version)
		assert.False(t, rec.InstalledAt.IsZero())
		return nil
	})
	f.expectEmit(g)

	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{EmitOnly: true}))
	assert.NoDirExists(t, dir)
	assert.Contains(t, f.infos, "installed zlib@latest")
}

func TestApp_Install(t *testing.T) {
	t.Run("fresh", func(t *testing.T) {
		f := newFixture(t)
		dir := writeFetched(t, true)

		f.settings.EXPECT().Load("pkgman.yaml").Return(domain.DefaultSettings(), nil)
		f.installs.EXPECT().Get("zlib").Return(nil, nil)
		f.fetcher.EXPECT().Fetch(gomock.Any(), domain.NewDependencyRequest("zlib", "1.3.0"), gomock.Any()).Return(dir, nil)
		f.executor.EXPECT().Execute(gomock.Any(), gomock.Len(1), gomock.Any(), gomock.Any()).Return(nil)
		f.installs.EXPECT().Put(gomock.Any()).Return(nil)

		require.NoError(t, f.app.Install(context.Background(), app.InstallOptions{Name: "zlib", Version: "1.3.0"}))

		assert.NoDirExists(t, dir)
	})

	t.Run("already installed", func(t *testing.T) {
		f := newFixture(t)

		f.settings.EXPECT().Load("pkgman.yaml").Return(domain.DefaultSettings(), nil)
		f.installs.EXPECT().Get("zlib").Return(&domain.InstallRecord{Name: "zlib", Version: "latest"}, nil)

		require.NoError(t, f.app.Install(context.Background(), app.InstallOptions{Name: "zlib"}))
		assert.Contains(t, f.infos, "zlib@latest is already installed, use --force to reinstall")
	})

	t.Run("force", func(t *testing.T) {
		f := newFixture(t)
		dir := writeFetched(t, true)

		f.settings.EXPECT().Load("pkgman.yaml").Return(domain.DefaultSettings(), nil)
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(dir, nil)
		f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.installs.EXPECT().Put(gomock.Any()).Return(nil)

		require.NoError(t, f.app.Install(context.Background(), app.InstallOptions{Name: "zlib", Force: true}))
	})

	t.Run("missing install script", func(t *testing.T) {
		f := newFixture(t)
		dir := writeFetched(t, false)

		f.settings.EXPECT().Load("pkgman.yaml").Return(domain.DefaultSettings(), nil)
		f.installs.EXPECT().Get("zlib").Return(nil, nil)
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(dir, nil)

		err := f.app.Install(context.Background(), app.InstallOptions{Name: "zlib"})
		require.ErrorIs(t, err, domain.ErrInstallScriptMissing)
	})

	t.Run("script fails", func(t *testing.T) {
		f := newFixture(t)
		dir := writeFetched(t, true)

		f.settings.EXPECT().Load("pkgman.yaml").Return(domain.DefaultSettings(), nil)
		f.installs.EXPECT().Get("zlib").Return(nil, nil)
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(dir, nil)
		f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("exit status 2"))

		err := f.app.Install(context.Background(), app.InstallOptions{Name: "zlib"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "install script failed")
		assert.DirExists(t, dir)
	})

	t.Run("fetch fails", func(t *testing.T) {
		f := newFixture(t)

		f.settings.EXPECT().Load("pkgman.yaml").Return(domain.DefaultSettings(), nil)
		f.installs.EXPECT().Get("zlib").Return(nil, nil)
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return("", domain.ErrUnsupportedPlatform)

		err := f.app.Install(context.Background(), app.InstallOptions{Name: "zlib"})
		require.ErrorIs(t, err, domain.ErrUnsupportedPlatform)
	})
}

func TestApp_Clean(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.app.Clean(context.Background()))
	assert.Contains(t, f.infos, "nothing to clean")

	require.NoError(t, os.MkdirAll(filepath.Join("build", "obj"), domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join("build", "app"), []byte("elf"), domain.FilePerm))

	require.NoError(t, f.app.Clean(context.Background()))
	assert.NoDirExists(t, "build")
	assert.Contains(t, f.infos, "removed build")

	require.NoError(t, f.app.Clean(context.Background()))
}

func TestApp_Rebuild(t *testing.T) {
	f := newFixture(t)
	g := demoGraph(t)
	require.NoError(t, os.MkdirAll(filepath.Join("build", "obj"), domain.DirPerm))

	f.expectFreshGraph(g)
	f.expectEmit(g)
	f.builder.EXPECT().Build(gomock.Any(), g, toolchain, domain.BuildOptions{}).DoAndReturn(
		func(context.Context, *domain.BuildGraph, domain.Toolchain, domain.BuildOptions) (*domain.BuildReport, error) {
			assert.NoDirExists(t, filepath.Join("build", "obj"))
			return &domain.BuildReport{}, nil
		})

	require.NoError(t, f.app.Rebuild(context.Background()))
}

func TestApp_Init(t *testing.T) {
	f := newFixture(t)
	wd, err := os.Getwd()
	require.NoError(t, err)

	f.scaffolder.EXPECT().Init(wd, "demo").Return("demo", nil)
	require.NoError(t, f.app.Init(context.Background(), app.InitOptions{Name: "demo"}))
	assert.Contains(t, f.infos, "project demo initialized")

	f.scaffolder.EXPECT().Init(wd, "").Return("", domain.ErrInvalidProjectName)
	err = f.app.Init(context.Background(), app.InitOptions{})
	require.ErrorIs(t, err, domain.ErrInvalidProjectName)
}
