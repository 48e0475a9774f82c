package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pkgman/internal/adapters/cas"
	"go.trai.ch/pkgman/internal/core/domain"
)

func TestInstallStore_PutAndGet(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), ".cache", "installed.json")

	store, err := cas.NewInstallStore(storePath)
	require.NoError(t, err)

	got, err := store.Get("raylib")
	require.NoError(t, err)
	assert.Nil(t, got)

	record := domain.InstallRecord{
		Name:        "raylib",
		Version:     "latest",
		Folder:      "raylib/linux",
		InstalledAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, store.Put(record))

	reopened, err := cas.NewInstallStore(storePath)
	require.NoError(t, err)
	got, err = reopened.Get("raylib")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record, *got)
}

func TestInstallStore_CorruptFile(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "installed.json")
	require.NoError(t, os.WriteFile(storePath, []byte("{not json"), 0o600))

	_, err := cas.NewInstallStore(storePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal install records")
}

func TestManifestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build", "file_hashes.json")
	store := cas.NewManifestStore(path)

	manifest, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, manifest)

	manifest.Merge(map[string]string{"src/a.c": "0000000000000001", "include/a.h": "0000000000000002"})
	require.NoError(t, store.Save(manifest))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, manifest, loaded)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"{\n  \"include/a.h\": \"0000000000000002\",\n  \"src/a.c\": \"0000000000000001\"\n}",
		string(data))
}

func TestManifestStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file_hashes.json")
	require.NoError(t, os.WriteFile(path, []byte("[1, 2"), 0o600))

	manifest, err := cas.NewManifestStore(path).Load()
	require.ErrorIs(t, err, domain.ErrManifestCorrupted)
	assert.NotNil(t, manifest)
	assert.Empty(t, manifest)
}

func demoGraph(t *testing.T) *domain.BuildGraph {
	t.Helper()
	g := domain.NewBuildGraph()
	require.NoError(t, g.SetProject(domain.Project{Name: "demo", Version: "1.0"}))
	g.SetConfig(domain.ConfigKeyDebug, domain.BoolValue(true))
	g.SetConfig(domain.ConfigKeyCFlags, domain.ListValue([]string{"-Wall"}))
	g.AddInclude("include")
	require.NoError(t, g.SetVariable("VERSION", domain.StringValue("1.0")))
	require.NoError(t, g.AddShellFunction(domain.ShellFunction{
		Name:    domain.NewInternedString("gen"),
		Command: "./gen.sh",
		Deps:    []string{"gen.sh"},
	}))
	require.NoError(t, g.AddTarget(&domain.Target{
		Kind:    domain.TargetLibrary,
		Name:    domain.NewInternedString("core"),
		Sources: []string{"src/a.c"},
		Deps:    domain.InternStrings([]string{"gen"}),
	}))
	require.NoError(t, g.AddTarget(&domain.Target{
		Kind:    domain.TargetExecutable,
		Name:    domain.NewInternedString("app"),
		Sources: []string{"src/main.c"},
		Deps:    domain.InternStrings([]string{"core"}),
		CFlags:  []string{"-DAPP"},
	}))
	require.NoError(t, g.AddCustomStep(domain.CustomStep{Kind: domain.CustomStepCopy, Src: "a", Dest: "b"}))
	g.AddPackage(domain.NewDependencyRequest("raylib", ""))
	require.NoError(t, g.Validate())
	return g
}

func TestGraphCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache := cas.NewGraphCache(filepath.Join(dir, "pkgman.digest"), filepath.Join(dir, "pkgman.build"))

	digest, err := cache.Digest()
	require.NoError(t, err)
	assert.Empty(t, digest)

	loaded, err := cache.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	g := demoGraph(t)
	require.NoError(t, cache.Store("00000000deadbeef", g))

	digest, err = cache.Digest()
	require.NoError(t, err)
	assert.Equal(t, "00000000deadbeef", digest)

	loaded, err = cache.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, g.Project(), loaded.Project())
	assert.Equal(t, g.Config().Entries(), loaded.Config().Entries())
	assert.Equal(t, g.Includes(), loaded.Includes())
	assert.Equal(t, g.Variables(), loaded.Variables())
	assert.Equal(t, g.ShellFunctions(), loaded.ShellFunctions())
	assert.Equal(t, g.CustomSteps(), loaded.CustomSteps())
	assert.Equal(t, g.Packages(), loaded.Packages())
	require.Len(t, loaded.Targets(), 2)
	for i, target := range g.Targets() {
		assert.Equal(t, *target, *loaded.Targets()[i])
	}
}

func TestGraphCache_InvalidGraph(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "pkgman.build")
	body := `{"project":{"name":"demo","version":""},"targets":[{"kind":"executable","name":"app","sources":["main.c"],"deps":["ghost"]}]}`
	require.NoError(t, os.WriteFile(graphPath, []byte(body), 0o600))

	_, err := cas.NewGraphCache(filepath.Join(dir, "pkgman.digest"), graphPath).Load()
	require.ErrorIs(t, err, domain.ErrMissingDependency)
}
