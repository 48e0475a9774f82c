package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pkgman/internal/core/domain"
)

func TestPackageIndex_Folder(t *testing.T) {
	idx := domain.PackageIndex{Packages: map[string]map[string]map[string]string{
		"raylib": {
			"latest": {"linux": "raylib/linux", "macos": ""},
		},
	}}

	folder, err := idx.Folder(domain.NewDependencyRequest("raylib", ""), "linux")
	require.NoError(t, err)
	assert.Equal(t, "raylib/linux", folder)

	_, err = idx.Folder(domain.NewDependencyRequest("raylib", ""), "macos")
	require.ErrorIs(t, err, domain.ErrUnsupportedPlatform)

	_, err = idx.Folder(domain.NewDependencyRequest("raylib", "9.9"), "linux")
	require.ErrorIs(t, err, domain.ErrPackageNotFound)

	_, err = idx.Folder(domain.NewDependencyRequest("sdl", ""), "linux")
	require.ErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestPlatform(t *testing.T) {
	assert.Equal(t, "macos", domain.Platform("darwin"))
	assert.Equal(t, "linux", domain.Platform("linux"))
	assert.Equal(t, "windows", domain.Platform("windows"))
	assert.Equal(t, "unknown", domain.Platform("plan9"))
}

func TestInstallRecord_Satisfies(t *testing.T) {
	rec := &domain.InstallRecord{Name: "raylib", Version: "latest"}
	assert.True(t, rec.Satisfies(domain.NewDependencyRequest("raylib", "")))
	assert.False(t, rec.Satisfies(domain.NewDependencyRequest("raylib", "5.0")))

	var missing *domain.InstallRecord
	assert.False(t, missing.Satisfies(domain.NewDependencyRequest("raylib", "")))
}

func TestHashManifest(t *testing.T) {
	m := domain.NewHashManifest()
	assert.False(t, m.Matches(map[string]string{"a.c": "1"}))

	m.Merge(map[string]string{"a.c": "1", "a.h": "2"})
	assert.True(t, m.Matches(map[string]string{"a.c": "1"}))
	assert.False(t, m.Matches(map[string]string{"a.c": "1", "a.h": "3"}))
	assert.True(t, m.Matches(nil))
}

func TestLayout(t *testing.T) {
	assert.Equal(t, "build/obj/demo/core/a.o", domain.ObjectPath("demo", "core", "src/a.c"))
	assert.Equal(t, "build/obj/demo/core/a.d", domain.DepFilePath("build/obj/demo/core/a.o"))
	assert.Equal(t, "build/obj/demo/app/main.o", domain.ObjectPath("demo", "app", `src\main.c`))
	assert.Equal(t, "build/file_hashes.json", domain.DefaultManifestPath())
	assert.Equal(t, ".cache/installed.json", domain.DefaultInstallRecordsPath())
}

func TestBuildReport(t *testing.T) {
	var r domain.BuildReport
	r.Record(domain.StepResult{Kind: domain.StepCompile, Output: "a.o", Status: domain.StepStatusCached})
	r.Record(domain.StepResult{Kind: domain.StepCompile, Output: "b.o", Status: domain.StepStatusCompleted})
	r.Record(domain.StepResult{Kind: domain.StepArchive, Output: "build/lib/libcore.a", Status: domain.StepStatusCompleted})
	r.Record(domain.StepResult{Kind: domain.StepLink, Output: "build/app", Status: domain.StepStatusCompleted})

	assert.Equal(t, 1, r.Count(domain.StepCompile, domain.StepStatusCached))
	assert.Equal(t, 1, r.Count(domain.StepCompile, domain.StepStatusCompleted))
	assert.Equal(t, []string{"build/lib/libcore.a", "build/app"}, r.Artifacts())
}
