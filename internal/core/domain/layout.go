package domain

import (
	"path"
	"strings"
)

const (
	// BuildDirName is the root of every generated file.
	BuildDirName = "build"

	// ObjDirName is the object directory below the build directory.
	ObjDirName = "obj"

	// LibDirName is the static library directory below the build directory.
	LibDirName = "lib"

	// VendorLibDir is the directory installed packages drop their libraries into.
	VendorLibDir = "vendor/lib"

	// VendorIncludeDir is the directory installed packages drop their headers into.
	VendorIncludeDir = "vendor/include"

	// CacheDirName is the download cache of the registry fetcher.
	CacheDirName = ".cache"

	// ScriptFileName is the default name of the build script.
	ScriptFileName = "pkgman.star"

	// SettingsFileName is the default name of the optional tool settings file.
	SettingsFileName = "pkgman.yaml"

	// MetadataFileName is the informational project metadata written by init.
	MetadataFileName = "pkgman.txt"

	// MakefileName is the default name of the emitted build script.
	MakefileName = "Makefile"

	// DigestFileName stores the digest of the last evaluated build script.
	DigestFileName = "pkgman.digest"

	// GraphCacheFileName stores the serialized build graph.
	GraphCacheFileName = "pkgman.build"

	// ManifestFileName stores the hash manifest.
	ManifestFileName = "file_hashes.json"

	// InstallRecordsFileName stores the installed package records.
	InstallRecordsFileName = "installed.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// ExecPerm is the permission given to fetched install scripts (rwxr-x---).
	ExecPerm = 0o750
)

// reservedBuildEntries are the names below the build directory that belong
// to the tool. Executables are linked next to them.
var reservedBuildEntries = map[string]struct{}{
	ObjDirName:         {},
	LibDirName:         {},
	DigestFileName:     {},
	GraphCacheFileName: {},
	ManifestFileName:   {},
}

// DefaultDigestPath returns build/pkgman.digest.
func DefaultDigestPath() string {
	return path.Join(BuildDirName, DigestFileName)
}

// DefaultGraphCachePath returns build/pkgman.build.
func DefaultGraphCachePath() string {
	return path.Join(BuildDirName, GraphCacheFileName)
}

// DefaultManifestPath returns build/file_hashes.json.
func DefaultManifestPath() string {
	return path.Join(BuildDirName, ManifestFileName)
}

// DefaultInstallRecordsPath returns .cache/installed.json.
func DefaultInstallRecordsPath() string {
	return path.Join(CacheDirName, InstallRecordsFileName)
}

// LibDir returns build/lib.
func LibDir() string {
	return path.Join(BuildDirName, LibDirName)
}

// ObjectPath returns the object file a source compiles to inside its target's namespace.
func ObjectPath(project, target, source string) string {
	return path.Join(BuildDirName, ObjDirName, project, target, baseName(source)+".o")
}

// DepFilePath returns the make dependency file written next to an object by -MMD.
func DepFilePath(object string) string {
	return strings.TrimSuffix(object, ".o") + ".d"
}

// LibraryArtifactPath returns build/lib/lib<name>.a.
func LibraryArtifactPath(name string) string {
	return path.Join(BuildDirName, LibDirName, "lib"+name+".a")
}

// ExecutableArtifactPath returns build/<name>.
func ExecutableArtifactPath(name string) string {
	return path.Join(BuildDirName, name)
}

// baseName strips the directory and the last extension of a source path.
func baseName(source string) string {
	base := path.Base(strings.ReplaceAll(source, "\\", "/"))
	if ext := path.Ext(base); ext != "" {
		return strings.TrimSuffix(base, ext)
	}
	return base
}
