package domain

import (
	"time"
)

// LatestVersion is the version requested when none is given.
const LatestVersion = "latest"

// DependencyRequest represents a user's intent to use a registry package.
// This is the input representation before resolution (e.g., from pkgman.star).
type DependencyRequest struct {
	// Name is the package name as listed in the registry index.
	Name InternedString `json:"name"`

	// Version is the requested version key (e.g., "1.2.0", "latest").
	Version InternedString `json:"version"`
}

// NewDependencyRequest builds a request, defaulting the version to latest.
func NewDependencyRequest(name, version string) DependencyRequest {
	if version == "" {
		version = LatestVersion
	}
	return DependencyRequest{
		Name:    NewInternedString(name),
		Version: NewInternedString(version),
	}
}

// Registry locates the repository hosting the package index and package folders.
type Registry struct {
	User   string `yaml:"user"`
	Repo   string `yaml:"repo"`
	Branch string `yaml:"branch"`
	// RawURL serves file contents, APIURL serves directory listings.
	RawURL string `yaml:"raw_url"`
	APIURL string `yaml:"api_url"`
}

// FetchOptions locate the registry and bound the parallel downloads of one fetch.
type FetchOptions struct {
	Registry Registry
	Jobs     int
}

// PackageIndex is the registry's package.json: package -> version -> platform -> folder.
type PackageIndex struct {
	Packages map[string]map[string]map[string]string `json:"packages"`
}

// Folder returns the repository folder holding the package for a platform.
func (idx PackageIndex) Folder(req DependencyRequest, platform string) (string, error) {
	name, version := req.Name.String(), req.Version.String()

	versions, ok := idx.Packages[name]
	if !ok {
		return "", tag(ErrPackageNotFound, "package", name)
	}
	platforms, ok := versions[version]
	if !ok {
		return "", tag(ErrPackageNotFound, "package", name, "version", version)
	}
	folder, ok := platforms[platform]
	if !ok || folder == "" {
		return "", tag(ErrUnsupportedPlatform, "package", name, "version", version, "platform", platform)
	}
	return folder, nil
}

// Platform maps a GOOS value to the registry's platform key.
func Platform(goos string) string {
	switch goos {
	case "darwin":
		return "macos"
	case "linux":
		return "linux"
	case "windows":
		return "windows"
	default:
		return "unknown"
	}
}

// InstallRecord remembers that a package version was installed.
type InstallRecord struct {
	Name        string    `json:"name,omitzero"`
	Version     string    `json:"version,omitzero"`
	Folder      string    `json:"folder,omitzero"`
	InstalledAt time.Time `json:"installed_at,omitzero"`
}

// Satisfies reports whether the record covers the request.
func (r *InstallRecord) Satisfies(req DependencyRequest) bool {
	return r != nil && r.Name == req.Name.String() && r.Version == req.Version.String()
}
