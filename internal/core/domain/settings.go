package domain

import "time"

// Settings are the tool options read from pkgman.yaml.
type Settings struct {
	// Script is the build script to evaluate.
	Script string
	// Makefile is where the emitted build script is written.
	Makefile string
	// Registry hosts the package index.
	Registry Registry
	// Timeout bounds every compiler, archiver and linker invocation. Zero disables it.
	Timeout time.Duration
	// Jobs bounds parallel package downloads.
	Jobs int
}

// DefaultRegistry is the public package registry.
func DefaultRegistry() Registry {
	return Registry{
		User:   "CBatu",
		Repo:   "pkgman",
		Branch: "main",
		RawURL: "https://raw.githubusercontent.com",
		APIURL: "https://api.github.com",
	}
}

// DefaultSettings returns the settings used when pkgman.yaml is absent.
func DefaultSettings() Settings {
	return Settings{
		Script:   ScriptFileName,
		Makefile: MakefileName,
		Registry: DefaultRegistry(),
		Jobs:     4,
	}
}
