// Package scaffold creates the skeleton of a new C project.
package scaffold

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	pkgfs "go.trai.ch/pkgman/internal/adapters/fs"
	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/zerr"
)

const mainSource = `#include <stdio.h>

int main(void) {
    printf("Hello from C project!\n");
    return 0;
}
`

var starterScript = template.Must(template.New("script").Parse(`project("{{.}}", version = "0.1.0")

include("include")

exe("{{.}}", files("src/*.c"))
`))

// Scaffolder implements ports.Scaffolder on the local filesystem.
type Scaffolder struct{}

// New creates a Scaffolder.
func New() *Scaffolder {
	return &Scaffolder{}
}

// Init lays out src/, include/ and build/ below dir and writes the starter
// files. Existing sources and build scripts are left untouched; the metadata
// file is always rewritten. An empty name falls back to the base name of dir.
func (s *Scaffolder) Init(dir, name string) (string, error) {
	if name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to resolve project directory"), "path", dir)
		}
		name = filepath.Base(abs)
	}
	if err := domain.ValidateProjectName(name); err != nil {
		return "", err
	}
	// The starter script declares an executable of the same name.
	if err := domain.ValidateTargetName(domain.TargetExecutable, name); err != nil {
		return "", err
	}

	for _, sub := range []string{"src", "include", domain.BuildDirName} {
		path := filepath.Join(dir, sub)
		if err := os.MkdirAll(path, domain.DirPerm); err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path)
		}
	}

	if err := writeIfAbsent(filepath.Join(dir, "src", "main.c"), []byte(mainSource)); err != nil {
		return "", err
	}

	var script strings.Builder
	if err := starterScript.Execute(&script, name); err != nil {
		return "", zerr.Wrap(err, "failed to render build script")
	}
	if err := writeIfAbsent(filepath.Join(dir, domain.ScriptFileName), []byte(script.String())); err != nil {
		return "", err
	}

	metadata := "project=" + name + "\nlanguage=c\n"
	if err := pkgfs.WriteFileAtomic(filepath.Join(dir, domain.MetadataFileName), []byte(metadata)); err != nil {
		return "", err
	}

	return name, nil
}

func writeIfAbsent(path string, data []byte) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	return pkgfs.WriteFileAtomic(path, data)
}
