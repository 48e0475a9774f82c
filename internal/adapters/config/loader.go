// Package config provides the settings loader for pkgman.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.SettingsLoader = (*Loader)(nil)

// Loader implements ports.SettingsLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the settings file at path. Fields the file omits keep their defaults.
func (l *Loader) Load(path string) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return settings, zerr.With(zerr.Wrap(err, "failed to read settings file"), "path", path)
	}

	var file Settingsfile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return settings, nil
		}
		return settings, zerr.With(zerr.Wrap(err, "failed to parse settings file"), "path", path)
	}

	if err := apply(&settings, &file); err != nil {
		return settings, zerr.With(err, "path", path)
	}

	l.logger.Info("loaded settings from " + path)
	return settings, nil
}

func apply(settings *domain.Settings, file *Settingsfile) error {
	if file.Script != "" {
		settings.Script = file.Script
	}
	if file.Makefile != "" {
		settings.Makefile = file.Makefile
	}

	if r := file.Registry; r != nil {
		override(&settings.Registry.User, r.User)
		override(&settings.Registry.Repo, r.Repo)
		override(&settings.Registry.Branch, r.Branch)
		override(&settings.Registry.RawURL, strings.TrimSuffix(r.RawURL, "/"))
		override(&settings.Registry.APIURL, strings.TrimSuffix(r.APIURL, "/"))
	}

	if file.Timeout != "" {
		timeout, err := time.ParseDuration(file.Timeout)
		if err != nil || timeout < 0 {
			return zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "timeout must be a non-negative duration"),
				"timeout", file.Timeout)
		}
		settings.Timeout = timeout
	}

	switch {
	case file.Jobs < 0:
		return zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "jobs must not be negative"), "jobs", file.Jobs)
	case file.Jobs > 0:
		settings.Jobs = file.Jobs
	}
	return nil
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
