package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/zerr"
)

const installScriptName = "install.sh"

// InstallOptions configuration for the Install method.
type InstallOptions struct {
	Name    string
	Version string
	// Force reinstalls a package that is already recorded.
	Force bool
}

// Install fetches a registry package and runs its install script.
func (a *App) Install(ctx context.Context, opts InstallOptions) error {
	settings, err := a.Settings.Load(a.settingsPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load settings")
	}

	req := domain.NewDependencyRequest(opts.Name, opts.Version)
	if !opts.Force {
		installed, err := a.installed(req)
		if err != nil {
			return err
		}
		if installed {
			a.Logger.Info(label(req) + " is already installed, use --force to reinstall")
			return nil
		}
	}

	return a.install(ctx, settings, req)
}

// installMissing installs every package the graph declares that has no matching record.
func (a *App) installMissing(ctx context.Context, settings domain.Settings, graph *domain.BuildGraph) error {
	for _, req := range graph.Packages() {
		installed, err := a.installed(req)
		if err != nil {
			return err
		}
		if installed {
			continue
		}
		if err := a.install(ctx, settings, req); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) installed(req domain.DependencyRequest) (bool, error) {
	record, err := a.Installs.Get(req.Name.String())
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to read install records"), "package", req.Name.String())
	}
	return record.Satisfies(req), nil
}

func (a *App) install(ctx context.Context, settings domain.Settings, req domain.DependencyRequest) error {
	a.Logger.Info("installing " + label(req))

	dir, err := a.Fetcher.Fetch(ctx, req, domain.FetchOptions{Registry: settings.Registry, Jobs: settings.Jobs})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to fetch package"), "package", label(req))
	}

	script, err := filepath.Abs(filepath.Join(dir, installScriptName))
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve install script"), "path", dir)
	}
	if _, err := os.Stat(script); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(domain.ErrInstallScriptMissing, "package has no install script"), "path", script)
		}
		return zerr.With(zerr.Wrap(err, "failed to stat install script"), "path", script)
	}

	//nolint:gosec // install scripts must be executable
	if err := os.Chmod(script, domain.ExecPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to make install script executable"), "path", script)
	}

	if err := a.Executor.Execute(ctx, []string{script}, a.stdout, a.stderr); err != nil {
		return zerr.With(zerr.Wrap(err, "install script failed"), "package", label(req))
	}

	if err := os.RemoveAll(dir); err != nil {
		a.Logger.Warn("failed to remove " + dir + ": " + err.Error())
	}

	record := domain.InstallRecord{
		Name:        req.Name.String(),
		Version:     req.Version.String(),
		Folder:      filepath.ToSlash(dir),
		InstalledAt: time.Now(),
	}
	if err := a.Installs.Put(record); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to record installation"), "package", label(req))
	}

	a.Logger.Info("installed " + label(req))
	return nil
}

func label(req domain.DependencyRequest) string {
	return req.Name.String() + "@" + req.Version.String()
}
