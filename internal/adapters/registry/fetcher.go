// Package registry implements the PackageFetcher port against a GitHub hosted package registry.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.trai.ch/pkgman/internal/adapters/fs"
	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	httpClientTimeout = 30 * time.Second
	indexFileName     = "package.json"
	githubAccept      = "application/vnd.github.v3+json"
)

// contentEntry is one item of a GitHub contents listing.
type contentEntry struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

// Fetcher downloads package folders listed in the registry index.
type Fetcher struct {
	httpClient *http.Client
	cacheDir   string
	platform   string
	progress   io.Writer
	logger     ports.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) { f.httpClient = client }
}

// WithPlatform overrides the registry platform key derived from the host.
func WithPlatform(platform string) Option {
	return func(f *Fetcher) { f.platform = platform }
}

// WithCacheDir sets the directory downloads are written into.
func WithCacheDir(dir string) Option {
	return func(f *Fetcher) { f.cacheDir = dir }
}

// WithProgress sets where the download progress bar is drawn. A nil writer hides it.
func WithProgress(w io.Writer) Option {
	return func(f *Fetcher) { f.progress = w }
}

// NewFetcher creates a Fetcher for the host platform writing into .cache.
func NewFetcher(logger ports.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{Timeout: httpClientTimeout},
		cacheDir:   domain.CacheDirName,
		platform:   domain.Platform(runtime.GOOS),
		progress:   os.Stderr,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch looks the package up in the registry index, lists its platform folder
// and downloads every file below it. It returns the local copy of the folder.
func (f *Fetcher) Fetch(
	ctx context.Context,
	req domain.DependencyRequest,
	opts domain.FetchOptions,
) (string, error) {
	reg := opts.Registry

	index, err := f.index(ctx, reg)
	if err != nil {
		return "", err
	}

	folder, err := index.Folder(req, f.platform)
	if err != nil {
		return "", err
	}

	f.logger.Info("fetching " + req.Name.String() + "@" + req.Version.String() + " from " + folder)

	files, err := f.list(ctx, reg, folder)
	if err != nil {
		return "", err
	}

	if err := f.downloadAll(ctx, reg, req.Name.String(), files, opts.Jobs); err != nil {
		return "", err
	}

	return filepath.Join(f.cacheDir, filepath.FromSlash(folder)), nil
}

func (f *Fetcher) index(ctx context.Context, reg domain.Registry) (domain.PackageIndex, error) {
	var index domain.PackageIndex

	u, err := rawURL(reg, indexFileName)
	if err != nil {
		return index, err
	}

	body, err := f.get(ctx, u, "")
	if err != nil {
		return index, err
	}

	if err := json.Unmarshal(body, &index); err != nil {
		return index, zerr.With(zerr.Wrap(err, "failed to parse package index"), "url", u)
	}
	return index, nil
}

// list walks a registry folder and returns the repository paths of every file below it.
func (f *Fetcher) list(ctx context.Context, reg domain.Registry, folder string) ([]string, error) {
	u, err := url.JoinPath(reg.APIURL, "repos", reg.User, reg.Repo, "contents", folder)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid registry api url"), "url", reg.APIURL)
	}
	u += "?ref=" + url.QueryEscape(reg.Branch)

	body, err := f.get(ctx, u, githubAccept)
	if err != nil {
		return nil, err
	}

	var entries []contentEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse folder listing"), "folder", folder)
	}

	var files []string
	for _, e := range entries {
		switch e.Type {
		case "file":
			files = append(files, e.Path)
		case "dir":
			nested, err := f.list(ctx, reg, e.Path)
			if err != nil {
				return nil, err
			}
			files = append(files, nested...)
		}
	}
	return files, nil
}

func (f *Fetcher) downloadAll(ctx context.Context, reg domain.Registry, name string, files []string, jobs int) error {
	if jobs < 1 {
		jobs = 1
	}

	bar := f.progressBar(len(files), "downloading "+name)

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, file := range files {
		g.Go(func() error {
			if err := f.download(groupCtx, reg, file); err != nil {
				return err
			}
			_ = bar.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	_ = bar.Finish()
	return nil
}

func (f *Fetcher) download(ctx context.Context, reg domain.Registry, file string) error {
	dest, err := f.destination(file)
	if err != nil {
		return err
	}

	u, err := rawURL(reg, file)
	if err != nil {
		return err
	}

	body, err := f.get(ctx, u, "")
	if err != nil {
		return err
	}

	return fs.WriteFileAtomic(dest, body)
}

// destination maps a repository path into the cache directory, refusing paths that escape it.
func (f *Fetcher) destination(file string) (string, error) {
	clean := path.Clean("/" + file)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return "", zerr.With(zerr.Wrap(domain.ErrRegistryRequest, "unsafe path in folder listing"), "path", file)
	}
	return filepath.Join(f.cacheDir, filepath.FromSlash(clean)), nil
}

func (f *Fetcher) get(ctx context.Context, u, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, errors.Join(domain.ErrRegistryRequest, zerr.With(zerr.Wrap(err, "failed to build request"), "url", u))
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(domain.ErrRegistryRequest, zerr.With(zerr.Wrap(err, "request failed"), "url", u))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		statusErr := zerr.With(zerr.Wrap(domain.ErrRegistryRequest, "unexpected status"), "status_code", resp.StatusCode)
		return nil, zerr.With(statusErr, "url", u)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(domain.ErrRegistryRequest, zerr.With(zerr.Wrap(err, "failed to read response"), "url", u))
	}
	return body, nil
}

func (f *Fetcher) progressBar(n int, desc string) *progressbar.ProgressBar {
	if f.progress == nil {
		return progressbar.NewOptions(n, progressbar.OptionSetVisibility(false))
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(f.progress),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
	)
}

func rawURL(reg domain.Registry, file string) (string, error) {
	u, err := url.JoinPath(reg.RawURL, reg.User, reg.Repo, reg.Branch, file)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "invalid registry url"), "url", reg.RawURL)
	}
	return u, nil
}
