package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	pkgfs "go.trai.ch/pkgman/internal/adapters/fs"
	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.GraphCache = (*GraphCache)(nil)

// GraphCache implements ports.GraphCache with a digest file and a JSON graph file.
type GraphCache struct {
	digestPath string
	graphPath  string
}

// NewGraphCache creates a cache over the given digest and graph files.
func NewGraphCache(digestPath, graphPath string) *GraphCache {
	return &GraphCache{
		digestPath: filepath.Clean(digestPath),
		graphPath:  filepath.Clean(graphPath),
	}
}

type graphRecord struct {
	Project     domain.Project             `json:"project"`
	Config      []domain.ConfigEntry       `json:"config,omitempty"`
	Includes    []string                   `json:"includes,omitempty"`
	Variables   []domain.Variable          `json:"variables,omitempty"`
	Functions   []functionRecord           `json:"functions,omitempty"`
	Targets     []targetRecord             `json:"targets,omitempty"`
	CustomSteps []domain.CustomStep        `json:"custom_steps,omitempty"`
	Packages    []domain.DependencyRequest `json:"packages,omitempty"`
}

type targetRecord struct {
	Kind    domain.TargetKind `json:"kind"`
	Name    string            `json:"name"`
	Sources []string          `json:"sources"`
	Deps    []string          `json:"deps,omitempty"`
	CFlags  []string          `json:"cflags,omitempty"`
}

type functionRecord struct {
	Name    string   `json:"name"`
	Command string   `json:"cmd"`
	Deps    []string `json:"deps,omitempty"`
}

// Digest returns the stored script digest, or "" if there is none.
func (c *GraphCache) Digest() (string, error) {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(c.digestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", zerr.With(zerr.Wrap(err, "failed to read script digest"), "path", c.digestPath)
	}
	return strings.TrimSpace(string(data)), nil
}

// Load returns the cached graph, or nil, nil if there is none. The graph is
// rebuilt through the same operations evaluation uses and validated again.
func (c *GraphCache) Load() (*domain.BuildGraph, error) {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(c.graphPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read graph cache"), "path", c.graphPath)
	}

	var rec graphRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to unmarshal graph cache"), "path", c.graphPath)
	}

	g, err := rec.replay()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "graph cache is inconsistent"), "path", c.graphPath)
	}
	return g, nil
}

// Store saves the graph first and the digest second, so a digest on disk
// always describes the graph next to it.
func (c *GraphCache) Store(digest string, graph *domain.BuildGraph) error {
	data, err := json.MarshalIndent(recordOf(graph), "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal graph cache")
	}

	if err := pkgfs.WriteFileAtomic(c.graphPath, data); err != nil {
		return zerr.Wrap(err, "failed to write graph cache")
	}
	if err := pkgfs.WriteFileAtomic(c.digestPath, []byte(digest+"\n")); err != nil {
		return zerr.Wrap(err, "failed to write script digest")
	}
	return nil
}

func recordOf(g *domain.BuildGraph) graphRecord {
	rec := graphRecord{
		Project:     g.Project(),
		Config:      g.Config().Entries(),
		Includes:    g.Includes(),
		Variables:   g.Variables(),
		CustomSteps: g.CustomSteps(),
		Packages:    g.Packages(),
	}
	for _, fn := range g.ShellFunctions() {
		rec.Functions = append(rec.Functions, functionRecord{
			Name:    fn.Name.String(),
			Command: fn.Command,
			Deps:    fn.Deps,
		})
	}
	for _, t := range g.Targets() {
		rec.Targets = append(rec.Targets, targetRecord{
			Kind:    t.Kind,
			Name:    t.Name.String(),
			Sources: t.Sources,
			Deps:    domain.Strings(t.Deps),
			CFlags:  t.CFlags,
		})
	}
	return rec
}

func (rec graphRecord) replay() (*domain.BuildGraph, error) {
	g := domain.NewBuildGraph()

	if rec.Project.Name != domain.DefaultProjectName || rec.Project.Version != "" {
		if err := g.SetProject(rec.Project); err != nil {
			return nil, err
		}
	}
	for _, e := range rec.Config {
		g.SetConfig(e.Key, e.Value)
	}
	for _, inc := range rec.Includes {
		g.AddInclude(inc)
	}
	for _, v := range rec.Variables {
		if err := g.SetVariable(v.Name, v.Value); err != nil {
			return nil, err
		}
	}
	for _, fn := range rec.Functions {
		err := g.AddShellFunction(domain.ShellFunction{
			Name:    domain.NewInternedString(fn.Name),
			Command: fn.Command,
			Deps:    fn.Deps,
		})
		if err != nil {
			return nil, err
		}
	}
	for _, t := range rec.Targets {
		err := g.AddTarget(&domain.Target{
			Kind:    t.Kind,
			Name:    domain.NewInternedString(t.Name),
			Sources: t.Sources,
			Deps:    domain.InternStrings(t.Deps),
			CFlags:  t.CFlags,
		})
		if err != nil {
			return nil, err
		}
	}
	for _, step := range rec.CustomSteps {
		if err := g.AddCustomStep(step); err != nil {
			return nil, err
		}
	}
	for _, p := range rec.Packages {
		g.AddPackage(p)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
