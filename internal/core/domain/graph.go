// Package domain contains the core domain models of the C build graph.
package domain

import (
	"path"
	"regexp"
	"strings"
)

// DefaultProjectName is used when the build script never calls project().
const DefaultProjectName = "default"

var (
	projectNamePattern  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	targetNamePattern   = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)
	variableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)
	reservedRuleNames   = map[string]struct{}{"all": {}, "clean": {}, "help": {}}
)

// Project identifies the project being built.
type Project struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// BuildGraph is the model of everything a build script declared.
// Entries are only ever appended while the script is evaluated; the graph is
// validated once evaluation finishes.
type BuildGraph struct {
	project         Project
	projectDeclared bool
	config          GlobalConfig
	includes        []string
	variables       []Variable
	targets         []*Target
	targetIndex     map[InternedString]*Target
	functions       []ShellFunction
	functionIndex   map[InternedString]int
	customSteps     []CustomStep
	packages        []DependencyRequest
}

// NewBuildGraph creates an empty graph for the default project.
func NewBuildGraph() *BuildGraph {
	return &BuildGraph{
		project:       Project{Name: DefaultProjectName},
		targetIndex:   make(map[InternedString]*Target),
		functionIndex: make(map[InternedString]int),
	}
}

// SetProject records the project identity. It may only be called once.
func (g *BuildGraph) SetProject(p Project) error {
	if g.projectDeclared {
		return tag(ErrProjectRedeclared, "project", p.Name)
	}
	if err := ValidateProjectName(p.Name); err != nil {
		return err
	}
	g.project = p
	g.projectDeclared = true
	return nil
}

// ValidateProjectName rejects names that cannot be used as a path segment or make word.
func ValidateProjectName(name string) error {
	if !projectNamePattern.MatchString(name) {
		return tag(ErrInvalidProjectName, "project", name)
	}
	return nil
}

// Project returns the project identity.
func (g *BuildGraph) Project() Project {
	return g.project
}

// Config returns the global configuration.
func (g *BuildGraph) Config() *GlobalConfig {
	return &g.config
}

// SetConfig stores a global configuration value.
func (g *BuildGraph) SetConfig(key string, value Value) {
	g.config.Set(key, value)
}

// AddInclude appends an include directory. Order is search order.
func (g *BuildGraph) AddInclude(dir string) {
	g.includes = append(g.includes, dir)
}

// Includes returns the include directories in declaration order.
func (g *BuildGraph) Includes() []string {
	return append([]string(nil), g.includes...)
}

// SetVariable declares a variable. Redeclaring a name replaces the value but keeps its position.
func (g *BuildGraph) SetVariable(name string, value Value) error {
	if !variableNamePattern.MatchString(name) {
		return tag(ErrInvalidVariableName, "variable", name)
	}
	for i := range g.variables {
		if g.variables[i].Name == name {
			g.variables[i].Value = value
			return nil
		}
	}
	g.variables = append(g.variables, Variable{Name: name, Value: value})
	return nil
}

// Variables returns the variables in declaration order.
func (g *BuildGraph) Variables() []Variable {
	return append([]Variable(nil), g.variables...)
}

// AddTarget registers a library or executable.
// It returns an error if a target with the same name already exists.
func (g *BuildGraph) AddTarget(t *Target) error {
	if err := t.validate(); err != nil {
		return err
	}
	if _, exists := g.targetIndex[t.Name]; exists {
		return tag(ErrTargetAlreadyExists, "target", t.Name.String())
	}
	g.targets = append(g.targets, t)
	g.targetIndex[t.Name] = t
	return nil
}

// Targets returns all targets in declaration order.
func (g *BuildGraph) Targets() []*Target {
	return append([]*Target(nil), g.targets...)
}

// Libraries returns the library targets in declaration order.
func (g *BuildGraph) Libraries() []*Target {
	return g.targetsOf(TargetLibrary)
}

// Executables returns the executable targets in declaration order.
func (g *BuildGraph) Executables() []*Target {
	return g.targetsOf(TargetExecutable)
}

// Target looks a target up by name.
func (g *BuildGraph) Target(name InternedString) (*Target, bool) {
	t, ok := g.targetIndex[name]
	return t, ok
}

func (g *BuildGraph) targetsOf(kind TargetKind) []*Target {
	var out []*Target
	for _, t := range g.targets {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// AddShellFunction registers a named shell rule.
func (g *BuildGraph) AddShellFunction(fn ShellFunction) error {
	name := fn.Name.String()
	if _, reserved := reservedRuleNames[name]; reserved {
		return tag(ErrReservedName, "name", name)
	}
	if name == "" || strings.ContainsAny(name, " :=#") {
		return tag(ErrInvalidCommand, "name", name)
	}
	if _, exists := g.functionIndex[fn.Name]; exists {
		return tag(ErrRuleAlreadyExists, "name", name)
	}
	g.functionIndex[fn.Name] = len(g.functions)
	g.functions = append(g.functions, fn)
	return nil
}

// ShellFunctions returns the named shell rules in declaration order.
func (g *BuildGraph) ShellFunctions() []ShellFunction {
	return append([]ShellFunction(nil), g.functions...)
}

// HasShellFunction reports whether a shell rule with the given name exists.
func (g *BuildGraph) HasShellFunction(name InternedString) bool {
	_, ok := g.functionIndex[name]
	return ok
}

// AddCustomStep appends an anonymous custom step.
func (g *BuildGraph) AddCustomStep(step CustomStep) error {
	if err := step.validate(); err != nil {
		return err
	}
	g.customSteps = append(g.customSteps, step)
	return nil
}

// CustomSteps returns the custom steps in declaration order.
func (g *BuildGraph) CustomSteps() []CustomStep {
	return append([]CustomStep(nil), g.customSteps...)
}

// AddPackage declares a registry package the project needs.
func (g *BuildGraph) AddPackage(req DependencyRequest) {
	g.packages = append(g.packages, req)
}

// Packages returns the declared registry packages.
func (g *BuildGraph) Packages() []DependencyRequest {
	return append([]DependencyRequest(nil), g.packages...)
}

// CompileFlags returns the flags a translation unit of t is compiled with:
// debug flags, user flags, include paths, then the target's own flags.
func (g *BuildGraph) CompileFlags(t *Target, exists func(string) bool) []string {
	flags := g.config.DebugFlags()
	flags = append(flags, g.config.CFlags()...)
	flags = append(flags, g.IncludeFlags(exists)...)
	if t != nil {
		flags = append(flags, t.CFlags...)
	}
	return flags
}

// IncludeFlags returns one -I flag per include directory. The vendor header
// directory is searched last when it exists and was not declared.
func (g *BuildGraph) IncludeFlags(exists func(string) bool) []string {
	flags := make([]string, 0, len(g.includes)+1)
	vendored := false
	for _, inc := range g.includes {
		flags = append(flags, "-I"+inc)
		if path.Clean(inc) == VendorIncludeDir {
			vendored = true
		}
	}
	if !vendored && exists(VendorIncludeDir) {
		flags = append(flags, "-I"+VendorIncludeDir)
	}
	return flags
}

// Validate resolves every target dependency and rejects library cycles.
func (g *BuildGraph) Validate() error {
	for _, t := range g.targets {
		for _, dep := range t.Deps {
			target, isTarget := g.targetIndex[dep]
			switch {
			case isTarget && target.Kind == TargetLibrary:
			case g.HasShellFunction(dep):
			case isTarget:
				return tag(ErrInvalidDependency, "target", t.Name.String(), "dependency", dep.String())
			default:
				return tag(ErrMissingDependency, "target", t.Name.String(), "dependency", dep.String())
			}
		}
	}

	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(t *Target) error
	visit = func(t *Target) error {
		visited[t.Name] = 1
		path = append(path, t.Name)

		for _, lib := range g.libraryDeps(t) {
			if visited[lib.Name] == 1 {
				return buildCycleError(path, lib.Name)
			}
			if visited[lib.Name] == 0 {
				if err := visit(lib); err != nil {
					return err
				}
			}
		}

		visited[t.Name] = 2
		path = path[:len(path)-1]
		return nil
	}

	for _, t := range g.targets {
		if visited[t.Name] == 0 {
			if err := visit(t); err != nil {
				return err
			}
		}
	}
	return nil
}

// LinkClosure returns every library t links against: its declared libraries
// followed by their own libraries, each library ahead of the ones it needs.
// Declaration order is kept wherever the dependency order allows it.
// It assumes Validate has returned nil.
func (g *BuildGraph) LinkClosure(t *Target) []*Target {
	visited := make(map[InternedString]bool)
	var post []*Target

	var visit func(lib *Target)
	visit = func(lib *Target) {
		visited[lib.Name] = true
		deps := g.libraryDeps(lib)
		for i := len(deps) - 1; i >= 0; i-- {
			if !visited[deps[i].Name] {
				visit(deps[i])
			}
		}
		post = append(post, lib)
	}

	deps := g.libraryDeps(t)
	for i := len(deps) - 1; i >= 0; i-- {
		if !visited[deps[i].Name] {
			visit(deps[i])
		}
	}

	closure := make([]*Target, len(post))
	for i, lib := range post {
		closure[len(post)-1-i] = lib
	}
	return closure
}

// LinkFlags returns the library search paths and -l flags of an executable.
// -Lvendor/lib is added when exists reports the directory, -Lbuild/lib when it
// exists or when t links a library of this graph.
func (g *BuildGraph) LinkFlags(t *Target, exists func(string) bool) []string {
	closure := g.LinkClosure(t)

	var flags []string
	if exists(VendorLibDir) {
		flags = append(flags, "-L"+VendorLibDir)
	}
	if len(closure) > 0 || exists(LibDir()) {
		flags = append(flags, "-L"+LibDir())
	}
	for _, lib := range closure {
		flags = append(flags, "-l"+lib.Name.String())
	}
	return flags
}

// ShellDeps returns the shell rules t declared as dependencies, in order.
func (g *BuildGraph) ShellDeps(t *Target) []string {
	var out []string
	for _, dep := range t.Deps {
		if lib, ok := g.targetIndex[dep]; ok && lib.Kind == TargetLibrary {
			continue
		}
		if g.HasShellFunction(dep) {
			out = append(out, dep.String())
		}
	}
	return out
}

// ResolveRuleDep maps a shell rule dependency to a build script prerequisite:
// another rule name, a target's artifact path, or the dependency itself as a file.
func (g *BuildGraph) ResolveRuleDep(dep string) string {
	name := NewInternedString(dep)
	if g.HasShellFunction(name) {
		return dep
	}
	if t, ok := g.targetIndex[name]; ok {
		return t.Artifact()
	}
	return dep
}

func (g *BuildGraph) libraryDeps(t *Target) []*Target {
	var out []*Target
	for _, dep := range t.Deps {
		if lib, ok := g.targetIndex[dep]; ok && lib.Kind == TargetLibrary {
			out = append(out, lib)
		}
	}
	return out
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []InternedString, dep InternedString) error {
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	parts := make([]string, 0, len(path)-startIdx+1)
	for i := startIdx; i < len(path); i++ {
		parts = append(parts, path[i].String())
	}
	parts = append(parts, dep.String())
	return tag(ErrCycleDetected, "cycle", strings.Join(parts, " -> "))
}
