// Package makefile renders a build graph as a GNU Makefile.
package makefile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports"
	"go.trai.ch/zerr"
)

const header = "# Code generated by pkgman. DO NOT EDIT."

// helpWidth pads rule names in the help listing.
const helpWidth = 24

// Emitter implements ports.Emitter.
type Emitter struct {
	verifier ports.Verifier
}

// NewEmitter creates an Emitter. The verifier answers whether the library
// search directories exist at emission time.
func NewEmitter(verifier ports.Verifier) *Emitter {
	return &Emitter{verifier: verifier}
}

// Emit writes the Makefile for graph to w. The output only depends on the
// graph, the toolchain and the library directories present on disk.
func (e *Emitter) Emit(w io.Writer, graph *domain.BuildGraph, toolchain domain.Toolchain) error {
	out := bufio.NewWriter(w)
	m := &emission{
		w:         out,
		graph:     graph,
		project:   graph.Project().Name,
		exists:    e.verifier.Exists,
		steps:     graph.CustomSteps(),
		fns:       graph.ShellFunctions(),
		libs:      graph.Libraries(),
		exes:      graph.Executables(),
		toolchain: toolchain,
	}

	m.preamble()
	m.phony()
	m.defaultGoal()
	m.shellFunctions()
	for _, lib := range m.libs {
		m.library(lib)
	}
	for _, exe := range m.exes {
		m.executable(exe)
	}
	m.customSteps()
	m.clean()
	m.help()
	m.dependencyFiles()

	if err := out.Flush(); err != nil {
		return zerr.Wrap(err, "failed to write makefile")
	}
	return nil
}

type emission struct {
	w         *bufio.Writer
	graph     *domain.BuildGraph
	project   string
	exists    func(string) bool
	steps     []domain.CustomStep
	fns       []domain.ShellFunction
	libs      []*domain.Target
	exes      []*domain.Target
	toolchain domain.Toolchain
	objects   []string
}

func (m *emission) line(parts ...string) {
	_, _ = m.w.WriteString(strings.Join(parts, ""))
	_ = m.w.WriteByte('\n')
}

func (m *emission) assign(name string, values ...string) {
	value := strings.Join(nonEmpty(values), " ")
	if value == "" {
		m.line(name, " =")
		return
	}
	m.line(name, " = ", value)
}

// rule writes "target: prereqs | orderOnly" followed by tab-indented recipe lines.
func (m *emission) rule(target string, prereqs, orderOnly []string, recipe ...string) {
	head := target + ":"
	if len(prereqs) > 0 {
		head += " " + strings.Join(prereqs, " ")
	}
	if len(orderOnly) > 0 {
		head += " | " + strings.Join(orderOnly, " ")
	}
	m.line(head)
	for _, r := range recipe {
		m.line("\t", r)
	}
	m.line()
}

func (m *emission) preamble() {
	p := m.graph.Project()
	m.line(header)
	if p.Version != "" {
		m.line("# Project: ", p.Name, " ", p.Version)
	} else {
		m.line("# Project: ", p.Name)
	}
	m.line()

	cfg := m.graph.Config()
	m.assign("CC", m.toolchain.Compiler)
	m.assign("AR", m.toolchain.Archiver)
	m.assign("LD", m.toolchain.LinkDriver)

	cflags := cfg.DebugFlags()
	cflags = append(cflags, "-MMD", "-MP")
	cflags = append(cflags, cfg.CFlags()...)
	cflags = append(cflags, m.graph.IncludeFlags(m.exists)...)
	m.assign("CFLAGS", cflags...)
	m.assign("LDFLAGS", cfg.LDFlags()...)

	for _, v := range m.graph.Variables() {
		m.assign(v.Name, v.Value.String())
	}
	m.line()
}

func (m *emission) phony() {
	names := []string{"all", "clean", "help"}
	for _, fn := range m.fns {
		names = append(names, fn.Name.String())
	}
	for i, step := range m.steps {
		names = append(names, step.RuleName(i))
	}
	m.line(".PHONY: ", strings.Join(names, " "))
	m.line()
}

func (m *emission) defaultGoal() {
	artifacts := make([]string, len(m.exes))
	for i, exe := range m.exes {
		artifacts[i] = exe.Artifact()
	}
	m.rule("all", artifacts, nil)
}

func (m *emission) shellFunctions() {
	for _, fn := range m.fns {
		m.rule(fn.Name.String(), m.resolve(fn.Deps), nil,
			echo("SHELL", "Running "+fn.Name.String()),
			fn.Command,
		)
	}
}

func (m *emission) compileRules(t *domain.Target) []string {
	objects := t.Objects(m.project)
	shellDeps := m.graph.ShellDeps(t)

	compile := "$(CC) $(CFLAGS)"
	if len(t.CFlags) > 0 {
		compile += " " + strings.Join(t.CFlags, " ")
	}
	compile += " -c $< -o $@"

	for i, src := range t.Sources {
		m.rule(objects[i], []string{src}, shellDeps,
			"@mkdir -p $(@D)",
			echo("CC", "Compiling "+src),
			"@"+compile,
		)
	}
	m.objects = append(m.objects, objects...)
	return objects
}

func (m *emission) library(lib *domain.Target) {
	objects := m.compileRules(lib)
	artifact := lib.Artifact()

	m.rule(artifact, objects, nil,
		"@mkdir -p $(@D)",
		echo("AR", "Archiving "+artifact),
		"@rm -f $@",
		"@$(AR) rcs $@ "+strings.Join(objects, " "),
	)
}

func (m *emission) executable(exe *domain.Target) {
	objects := m.compileRules(exe)
	artifact := exe.Artifact()

	prereqs := append([]string(nil), objects...)
	for _, lib := range m.graph.LinkClosure(exe) {
		prereqs = append(prereqs, lib.Artifact())
	}

	link := []string{"$(LD)"}
	link = append(link, objects...)
	link = append(link, "-o", "$@")
	link = append(link, m.graph.LinkFlags(exe, m.exists)...)
	link = append(link, "$(LDFLAGS)")

	m.rule(artifact, prereqs, m.graph.ShellDeps(exe),
		"@mkdir -p $(@D)",
		echo("LD", "Linking "+artifact),
		"@"+strings.Join(link, " "),
	)
}

func (m *emission) customSteps() {
	for i, step := range m.steps {
		name := step.RuleName(i)
		switch step.Kind {
		case domain.CustomStepCopy:
			m.rule(name, []string{step.Src}, nil,
				echo("COPY", "Copying "+step.Src+" -> "+step.Dest),
				"@mkdir -p $(dir "+step.Dest+")",
				"cp "+step.Src+" "+step.Dest,
			)
		default:
			m.rule(name, m.resolve(step.Deps), nil,
				echo("SHELL", "Running "+name),
				step.Command,
			)
		}
	}
}

func (m *emission) clean() {
	m.rule("clean", nil, nil,
		echo("CLEAN", "Removing "+domain.BuildDirName),
		"@rm -rf "+domain.BuildDirName,
	)
}

func (m *emission) help() {
	recipe := []string{
		`@echo "Available targets:"`,
		helpEntry("all", "Build all executables"),
		helpEntry("clean", "Remove the build directory"),
	}
	for _, fn := range m.fns {
		recipe = append(recipe, helpEntry(fn.Name.String(), "Shell rule"))
	}
	for i, step := range m.steps {
		recipe = append(recipe, helpEntry(step.RuleName(i), "Custom "+string(step.Kind)+" step"))
	}
	for _, exe := range m.exes {
		recipe = append(recipe, helpEntry(exe.Artifact(), "Executable "+exe.Name.String()))
	}
	for _, lib := range m.libs {
		recipe = append(recipe, helpEntry(lib.Artifact(), "Static library "+lib.Name.String()))
	}
	m.rule("help", nil, nil, recipe...)
}

func (m *emission) dependencyFiles() {
	for _, obj := range m.objects {
		m.line("-include ", domain.DepFilePath(obj))
	}
}

func (m *emission) resolve(deps []string) []string {
	out := make([]string, 0, len(deps))
	for _, dep := range deps {
		out = append(out, m.graph.ResolveRuleDep(dep))
	}
	return out
}

func echo(tag, msg string) string {
	return fmt.Sprintf(`@echo "[%s] %s"`, tag, msg)
}

func helpEntry(name, desc string) string {
	return fmt.Sprintf(`@echo "  %-*s %s"`, helpWidth, name, desc)
}

func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
