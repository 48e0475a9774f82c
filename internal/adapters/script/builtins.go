package script

import (
	"errors"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"
	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/zerr"
	"mvdan.cc/sh/v3/syntax"
)

func project(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name, version string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "version?", &version); err != nil {
		return nil, err
	}

	if err := stateOf(thread).graph.SetProject(domain.Project{Name: name, Version: version}); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

func config(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key string
	var raw starlark.Value
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "key", &key, "value", &raw); err != nil {
		return nil, err
	}

	value, err := toValue(raw, "value")
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateConfig(key, value); err != nil {
		return nil, err
	}
	stateOf(thread).graph.SetConfig(key, value)
	return starlark.None, nil
}

func include(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var path string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "path", &path); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, zerr.New("include path must not be empty")
	}

	stateOf(thread).graph.AddInclude(filepath.ToSlash(path))
	return starlark.None, nil
}

func variable(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var raw starlark.Value
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "value", &raw); err != nil {
		return nil, err
	}

	value, err := toValue(raw, "value")
	if err != nil {
		return nil, err
	}
	if err := stateOf(thread).graph.SetVariable(name, value); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

func files(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var pattern string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "pattern", &pattern); err != nil {
		return nil, err
	}

	// Sources are compiled from the working directory, so globs resolve there
	// too, wherever the script lives.
	matches, err := stateOf(thread).resolver.ResolveInputs([]string{pattern}, ".")
	if err != nil {
		return nil, err
	}
	return stringList(matches), nil
}

// targetBuiltin returns exe() or lib(): name, then any number of sources or
// lists of sources.
func targetBuiltin(kind domain.TargetKind) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			name   string
			deps   starlark.Value = starlark.None
			cflags starlark.Value = starlark.None
		)
		head, rest := args, starlark.Tuple(nil)
		if len(args) > 1 {
			head, rest = args[:1], args[1:]
		}
		if err := starlark.UnpackArgs(fn.Name(), head, kwargs, "name", &name, "deps?", &deps, "cflags?", &cflags); err != nil {
			return nil, err
		}

		sources, err := flattenStrings(rest, "sources")
		if err != nil {
			return nil, zerr.With(err, "target", name)
		}
		for i, src := range sources {
			sources[i] = filepath.ToSlash(src)
		}

		depNames, err := toDeps(deps)
		if err != nil {
			return nil, zerr.With(err, "target", name)
		}
		flags, err := optionalStrings(cflags, "cflags")
		if err != nil {
			return nil, zerr.With(err, "target", name)
		}

		target := &domain.Target{
			Kind:    kind,
			Name:    domain.NewInternedString(name),
			Sources: sources,
			Deps:    domain.InternStrings(depNames),
			CFlags:  flags,
		}
		if err := stateOf(thread).graph.AddTarget(target); err != nil {
			return nil, err
		}
		return &targetValue{target: target}, nil
	}
}

func shell(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		cmd  string
		name starlark.Value = starlark.None
		deps starlark.Value = starlark.None
	)
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "cmd", &cmd, "name?", &name, "deps?", &deps); err != nil {
		return nil, err
	}

	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	depNames, err := toDeps(deps)
	if err != nil {
		return nil, err
	}

	graph := stateOf(thread).graph
	if name == starlark.None {
		step := domain.CustomStep{Kind: domain.CustomStepShell, Command: cmd, Deps: depNames}
		if err := graph.AddCustomStep(step); err != nil {
			return nil, err
		}
		return starlark.None, nil
	}

	ruleName, ok := starlark.AsString(name)
	if !ok {
		return nil, zerr.With(zerr.New("shell name must be a string"), "type", name.Type())
	}
	fnDef := domain.ShellFunction{Name: domain.NewInternedString(ruleName), Command: cmd, Deps: depNames}
	if err := graph.AddShellFunction(fnDef); err != nil {
		return nil, err
	}
	return ruleValue(ruleName), nil
}

func customStep(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	head := append(starlark.Tuple(nil), args...)
	var rest []starlark.Tuple
	for _, kv := range kwargs {
		if key, _ := starlark.AsString(kv[0]); key == "type" {
			head = append(head, kv[1])
			continue
		}
		rest = append(rest, kv)
	}

	var kind string
	if err := starlark.UnpackArgs(fn.Name(), head, nil, "type", &kind); err != nil {
		return nil, err
	}
	kwargs = rest

	var step domain.CustomStep
	switch domain.CustomStepKind(kind) {
	case domain.CustomStepShell:
		var deps starlark.Value = starlark.None
		if err := starlark.UnpackArgs(fn.Name(), nil, kwargs, "cmd", &step.Command, "deps?", &deps); err != nil {
			return nil, err
		}
		if err := validateCommand(step.Command); err != nil {
			return nil, err
		}
		names, err := toDeps(deps)
		if err != nil {
			return nil, err
		}
		step.Deps = names
	case domain.CustomStepCopy:
		if err := starlark.UnpackArgs(fn.Name(), nil, kwargs, "src", &step.Src, "dest", &step.Dest); err != nil {
			return nil, err
		}
		step.Src, step.Dest = filepath.ToSlash(step.Src), filepath.ToSlash(step.Dest)
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidCustomStep, "unknown custom step type"), "type", kind)
	}

	step.Kind = domain.CustomStepKind(kind)
	if err := stateOf(thread).graph.AddCustomStep(step); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

func dependency(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name, version string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "version?", &version); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, zerr.New("dependency name must not be empty")
	}

	stateOf(thread).graph.AddPackage(domain.NewDependencyRequest(name, version))
	return starlark.None, nil
}

// validateCommand accepts a single, non-empty line of POSIX shell.
func validateCommand(cmd string) error {
	if strings.TrimSpace(cmd) == "" {
		return zerr.Wrap(domain.ErrInvalidCommand, "command is empty")
	}
	if strings.ContainsAny(cmd, "\r\n") {
		return zerr.With(zerr.Wrap(domain.ErrInvalidCommand, "command spans multiple lines"), "command", cmd)
	}
	if _, err := syntax.NewParser().Parse(strings.NewReader(cmd), "cmd"); err != nil {
		return errors.Join(domain.ErrInvalidCommand, zerr.With(zerr.Wrap(err, "command is not valid shell"), "command", cmd))
	}
	return nil
}
