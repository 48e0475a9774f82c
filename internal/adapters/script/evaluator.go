// Package script evaluates pkgman.star build scripts into a build graph.
package script

import (
	"context"
	"errors"
	"os"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports"
	"go.trai.ch/zerr"
)

const stateKey = "pkgman.state"

// fileOptions allow top-level loops and conditionals so scripts can iterate over files().
var fileOptions = &syntax.FileOptions{
	Set:             true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// evalState is the per-evaluation context reachable from every builtin.
type evalState struct {
	graph    *domain.BuildGraph
	resolver ports.InputResolver
}

func stateOf(thread *starlark.Thread) *evalState {
	return thread.Local(stateKey).(*evalState)
}

// Evaluator implements ports.ConfigEvaluator with a Starlark interpreter that
// only knows the build vocabulary.
type Evaluator struct {
	resolver ports.InputResolver
	logger   ports.Logger
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator(resolver ports.InputResolver, logger ports.Logger) *Evaluator {
	return &Evaluator{resolver: resolver, logger: logger}
}

// Evaluate executes the script at path and returns the validated graph it declared.
func (e *Evaluator) Evaluate(ctx context.Context, path string) (*domain.BuildGraph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Join(domain.ErrConfigEvaluation, domain.ErrMissingFile,
				zerr.With(zerr.Wrap(err, "build script not found"), "path", path))
		}
		return nil, errors.Join(domain.ErrConfigEvaluation,
			zerr.With(zerr.Wrap(err, "failed to read build script"), "path", path))
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Join(domain.ErrConfigEvaluation, zerr.Wrap(err, "evaluation canceled"))
	}

	graph := domain.NewBuildGraph()
	thread := &starlark.Thread{
		Name: "pkgman",
		Print: func(_ *starlark.Thread, msg string) {
			e.logger.Info(msg)
		},
	}
	thread.SetLocal(stateKey, &evalState{
		graph:    graph,
		resolver: e.resolver,
	})

	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	if _, err := starlark.ExecFileOptions(fileOptions, thread, path, src, predeclared()); err != nil {
		wrapped := zerr.With(zerr.Wrap(err, "failed to evaluate build script"), "path", path)
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			wrapped = zerr.With(wrapped, "backtrace", evalErr.Backtrace())
		}
		return nil, errors.Join(domain.ErrConfigEvaluation, wrapped)
	}

	if err := graph.Validate(); err != nil {
		return nil, errors.Join(domain.ErrConfigEvaluation,
			zerr.With(zerr.Wrap(err, "invalid build graph"), "path", path))
	}
	return graph, nil
}

func predeclared() starlark.StringDict {
	return starlark.StringDict{
		"project":     starlark.NewBuiltin("project", project),
		"config":      starlark.NewBuiltin("config", config),
		"include":     starlark.NewBuiltin("include", include),
		"variable":    starlark.NewBuiltin("variable", variable),
		"files":       starlark.NewBuiltin("files", files),
		"exe":         starlark.NewBuiltin("exe", targetBuiltin(domain.TargetExecutable)),
		"lib":         starlark.NewBuiltin("lib", targetBuiltin(domain.TargetLibrary)),
		"shell":       starlark.NewBuiltin("shell", shell),
		"custom_step": starlark.NewBuiltin("custom_step", customStep),
		"dependency":  starlark.NewBuiltin("dependency", dependency),
	}
}
