package script_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pkgman/internal/adapters/fs"
	"go.trai.ch/pkgman/internal/adapters/script"
	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeScript(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "pkgman.star")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o600))
	}
}

func newEvaluator(t *testing.T) (*script.Evaluator, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	return script.NewEvaluator(fs.NewResolver(), log), log
}

func TestEvaluate_DemoProject(t *testing.T) {
	evaluator, _ := newEvaluator(t)
	path := writeScript(t, t.TempDir(), `
project("demo", "1.0")
include("include")
lib("core", "src/a.c")
exe("app", "src/main.c", deps=["core"])
`)

	graph, err := evaluator.Evaluate(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, domain.Project{Name: "demo", Version: "1.0"}, graph.Project())
	assert.Equal(t, []string{"include"}, graph.Includes())

	libs := graph.Libraries()
	require.Len(t, libs, 1)
	assert.Equal(t, "core", libs[0].Name.String())
	assert.Equal(t, []string{"src/a.c"}, libs[0].Sources)

	exes := graph.Executables()
	require.Len(t, exes, 1)
	assert.Equal(t, "app", exes[0].Name.String())
	assert.Equal(t, []string{"core"}, domain.Strings(exes[0].Deps))
}

func TestEvaluate_FilesAndReferences(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	touch(t, dir, "src/net/b.c", "src/net/a.c", "src/main.c", "src/net/readme.txt")
	evaluator, _ := newEvaluator(t)
	path := writeScript(t, dir, `
net = lib("net", files("src/net/*.c"), cflags=["-DNET"])
app = exe("app", "src/main.c", deps=[net])
assert_name = app.name
`)

	graph, err := evaluator.Evaluate(context.Background(), path)
	require.NoError(t, err)

	net, ok := graph.Target(domain.NewInternedString("net"))
	require.True(t, ok)
	assert.Equal(t, []string{"src/net/a.c", "src/net/b.c"}, net.Sources)
	assert.Equal(t, []string{"-DNET"}, net.CFlags)

	app, ok := graph.Target(domain.NewInternedString("app"))
	require.True(t, ok)
	assert.Equal(t, []string{"net"}, domain.Strings(app.Deps))
}

func TestEvaluate_FilesResolveFromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	touch(t, dir, "src/main.c", "build/src/stray.c")
	evaluator, _ := newEvaluator(t)
	path := writeScript(t, filepath.Join(dir, "build"), `exe("app", files("src/*.c"))`)

	graph, err := evaluator.Evaluate(context.Background(), path)
	require.NoError(t, err)

	app, ok := graph.Target(domain.NewInternedString("app"))
	require.True(t, ok)
	assert.Equal(t, []string{"src/main.c"}, app.Sources)
}

func TestEvaluate_RecursiveFilesLoop(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	touch(t, dir, "tools/gen/one.c", "tools/two.c")
	evaluator, _ := newEvaluator(t)
	path := writeScript(t, dir, `
for src in files("tools/**/*.c"):
    name = src.split("/")[-1].replace(".c", "")
    exe(name, src)
`)

	graph, err := evaluator.Evaluate(context.Background(), path)
	require.NoError(t, err)

	var names []string
	for _, exe := range graph.Executables() {
		names = append(names, exe.Name.String())
	}
	assert.Equal(t, []string{"one", "two"}, names)
}

func TestEvaluate_ShellAndCustomSteps(t *testing.T) {
	evaluator, _ := newEvaluator(t)
	path := writeScript(t, t.TempDir(), `
gen = shell("python3 gen.py > include/gen.h", name="gen_header", deps=["gen.py"])
lib("core", "src/a.c", deps=[gen])
shell("echo done", deps=["core"])
custom_step("copy", src="assets/config.ini", dest="build/config.ini")
custom_step(type="shell", cmd="strip build/app")
`)

	graph, err := evaluator.Evaluate(context.Background(), path)
	require.NoError(t, err)

	fns := graph.ShellFunctions()
	require.Len(t, fns, 1)
	assert.Equal(t, "gen_header", fns[0].Name.String())
	assert.Equal(t, "python3 gen.py > include/gen.h", fns[0].Command)
	assert.Equal(t, []string{"gen.py"}, fns[0].Deps)

	assert.Equal(t, []domain.CustomStep{
		{Kind: domain.CustomStepShell, Command: "echo done", Deps: []string{"core"}},
		{Kind: domain.CustomStepCopy, Src: "assets/config.ini", Dest: "build/config.ini"},
		{Kind: domain.CustomStepShell, Command: "strip build/app"},
	}, graph.CustomSteps())

	core, _ := graph.Target(domain.NewInternedString("core"))
	assert.Equal(t, []string{"gen_header"}, domain.Strings(core.Deps))
}

func TestEvaluate_ConfigVariablesAndDependencies(t *testing.T) {
	evaluator, _ := newEvaluator(t)
	path := writeScript(t, t.TempDir(), `
config("CC", "clang")
config("CFLAGS", ["-Wall", "-Wextra"])
config("DEBUG", True)
variable("PREFIX", "/usr/local")
variable("JOBS", 4)
variable("SUBDIRS", ["src", "lib"])
dependency("zlib")
dependency("sqlite", version="3.45")
`)

	graph, err := evaluator.Evaluate(context.Background(), path)
	require.NoError(t, err)

	cfg := graph.Config()
	assert.True(t, cfg.Debug())
	assert.Equal(t, []string{"-Wall", "-Wextra"}, cfg.CFlags())
	assert.Equal(t, "clang", cfg.Overrides().Compiler)

	assert.Equal(t, []domain.Variable{
		{Name: "PREFIX", Value: domain.StringValue("/usr/local")},
		{Name: "JOBS", Value: domain.StringValue("4")},
		{Name: "SUBDIRS", Value: domain.ListValue([]string{"src", "lib"})},
	}, graph.Variables())

	assert.Equal(t, []domain.DependencyRequest{
		domain.NewDependencyRequest("zlib", ""),
		domain.NewDependencyRequest("sqlite", "3.45"),
	}, graph.Packages())
}

func TestEvaluate_PrintGoesToLogger(t *testing.T) {
	evaluator, log := newEvaluator(t)
	log.EXPECT().Info("configuring demo").Times(1)
	path := writeScript(t, t.TempDir(), `print("configuring demo")`)

	_, err := evaluator.Evaluate(context.Background(), path)
	require.NoError(t, err)
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr error
		message string
	}{
		{
			name:    "syntax error",
			script:  "exe(\"app\", \n",
			message: "pkgman.star",
		},
		{
			name:    "unknown builtin",
			script:  `open("/etc/passwd")`,
			message: "undefined: open",
		},
		{
			name:    "load is not available",
			script:  `load("other.star", "x")`,
			message: "load",
		},
		{
			name:    "duplicate target",
			script:  "lib(\"core\", \"a.c\")\nexe(\"core\", \"main.c\")",
			wantErr: domain.ErrTargetAlreadyExists,
		},
		{
			name:    "undeclared dependency",
			script:  `exe("app", "main.c", deps=["missing"])`,
			wantErr: domain.ErrMissingDependency,
		},
		{
			name:    "executable as dependency",
			script:  "exe(\"tool\", \"tool.c\")\nexe(\"app\", \"main.c\", deps=[\"tool\"])",
			wantErr: domain.ErrInvalidDependency,
		},
		{
			name:    "library cycle",
			script:  "lib(\"a\", \"a.c\", deps=[\"b\"])\nlib(\"b\", \"b.c\", deps=[\"a\"])",
			wantErr: domain.ErrCycleDetected,
		},
		{
			name:    "target without sources",
			script:  `lib("core")`,
			wantErr: domain.ErrEmptyTarget,
		},
		{
			name:    "multi-line shell command",
			script:  `shell("echo a\necho b", name="twice")`,
			wantErr: domain.ErrInvalidCommand,
		},
		{
			name:    "invalid shell syntax",
			script:  `shell("echo (", name="broken")`,
			wantErr: domain.ErrInvalidCommand,
		},
		{
			name:    "reserved shell name",
			script:  `shell("rm -rf out", name="clean")`,
			wantErr: domain.ErrReservedName,
		},
		{
			name:    "unknown custom step type",
			script:  `custom_step("upload", cmd="scp a b")`,
			wantErr: domain.ErrInvalidCustomStep,
		},
		{
			name:    "unknown custom step argument",
			script:  `custom_step("copy", src="a", dest="b", mode="0644")`,
			message: "unexpected keyword argument mode",
		},
		{
			name:    "project declared twice",
			script:  "project(\"a\")\nproject(\"b\")",
			wantErr: domain.ErrProjectRedeclared,
		},
		{
			name:    "invalid project name",
			script:  `project("my app")`,
			wantErr: domain.ErrInvalidProjectName,
		},
		{
			name:    "missing literal file",
			script:  `exe("app", files("src/absent.c"))`,
			wantErr: domain.ErrMissingFile,
		},
		{
			name:    "compiler override as list",
			script:  `config("CC", ["ccache", "cc"])`,
			wantErr: domain.ErrInvalidToolOverride,
		},
		{
			name:    "linker override with arguments",
			script:  `config("LD", "ld -static")`,
			wantErr: domain.ErrInvalidToolOverride,
		},
		{
			name:    "unsupported variable value",
			script:  `variable("OPTS", {"a": 1})`,
			message: "unsupported value type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluator, _ := newEvaluator(t)
			path := writeScript(t, t.TempDir(), tt.script)

			graph, err := evaluator.Evaluate(context.Background(), path)
			require.Error(t, err)
			assert.Nil(t, graph)
			require.ErrorIs(t, err, domain.ErrConfigEvaluation)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestEvaluate_MissingScript(t *testing.T) {
	evaluator, _ := newEvaluator(t)

	_, err := evaluator.Evaluate(context.Background(), filepath.Join(t.TempDir(), "pkgman.star"))
	require.ErrorIs(t, err, domain.ErrConfigEvaluation)
	require.ErrorIs(t, err, domain.ErrMissingFile)
}

func TestEvaluate_CanceledContext(t *testing.T) {
	evaluator, _ := newEvaluator(t)
	path := writeScript(t, t.TempDir(), `exe("app", "main.c")`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := evaluator.Evaluate(ctx, path)
	require.ErrorIs(t, err, domain.ErrConfigEvaluation)
	require.ErrorIs(t, err, context.Canceled)
}
