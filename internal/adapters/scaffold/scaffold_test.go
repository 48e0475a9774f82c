package scaffold_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pkgman/internal/adapters/scaffold"
	"go.trai.ch/pkgman/internal/core/domain"
)

func TestScaffolder_Init(t *testing.T) {
	dir := t.TempDir()

	name, err := scaffold.New().Init(dir, "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", name)

	for _, sub := range []string{"src", "include", "build"} {
		assert.DirExists(t, filepath.Join(dir, sub))
	}

	mainC, err := os.ReadFile(filepath.Join(dir, "src", "main.c"))
	require.NoError(t, err)
	assert.Contains(t, string(mainC), `printf("Hello from C project!\n");`)

	metadata, err := os.ReadFile(filepath.Join(dir, "pkgman.txt"))
	require.NoError(t, err)
	assert.Equal(t, "project=demo\nlanguage=c\n", string(metadata))

	script, err := os.ReadFile(filepath.Join(dir, "pkgman.star"))
	require.NoError(t, err)
	assert.Equal(t,
		"project(\"demo\", version = \"0.1.0\")\n\ninclude(\"include\")\n\nexe(\"demo\", files(\"src/*.c\"))\n",
		string(script))
}

func TestScaffolder_Init_DefaultsToDirectoryName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "hello_world")
	require.NoError(t, os.Mkdir(dir, domain.DirPerm))

	name, err := scaffold.New().Init(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "hello_world", name)

	metadata, err := os.ReadFile(filepath.Join(dir, "pkgman.txt"))
	require.NoError(t, err)
	assert.Equal(t, "project=hello_world\nlanguage=c\n", string(metadata))
}

func TestScaffolder_Init_KeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.c"), []byte("int main(void) { return 7; }\n"), domain.FilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkgman.star"), []byte("project(\"mine\")\n"), domain.FilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkgman.txt"), []byte("project=old\n"), domain.FilePerm))

	_, err := scaffold.New().Init(dir, "fresh")
	require.NoError(t, err)

	mainC, err := os.ReadFile(filepath.Join(dir, "src", "main.c"))
	require.NoError(t, err)
	assert.Equal(t, "int main(void) { return 7; }\n", string(mainC))

	script, err := os.ReadFile(filepath.Join(dir, "pkgman.star"))
	require.NoError(t, err)
	assert.Equal(t, "project(\"mine\")\n", string(script))

	metadata, err := os.ReadFile(filepath.Join(dir, "pkgman.txt"))
	require.NoError(t, err)
	assert.Equal(t, "project=fresh\nlanguage=c\n", string(metadata))
}

func TestScaffolder_Init_InvalidName(t *testing.T) {
	dir := t.TempDir()

	_, err := scaffold.New().Init(dir, "my project")
	require.ErrorIs(t, err, domain.ErrInvalidProjectName)
	assert.NoDirExists(t, filepath.Join(dir, "src"))
}

func TestScaffolder_Init_NameCollidesWithBuildDir(t *testing.T) {
	dir := t.TempDir()

	_, err := scaffold.New().Init(dir, "obj")
	require.ErrorIs(t, err, domain.ErrInvalidTargetName)
	assert.NoFileExists(t, filepath.Join(dir, domain.ScriptFileName))
}
