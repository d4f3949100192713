package interpreter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ercasta/hielements/interpreter"
	"github.com/ercasta/hielements/library/files"
	"github.com/ercasta/hielements/parser"
	"github.com/ercasta/hielements/reporter"
)

func TestValidateWarnsOnUnknownLibraryImport(t *testing.T) {
	t.Parallel()

	source := "import unknown\n\nelement api:\n  scope root = unknown.select('x')\n"
	prog, parseDiags := parser.Parse(source, "test.hie")
	require.False(t, parseDiags.HasErrors())

	in := interpreter.New(t.TempDir(), nil)
	diags := in.Validate(prog, parseDiags, "test.hie")

	require.NotEmpty(t, diags.Warnings())
	assert.Equal(t, reporter.CodeUnknownLibrary, diags.Warnings()[0].Code)
}

func TestValidateRecursesIntoNestedElements(t *testing.T) {
	t.Parallel()

	source := "element outer:\n" +
		"  element inner:\n" +
		"    scope root = files.folder_selector('x')\n" +
		"    check files.exists(root, 'README.md')\n"
	prog, parseDiags := parser.Parse(source, "test.hie")
	require.False(t, parseDiags.HasErrors())

	in := interpreter.New(t.TempDir(), nil)
	in.RegisterLibrary(files.New(t.TempDir()))
	diags := in.Validate(prog, parseDiags, "test.hie")

	assert.False(t, diags.HasErrors())
}

func TestRunEvaluatesScopesAndChecksInOrder(t *testing.T) {
	t.Parallel()
	workspace := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(workspace, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(workspace, "src", "README.md"), []byte("# hi"), 0o644))

	source := "element api:\n" +
		"  scope root = files.folder_selector('src')\n" +
		"  check files.exists(root, 'README.md')\n" +
		"  check files.exists(root, 'MISSING.md')\n"
	prog, parseDiags := parser.Parse(source, "test.hie")
	require.False(t, parseDiags.HasErrors())

	in := interpreter.New(workspace, nil)
	in.RegisterLibrary(files.New(workspace))

	out := in.Run(prog)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, 1, out.Passed)
	assert.Equal(t, 1, out.Failed)
	assert.Len(t, out.Results, 2)
	assert.Equal(t, "api", out.Results[0].ElementPath)
}

func TestRunWithOptionsFilterSkipsNonMatchingElements(t *testing.T) {
	t.Parallel()
	workspace := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workspace, "a.txt"), []byte("x"), 0o644))

	source := "element web:\n" +
		"  scope root = files.file_selector('a.txt')\n" +
		"  check files.exists(root, 'a.txt')\n" +
		"element db:\n" +
		"  scope root = files.file_selector('a.txt')\n" +
		"  check files.exists(root, 'a.txt')\n"
	prog, parseDiags := parser.Parse(source, "test.hie")
	require.False(t, parseDiags.HasErrors())

	in := interpreter.New(workspace, nil)
	in.RegisterLibrary(files.New(workspace))

	out := in.RunWithOptions(prog, interpreter.RunOptions{Filter: "web"})
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, 1, out.Skipped)
}

func TestRunWithOptionsLimitCapsResults(t *testing.T) {
	t.Parallel()
	workspace := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workspace, "a.txt"), []byte("x"), 0o644))

	source := "element api:\n" +
		"  scope root = files.file_selector('a.txt')\n" +
		"  check files.exists(root, 'a.txt')\n" +
		"  check files.exists(root, 'a.txt')\n" +
		"  check files.exists(root, 'a.txt')\n"
	prog, parseDiags := parser.Parse(source, "test.hie")
	require.False(t, parseDiags.HasErrors())

	in := interpreter.New(workspace, nil)
	in.RegisterLibrary(files.New(workspace))

	out := in.RunWithOptions(prog, interpreter.RunOptions{Limit: 1})
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, 2, out.Skipped)
}

func TestResolveIdentifierFallsBackToSuffixMatchAcrossElements(t *testing.T) {
	t.Parallel()
	workspace := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(workspace, "src"), 0o755))

	source := "element outer:\n" +
		"  scope root = files.folder_selector('src')\n" +
		"  element inner:\n" +
		"    check files.exists(root, 'README.md')\n"
	prog, parseDiags := parser.Parse(source, "test.hie")
	require.False(t, parseDiags.HasErrors())

	in := interpreter.New(workspace, nil)
	in.RegisterLibrary(files.New(workspace))

	out := in.Run(prog)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "outer.inner", out.Results[0].ElementPath)
	assert.NotEqual(t, "error", out.Results[0].Status.String())
}

func TestRunReportsErrorForUnknownLibraryCall(t *testing.T) {
	t.Parallel()

	source := "element api:\n" +
		"  check ghost.exists('x')\n"
	prog, parseDiags := parser.Parse(source, "test.hie")
	require.False(t, parseDiags.HasErrors())

	in := interpreter.New(t.TempDir(), nil)
	out := in.Run(prog)

	require.Len(t, out.Results, 1)
	assert.Equal(t, 1, out.Errors)
}
