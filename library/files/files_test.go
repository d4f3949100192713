package files_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ercasta/hielements/library"
	"github.com/ercasta/hielements/library/files"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestFolderSelectorCollectsFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "src/a.go", "package src")
	writeFile(t, dir, "src/sub/b.go", "package sub")

	lib := files.New(dir)
	v, err := lib.Call("folder_selector", []library.Value{library.Str("src")})
	require.NoError(t, err)

	scope, ok := v.AsScope()
	require.True(t, ok)
	assert.Equal(t, library.ScopeFolder, scope.Kind)
	assert.Len(t, scope.Paths, 2)
}

func TestFileSelectorOnMissingFileYieldsEmptyScope(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	lib := files.New(dir)
	v, err := lib.Call("file_selector", []library.Value{library.Str("missing.txt")})
	require.NoError(t, err)

	scope, ok := v.AsScope()
	require.True(t, ok)
	assert.Empty(t, scope.Paths)
}

func TestCheckExistsOnFolderScope(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "src/README.md", "# readme")

	lib := files.New(dir)
	scopeVal, err := lib.Call("folder_selector", []library.Value{library.Str("src")})
	require.NoError(t, err)

	result, err := lib.Check("exists", []library.Value{scopeVal, library.Str("README.md")})
	require.NoError(t, err)
	assert.Equal(t, library.StatusPass, result.Status)

	result, err = lib.Check("exists", []library.Value{scopeVal, library.Str("MISSING.md")})
	require.NoError(t, err)
	assert.Equal(t, library.StatusFail, result.Status)
}

func TestCheckNoFilesMatchingFindsOffenders(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "src/a.tmp", "junk")

	lib := files.New(dir)
	scopeVal, err := lib.Call("folder_selector", []library.Value{library.Str("src")})
	require.NoError(t, err)

	result, err := lib.Check("no_files_matching", []library.Value{scopeVal, library.Str("*.tmp")})
	require.NoError(t, err)
	assert.Equal(t, library.StatusFail, result.Status)
	assert.Contains(t, result.Message, "1 files")
}

func TestCheckMaxSizeFailsWhenExceeded(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "big.txt", "0123456789")

	lib := files.New(dir)
	scopeVal, err := lib.Call("file_selector", []library.Value{library.Str("big.txt")})
	require.NoError(t, err)

	result, err := lib.Check("max_size", []library.Value{scopeVal, library.Int(5)})
	require.NoError(t, err)
	assert.Equal(t, library.StatusFail, result.Status)

	result, err = lib.Check("max_size", []library.Value{scopeVal, library.Int(100)})
	require.NoError(t, err)
	assert.Equal(t, library.StatusPass, result.Status)
}

func TestCallUnknownFunctionReturnsError(t *testing.T) {
	t.Parallel()
	lib := files.New(t.TempDir())
	_, err := lib.Call("nonexistent", nil)
	assert.Error(t, err)
}
