package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ercasta/hielements/config"
)

func TestLoadDecodesLibraryEntries(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "hielements.toml")
	content := `
[libraries.ci]
type = "external"
executable = "hielements-ci-lib"
args = ["--stdio"]

[libraries.sandbox]
path = "./sandbox.wasm"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Contains(t, cfg.Libraries, "ci")
	require.Contains(t, cfg.Libraries, "sandbox")

	ciType, err := cfg.Libraries["ci"].InferType()
	require.NoError(t, err)
	assert.Equal(t, config.LibraryExternal, ciType)

	sandboxType, err := cfg.Libraries["sandbox"].InferType()
	require.NoError(t, err)
	assert.Equal(t, config.LibraryWasm, sandboxType)
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	t.Parallel()
	_, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}

func TestInferTypeRequiresEnoughInformation(t *testing.T) {
	t.Parallel()
	_, err := config.LibraryEntry{}.InferType()
	assert.Error(t, err)
}

func TestExecutablePathPrefersExplicitExecutable(t *testing.T) {
	t.Parallel()
	entry := config.LibraryEntry{Executable: "exe", Path: "path"}
	exe, err := entry.ExecutablePath()
	require.NoError(t, err)
	assert.Equal(t, "exe", exe)
}

func TestWasmPathRequiresPath(t *testing.T) {
	t.Parallel()
	_, err := config.LibraryEntry{}.WasmPath()
	assert.Error(t, err)

	entry := config.LibraryEntry{Path: "mod.wasm"}
	p, err := entry.WasmPath()
	require.NoError(t, err)
	assert.Equal(t, "mod.wasm", p)
}
