package wiring_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ercasta/hielements/internal/wiring"
)

func TestNewRegistersBuiltinsWithNoConfigFile(t *testing.T) {
	t.Parallel()
	workspace := t.TempDir()

	in, err := wiring.New(workspace, nil)
	require.NoError(t, err)

	names := in.Registry().Names()
	assert.Contains(t, names, "files")
	assert.Contains(t, names, "rust")
}

func TestNewWiresExternalLibraryFromConfig(t *testing.T) {
	t.Parallel()
	workspace := t.TempDir()

	toml := `
[libraries.ci]
type = "external"
executable = "hielements-ci-lib"
args = ["--stdio"]
`
	require.NoError(t, os.WriteFile(filepath.Join(workspace, "hielements.toml"), []byte(toml), 0o644))

	in, err := wiring.New(workspace, nil)
	require.NoError(t, err)
	assert.Contains(t, in.Registry().Names(), "ci")
}

func TestNewPropagatesMalformedConfigAsError(t *testing.T) {
	t.Parallel()
	workspace := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(workspace, "hielements.toml"), []byte("not = [valid toml"), 0o644))

	_, err := wiring.New(workspace, nil)
	assert.Error(t, err)
}

func TestNewRejectsLibraryEntryMissingTypeInformation(t *testing.T) {
	t.Parallel()
	workspace := t.TempDir()

	toml := `
[libraries.broken]
args = ["--stdio"]
`
	require.NoError(t, os.WriteFile(filepath.Join(workspace, "hielements.toml"), []byte(toml), 0o644))

	_, err := wiring.New(workspace, nil)
	assert.Error(t, err)
}
