package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runDoc reads and writes package-level flag variables, so these tests
// cannot run in parallel with each other.

func resetDocFlags() {
	docWorkspace, docFormat, docOutput, docLibrary = "", "markdown", "", ""
}

func TestRunDocRejectsAbsoluteOutputPath(t *testing.T) {
	resetDocFlags()
	defer resetDocFlags()
	docOutput = "/tmp/hielements-docs.md"

	err := runDoc()
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestRunDocRejectsParentDirectoryReference(t *testing.T) {
	resetDocFlags()
	defer resetDocFlags()
	docOutput = "../escape.md"

	err := runDoc()
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestRunDocWritesRelativeOutputFile(t *testing.T) {
	resetDocFlags()
	defer resetDocFlags()

	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(cwd) }()

	docOutput = "docs.md"
	require.NoError(t, runDoc())

	content, err := os.ReadFile(filepath.Join(dir, "docs.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "## files")
}

func TestRunDocFiltersByLibraryName(t *testing.T) {
	resetDocFlags()
	defer resetDocFlags()

	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(cwd) }()

	docFormat = "json"
	docLibrary = "rust"
	docOutput = "docs.json"
	require.NoError(t, runDoc())

	content, err := os.ReadFile(filepath.Join(dir, "docs.json"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"name": "rust"`)
	assert.NotContains(t, string(content), `"name": "files"`)
}
