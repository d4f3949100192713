package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runInit reads initDirectory, a package-level flag variable, so these
// tests cannot run in parallel with each other.

func TestRunInitRejectsNonAlphanumericProjectName(t *testing.T) {
	initDirectory = t.TempDir()
	defer func() { initDirectory = "" }()

	err := runInit("my project!")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestRunInitCreatesProjectFiles(t *testing.T) {
	dir := t.TempDir()
	initDirectory = dir
	defer func() { initDirectory = "" }()

	require.NoError(t, runInit("orders"))

	assert.FileExists(t, filepath.Join(dir, "orders.hie"))
	assert.FileExists(t, filepath.Join(dir, "hielements.toml"))
	assert.FileExists(t, filepath.Join(dir, "USAGE_GUIDE.md"))
}

func TestRunInitRefusesToOverwriteExistingHieFile(t *testing.T) {
	dir := t.TempDir()
	initDirectory = dir
	defer func() { initDirectory = "" }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.hie"), []byte("existing"), 0o644))

	err := runInit("orders")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestRunInitSkipsExistingConfigAndGuide(t *testing.T) {
	dir := t.TempDir()
	initDirectory = dir
	defer func() { initDirectory = "" }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "hielements.toml"), []byte("custom = true"), 0o644))

	require.NoError(t, runInit("orders"))

	content, err := os.ReadFile(filepath.Join(dir, "hielements.toml"))
	require.NoError(t, err)
	assert.Equal(t, "custom = true", string(content))
}
