package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCheckFailsOnMissingFile(t *testing.T) {
	t.Parallel()
	err := runCheck(filepath.Join(t.TempDir(), "missing.hie"), "human")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestRunCheckReportsValidationErrorsAndExitsOne(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.hie")
	require.NoError(t, os.WriteFile(path, []byte("element +++\n"), 0o644))

	err := runCheck(path, "json")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestRunCheckSucceedsOnValidFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "good.hie")
	source := "element api:\n  scope root = files.folder_selector('.')\n  check files.exists(root, 'README.md')\n"
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	assert.NoError(t, runCheck(path, "human"))
}
