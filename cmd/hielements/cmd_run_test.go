package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRun reads package-level flag variables (runWorkspace, runFormat,
// runDryRun, runFilter, runLimit), so these tests cannot run in parallel
// with each other.

func resetRunFlags() {
	runWorkspace, runFormat, runDryRun, runVerbose, runFilter, runLimit = "", "human", false, false, "", 0
}

func TestRunRunFailsOnMissingFile(t *testing.T) {
	resetRunFlags()
	defer resetRunFlags()
	err := runRun(filepath.Join(t.TempDir(), "missing.hie"))
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestRunRunExecutesChecksAgainstWorkspace(t *testing.T) {
	resetRunFlags()
	defer resetRunFlags()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# hi"), 0o644))
	path := filepath.Join(dir, "good.hie")
	source := "element api:\n  scope root = files.folder_selector('.')\n  check files.exists(root, 'README.md')\n"
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	assert.NoError(t, runRun(path))
}

func TestRunRunFailsWhenAnyCheckFails(t *testing.T) {
	resetRunFlags()
	defer resetRunFlags()

	dir := t.TempDir()
	path := filepath.Join(dir, "good.hie")
	source := "element api:\n  scope root = files.folder_selector('.')\n  check files.exists(root, 'MISSING.md')\n"
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	err := runRun(path)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestRunRunDryRunSkipsExecution(t *testing.T) {
	resetRunFlags()
	defer resetRunFlags()
	runDryRun = true

	dir := t.TempDir()
	path := filepath.Join(dir, "good.hie")
	source := "element api:\n  scope root = files.folder_selector('.')\n  check files.exists(root, 'MISSING.md')\n"
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	assert.NoError(t, runRun(path))
}

func TestRunRunHonorsFilter(t *testing.T) {
	resetRunFlags()
	defer resetRunFlags()
	runFilter = "web"

	dir := t.TempDir()
	path := filepath.Join(dir, "good.hie")
	source := "element web:\n  scope root = files.folder_selector('.')\n  check files.exists(root, 'README.md')\n" +
		"element db:\n  scope root = files.folder_selector('.')\n  check files.exists(root, 'MISSING.md')\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# hi"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	assert.NoError(t, runRun(path))
}
