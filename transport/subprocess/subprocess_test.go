package subprocess_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ercasta/hielements/library"
	"github.com/ercasta/hielements/transport/subprocess"
)

// writeEchoServer writes a tiny shell script that reads one JSON-RPC request
// line from stdin and always answers with the same successful check result,
// standing in for a real external library process.
func writeEchoServer(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake stdio server is a POSIX shell script")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "echo-server.sh")
	script := "#!/bin/sh\n" +
		"read line\n" +
		"echo '{\"jsonrpc\":\"2.0\",\"result\":{\"Pass\":true},\"id\":\"1\"}'\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestLibraryCheckRoundTripsOverStdio(t *testing.T) {
	t.Parallel()
	script := writeEchoServer(t)

	lib := subprocess.New("ci", "/bin/sh", []string{script})
	t.Cleanup(func() { _ = lib.Close() })

	result, err := lib.Check("lint", []library.Value{library.Str("src/")})
	require.NoError(t, err)
	assert.Equal(t, library.StatusPass, result.Status)
	assert.Equal(t, "ci", lib.Name())
}
