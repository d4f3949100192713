package library_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ercasta/hielements/library"
)

type fakeLibrary struct {
	name string
}

func (f *fakeLibrary) Name() string { return f.name }

func (f *fakeLibrary) Call(function string, args []library.Value) (library.Value, error) {
	if function == "echo" && len(args) == 1 {
		return args[0], nil
	}
	return library.Value{}, &library.LibError{Library: f.name, Function: function, Cause: assertErr("unknown function")}
}

func (f *fakeLibrary) Check(function string, args []library.Value) (library.CheckResult, error) {
	return library.CheckResult{Status: library.StatusPass}, nil
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

func TestRegistryRegisterAndLookup(t *testing.T) {
	t.Parallel()

	r := library.NewRegistry()
	r.Register(&fakeLibrary{name: "files"})
	r.Register(&fakeLibrary{name: "rust"})

	lib, ok := r.Lookup("files")
	require.True(t, ok)
	assert.Equal(t, "files", lib.Name())

	_, ok = r.Lookup("nope")
	assert.False(t, ok)

	assert.Equal(t, []string{"files", "rust"}, r.Names())
}

func TestRegistryRegisterOverridesWithoutDuplicatingOrder(t *testing.T) {
	t.Parallel()

	r := library.NewRegistry()
	r.Register(&fakeLibrary{name: "files"})
	r.Register(&fakeLibrary{name: "files"}) // hielements.toml override of a built-in

	assert.Equal(t, []string{"files"}, r.Names())
}

func TestRegistryCallUnknownLibraryWrapsLibError(t *testing.T) {
	t.Parallel()

	r := library.NewRegistry()
	_, err := r.Call("nope", "fn", nil)
	require.Error(t, err)
	var libErr *library.LibError
	require.ErrorAs(t, err, &libErr)
	assert.Equal(t, "nope", libErr.Library)
}

func TestRegistryCallDispatchesToRegisteredLibrary(t *testing.T) {
	t.Parallel()

	r := library.NewRegistry()
	r.Register(&fakeLibrary{name: "echo"})

	v, err := r.Call("echo", "echo", []library.Value{library.Str("hi")})
	require.NoError(t, err)
	s, ok := v.AsString()
	require.True(t, ok)
	assert.Equal(t, "hi", s)
}

func TestValueAsIntFoldsFloat(t *testing.T) {
	t.Parallel()

	v := library.Float(3.0)
	i, ok := v.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(3), i)

	_, ok = library.Str("x").AsInt()
	assert.False(t, ok)
}

func TestCheckStatusString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "pass", library.StatusPass.String())
	assert.Equal(t, "fail", library.StatusFail.String())
	assert.Equal(t, "error", library.StatusError.String())
}
