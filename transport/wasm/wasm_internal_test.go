package wasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ercasta/hielements/library"
)

func TestDefaultCapabilitiesAllowsOnlyFileRead(t *testing.T) {
	t.Parallel()
	caps := DefaultCapabilities()
	assert.True(t, caps.FileRead)
	assert.False(t, caps.FileWrite)
	assert.False(t, caps.Network)
}

func TestValueToSerializableRoundTripsScalars(t *testing.T) {
	t.Parallel()

	cases := []library.Value{
		library.Null(),
		library.Bool(true),
		library.Int(42),
		library.Float(3.5),
		library.Str("hi"),
		library.List([]library.Value{library.Int(1), library.Str("x")}),
	}
	for _, v := range cases {
		sv, err := valueToSerializable(v)
		require.NoError(t, err)
		back, err := serializableToValue(sv)
		require.NoError(t, err)
		assert.Equal(t, v.Kind, back.Kind)
	}
}

func TestValueToSerializableRoundTripsScope(t *testing.T) {
	t.Parallel()

	scope := &library.Scope{Kind: library.ScopeGlob, Selector: "**/*.rs", Paths: []string{"a.rs", "b.rs"}}
	sv, err := valueToSerializable(library.FromScope(scope))
	require.NoError(t, err)
	assert.Equal(t, "Scope", sv.Type)

	back, err := serializableToValue(sv)
	require.NoError(t, err)
	gotScope, ok := back.AsScope()
	require.True(t, ok)
	assert.Equal(t, library.ScopeGlob, gotScope.Kind)
	assert.Equal(t, "**/*.rs", gotScope.Selector)
	assert.Equal(t, []string{"a.rs", "b.rs"}, gotScope.Paths)
}

func TestSerializableToValueRejectsUnknownType(t *testing.T) {
	t.Parallel()
	_, err := serializableToValue(serializableValue{Type: "Bogus"})
	assert.Error(t, err)
}
