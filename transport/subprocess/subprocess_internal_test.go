package subprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ercasta/hielements/library"
)

func TestValueToJSONWrapsScalarsInTaggedShape(t *testing.T) {
	t.Parallel()

	assert.Equal(t, map[string]interface{}{"Int": int64(3)}, valueToJSON(library.Int(3)))
	assert.Equal(t, map[string]interface{}{"String": "hi"}, valueToJSON(library.Str("hi")))
	assert.Equal(t, true, valueToJSON(library.Bool(true)))
	assert.Nil(t, valueToJSON(library.Null()))
}

func TestJSONToValueAcceptsBarePrimitivesAndTaggedShape(t *testing.T) {
	t.Parallel()

	v, err := jsonToValue("plain string")
	require.NoError(t, err)
	s, ok := v.AsString()
	require.True(t, ok)
	assert.Equal(t, "plain string", s)

	v, err = jsonToValue(map[string]interface{}{"String": "tagged"})
	require.NoError(t, err)
	s, ok = v.AsString()
	require.True(t, ok)
	assert.Equal(t, "tagged", s)

	v, err = jsonToValue(float64(7))
	require.NoError(t, err)
	i, ok := v.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(7), i)
}

func TestJSONToValueRoundTripsScopes(t *testing.T) {
	t.Parallel()

	raw := map[string]interface{}{
		"Scope": map[string]interface{}{
			"kind":     "Folder",
			"selector": "src",
			"paths":    []interface{}{"src/a.go", "src/b.go"},
		},
	}
	v, err := jsonToValue(raw)
	require.NoError(t, err)
	scope, ok := v.AsScope()
	require.True(t, ok)
	assert.Equal(t, library.ScopeFolder, scope.Kind)
	assert.Equal(t, []string{"src/a.go", "src/b.go"}, scope.Paths)
}

func TestJSONToCheckResultAcceptsMultipleWireShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		raw    interface{}
		status library.CheckStatus
	}{
		{"bare pass string", "pass", library.StatusPass},
		{"bare fail string", "fail", library.StatusFail},
		{"tagged Pass", map[string]interface{}{"Pass": true}, library.StatusPass},
		{"tagged Fail", map[string]interface{}{"Fail": "nope"}, library.StatusFail},
		{"tagged Error", map[string]interface{}{"Error": "boom"}, library.StatusError},
		{"result envelope pass", map[string]interface{}{"result": "Pass"}, library.StatusPass},
		{"result envelope fail with message", map[string]interface{}{"result": "fail", "message": "bad"}, library.StatusFail},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result, err := jsonToCheckResult(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.status, result.Status)
		})
	}
}

func TestJSONToCheckResultRejectsUnrecognizedShape(t *testing.T) {
	t.Parallel()
	_, err := jsonToCheckResult(42.0)
	assert.Error(t, err)
}
