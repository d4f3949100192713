package reporter_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ercasta/hielements/reporter"
	"github.com/ercasta/hielements/span"
)

func TestDiagnosticsExtendPreservesOrder(t *testing.T) {
	t.Parallel()

	lexErrs := reporter.New()
	lexErrs.Push(reporter.NewError("E001", "bad token").Build())

	parseErrs := reporter.New()
	parseErrs.Push(reporter.NewWarning("W010", "deprecated syntax").Build())
	parseErrs.Push(reporter.NewError("E020", "unexpected EOF").Build())

	all := reporter.New()
	all.Extend(lexErrs)
	all.Extend(parseErrs)
	all.Extend(nil)

	require.Equal(t, 3, all.Len())
	want := []string{"E001", "W010", "E020"}
	var got []string
	for _, d := range all.All() {
		got = append(got, d.Code)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diagnostic order mismatch (-want +got):\n%s", diff)
	}
}

func TestDiagnosticsHasErrorsAndFilters(t *testing.T) {
	t.Parallel()

	d := reporter.New()
	assert.False(t, d.HasErrors())
	assert.True(t, d.IsEmpty())

	d.Push(reporter.NewWarning("W001", "unknown library").Build())
	assert.False(t, d.HasErrors())

	d.Push(reporter.NewError("E100", "parse failure").Build())
	assert.True(t, d.HasErrors())
	assert.Len(t, d.Errors(), 1)
	assert.Len(t, d.Warnings(), 1)
	assert.Equal(t, 2, d.Len())
}

func TestBuilderAttachesSpanContextAndHelp(t *testing.T) {
	t.Parallel()

	s := span.New(span.Position{Line: 2, Column: 4, Offset: 10}, span.Position{Line: 2, Column: 8, Offset: 14})
	diag := reporter.NewError("E200", "undeclared identifier").
		WithFile("foo.hie").
		WithSpan(s).
		WithContext("element foo { scope = bar }").
		WithHelp("did you mean 'baz'?").
		Build()

	assert.Equal(t, "foo.hie", diag.File)
	assert.Equal(t, s, diag.Span)
	assert.Equal(t, "did you mean 'baz'?", diag.Help)
	assert.Equal(t, span.Position{Line: 2, Column: 4, Offset: 10}, diag.GetPosition())
}

func TestSeverityMarshalsLowercase(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(reporter.SeverityWarning)
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(data))
}

func TestOutputNeverNullsEmptySlices(t *testing.T) {
	t.Parallel()

	out := reporter.NewOutput(reporter.New())
	data, err := json.Marshal(out)
	require.NoError(t, err)

	var roundTripped map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &roundTripped))
	assert.Equal(t, "ok", roundTripped["status"])
	assert.Equal(t, []interface{}{}, roundTripped["errors"])
	assert.Equal(t, []interface{}{}, roundTripped["warnings"])
}

func TestOutputStatusReflectsErrors(t *testing.T) {
	t.Parallel()

	d := reporter.New()
	d.Push(reporter.NewError("E001", "boom").Build())
	out := reporter.NewOutput(d)
	assert.Equal(t, "error", out.Status)
	assert.Equal(t, 1, out.Summary.TotalErrors)
	assert.Equal(t, 0, out.Summary.TotalWarnings)
}
