package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/modevo/modevo/internal/diag"
)

func TestScopeWritesDefaultsOnRegistration(t *testing.T) {
	sink := diag.NewSink(nil, nil)
	s := NewScope("mod", sink)

	var (
		n    int
		rate float64
		name string
		on   bool
	)
	s.Int(&n, "count", 10, "")
	s.Float(&rate, "rate", 0.5, "")
	s.String(&name, "label", "default", "")
	s.Bool(&on, "enabled", true, "")

	assert.Equal(t, 10, n)
	assert.Equal(t, 0.5, rate)
	assert.Equal(t, "default", name)
	assert.True(t, on)
	assert.False(t, sink.HasErrors())
}

func TestScopeApplyDecodesValues(t *testing.T) {
	sink := diag.NewSink(nil, nil)
	s := NewScope("mod", sink)

	var (
		n    int
		rate float64
		name string
		on   bool
	)
	s.Int(&n, "count", 10, "")
	s.Float(&rate, "rate", 0.5, "")
	s.String(&name, "label", "default", "")
	s.Bool(&on, "enabled", true, "")

	s.Apply(map[string]cty.Value{
		"count":   cty.NumberIntVal(3),
		"rate":    cty.NumberFloatVal(0.125),
		"label":   cty.StringVal("custom"),
		"enabled": cty.False,
	})

	require.False(t, sink.HasErrors(), "errors: %v", sink.Errors())
	assert.Equal(t, 3, n)
	assert.Equal(t, 0.125, rate)
	assert.Equal(t, "custom", name)
	assert.False(t, on)
}

func TestScopeApplyUnknownFieldListsKnownOnes(t *testing.T) {
	sink := diag.NewSink(nil, nil)
	s := NewScope("mod", sink)
	var n int
	s.Int(&n, "count", 1, "")

	s.Apply(map[string]cty.Value{"cuont": cty.NumberIntVal(3)})

	require.True(t, sink.HasErrors())
	assert.Contains(t, sink.Errors()[0], `no config field "cuont"`)
	assert.Contains(t, sink.Errors()[0], "count")
	assert.Equal(t, 1, n, "target keeps its default")
}

func TestScopeApplyRejectsFractionForInt(t *testing.T) {
	sink := diag.NewSink(nil, nil)
	s := NewScope("mod", sink)
	var n int
	s.Int(&n, "count", 1, "")

	s.Apply(map[string]cty.Value{"count": cty.NumberFloatVal(2.5)})

	require.True(t, sink.HasErrors())
	assert.Contains(t, sink.Errors()[0], "whole number")
	assert.Equal(t, 1, n)
}

func TestScopeApplyRejectsWrongType(t *testing.T) {
	sink := diag.NewSink(nil, nil)
	s := NewScope("mod", sink)
	var n int
	s.Int(&n, "count", 1, "")

	s.Apply(map[string]cty.Value{"count": cty.ListValEmpty(cty.String)})

	require.True(t, sink.HasErrors())
	assert.Equal(t, 1, n)
}

func TestScopeMenuValidatesOptions(t *testing.T) {
	sink := diag.NewSink(nil, nil)
	s := NewScope("mod", sink)
	var mode string
	s.Menu(&mode, "mode", "fill", "", "append", "fill")

	s.Apply(map[string]cty.Value{"mode": cty.StringVal("append")})
	require.False(t, sink.HasErrors())
	assert.Equal(t, "append", mode)

	s.Apply(map[string]cty.Value{"mode": cty.StringVal("sideways")})
	require.True(t, sink.HasErrors())
	assert.Contains(t, sink.Errors()[0], "not one of")
	assert.Equal(t, "append", mode, "invalid choice leaves the previous value")
}

func TestScopeDuplicateRegistrationReported(t *testing.T) {
	sink := diag.NewSink(nil, nil)
	s := NewScope("mod", sink)
	var a, b int
	s.Int(&a, "count", 1, "")
	s.Int(&b, "count", 2, "")

	require.True(t, sink.HasErrors())
	assert.Contains(t, sink.Errors()[0], "twice")
}

func TestScopeRefsReportCurrentValues(t *testing.T) {
	sink := diag.NewSink(nil, nil)
	s := NewScope("mod", sink)
	var popName, modName, plain string
	s.PopulationRef(&popName, "population", "main", "")
	s.ModuleRef(&modName, "scorer", "", "")
	s.String(&plain, "label", "x", "")

	assert.Equal(t, []string{"main"}, s.Refs(FieldPopRef))
	assert.Empty(t, s.Refs(FieldModRef), "empty refs are skipped")

	s.Apply(map[string]cty.Value{
		"population": cty.StringVal("side"),
		"scorer":     cty.StringVal("eval"),
	})
	assert.Equal(t, []string{"side"}, s.Refs(FieldPopRef))
	assert.Equal(t, []string{"eval"}, s.Refs(FieldModRef))
}

func TestScopeFieldsInDeclarationOrder(t *testing.T) {
	sink := diag.NewSink(nil, nil)
	s := NewScope("mod", sink)
	var n int
	var mode string
	s.Int(&n, "count", 1, "how many")
	s.Menu(&mode, "mode", "fill", "strategy", "append", "fill")

	fields := s.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "count", fields[0].Name)
	assert.Equal(t, "mode", fields[1].Name)
	assert.Equal(t, []string{"append", "fill"}, fields[1].Options)
}
