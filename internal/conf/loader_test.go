package conf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func parse(t *testing.T, src string) (*Model, error) {
	t.Helper()
	return NewHCLLoader().Parse(context.Background(), []byte(src), "test.hcl")
}

func TestParseFullConfig(t *testing.T) {
	model, err := parse(t, `
run {
  ticks = 50
  seed  = 7
}

population "main" {
  size = 32
}

module "org" {
  type = "bitsorg"

  params {
    length        = 16
    mutation_rate = 0.05
    fancy         = true
    label         = "hello"
  }
}

event {
  at         = 10
  action     = "inject"
  module     = "org"
  population = "main"
  count      = 5
}

event {
  at     = 40
  action = "exit"
}
`)
	require.NoError(t, err)

	assert.Equal(t, uint64(50), model.Run.Ticks)
	assert.Equal(t, int64(7), model.Run.Seed)

	require.Len(t, model.Populations, 1)
	assert.Equal(t, PopulationDef{Name: "main", Size: 32}, model.Populations[0])

	require.Len(t, model.Modules, 1)
	md := model.Modules[0]
	assert.Equal(t, "org", md.Name)
	assert.Equal(t, "bitsorg", md.Type)
	assert.True(t, md.Params["length"].RawEquals(cty.NumberIntVal(16)))
	assert.True(t, md.Params["fancy"].RawEquals(cty.True))
	assert.True(t, md.Params["label"].RawEquals(cty.StringVal("hello")))

	require.Len(t, model.Events, 2)
	assert.Equal(t, EventDef{At: 10, Action: "inject", Module: "org", Population: "main", Count: 5}, model.Events[0])
	assert.Equal(t, EventDef{At: 40, Action: "exit", Count: 1}, model.Events[1])
}

func TestParseDefaults(t *testing.T) {
	model, err := parse(t, `
population "main" {
  size = 0
}
`)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), model.Run.Ticks, "ticks default when no run block")
	assert.Equal(t, int64(0), model.Run.Seed)
}

func TestParseRejectsDuplicateRunBlock(t *testing.T) {
	_, err := parse(t, `
run { ticks = 1 }
run { ticks = 2 }
`)
	assert.ErrorContains(t, err, "duplicate run block")
}

func TestParseRejectsNegativePopulationSize(t *testing.T) {
	_, err := parse(t, `
population "main" {
  size = -3
}
`)
	assert.ErrorContains(t, err, "must not be negative")
}

func TestParseRejectsUnknownEventAction(t *testing.T) {
	_, err := parse(t, `
event {
  at     = 5
  action = "explode"
}
`)
	assert.ErrorContains(t, err, `unknown action "explode"`)
}

func TestParseRejectsMalformedSource(t *testing.T) {
	_, err := parse(t, `population "main" {`)
	assert.Error(t, err)
}

func TestParseModuleRequiresType(t *testing.T) {
	_, err := parse(t, `
module "org" {
  params {}
}
`)
	require.Error(t, err)
	assert.ErrorContains(t, err, `module "org"`)
}

func TestParseModuleRejectsNonStringType(t *testing.T) {
	_, err := parse(t, `
module "org" {
  type = 12
}
`)
	assert.ErrorContains(t, err, "type must be a string")
}

func TestParseModuleWithoutParamsBlock(t *testing.T) {
	model, err := parse(t, `
module "org" {
  type = "bitsorg"
}
`)
	require.NoError(t, err)
	require.Len(t, model.Modules, 1)
	assert.Equal(t, "bitsorg", model.Modules[0].Type)
	assert.Empty(t, model.Modules[0].Params)
}

func TestParseEventCountDefaultsToOne(t *testing.T) {
	model, err := parse(t, `
event {
  at         = 0
  action     = "inject"
  module     = "org"
  population = "main"
}
`)
	require.NoError(t, err)
	require.Len(t, model.Events, 1)
	assert.Equal(t, 1, model.Events[0].Count)
}
