package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modevo/modevo/internal/archive"
	"github.com/modevo/modevo/internal/conf"
	"github.com/modevo/modevo/internal/module"
)

// memLoader serves HCL source held in memory through the conf.Loader
// interface, so tests never touch the filesystem.
type memLoader struct {
	src string
}

func (l memLoader) Load(ctx context.Context, path string) (*conf.Model, error) {
	return conf.NewHCLLoader().Parse(ctx, []byte(l.src), path)
}

const onesRun = `
run {
  ticks = 30
  seed  = 11
}

population "main" {
  size = 0
}

module "org" {
  type = "bitsorg"

  params {
    length        = 16
    mutation_rate = 0.02
  }
}

module "scorer" {
  type = "evalones"

  params {
    population = "main"
  }
}

module "selector" {
  type = "tournament"

  params {
    population      = "main"
    tournament_size = 4
    num_births      = 2
  }
}

module "placer" {
  type = "growthplace"

  params {
    population = "main"
    mode       = "fill"
  }
}

module "stats" {
  type = "statsreport"

  params {
    population = "main"
    frequency  = 10
  }
}

event {
  at         = 0
  action     = "inject"
  module     = "org"
  population = "main"
  count      = 12
}
`

func testConfig() *Config {
	return &Config{
		ConfigPath: "inline.hcl",
		LogFormat:  "text",
		LogLevel:   "error",
	}
}

func TestFullRunEvolvesAndArchives(t *testing.T) {
	store := archive.NewMemoryStore()
	a, err := NewApp(io.Discard, testConfig(), memLoader{src: onesRun}, store, nil)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Run(context.Background()))

	w := a.World()
	assert.Equal(t, uint64(30), w.Tick())

	p, ok := w.Population("main")
	require.True(t, ok)
	// 12 injected plus 2 births per tick, grown by the placer.
	assert.Equal(t, 12+2*30, p.NumOrgs())
	require.NoError(t, p.Audit())

	rows, err := store.TickStats(context.Background(), a.RunID())
	require.NoError(t, err)
	require.Len(t, rows, 3, "ticks 10, 20 and 30 report")
	assert.Greater(t, rows[len(rows)-1].MaxFitness, 0.0)
}

func TestRunsWithEqualSeedsMatch(t *testing.T) {
	maxFitness := func() float64 {
		store := archive.NewMemoryStore()
		a, err := NewApp(io.Discard, testConfig(), memLoader{src: onesRun}, store, nil)
		require.NoError(t, err)
		defer a.Close()
		require.NoError(t, a.Run(context.Background()))

		rows, err := store.TickStats(context.Background(), a.RunID())
		require.NoError(t, err)
		require.NotEmpty(t, rows)
		return rows[len(rows)-1].MaxFitness
	}

	assert.Equal(t, maxFitness(), maxFitness())
}

func TestTicksOverrideWins(t *testing.T) {
	cfg := testConfig()
	cfg.Ticks = 5
	a, err := NewApp(io.Discard, cfg, memLoader{src: onesRun}, archive.NewMemoryStore(), nil)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, uint64(5), a.World().Tick())
}

func TestUnknownModuleTypeFailsSetup(t *testing.T) {
	src := `
population "main" {
  size = 4
}

module "mystery" {
  type = "telepathy"

  params {}
}
`
	_, err := NewApp(io.Discard, testConfig(), memLoader{src: src}, archive.NewMemoryStore(), nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "configuration failed")
}

func TestBadOrganismLengthFailsSetup(t *testing.T) {
	src := `
population "main" {
  size = 0
}

module "org" {
  type = "bitsorg"

  params {
    length = -5
  }
}

event {
  at         = 0
  action     = "inject"
  module     = "org"
  population = "main"
  count      = 3
}
`
	_, err := NewApp(io.Discard, testConfig(), memLoader{src: src}, archive.NewMemoryStore(), nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "configuration failed")
}

func TestUnknownPopulationRefFailsSetup(t *testing.T) {
	src := `
population "main" {
  size = 4
}

module "scorer" {
  type = "evalones"

  params {
    population = "ghost"
  }
}

module "org" {
  type = "bitsorg"

  params {}
}
`
	_, err := NewApp(io.Discard, testConfig(), memLoader{src: src}, archive.NewMemoryStore(), nil)
	require.Error(t, err)
}

func TestExitEventStopsRunEarly(t *testing.T) {
	src := `
run {
  ticks = 50
}

population "main" {
  size = 0
}

event {
  at     = 7
  action = "exit"
}
`
	a, err := NewApp(io.Discard, testConfig(), memLoader{src: src}, archive.NewMemoryStore(), nil)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, uint64(7), a.World().Tick())
}

// trackedStore wraps the in-memory store to observe lifecycle calls.
type trackedStore struct {
	*archive.MemoryStore
	initErr error
	closed  bool
}

func (s *trackedStore) Init(ctx context.Context) error {
	if s.initErr != nil {
		return s.initErr
	}
	return s.MemoryStore.Init(ctx)
}

func (s *trackedStore) Close() error {
	s.closed = true
	return s.MemoryStore.Close()
}

func TestFailedSetupClosesStore(t *testing.T) {
	src := `
population "main" {
  size = 4
}

module "mystery" {
  type = "telepathy"

  params {}
}
`
	store := &trackedStore{MemoryStore: archive.NewMemoryStore()}
	_, err := NewApp(io.Discard, testConfig(), memLoader{src: src}, store, nil)
	require.Error(t, err)
	assert.True(t, store.closed)
}

func TestFailedStoreInitClosesStore(t *testing.T) {
	store := &trackedStore{
		MemoryStore: archive.NewMemoryStore(),
		initErr:     errors.New("disk full"),
	}
	_, err := NewApp(io.Discard, testConfig(), memLoader{src: onesRun}, store, nil)
	require.ErrorContains(t, err, "initializing archive store")
	assert.True(t, store.closed)
}

// stubModule is a minimal module used to exercise custom factories.
type stubModule struct {
	name string
}

func (m *stubModule) Name() string        { return m.name }
func (m *stubModule) Description() string { return "test stub" }

func TestExtraFactoriesExtendTheCoreSet(t *testing.T) {
	src := `
population "main" {
  size = 2
}

module "watcher" {
  type = "stub"

  params {}
}
`
	var built []string
	extra := map[string]Factory{
		"stub": func(a *App, name string) module.Module {
			built = append(built, name)
			return &stubModule{name: name}
		},
	}

	a, err := NewApp(io.Discard, testConfig(), memLoader{src: src}, archive.NewMemoryStore(), extra)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"watcher"}, built)
	_, ok := a.World().Module("watcher")
	assert.True(t, ok)
}
