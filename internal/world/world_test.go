package world

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/modevo/modevo/internal/diag"
	"github.com/modevo/modevo/internal/organism"
	"github.com/modevo/modevo/internal/pop"
	"github.com/modevo/modevo/internal/trait"
)

func newTestWorld(t *testing.T) (*World, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink(nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, sink, 1), sink
}

// tickRecorder logs the tick numbers the update pair sees.
type tickRecorder struct {
	name   string
	before []uint64
	on     []uint64
}

func (m *tickRecorder) Name() string             { return m.name }
func (m *tickRecorder) Description() string      { return "records update ticks" }
func (m *tickRecorder) BeforeUpdate(tick uint64) { m.before = append(m.before, tick) }
func (m *tickRecorder) OnUpdate(tick uint64)     { m.on = append(m.on, tick) }

// exitCounter counts BeforeExit deliveries.
type exitCounter struct {
	name  string
	fired int
}

func (m *exitCounter) Name() string        { return m.name }
func (m *exitCounter) Description() string { return "counts exits" }
func (m *exitCounter) BeforeExit()         { m.fired++ }

// needy declares a read dependency nothing satisfies.
type needy struct {
	w    *World
	name string
}

func (m *needy) Name() string        { return m.name }
func (m *needy) Description() string { return "demands an absent trait" }
func (m *needy) SetupModule() {
	m.w.Traits().Declare(m.name, "missing", trait.AccessRequired, cty.Number, cty.NilVal, "")
}

// counterManager manages organisms carrying a single numeric gene.
type counterManager struct {
	w       *World
	name    string
	gene    *trait.Binding
	mutated int
}

func (m *counterManager) Name() string        { return m.name }
func (m *counterManager) Description() string { return "manages counter organisms" }

func (m *counterManager) SetupModule() {
	m.gene = m.w.Traits().Declare(m.name, "gene", trait.AccessOwned, cty.Number, cty.Zero, "")
}

func (m *counterManager) Make(rng *rand.Rand) (*organism.Organism, error) {
	return organism.New(m.w.Schema(), m)
}

func (m *counterManager) Mutate(org *organism.Organism, rng *rand.Rand) int {
	m.gene.SetInt(org, m.gene.Int(org)+1)
	m.mutated++
	return 1
}

func (m *counterManager) OrgString(org *organism.Organism) string {
	return fmt.Sprintf("gene=%d", m.gene.Int(org))
}

// appender answers every placement query by growing the target population.
type appender struct {
	w    *World
	name string
}

func (m *appender) Name() string        { return m.name }
func (m *appender) Description() string { return "appends a slot for every placement" }
func (m *appender) PlaceBirth(org *organism.Organism, ppos pop.Position, target *pop.Population) pop.Position {
	return m.w.PushEmpty(target)
}
func (m *appender) PlaceInject(org *organism.Organism, target *pop.Population) pop.Position {
	return m.w.PushEmpty(target)
}

// exitAt requests exit during a chosen tick.
type exitAt struct {
	w    *World
	name string
	at   uint64
}

func (m *exitAt) Name() string        { return m.name }
func (m *exitAt) Description() string { return "requests exit at a fixed tick" }
func (m *exitAt) OnUpdate(tick uint64) {
	if tick == m.at {
		m.w.RequestExit()
	}
}

// seededWorld builds a world with a counter manager, an appender placer and
// one population holding n organisms.
func seededWorld(t *testing.T, n int) (*World, *counterManager, *pop.Population) {
	t.Helper()
	w, _ := newTestWorld(t)
	mgr := &counterManager{w: w, name: "mgr"}
	require.NoError(t, w.RegisterModule(mgr))
	require.NoError(t, w.RegisterModule(&appender{w: w, name: "placer"}))
	p, err := w.AddPopulation("main", 0)
	require.NoError(t, err)
	require.True(t, w.Setup())

	if n > 0 {
		placed, err := w.Inject(p, "mgr", n)
		require.NoError(t, err)
		require.Len(t, placed, n)
	}
	return w, mgr, p
}

func TestUpdateTickSequence(t *testing.T) {
	w, _ := newTestWorld(t)
	rec := &tickRecorder{name: "rec"}
	require.NoError(t, w.RegisterModule(rec))
	require.True(t, w.Setup())

	w.Update(3)

	assert.Equal(t, uint64(3), w.Tick())
	assert.Equal(t, []uint64{0, 1, 2}, rec.before, "BeforeUpdate sees the closing tick")
	assert.Equal(t, []uint64{1, 2, 3}, rec.on, "OnUpdate sees the new tick")
}

func TestSetupFailsOnUnsatisfiedRequirement(t *testing.T) {
	w, sink := newTestWorld(t)
	require.NoError(t, w.RegisterModule(&needy{w: w, name: "needy"}))

	assert.False(t, w.Setup())
	require.True(t, sink.HasErrors())
	assert.Contains(t, sink.Errors()[0], "needy")
}

func TestFinishFiresBeforeExitOnce(t *testing.T) {
	w, _ := newTestWorld(t)
	ec := &exitCounter{name: "ec"}
	require.NoError(t, w.RegisterModule(ec))
	require.True(t, w.Setup())

	w.Finish()
	w.Finish()
	assert.Equal(t, 1, ec.fired)
}

func TestRequestExitStopsLoopEarly(t *testing.T) {
	w, _ := newTestWorld(t)
	require.NoError(t, w.RegisterModule(&exitAt{w: w, name: "stopper", at: 2}))
	require.True(t, w.Setup())

	w.Update(10)
	assert.Equal(t, uint64(2), w.Tick())
	assert.True(t, w.ExitRequested())
}

func TestScheduledEventFiresOnce(t *testing.T) {
	w, _ := newTestWorld(t)
	require.True(t, w.Setup())

	var firedAt []uint64
	w.Schedule(2, "probe", func(w *World) {
		firedAt = append(firedAt, w.Tick())
	})

	w.Update(5)
	assert.Equal(t, []uint64{2}, firedAt)
}

func TestEventDueAtTickZeroFiresBeforeFirstUpdate(t *testing.T) {
	w, _ := newTestWorld(t)
	rec := &tickRecorder{name: "rec"}
	require.NoError(t, w.RegisterModule(rec))
	require.True(t, w.Setup())

	var firedAt []uint64
	w.Schedule(0, "seed", func(w *World) {
		firedAt = append(firedAt, w.Tick())
	})

	w.Update(2)
	assert.Equal(t, []uint64{0}, firedAt, "tick-zero events run before any update")
}

func TestRegisterModuleRejectsDuplicateNames(t *testing.T) {
	w, _ := newTestWorld(t)
	require.NoError(t, w.RegisterModule(&exitCounter{name: "dup"}))
	assert.Error(t, w.RegisterModule(&tickRecorder{name: "dup"}))
}

func TestAddPopulationRejectsDuplicateNames(t *testing.T) {
	w, _ := newTestWorld(t)
	_, err := w.AddPopulation("main", 4)
	require.NoError(t, err)
	_, err = w.AddPopulation("main", 4)
	assert.Error(t, err)
}

func TestInjectBuildsAndPlacesOrganisms(t *testing.T) {
	w, _, p := seededWorld(t, 3)

	assert.Equal(t, 3, p.NumOrgs())
	assert.Equal(t, 3, p.Size(), "the appender grows one slot per organism")
	require.NoError(t, p.Audit())

	_, err := w.Inject(p, "nobody", 1)
	assert.ErrorContains(t, err, "no organism manager")
}

func TestDoBirthClonesMutatesAndPlaces(t *testing.T) {
	w, mgr, p := seededWorld(t, 1)
	parent := pop.At(p, 0)

	placed, err := w.DoBirth(parent, p, 2, true)
	require.NoError(t, err)
	require.Len(t, placed, 2)
	assert.Equal(t, 3, p.NumOrgs())
	assert.Equal(t, 2, mgr.mutated)

	for _, pos := range placed {
		child, ok := pos.Org()
		require.True(t, ok)
		assert.Equal(t, 1, mgr.gene.Int(child), "each child mutated exactly once")
	}
	parentOrg, ok := parent.Org()
	require.True(t, ok)
	assert.Equal(t, 0, mgr.gene.Int(parentOrg), "the parent is untouched")
}

func TestDoBirthWithoutMutation(t *testing.T) {
	w, mgr, p := seededWorld(t, 1)

	placed, err := w.DoBirth(pop.At(p, 0), p, 1, false)
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, 0, mgr.mutated)
}

func TestDoBirthFromEmptySlotFails(t *testing.T) {
	w, _, p := seededWorld(t, 1)
	empty := w.PushEmpty(p)

	_, err := w.DoBirth(empty, p, 1, true)
	assert.ErrorContains(t, err, "no organism there")
}

func TestBirthWithoutPlacerDiscardsWithWarning(t *testing.T) {
	w, sink := newTestWorld(t)
	mgr := &counterManager{w: w, name: "mgr"}
	require.NoError(t, w.RegisterModule(mgr))
	p, err := w.AddPopulation("main", 1)
	require.NoError(t, err)
	require.True(t, w.Setup())

	org, err := mgr.Make(w.Rand())
	require.NoError(t, err)
	require.NoError(t, w.AddOrgAt(org, pop.At(p, 0), pop.Position{}))

	placed, err := w.DoBirth(pop.At(p, 0), p, 2, false)
	require.NoError(t, err)
	assert.Empty(t, placed)
	assert.Equal(t, 1, p.NumOrgs())
	require.Len(t, sink.Warnings(), 2)
	assert.Contains(t, sink.Warnings()[0], "no placement")
}

func TestMoveOrgReplacesTarget(t *testing.T) {
	w, _, p := seededWorld(t, 2)
	src, _ := pop.At(p, 0).Org()

	require.NoError(t, w.MoveOrg(pop.At(p, 0), pop.At(p, 1)))

	assert.True(t, pop.At(p, 0).IsEmpty())
	got, ok := pop.At(p, 1).Org()
	require.True(t, ok)
	assert.Same(t, src, got)
	assert.Equal(t, 1, p.NumOrgs())
	require.NoError(t, p.Audit())
}

func TestClearPopAndEmptyPop(t *testing.T) {
	w, _, p := seededWorld(t, 4)

	require.NoError(t, w.ClearPop(p))
	assert.Equal(t, 0, p.NumOrgs())
	assert.Equal(t, 4, p.Size(), "ClearPop keeps the slot count")

	require.NoError(t, w.EmptyPop(p, 2))
	assert.Equal(t, 2, p.Size())
	assert.Equal(t, 0, p.NumOrgs())
}

func TestCopyPopClones(t *testing.T) {
	w, mgr, p := seededWorld(t, 3)
	side, err := w.AddPopulation("side", 0)
	require.NoError(t, err)

	require.NoError(t, w.CopyPop(p, side))

	assert.Equal(t, 3, side.NumOrgs())
	assert.Equal(t, 3, p.NumOrgs(), "the source keeps its organisms")

	orig, _ := pop.At(p, 0).Org()
	copied, ok := pop.At(side, 0).Org()
	require.True(t, ok)
	assert.NotSame(t, orig, copied, "copies are distinct organisms")
	assert.Equal(t, mgr.gene.Int(orig), mgr.gene.Int(copied))
}

func TestMoveOrgsDrainsSource(t *testing.T) {
	w, _, p := seededWorld(t, 3)
	side, err := w.AddPopulation("side", 0)
	require.NoError(t, err)

	require.NoError(t, w.MoveOrgs(p, side, true))

	assert.Equal(t, 3, side.NumOrgs())
	assert.Equal(t, 0, p.NumOrgs())
	assert.Equal(t, 0, p.Size())
	require.NoError(t, side.Audit())
}

func TestRandomOrgPosReturnsOccupied(t *testing.T) {
	w, _, p := seededWorld(t, 2)
	w.PushEmpty(p)
	w.PushEmpty(p)

	for i := 0; i < 20; i++ {
		pos := w.RandomOrgPos(p)
		require.True(t, pos.IsOccupied())
	}
}

func TestRandomPosHelpersOnEmptyPopulation(t *testing.T) {
	w, _ := newTestWorld(t)
	p, err := w.AddPopulation("main", 0)
	require.NoError(t, err)

	assert.False(t, w.RandomPos(p).IsValid())
	assert.False(t, w.RandomOrgPos(p).IsValid())
}

func TestSetActiveTogglesDispatch(t *testing.T) {
	w, _ := newTestWorld(t)
	rec := &tickRecorder{name: "rec"}
	require.NoError(t, w.RegisterModule(rec))
	require.True(t, w.Setup())

	w.Update(2)
	require.Len(t, rec.on, 2)

	require.NoError(t, w.SetActive("rec", false))
	w.Update(2)
	assert.Len(t, rec.on, 2, "deactivated modules receive no signals")

	require.NoError(t, w.SetActive("rec", true))
	w.Update(1)
	assert.Len(t, rec.on, 3)

	assert.Error(t, w.SetActive("ghost", false))
}

func TestDeterministicRunsWithEqualSeeds(t *testing.T) {
	runOnce := func() []int {
		sink := diag.NewSink(nil, nil)
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		w := New(logger, sink, 99)
		mgr := &counterManager{w: w, name: "mgr"}
		require.NoError(t, w.RegisterModule(mgr))
		require.NoError(t, w.RegisterModule(&appender{w: w, name: "placer"}))
		p, err := w.AddPopulation("main", 0)
		require.NoError(t, err)
		require.True(t, w.Setup())

		_, err = w.Inject(p, "mgr", 5)
		require.NoError(t, err)
		var picks []int
		for i := 0; i < 10; i++ {
			picks = append(picks, w.RandomOrgPos(p).Index())
		}
		return picks
	}

	assert.Equal(t, runOnce(), runOnce())
}
