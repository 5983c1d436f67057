// Package statsreport summarizes a population each tick: occupancy plus
// mean and max fitness. Summaries go to the log and to the archive store,
// and the run can be cut short once a fitness target is reached.
package statsreport

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/modevo/modevo/internal/archive"
	"github.com/modevo/modevo/internal/conf"
	"github.com/modevo/modevo/internal/trait"
	"github.com/modevo/modevo/internal/world"
)

// Module reports on one population.
type Module struct {
	w     *world.World
	name  string
	store archive.Store
	runID string

	popName    string
	frequency  int
	targetFit  float64
	exitTarget bool

	fitness *trait.Binding

	lastReport uint64
	reported   bool
}

// New builds a reporter with the given instance name, writing rows tagged
// with runID into store.
func New(w *world.World, name string, store archive.Store, runID string) *Module {
	return &Module{w: w, name: name, store: store, runID: runID}
}

func (m *Module) Name() string { return m.name }

func (m *Module) Description() string {
	return "Logs and archives per-tick population statistics."
}

func (m *Module) SetupConfig(scope *conf.Scope) {
	scope.PopulationRef(&m.popName, "population", "main", "Population to summarize")
	scope.Int(&m.frequency, "frequency", 1, "Report every N ticks")
	scope.Float(&m.targetFit, "target_fitness", 0, "Fitness that triggers early exit")
	scope.Bool(&m.exitTarget, "exit_on_target", false, "Request exit once target_fitness is reached")
}

func (m *Module) SetupModule() {
	m.fitness = m.w.Traits().Declare(m.name, "fitness",
		trait.AccessOptional, cty.Number, cty.NilVal,
		"Score to aggregate, when some module provides one")
}

// OnUpdate emits a summary on reporting ticks.
func (m *Module) OnUpdate(tick uint64) {
	if m.frequency > 1 && tick%uint64(m.frequency) != 0 {
		return
	}
	m.report(tick)
}

// BeforeExit emits a final summary regardless of frequency, unless the
// closing tick already reported.
func (m *Module) BeforeExit() {
	if m.reported && m.lastReport == m.w.Tick() {
		return
	}
	m.report(m.w.Tick())
}

// ReportNow emits a summary immediately, regardless of frequency. Used by
// scheduled report events.
func (m *Module) ReportNow() {
	m.report(m.w.Tick())
}

func (m *Module) report(tick uint64) {
	m.lastReport = tick
	m.reported = true
	p, ok := m.w.Population(m.popName)
	if !ok {
		m.w.Sink().Errorf("module %q: population %q does not exist", m.name, m.popName)
		return
	}
	var sum, max float64
	scored := 0
	for idx := 0; idx < p.Size(); idx++ {
		org, ok := p.OrgAt(idx)
		if !ok {
			continue
		}
		v := m.fitness.Get(org)
		if v.IsNull() {
			continue
		}
		fit := m.fitness.Float(org)
		sum += fit
		if scored == 0 || fit > max {
			max = fit
		}
		scored++
	}
	mean := 0.0
	if scored > 0 {
		mean = sum / float64(scored)
	}

	m.w.Logger().Info("population stats",
		"tick", tick,
		"population", p.Name(),
		"size", p.Size(),
		"orgs", p.NumOrgs(),
		"mean_fitness", mean,
		"max_fitness", max)

	st := archive.TickStats{
		RunID:       m.runID,
		Tick:        tick,
		Population:  p.Name(),
		Size:        p.Size(),
		NumOrgs:     p.NumOrgs(),
		MeanFitness: mean,
		MaxFitness:  max,
	}
	if err := m.store.SaveTickStats(context.Background(), st); err != nil {
		m.w.Sink().Warnf("module %q: archiving stats failed: %v", m.name, err)
	}

	if m.exitTarget && scored > 0 && max >= m.targetFit {
		m.w.Logger().Info("fitness target reached, requesting exit",
			"tick", tick, "max_fitness", max, "target", m.targetFit)
		m.w.RequestExit()
	}
}
