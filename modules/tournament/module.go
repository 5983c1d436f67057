// Package tournament implements tournament selection: each tick it runs a
// number of tournaments over a population, and the fittest entrant of each
// reproduces into the same population.
package tournament

import (
	"github.com/modevo/modevo/internal/conf"
	"github.com/modevo/modevo/internal/pop"
	"github.com/modevo/modevo/internal/trait"
	"github.com/modevo/modevo/internal/world"
	"github.com/zclconf/go-cty/cty"
)

// Module runs tournaments over one population.
type Module struct {
	w    *world.World
	name string

	popName   string
	size      int
	numBirths int

	fitness *trait.Binding
}

// New builds a selector with the given instance name.
func New(w *world.World, name string) *Module {
	return &Module{w: w, name: name}
}

func (m *Module) Name() string { return m.name }

func (m *Module) Description() string {
	return "Tournament selection; winners reproduce with mutation."
}

func (m *Module) SetupConfig(scope *conf.Scope) {
	scope.PopulationRef(&m.popName, "population", "main", "Population to select from and birth into")
	scope.Int(&m.size, "tournament_size", 4, "Organisms entered per tournament")
	scope.Int(&m.numBirths, "num_births", 1, "Tournaments (and births) per tick")
}

func (m *Module) SetupModule() {
	m.fitness = m.w.Traits().Declare(m.name, "fitness",
		trait.AccessRequired, cty.Number, cty.NilVal,
		"Score used to pick tournament winners")
}

// OnUpdate runs the configured number of tournaments.
func (m *Module) OnUpdate(tick uint64) {
	p, ok := m.w.Population(m.popName)
	if !ok {
		m.w.Sink().Errorf("module %q: population %q does not exist", m.name, m.popName)
		return
	}
	if p.NumOrgs() == 0 {
		return
	}
	for i := 0; i < m.numBirths; i++ {
		winner := m.runTournament(p)
		if !winner.IsValid() {
			continue
		}
		if _, err := m.w.DoBirth(winner, p, 1, true); err != nil {
			m.w.Sink().Errorf("module %q: birth failed: %v", m.name, err)
			return
		}
	}
}

// runTournament draws entrants with replacement and returns the position of
// the best one.
func (m *Module) runTournament(p *pop.Population) pop.Position {
	var best pop.Position
	bestFit := 0.0
	for i := 0; i < m.size; i++ {
		pos := m.w.RandomOrgPos(p)
		org, ok := pos.Org()
		if !ok {
			continue
		}
		fit := m.fitness.Float(org)
		if !best.IsValid() || fit > bestFit {
			best = pos
			bestFit = fit
		}
	}
	return best
}
