// Package growthplace answers placement queries for a growing population.
// In "append" mode every new organism gets a freshly pushed slot; in "fill"
// mode existing empty slots are reused before the population grows.
package growthplace

import (
	"github.com/modevo/modevo/internal/conf"
	"github.com/modevo/modevo/internal/organism"
	"github.com/modevo/modevo/internal/pop"
	"github.com/modevo/modevo/internal/world"
)

const (
	modeAppend = "append"
	modeFill   = "fill"
)

// Module is a placement provider for one population.
type Module struct {
	w    *world.World
	name string

	popName string
	mode    string
}

// New builds a placement module with the given instance name.
func New(w *world.World, name string) *Module {
	return &Module{w: w, name: name}
}

func (m *Module) Name() string { return m.name }

func (m *Module) Description() string {
	return "Places births and injections by growing or back-filling a population."
}

func (m *Module) SetupConfig(scope *conf.Scope) {
	scope.PopulationRef(&m.popName, "population", "main", "Population this module places into")
	scope.Menu(&m.mode, "mode", modeFill, "Placement strategy", modeAppend, modeFill)
}

// PlaceBirth answers for the managed population only, passing otherwise.
func (m *Module) PlaceBirth(org *organism.Organism, ppos pop.Position, target *pop.Population) pop.Position {
	return m.place(target)
}

// PlaceInject answers for the managed population only, passing otherwise.
func (m *Module) PlaceInject(org *organism.Organism, target *pop.Population) pop.Position {
	return m.place(target)
}

func (m *Module) place(target *pop.Population) pop.Position {
	if target == nil || target.Name() != m.popName {
		return pop.Position{}
	}
	if m.mode == modeFill {
		if idx := target.FirstEmpty(); idx >= 0 {
			return pop.At(target, idx)
		}
	}
	return m.w.PushEmpty(target)
}
