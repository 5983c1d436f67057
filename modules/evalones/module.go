// Package evalones scores bitstring organisms by counting set bits, the
// classic ONES landscape. It requires a "bits" attribute from some manager
// and owns the "fitness" attribute consumers select on.
package evalones

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/modevo/modevo/internal/conf"
	"github.com/modevo/modevo/internal/trait"
	"github.com/modevo/modevo/internal/world"
	"github.com/modevo/modevo/modules/bitsorg"
)

// Module evaluates one population per tick.
type Module struct {
	w    *world.World
	name string

	popName string

	bits    *trait.Binding
	fitness *trait.Binding
}

// New builds an evaluator with the given instance name.
func New(w *world.World, name string) *Module {
	return &Module{w: w, name: name}
}

func (m *Module) Name() string { return m.name }

func (m *Module) Description() string {
	return "Scores bitstring organisms by their count of one bits."
}

func (m *Module) SetupConfig(scope *conf.Scope) {
	scope.PopulationRef(&m.popName, "population", "main", "Population to evaluate each tick")
}

func (m *Module) SetupModule() {
	reg := m.w.Traits()
	m.bits = reg.Declare(m.name, "bits",
		trait.AccessRequired, cty.List(cty.Bool), cty.NilVal,
		"The organism's bit sequence")
	m.fitness = reg.Declare(m.name, "fitness",
		trait.AccessOwned, cty.Number, cty.Zero,
		"Count of one bits in the organism")
}

// OnUpdate rescores every organism in the target population.
func (m *Module) OnUpdate(tick uint64) {
	p, ok := m.w.Population(m.popName)
	if !ok {
		m.w.Sink().Errorf("module %q: population %q does not exist", m.name, m.popName)
		return
	}
	for idx := 0; idx < p.Size(); idx++ {
		org, ok := p.OrgAt(idx)
		if !ok {
			continue
		}
		ones := 0
		for _, bit := range bitsorg.BitsOf(m.bits, org) {
			if bit {
				ones++
			}
		}
		m.fitness.SetFloat(org, float64(ones))
	}
}
