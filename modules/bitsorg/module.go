// Package bitsorg manages fixed-length bitstring organisms. It owns the
// "bits" attribute that evaluators read and leaves fitness scoring to them.
package bitsorg

import (
	"math/rand"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/modevo/modevo/internal/conf"
	"github.com/modevo/modevo/internal/organism"
	"github.com/modevo/modevo/internal/trait"
	"github.com/modevo/modevo/internal/world"
)

// Module is a bitstring organism manager.
type Module struct {
	w    *world.World
	name string

	length  int
	mutRate float64

	bits *trait.Binding
}

// New builds a bitstring manager with the given instance name.
func New(w *world.World, name string) *Module {
	return &Module{w: w, name: name}
}

func (m *Module) Name() string { return m.name }

func (m *Module) Description() string {
	return "Manager for fixed-length bitstring organisms."
}

func (m *Module) SetupConfig(scope *conf.Scope) {
	scope.Int(&m.length, "length", 64, "Number of bits per organism")
	scope.Float(&m.mutRate, "mutation_rate", 0.01, "Per-bit flip probability during mutation")
}

func (m *Module) SetupModule() {
	if m.length < 0 {
		m.w.Sink().Errorf("module %q: length must not be negative, got %d", m.name, m.length)
	}
	if m.mutRate < 0 || m.mutRate > 1 {
		m.w.Sink().Errorf("module %q: mutation_rate must be in [0,1], got %g", m.name, m.mutRate)
	}
	m.bits = m.w.Traits().Declare(m.name, "bits",
		trait.AccessGenerated, cty.List(cty.Bool), cty.NullVal(cty.List(cty.Bool)),
		"The organism's bit sequence")
}

// Make builds a fresh organism with uniformly random bits.
func (m *Module) Make(rng *rand.Rand) (*organism.Organism, error) {
	org, err := organism.New(m.w.Schema(), m)
	if err != nil {
		return nil, err
	}
	bits := make([]bool, m.length)
	for i := range bits {
		bits[i] = rng.Intn(2) == 1
	}
	m.bits.Set(org, bitsValue(bits))
	return org, nil
}

// Mutate flips each bit independently with the configured probability and
// returns the number of flips.
func (m *Module) Mutate(org *organism.Organism, rng *rand.Rand) int {
	bits := BitsOf(m.bits, org)
	flips := 0
	for i := range bits {
		if rng.Float64() < m.mutRate {
			bits[i] = !bits[i]
			flips++
		}
	}
	if flips > 0 {
		m.bits.Set(org, bitsValue(bits))
	}
	return flips
}

// OrgString renders the bits as a 0/1 string.
func (m *Module) OrgString(org *organism.Organism) string {
	bits := BitsOf(m.bits, org)
	var b strings.Builder
	b.Grow(len(bits))
	for _, bit := range bits {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// BitsOf decodes a bits attribute into a bool slice. A null value (organism
// never initialized by its manager) decodes as empty.
func BitsOf(binding *trait.Binding, vs trait.ValueStore) []bool {
	v := binding.Get(vs)
	if v.IsNull() {
		return nil
	}
	out := make([]bool, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		out = append(out, ev.True())
	}
	return out
}

func bitsValue(bits []bool) cty.Value {
	if len(bits) == 0 {
		return cty.ListValEmpty(cty.Bool)
	}
	vals := make([]cty.Value, len(bits))
	for i, b := range bits {
		vals[i] = cty.BoolVal(b)
	}
	return cty.ListVal(vals)
}
