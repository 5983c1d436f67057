// Package organism defines the entities a run evolves: a value slice aligned
// to the shared attribute schema plus a back-reference to the manager module
// that knows how to build, mutate and print organisms of its kind.
package organism

import (
	"math/rand"

	"github.com/modevo/modevo/internal/trait"
	"github.com/zclconf/go-cty/cty"
)

// Manager is implemented by organism-manager modules. Exactly one manager is
// responsible for each organism; it is the only code that understands the
// organism's genome-bearing traits.
type Manager interface {
	// Name is the manager module's stable identity.
	Name() string
	// Make builds a fresh organism, typically randomized.
	Make(rng *rand.Rand) (*Organism, error)
	// Mutate alters an organism in place and returns the number of changes.
	Mutate(org *Organism, rng *rand.Rand) int
	// OrgString renders an organism for logs and debugging.
	OrgString(org *Organism) string
}

// Organism holds one instance of the attribute schema. An organism is owned
// by exactly one population slot at a time, or transiently by the caller that
// built it and has not yet inserted it.
type Organism struct {
	values []cty.Value
	mgr    Manager
}

// New instantiates an organism with every attribute at its schema default.
// The schema must already be locked.
func New(schema *trait.Schema, mgr Manager) (*Organism, error) {
	vals, err := schema.Defaults()
	if err != nil {
		return nil, err
	}
	return &Organism{values: vals, mgr: mgr}, nil
}

// Manager returns the manager module responsible for this organism.
func (o *Organism) Manager() Manager { return o.mgr }

// Value returns the attribute at a storage index.
func (o *Organism) Value(idx int) cty.Value { return o.values[idx] }

// SetValue overwrites the attribute at a storage index.
func (o *Organism) SetValue(idx int, v cty.Value) { o.values[idx] = v }

// Len is the number of attributes this organism carries.
func (o *Organism) Len() int { return len(o.values) }

// Clone copies the organism's attribute values into a new organism with the
// same manager. cty values are immutable, so a shallow copy suffices.
func (o *Organism) Clone() *Organism {
	vals := make([]cty.Value, len(o.values))
	copy(vals, o.values)
	return &Organism{values: vals, mgr: o.mgr}
}

// String delegates to the manager's rendering.
func (o *Organism) String() string {
	if o.mgr == nil {
		return "organism{}"
	}
	return o.mgr.OrgString(o)
}
