package trait

import (
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// ValueStore is the slice of attribute values a binding reads and writes.
// Organisms satisfy it; trait stays unaware of who owns the values.
type ValueStore interface {
	Value(idx int) cty.Value
	SetValue(idx int, v cty.Value)
}

// Binding is a module's resolved handle on one declared trait. Declarations
// return an unresolved binding (index -1); once the registry validates and
// the schema locks, ResolveBindings fills in the storage index and the
// binding becomes usable against any organism sharing the schema.
type Binding struct {
	trait  string
	module string
	access Access
	index  int
}

// Trait returns the trait name this binding addresses.
func (b *Binding) Trait() string { return b.trait }

// Access returns the mode the owning module declared.
func (b *Binding) Access() Access { return b.access }

// Index returns the resolved storage index, or -1 before resolution.
func (b *Binding) Index() int { return b.index }

// Resolved reports whether the binding has a storage index.
func (b *Binding) Resolved() bool { return b.index >= 0 }

// Get reads the bound attribute from a value store.
func (b *Binding) Get(vs ValueStore) cty.Value { return vs.Value(b.index) }

// Set writes the bound attribute in a value store.
func (b *Binding) Set(vs ValueStore, v cty.Value) { vs.SetValue(b.index, v) }

// Float reads the bound attribute as a float64. Null reads as zero so that
// Optional readers can probe without a presence check.
func (b *Binding) Float(vs ValueStore) float64 {
	v := vs.Value(b.index)
	if v.IsNull() {
		return 0
	}
	f, _ := v.AsBigFloat().Float64()
	return f
}

// SetFloat writes the bound attribute from a float64.
func (b *Binding) SetFloat(vs ValueStore, f float64) {
	vs.SetValue(b.index, cty.NumberVal(big.NewFloat(f)))
}

// Int reads the bound attribute as an int.
func (b *Binding) Int(vs ValueStore) int {
	v := vs.Value(b.index)
	if v.IsNull() {
		return 0
	}
	i, _ := v.AsBigFloat().Int64()
	return int(i)
}

// SetInt writes the bound attribute from an int.
func (b *Binding) SetInt(vs ValueStore, i int) {
	vs.SetValue(b.index, cty.NumberIntVal(int64(i)))
}
