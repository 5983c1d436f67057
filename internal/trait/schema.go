package trait

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Schema is the shared table of organism attributes: an ordered mapping from
// attribute name to its cty type, default value and storage index. It grows
// only during setup; once locked (which happens before the first organism is
// instantiated against it) no further attributes may be added.
type Schema struct {
	entries []Entry
	byName  map[string]int
	locked  bool
}

// Entry describes one attribute in the schema.
type Entry struct {
	Name    string
	Type    cty.Type
	Default cty.Value
	Desc    string
}

// NewSchema returns an empty, unlocked schema.
func NewSchema() *Schema {
	return &Schema{byName: make(map[string]int)}
}

// Add appends an attribute and returns its storage index. The default value
// must conform to the declared type.
func (s *Schema) Add(name string, typ cty.Type, def cty.Value, desc string) (int, error) {
	if s.locked {
		return -1, fmt.Errorf("schema is locked; cannot add attribute %q", name)
	}
	if _, exists := s.byName[name]; exists {
		return -1, fmt.Errorf("attribute %q already registered", name)
	}
	if def != cty.NilVal && !def.Type().Equals(typ) {
		return -1, fmt.Errorf("attribute %q: default value type %s does not match declared type %s",
			name, def.Type().FriendlyName(), typ.FriendlyName())
	}
	if def == cty.NilVal {
		def = cty.NullVal(typ)
	}
	idx := len(s.entries)
	s.entries = append(s.entries, Entry{Name: name, Type: typ, Default: def, Desc: desc})
	s.byName[name] = idx
	return idx, nil
}

// Index returns the storage index of a named attribute.
func (s *Schema) Index(name string) (int, bool) {
	idx, ok := s.byName[name]
	return idx, ok
}

// Entry returns the attribute at a storage index.
func (s *Schema) Entry(idx int) Entry { return s.entries[idx] }

// Len is the number of registered attributes.
func (s *Schema) Len() int { return len(s.entries) }

// Lock freezes the schema. Locking twice is harmless.
func (s *Schema) Lock() { s.locked = true }

// Locked reports whether the schema has been frozen.
func (s *Schema) Locked() bool { return s.locked }

// Defaults materializes one fresh value slice holding every attribute's
// default, in storage order. The schema must be locked first: handing out
// instances of a still-growing layout would leave them misaligned.
func (s *Schema) Defaults() ([]cty.Value, error) {
	if !s.locked {
		return nil, fmt.Errorf("schema must be locked before instantiating values")
	}
	vals := make([]cty.Value, len(s.entries))
	for i, e := range s.entries {
		vals[i] = e.Default
	}
	return vals, nil
}
