// Package trait lets independently authored modules share a schema of named,
// dynamically typed organism attributes without silent conflicts. Each module
// declares which traits it touches and under what access mode; the registry
// validates the full declaration graph in one pass before the schema locks.
package trait

import (
	"sort"
	"strings"

	"github.com/modevo/modevo/internal/diag"
	"github.com/zclconf/go-cty/cty"
)

// use records one module's declared access on a trait, in declaration order.
type use struct {
	module  string
	access  Access
	binding *Binding
}

// Descriptor is the per-trait-name bookkeeping: the fixed type and default
// (set by the first declaration) plus every module's declared access.
type Descriptor struct {
	name   string
	typ    cty.Type
	def    cty.Value
	desc   string
	uses   []use
	counts [numAccess]int
}

// Name returns the trait name.
func (d *Descriptor) Name() string { return d.name }

// Type returns the trait's fixed type.
func (d *Descriptor) Type() cty.Type { return d.typ }

// Count returns how many modules declared the given access mode.
func (d *Descriptor) Count(a Access) int { return d.counts[a] }

// Modules returns the names of every declaring module, in declaration order.
func (d *Descriptor) Modules() []string {
	names := make([]string, len(d.uses))
	for i, u := range d.uses {
		names[i] = u.module
	}
	return names
}

// ModulesWith returns declaring module names restricted to one access mode.
func (d *Descriptor) ModulesWith(a Access) []string {
	var names []string
	for _, u := range d.uses {
		if u.access == a {
			names = append(names, u.module)
		}
	}
	return names
}

func (d *Descriptor) hasAccess(module string) bool {
	for _, u := range d.uses {
		if u.module == module {
			return true
		}
	}
	return false
}

// Registry tracks every trait declaration made during setup and verifies the
// whole graph before the attribute schema is locked.
type Registry struct {
	sink   *diag.Sink
	schema *Schema
	traits map[string]*Descriptor
	order  []string
	locked bool
}

// NewRegistry builds a registry around the given schema and error sink. The
// registry starts locked: declarations are only legal between Unlock (called
// when module setup begins) and validation.
func NewRegistry(schema *Schema, sink *diag.Sink) *Registry {
	return &Registry{
		sink:   sink,
		schema: schema,
		traits: make(map[string]*Descriptor),
		locked: true,
	}
}

// Unlock opens the registry for declarations.
func (r *Registry) Unlock() { r.locked = false }

// Locked reports whether declarations are currently rejected.
func (r *Registry) Locked() bool { return r.locked }

// Len is the number of distinct trait names declared.
func (r *Registry) Len() int { return len(r.traits) }

// Descriptor looks up the bookkeeping for a trait name.
func (r *Registry) Descriptor(name string) (*Descriptor, bool) {
	d, ok := r.traits[name]
	return d, ok
}

// Declare records that a module wants the named trait under the given access
// mode. The first declaration fixes the trait's type and default value; every
// later declaration must match the type exactly. Problems are reported to the
// sink rather than returned, so module setup code stays linear; the returned
// binding is always non-nil and resolves after validation succeeds.
func (r *Registry) Declare(module, name string, access Access, typ cty.Type, def cty.Value, desc string) *Binding {
	b := &Binding{trait: name, module: module, access: access, index: -1}

	if r.locked {
		r.sink.Errorf("module %q declaring trait %q after configuration is locked; traits must be declared during module setup", module, name)
		return b
	}

	d, ok := r.traits[name]
	if !ok {
		d = &Descriptor{name: name, typ: typ, def: def, desc: desc}
		r.traits[name] = d
		r.order = append(r.order, name)
	} else {
		if d.hasAccess(module) {
			r.sink.Errorf("module %q is declaring trait %q more than once", module, name)
		}
		if !typ.Equals(d.typ) {
			r.sink.Errorf("module %q declares trait %q as %s; previously declared as %s by %s",
				module, name, typ.FriendlyName(), d.typ.FriendlyName(), englishList(d.Modules()))
		}
		if d.desc == "" {
			d.desc = desc
		}
	}

	d.uses = append(d.uses, use{module: module, access: access, binding: b})
	d.counts[access]++
	return b
}

// Validate runs the whole-graph consistency check over every distinct trait
// name. It cannot run incrementally: rules like "some other module satisfies
// this REQUIRED declaration" only hold or fail once all modules have spoken.
// Every violation is reported to the sink naming the offending modules;
// Validate returns true when the graph is clean.
func (r *Registry) Validate() bool {
	clean := true
	for _, name := range r.order {
		d := r.traits[name]
		if !r.validateKnown(d) || !r.validatePrivacy(d) || !r.validateOwnership(d) || !r.validateRequirements(d) {
			clean = false
		}
	}
	return clean
}

// No declaration may still carry UNKNOWN access.
func (r *Registry) validateKnown(d *Descriptor) bool {
	if d.counts[AccessUnknown] == 0 {
		return true
	}
	r.sink.Errorf("trait %q declared with unresolved access mode by %s",
		d.name, englishList(d.ModulesWith(AccessUnknown)))
	return false
}

// A PRIVATE trait belongs to one module and to that module alone.
func (r *Registry) validatePrivacy(d *Descriptor) bool {
	private := d.counts[AccessPrivate]
	if private > 1 {
		r.sink.Errorf("trait %q declared PRIVATE by multiple modules: %s; prefix the names with a module-specific tag if they are meant to be distinct",
			d.name, englishList(d.ModulesWith(AccessPrivate)))
		return false
	}
	if private == 1 && len(d.uses) > 1 {
		r.sink.Errorf("trait %q is PRIVATE to module %q but is also declared by %s",
			d.name, d.ModulesWith(AccessPrivate)[0], englishList(d.othersThan(AccessPrivate)))
		return false
	}
	return true
}

// OWNED and GENERATED claim exclusive write access; SHARED writers conflict.
func (r *Registry) validateOwnership(d *Descriptor) bool {
	claims := d.counts[AccessOwned] + d.counts[AccessGenerated]
	if claims > 1 {
		owners := append(d.ModulesWith(AccessOwned), d.ModulesWith(AccessGenerated)...)
		r.sink.Errorf("trait %q has multiple ownership claims: %s; change all but one to REQUIRED, or make the trait SHARED",
			d.name, englishList(owners))
		return false
	}
	if claims == 1 && d.counts[AccessShared] > 0 {
		owners := append(d.ModulesWith(AccessOwned), d.ModulesWith(AccessGenerated)...)
		r.sink.Errorf("trait %q is owned by module %q and cannot also be SHARED by %s",
			d.name, owners[0], englishList(d.ModulesWith(AccessShared)))
		return false
	}
	return true
}

// REQUIRED needs a writer elsewhere; GENERATED needs a reader elsewhere.
func (r *Registry) validateRequirements(d *Descriptor) bool {
	writers := d.counts[AccessOwned] + d.counts[AccessGenerated] + d.counts[AccessShared]
	if d.counts[AccessRequired] > 0 && writers == 0 {
		r.sink.Errorf("trait %q marked REQUIRED by %s but no module writes to it",
			d.name, englishList(d.ModulesWith(AccessRequired)))
		return false
	}
	if d.counts[AccessGenerated] > 0 && d.counts[AccessRequired] == 0 {
		r.sink.Errorf("trait %q marked GENERATED by %s but no module declares it REQUIRED",
			d.name, englishList(d.ModulesWith(AccessGenerated)))
		return false
	}
	return true
}

// othersThan lists declaring modules whose access differs from a.
func (d *Descriptor) othersThan(a Access) []string {
	var names []string
	for _, u := range d.uses {
		if u.access != a {
			names = append(names, u.module)
		}
	}
	return names
}

// InstallSchema registers every validated trait into the schema, in
// declaration order, then locks the registry against further declarations.
func (r *Registry) InstallSchema() error {
	for _, name := range r.order {
		d := r.traits[name]
		if _, err := r.schema.Add(d.name, d.typ, d.def, d.desc); err != nil {
			return err
		}
	}
	r.locked = true
	return nil
}

// ResolveBindings fills in the storage index on every binding handed out by
// Declare. Must run after InstallSchema and schema lock.
func (r *Registry) ResolveBindings() {
	for _, name := range r.order {
		idx, ok := r.schema.Index(name)
		if !ok {
			continue
		}
		for _, u := range r.traits[name].uses {
			u.binding.index = idx
		}
	}
}

// TraitNames returns every declared trait name, sorted for stable reporting.
func (r *Registry) TraitNames() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// englishList renders module names as "a", "a and b" or "a, b and c".
func englishList(names []string) string {
	switch len(names) {
	case 0:
		return "(none)"
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
