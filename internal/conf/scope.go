package conf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/modevo/modevo/internal/diag"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// FieldKind distinguishes plain values from the reference-style fields whose
// targets the host driver resolves by name after loading.
type FieldKind int

const (
	FieldValue FieldKind = iota
	// FieldMenu restricts a string field to an enumerated set of choices.
	FieldMenu
	// FieldPopRef names a population; the host validates it exists.
	FieldPopRef
	// FieldModRef names another module; the host validates it exists.
	FieldModRef
)

// Field documents one registered configuration entry.
type Field struct {
	Name    string
	Desc    string
	Kind    FieldKind
	Options []string
	Default string

	target any
}

// Scope is the per-module configuration surface. During setup each module
// registers its named fields with defaults and descriptions; Apply then
// decodes the module's params from the loaded model into the registered
// targets, reporting unknown names, bad types and invalid menu choices to
// the sink.
type Scope struct {
	module string
	sink   *diag.Sink
	fields map[string]*Field
	order  []string
}

// NewScope builds an empty scope for the named module.
func NewScope(module string, sink *diag.Sink) *Scope {
	return &Scope{module: module, sink: sink, fields: make(map[string]*Field)}
}

// Module returns the owning module's name.
func (s *Scope) Module() string { return s.module }

func (s *Scope) add(f *Field) {
	if _, dup := s.fields[f.Name]; dup {
		s.sink.Errorf("module %q registers config field %q twice", s.module, f.Name)
		return
	}
	s.fields[f.Name] = f
	s.order = append(s.order, f.Name)
}

// Int registers an integer field. The default is written to target
// immediately so unconfigured fields are usable.
func (s *Scope) Int(target *int, name string, def int, desc string) {
	*target = def
	s.add(&Field{Name: name, Desc: desc, Default: fmt.Sprint(def), target: target})
}

// Float registers a float field.
func (s *Scope) Float(target *float64, name string, def float64, desc string) {
	*target = def
	s.add(&Field{Name: name, Desc: desc, Default: fmt.Sprint(def), target: target})
}

// String registers a free-form string field.
func (s *Scope) String(target *string, name, def, desc string) {
	*target = def
	s.add(&Field{Name: name, Desc: desc, Default: def, target: target})
}

// Bool registers a boolean field.
func (s *Scope) Bool(target *bool, name string, def bool, desc string) {
	*target = def
	s.add(&Field{Name: name, Desc: desc, Default: fmt.Sprint(def), target: target})
}

// Menu registers a string field restricted to the given options.
func (s *Scope) Menu(target *string, name, def, desc string, options ...string) {
	*target = def
	s.add(&Field{Name: name, Desc: desc, Kind: FieldMenu, Options: options, Default: def, target: target})
}

// PopulationRef registers a field naming a population.
func (s *Scope) PopulationRef(target *string, name, def, desc string) {
	*target = def
	s.add(&Field{Name: name, Desc: desc, Kind: FieldPopRef, Default: def, target: target})
}

// ModuleRef registers a field naming another module.
func (s *Scope) ModuleRef(target *string, name, def, desc string) {
	*target = def
	s.add(&Field{Name: name, Desc: desc, Kind: FieldModRef, Default: def, target: target})
}

// Apply decodes the module's loaded params into the registered targets.
func (s *Scope) Apply(params map[string]cty.Value) {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f, ok := s.fields[name]
		if !ok {
			s.sink.Errorf("module %q has no config field %q (known fields: %s)",
				s.module, name, strings.Join(s.order, ", "))
			continue
		}
		s.decodeInto(f, params[name])
	}
}

func (s *Scope) decodeInto(f *Field, v cty.Value) {
	switch target := f.target.(type) {
	case *int:
		num, err := convert.Convert(v, cty.Number)
		if err != nil {
			s.sink.Errorf("module %q field %q: expected a number, got %s", s.module, f.Name, v.Type().FriendlyName())
			return
		}
		i, acc := num.AsBigFloat().Int64()
		if acc != 0 {
			s.sink.Errorf("module %q field %q: expected a whole number", s.module, f.Name)
			return
		}
		*target = int(i)
	case *float64:
		num, err := convert.Convert(v, cty.Number)
		if err != nil {
			s.sink.Errorf("module %q field %q: expected a number, got %s", s.module, f.Name, v.Type().FriendlyName())
			return
		}
		fl, _ := num.AsBigFloat().Float64()
		*target = fl
	case *bool:
		b, err := convert.Convert(v, cty.Bool)
		if err != nil {
			s.sink.Errorf("module %q field %q: expected a bool, got %s", s.module, f.Name, v.Type().FriendlyName())
			return
		}
		*target = b.True()
	case *string:
		str, err := convert.Convert(v, cty.String)
		if err != nil {
			s.sink.Errorf("module %q field %q: expected a string, got %s", s.module, f.Name, v.Type().FriendlyName())
			return
		}
		val := str.AsString()
		if f.Kind == FieldMenu && !contains(f.Options, val) {
			s.sink.Errorf("module %q field %q: %q is not one of %s",
				s.module, f.Name, val, strings.Join(f.Options, ", "))
			return
		}
		*target = val
	default:
		s.sink.Errorf("module %q field %q: unsupported target type", s.module, f.Name)
	}
}

// Fields returns every registered field in declaration order, for help
// output and docs generation.
func (s *Scope) Fields() []Field {
	out := make([]Field, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.fields[name])
	}
	return out
}

// Refs returns the current values of reference fields of the given kind so
// the host driver can validate them against the loaded world.
func (s *Scope) Refs(kind FieldKind) []string {
	var out []string
	for _, name := range s.order {
		f := s.fields[name]
		if f.Kind != kind {
			continue
		}
		if target, ok := f.target.(*string); ok && *target != "" {
			out = append(out, *target)
		}
	}
	return out
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
