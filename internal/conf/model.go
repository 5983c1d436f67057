// Package conf loads the run parameterization: which populations exist,
// which modules are instantiated with which params, how long to run and
// which time-scheduled events fire along the way. The on-disk format is HCL;
// everything downstream consumes the format-agnostic Model.
package conf

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Run holds the top-level run settings.
type Run struct {
	// Ticks is how many updates to execute.
	Ticks uint64
	// Seed for the master RNG; zero means derive one from the clock.
	Seed int64
}

// PopulationDef declares one named population and its starting size.
type PopulationDef struct {
	Name string
	Size int
}

// ModuleDef instantiates a registered module type under a run-local name.
// Params are raw cty values decoded against the module's config scope.
type ModuleDef struct {
	Name   string
	Type   string
	Params map[string]cty.Value
}

// EventDef is a time-scheduled configuration-level event, evaluated at the
// end of the tick whose id reaches At.
type EventDef struct {
	At         uint64
	Action     string
	Module     string
	Population string
	Count      int
}

// Event actions understood by the host driver.
const (
	ActionExit   = "exit"
	ActionInject = "inject"
	ActionReport = "report"
)

// Model is the loaded, format-agnostic configuration for one run.
type Model struct {
	Run         Run
	Populations []PopulationDef
	Modules     []ModuleDef
	Events      []EventDef
}

// Loader turns a configuration source into a Model. The app depends on this
// interface so tests can substitute in-memory configs.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}
