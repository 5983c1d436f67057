// Package module defines the contract between the kernel and its extension
// units. A module only has to carry a stable identity; everything else it
// can do (declare configuration, declare traits, react to signals) is
// expressed through optional capability interfaces the kernel probes for.
package module

import (
	"github.com/modevo/modevo/internal/conf"
	"github.com/modevo/modevo/internal/trait"
)

// Module is the minimal interface every extension unit implements. Modules
// are created once at setup, live for the run's duration, and are registered
// explicitly by the host driver; there are no init()-time global rosters.
type Module interface {
	Name() string
	Description() string
}

// ConfigSetup is implemented by modules that expose configuration fields.
// The kernel calls it exactly once during setup, before traits validate.
type ConfigSetup interface {
	SetupConfig(scope *conf.Scope)
}

// Setup is implemented by modules that need a setup pass; this is where
// trait declarations belong.
type Setup interface {
	SetupModule()
}

// SchemaReady is implemented by modules that want a look at the locked
// attribute schema, after validation passed and bindings resolved.
type SchemaReady interface {
	SetupSchema(schema *trait.Schema)
}
