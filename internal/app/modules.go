package app

import (
	"github.com/modevo/modevo/internal/module"
	"github.com/modevo/modevo/modules/bitsorg"
	"github.com/modevo/modevo/modules/evalones"
	"github.com/modevo/modevo/modules/growthplace"
	"github.com/modevo/modevo/modules/statsreport"
	"github.com/modevo/modevo/modules/tournament"
)

// Factory instantiates a module of some type under a run-local name. The
// App passes itself so factories can reach the world, archive store and run
// id without package-level state.
type Factory func(a *App, name string) module.Module

// coreFactories maps config "type" strings to the built-in module set.
// Hosts embedding the app can extend this through NewApp's extra factories.
var coreFactories = map[string]Factory{
	"bitsorg": func(a *App, name string) module.Module {
		return bitsorg.New(a.world, name)
	},
	"evalones": func(a *App, name string) module.Module {
		return evalones.New(a.world, name)
	},
	"tournament": func(a *App, name string) module.Module {
		return tournament.New(a.world, name)
	},
	"growthplace": func(a *App, name string) module.Module {
		return growthplace.New(a.world, name)
	},
	"statsreport": func(a *App, name string) module.Module {
		return statsreport.New(a.world, name, a.store, a.runID)
	},
}
