package world

import (
	"github.com/modevo/modevo/internal/module"
)

// Setup finalizes the world after configuration: modules declare their
// traits, the registry cross-validates every declaration, the schema is
// installed and locked, bindings resolve to slot indexes, and the signal
// kernel scans the active roster. Returns false when the sink collected
// errors; the world must not be run in that case.
func (w *World) Setup() bool {
	w.traits.Unlock()
	for _, e := range w.mods {
		if !e.active {
			continue
		}
		if s, ok := e.mod.(module.Setup); ok {
			s.SetupModule()
		}
	}
	if !w.traits.Validate() {
		return false
	}
	if err := w.traits.InstallSchema(); err != nil {
		w.sink.Errorf("installing attribute schema: %v", err)
		return false
	}
	w.schema.Lock()
	w.traits.ResolveBindings()
	for _, e := range w.mods {
		if !e.active {
			continue
		}
		if s, ok := e.mod.(module.SchemaReady); ok {
			s.SetupSchema(w.schema)
		}
	}
	w.kernel.SetModules(w.activeSubscribers())
	w.kernel.Rescan()

	w.logger.Debug("world setup complete",
		"modules", len(w.mods),
		"traits", w.schema.Len(),
		"populations", len(w.pops))
	return !w.sink.HasErrors()
}
