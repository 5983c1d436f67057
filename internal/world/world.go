// Package world ties the kernel together: the module roster, trait registry
// and schema, signal kernel, populations and the tick-based run loop. A
// World is single-threaded and fully synchronous; every signal invocation is
// an ordinary blocking call and every population mutation funnels through
// the pop gatekeeper.
package world

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/modevo/modevo/internal/diag"
	"github.com/modevo/modevo/internal/module"
	"github.com/modevo/modevo/internal/organism"
	"github.com/modevo/modevo/internal/pop"
	"github.com/modevo/modevo/internal/signal"
	"github.com/modevo/modevo/internal/trait"
)

type moduleEntry struct {
	mod    module.Module
	active bool
}

// World is the master controller for one run.
type World struct {
	logger *slog.Logger
	sink   *diag.Sink
	rng    *rand.Rand

	schema *trait.Schema
	traits *trait.Registry
	kernel *signal.Kernel
	popmgr *pop.Manager

	mods     []moduleEntry
	managers map[string]organism.Manager

	pops      []*pop.Population
	popByName map[string]int

	events []scheduledEvent

	tick      uint64
	exitNow   bool
	exitFired bool
}

// New builds an empty world. The seed feeds the master RNG shared by every
// module; runs with equal seeds and configs are fully deterministic.
func New(logger *slog.Logger, sink *diag.Sink, seed int64) *World {
	schema := trait.NewSchema()
	kernel := signal.NewKernel()
	return &World{
		logger:    logger,
		sink:      sink,
		rng:       rand.New(rand.NewSource(seed)),
		schema:    schema,
		traits:    trait.NewRegistry(schema, sink),
		kernel:    kernel,
		popmgr:    pop.NewManager(kernel),
		managers:  make(map[string]organism.Manager),
		popByName: make(map[string]int),
	}
}

// Logger returns the world's logger for module use.
func (w *World) Logger() *slog.Logger { return w.logger }

// Sink returns the error/warning sink.
func (w *World) Sink() *diag.Sink { return w.sink }

// Rand returns the master RNG.
func (w *World) Rand() *rand.Rand { return w.rng }

// Schema returns the shared attribute schema.
func (w *World) Schema() *trait.Schema { return w.schema }

// Traits returns the trait registry modules declare against.
func (w *World) Traits() *trait.Registry { return w.traits }

// Kernel returns the signal kernel, mainly for subscriber inspection.
func (w *World) Kernel() *signal.Kernel { return w.kernel }

// Tick returns the current update counter.
func (w *World) Tick() uint64 { return w.tick }

// RequestExit raises the early-exit flag, checked between ticks.
func (w *World) RequestExit() { w.exitNow = true }

// ExitRequested reports whether the early-exit flag is raised.
func (w *World) ExitRequested() bool { return w.exitNow }

// ---- module roster ----

// RegisterModule appends a module to the roster. Registration order is
// dispatch order for every signal. Modules that implement organism.Manager
// double as organism managers, addressable by module name.
func (w *World) RegisterModule(mod module.Module) error {
	for _, e := range w.mods {
		if e.mod.Name() == mod.Name() {
			return fmt.Errorf("module %q registered twice", mod.Name())
		}
	}
	w.mods = append(w.mods, moduleEntry{mod: mod, active: true})
	if mgr, ok := mod.(organism.Manager); ok {
		w.managers[mod.Name()] = mgr
	}
	w.kernel.SetModules(w.activeSubscribers())
	return nil
}

// Modules returns the roster in registration order.
func (w *World) Modules() []module.Module {
	out := make([]module.Module, len(w.mods))
	for i, e := range w.mods {
		out[i] = e.mod
	}
	return out
}

// Module looks a module up by name.
func (w *World) Module(name string) (module.Module, bool) {
	for _, e := range w.mods {
		if e.mod.Name() == name {
			return e.mod, true
		}
	}
	return nil, false
}

// Manager looks an organism manager up by module name.
func (w *World) Manager(name string) (organism.Manager, bool) {
	mgr, ok := w.managers[name]
	return mgr, ok
}

// SetActive toggles a module's activation. Any change forces a signal
// rescan so subscriber lists stay in sync with the roster.
func (w *World) SetActive(name string, active bool) error {
	for i := range w.mods {
		if w.mods[i].mod.Name() == name {
			if w.mods[i].active != active {
				w.mods[i].active = active
				w.kernel.SetModules(w.activeSubscribers())
			}
			return nil
		}
	}
	return fmt.Errorf("unknown module %q", name)
}

func (w *World) activeSubscribers() []signal.Subscriber {
	subs := make([]signal.Subscriber, 0, len(w.mods))
	for _, e := range w.mods {
		if e.active {
			subs = append(subs, e.mod)
		}
	}
	return subs
}

// ---- populations ----

// AddPopulation creates a named population of the given starting size.
func (w *World) AddPopulation(name string, size int) (*pop.Population, error) {
	if _, exists := w.popByName[name]; exists {
		return nil, fmt.Errorf("population %q already exists", name)
	}
	p := pop.NewPopulation(name, len(w.pops), size)
	w.popByName[name] = len(w.pops)
	w.pops = append(w.pops, p)
	return p, nil
}

// Population looks a population up by name.
func (w *World) Population(name string) (*pop.Population, bool) {
	idx, ok := w.popByName[name]
	if !ok {
		return nil, false
	}
	return w.pops[idx], true
}

// PopulationAt returns the population with the given id.
func (w *World) PopulationAt(id int) *pop.Population { return w.pops[id] }

// NumPopulations returns how many populations exist.
func (w *World) NumPopulations() int { return len(w.pops) }

// ---- gatekeeper operations ----
// These delegate to the pop.Manager; they are the only mutation paths the
// rest of the system (modules included) may use.

// AddOrgAt inserts an organism, clearing the target slot first.
func (w *World) AddOrgAt(org *organism.Organism, pos, ppos pop.Position) error {
	return w.popmgr.AddOrgAt(org, pos, ppos)
}

// ClearOrgAt empties a slot, firing the death protocol for any occupant.
func (w *World) ClearOrgAt(pos pop.Position) error {
	return w.popmgr.ClearOrgAt(pos)
}

// SwapOrgs exchanges the contents of two slots.
func (w *World) SwapOrgs(pos1, pos2 pop.Position) error {
	return w.popmgr.SwapOrgs(pos1, pos2)
}

// ResizePop changes a population's slot count.
func (w *World) ResizePop(p *pop.Population, newSize int) error {
	return w.popmgr.ResizePop(p, newSize)
}

// PushEmpty appends one empty slot and returns its position.
func (w *World) PushEmpty(p *pop.Population) pop.Position {
	return w.popmgr.PushEmpty(p)
}

// MoveOrg relocates an organism, killing whatever held the target slot.
func (w *World) MoveOrg(from, to pop.Position) error {
	if err := w.popmgr.ClearOrgAt(to); err != nil {
		return err
	}
	return w.popmgr.SwapOrgs(from, to)
}

// ClearPop removes every organism without changing the population's size.
func (w *World) ClearPop(p *pop.Population) error {
	for idx := 0; idx < p.Size(); idx++ {
		if err := w.popmgr.ClearOrgAt(pop.At(p, idx)); err != nil {
			return err
		}
	}
	return nil
}

// EmptyPop clears a population and resizes it.
func (w *World) EmptyPop(p *pop.Population, newSize int) error {
	if err := w.ClearPop(p); err != nil {
		return err
	}
	return w.popmgr.ResizePop(p, newSize)
}

// CopyPop clones every organism of from into to, clearing to first.
func (w *World) CopyPop(from, to *pop.Population) error {
	if err := w.EmptyPop(to, from.Size()); err != nil {
		return err
	}
	for idx := 0; idx < from.Size(); idx++ {
		org, ok := from.OrgAt(idx)
		if !ok {
			continue
		}
		if err := w.InjectAt(org, pop.At(to, idx)); err != nil {
			return err
		}
	}
	return nil
}

// MoveOrgs relocates every organism of from into to, emptying from. When
// reset is true, to is cleared and sized to match first; otherwise the
// organisms are appended past to's current slots.
func (w *World) MoveOrgs(from, to *pop.Population, reset bool) error {
	toIdx := to.Size()
	if reset {
		toIdx = 0
		if err := w.EmptyPop(to, from.Size()); err != nil {
			return err
		}
	} else {
		if err := w.popmgr.ResizePop(to, to.Size()+from.Size()); err != nil {
			return err
		}
	}
	for idx := 0; idx < from.Size(); idx++ {
		if !from.IsOccupied(idx) {
			continue
		}
		if err := w.MoveOrg(pop.At(from, idx), pop.At(to, toIdx)); err != nil {
			return err
		}
		toIdx++
	}
	return w.EmptyPop(from, 0)
}

// ---- random position helpers ----

// RandomPos returns a uniformly random position in p, occupied or not.
func (w *World) RandomPos(p *pop.Population) pop.Position {
	if p.Size() == 0 {
		return pop.Position{}
	}
	return pop.At(p, w.rng.Intn(p.Size()))
}

// RandomOrgPos returns a uniformly random occupied position in p, or the
// invalid position if p holds no organisms.
func (w *World) RandomOrgPos(p *pop.Population) pop.Position {
	if p.NumOrgs() == 0 {
		return pop.Position{}
	}
	for {
		pos := w.RandomPos(p)
		if pos.IsOccupied() {
			return pos
		}
	}
}
