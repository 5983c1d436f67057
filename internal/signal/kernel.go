// Package signal routes lifecycle events to the modules that subscribe to
// them, in module-registration order. Subscription is discovered by
// capability: a module subscribes to a signal by implementing that signal's
// handler interface. Broadcast signals invoke every subscriber; first-valid
// queries stop at the first subscriber returning a valid position.
//
// Dispatch is single-threaded and fully synchronous. Re-entrant triggering
// of a signal from inside one of its own handlers is a module-author error
// the kernel does not guard against.
package signal

import (
	"github.com/modevo/modevo/internal/organism"
	"github.com/modevo/modevo/internal/pop"
)

// Subscriber is the minimal identity the kernel needs from a module. The
// world hands the kernel its active modules; everything else about a module
// is discovered through the handler interfaces.
type Subscriber interface {
	Name() string
}

// Kernel holds the per-kind ordered subscriber lists. Lists are rebuilt by
// Rescan, which runs lazily on the next trigger after anything marks the
// kernel dirty (module roster or activation changes).
type Kernel struct {
	mods  []Subscriber
	dirty bool

	beforeUpdate     []BeforeUpdater
	onUpdate         []OnUpdater
	beforeRepro      []BeforeReproer
	onOffspringReady []OnOffspringReadier
	onInjectReady    []OnInjectReadier
	beforePlacement  []BeforePlacer
	onPlacement      []OnPlacer
	beforeMutate     []BeforeMutater
	onMutate         []OnMutater
	beforeDeath      []BeforeDeather
	beforeSwap       []BeforeSwapper
	onSwap           []OnSwapper
	beforePopResize  []BeforePopResizer
	onPopResize      []OnPopResizer
	beforeExit       []BeforeExiter
	onHelp           []OnHelper
	placeBirth       []BirthPlacer
	placeInject      []InjectPlacer
	findNeighbor     []NeighborFinder

	names [numKinds][]string
}

// NewKernel returns an empty kernel with no subscribers.
func NewKernel() *Kernel {
	return &Kernel{dirty: true}
}

// SetModules replaces the module roster (active modules only, in
// registration order) and marks every subscriber list stale.
func (k *Kernel) SetModules(mods []Subscriber) {
	k.mods = mods
	k.dirty = true
}

// MarkDirty forces a rescan before the next dispatch; call it whenever a
// module's activation state changes.
func (k *Kernel) MarkDirty() { k.dirty = true }

// NeedsRescan reports whether subscriber lists are stale.
func (k *Kernel) NeedsRescan() bool { return k.dirty }

// Rescan rebuilds every signal's subscriber list from the current roster.
func (k *Kernel) Rescan() {
	k.beforeUpdate = k.beforeUpdate[:0]
	k.onUpdate = k.onUpdate[:0]
	k.beforeRepro = k.beforeRepro[:0]
	k.onOffspringReady = k.onOffspringReady[:0]
	k.onInjectReady = k.onInjectReady[:0]
	k.beforePlacement = k.beforePlacement[:0]
	k.onPlacement = k.onPlacement[:0]
	k.beforeMutate = k.beforeMutate[:0]
	k.onMutate = k.onMutate[:0]
	k.beforeDeath = k.beforeDeath[:0]
	k.beforeSwap = k.beforeSwap[:0]
	k.onSwap = k.onSwap[:0]
	k.beforePopResize = k.beforePopResize[:0]
	k.onPopResize = k.onPopResize[:0]
	k.beforeExit = k.beforeExit[:0]
	k.onHelp = k.onHelp[:0]
	k.placeBirth = k.placeBirth[:0]
	k.placeInject = k.placeInject[:0]
	k.findNeighbor = k.findNeighbor[:0]
	for i := range k.names {
		k.names[i] = k.names[i][:0]
	}

	record := func(kind Kind, name string) {
		k.names[kind] = append(k.names[kind], name)
	}
	for _, mod := range k.mods {
		if h, ok := mod.(BeforeUpdater); ok {
			k.beforeUpdate = append(k.beforeUpdate, h)
			record(KindBeforeUpdate, mod.Name())
		}
		if h, ok := mod.(OnUpdater); ok {
			k.onUpdate = append(k.onUpdate, h)
			record(KindOnUpdate, mod.Name())
		}
		if h, ok := mod.(BeforeReproer); ok {
			k.beforeRepro = append(k.beforeRepro, h)
			record(KindBeforeRepro, mod.Name())
		}
		if h, ok := mod.(OnOffspringReadier); ok {
			k.onOffspringReady = append(k.onOffspringReady, h)
			record(KindOnOffspringReady, mod.Name())
		}
		if h, ok := mod.(OnInjectReadier); ok {
			k.onInjectReady = append(k.onInjectReady, h)
			record(KindOnInjectReady, mod.Name())
		}
		if h, ok := mod.(BeforePlacer); ok {
			k.beforePlacement = append(k.beforePlacement, h)
			record(KindBeforePlacement, mod.Name())
		}
		if h, ok := mod.(OnPlacer); ok {
			k.onPlacement = append(k.onPlacement, h)
			record(KindOnPlacement, mod.Name())
		}
		if h, ok := mod.(BeforeMutater); ok {
			k.beforeMutate = append(k.beforeMutate, h)
			record(KindBeforeMutate, mod.Name())
		}
		if h, ok := mod.(OnMutater); ok {
			k.onMutate = append(k.onMutate, h)
			record(KindOnMutate, mod.Name())
		}
		if h, ok := mod.(BeforeDeather); ok {
			k.beforeDeath = append(k.beforeDeath, h)
			record(KindBeforeDeath, mod.Name())
		}
		if h, ok := mod.(BeforeSwapper); ok {
			k.beforeSwap = append(k.beforeSwap, h)
			record(KindBeforeSwap, mod.Name())
		}
		if h, ok := mod.(OnSwapper); ok {
			k.onSwap = append(k.onSwap, h)
			record(KindOnSwap, mod.Name())
		}
		if h, ok := mod.(BeforePopResizer); ok {
			k.beforePopResize = append(k.beforePopResize, h)
			record(KindBeforePopResize, mod.Name())
		}
		if h, ok := mod.(OnPopResizer); ok {
			k.onPopResize = append(k.onPopResize, h)
			record(KindOnPopResize, mod.Name())
		}
		if h, ok := mod.(BeforeExiter); ok {
			k.beforeExit = append(k.beforeExit, h)
			record(KindBeforeExit, mod.Name())
		}
		if h, ok := mod.(OnHelper); ok {
			k.onHelp = append(k.onHelp, h)
			record(KindOnHelp, mod.Name())
		}
		if h, ok := mod.(BirthPlacer); ok {
			k.placeBirth = append(k.placeBirth, h)
			record(KindPlaceBirth, mod.Name())
		}
		if h, ok := mod.(InjectPlacer); ok {
			k.placeInject = append(k.placeInject, h)
			record(KindPlaceInject, mod.Name())
		}
		if h, ok := mod.(NeighborFinder); ok {
			k.findNeighbor = append(k.findNeighbor, h)
			record(KindFindNeighbor, mod.Name())
		}
	}
	k.dirty = false
}

// Subscribers returns the names of the modules subscribed to a signal, in
// dispatch order.
func (k *Kernel) Subscribers(kind Kind) []string {
	k.rescanIfDirty()
	return append([]string(nil), k.names[kind]...)
}

func (k *Kernel) rescanIfDirty() {
	if k.dirty {
		k.Rescan()
	}
}

// ---- broadcast triggers ----

func (k *Kernel) BeforeUpdate(tick uint64) {
	k.rescanIfDirty()
	for _, h := range k.beforeUpdate {
		h.BeforeUpdate(tick)
	}
}

func (k *Kernel) OnUpdate(tick uint64) {
	k.rescanIfDirty()
	for _, h := range k.onUpdate {
		h.OnUpdate(tick)
	}
}

func (k *Kernel) BeforeRepro(ppos pop.Position) {
	k.rescanIfDirty()
	for _, h := range k.beforeRepro {
		h.BeforeRepro(ppos)
	}
}

func (k *Kernel) OnOffspringReady(org *organism.Organism, ppos pop.Position, target *pop.Population) {
	k.rescanIfDirty()
	for _, h := range k.onOffspringReady {
		h.OnOffspringReady(org, ppos, target)
	}
}

func (k *Kernel) OnInjectReady(org *organism.Organism, target *pop.Population) {
	k.rescanIfDirty()
	for _, h := range k.onInjectReady {
		h.OnInjectReady(org, target)
	}
}

func (k *Kernel) BeforePlacement(org *organism.Organism, pos, ppos pop.Position) {
	k.rescanIfDirty()
	for _, h := range k.beforePlacement {
		h.BeforePlacement(org, pos, ppos)
	}
}

func (k *Kernel) OnPlacement(pos pop.Position) {
	k.rescanIfDirty()
	for _, h := range k.onPlacement {
		h.OnPlacement(pos)
	}
}

func (k *Kernel) BeforeMutate(org *organism.Organism) {
	k.rescanIfDirty()
	for _, h := range k.beforeMutate {
		h.BeforeMutate(org)
	}
}

func (k *Kernel) OnMutate(org *organism.Organism) {
	k.rescanIfDirty()
	for _, h := range k.onMutate {
		h.OnMutate(org)
	}
}

func (k *Kernel) BeforeDeath(pos pop.Position) {
	k.rescanIfDirty()
	for _, h := range k.beforeDeath {
		h.BeforeDeath(pos)
	}
}

func (k *Kernel) BeforeSwap(pos1, pos2 pop.Position) {
	k.rescanIfDirty()
	for _, h := range k.beforeSwap {
		h.BeforeSwap(pos1, pos2)
	}
}

func (k *Kernel) OnSwap(pos1, pos2 pop.Position) {
	k.rescanIfDirty()
	for _, h := range k.onSwap {
		h.OnSwap(pos1, pos2)
	}
}

func (k *Kernel) BeforePopResize(p *pop.Population, newSize int) {
	k.rescanIfDirty()
	for _, h := range k.beforePopResize {
		h.BeforePopResize(p, newSize)
	}
}

func (k *Kernel) OnPopResize(p *pop.Population, oldSize int) {
	k.rescanIfDirty()
	for _, h := range k.onPopResize {
		h.OnPopResize(p, oldSize)
	}
}

func (k *Kernel) BeforeExit() {
	k.rescanIfDirty()
	for _, h := range k.beforeExit {
		h.BeforeExit()
	}
}

func (k *Kernel) OnHelp() {
	k.rescanIfDirty()
	for _, h := range k.onHelp {
		h.OnHelp()
	}
}

// ---- first-valid queries ----

// PlaceBirth asks subscribers in order for an offspring placement; the first
// valid answer wins. Exhausting every subscriber returns the invalid zero
// Position, which callers must treat as "no answer".
func (k *Kernel) PlaceBirth(org *organism.Organism, ppos pop.Position, target *pop.Population) pop.Position {
	k.rescanIfDirty()
	for _, h := range k.placeBirth {
		if p := h.PlaceBirth(org, ppos, target); p.IsValid() {
			return p
		}
	}
	return pop.Position{}
}

// PlaceInject asks subscribers in order for an injection placement.
func (k *Kernel) PlaceInject(org *organism.Organism, target *pop.Population) pop.Position {
	k.rescanIfDirty()
	for _, h := range k.placeInject {
		if p := h.PlaceInject(org, target); p.IsValid() {
			return p
		}
	}
	return pop.Position{}
}

// FindNeighbor asks subscribers in order for a neighbor of pos.
func (k *Kernel) FindNeighbor(pos pop.Position) pop.Position {
	k.rescanIfDirty()
	for _, h := range k.findNeighbor {
		if p := h.FindNeighbor(pos); p.IsValid() {
			return p
		}
	}
	return pop.Position{}
}
