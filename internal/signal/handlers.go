package signal

import (
	"github.com/modevo/modevo/internal/organism"
	"github.com/modevo/modevo/internal/pop"
)

// A module subscribes to a signal by implementing the matching handler
// interface below; the kernel discovers subscriptions with a plain type
// assertion during Rescan. A module that does not implement the interface
// never appears in that signal's subscriber list. This replaces the original
// design's "did you override the default handler" self-reporting protocol
// with something the compiler checks.

// BeforeUpdater is notified just before a tick ends (tick is the id of the
// update that is ending).
type BeforeUpdater interface {
	BeforeUpdate(tick uint64)
}

// OnUpdater is notified right after a new tick begins.
type OnUpdater interface {
	OnUpdate(tick uint64)
}

// BeforeReproer is notified when the parent at ppos is about to reproduce.
type BeforeReproer interface {
	BeforeRepro(ppos pop.Position)
}

// OnOffspringReadier is notified when a mutated offspring is ready to be
// placed into target.
type OnOffspringReadier interface {
	OnOffspringReady(org *organism.Organism, ppos pop.Position, target *pop.Population)
}

// OnInjectReadier is notified when an organism is about to be injected.
type OnInjectReadier interface {
	OnInjectReady(org *organism.Organism, target *pop.Population)
}

// BeforePlacer is notified once a placement location for org has been
// chosen, before the slot is touched. ppos is invalid for injections.
type BeforePlacer interface {
	BeforePlacement(org *organism.Organism, pos, ppos pop.Position)
}

// OnPlacer is notified after an organism has been installed at pos.
type OnPlacer interface {
	OnPlacement(pos pop.Position)
}

// BeforeMutater is notified before mutation runs on an organism.
type BeforeMutater interface {
	BeforeMutate(org *organism.Organism)
}

// OnMutater is notified after an organism's traits changed due to mutation.
type OnMutater interface {
	OnMutate(org *organism.Organism)
}

// BeforeDeather is notified before the organism at pos is removed for good.
type BeforeDeather interface {
	BeforeDeath(pos pop.Position)
}

// BeforeSwapper is notified before two slots exchange contents.
type BeforeSwapper interface {
	BeforeSwap(pos1, pos2 pop.Position)
}

// OnSwapper is notified after two slots exchanged contents.
type OnSwapper interface {
	OnSwap(pos1, pos2 pop.Position)
}

// BeforePopResizer is notified before a population changes size.
type BeforePopResizer interface {
	BeforePopResize(p *pop.Population, newSize int)
}

// OnPopResizer is notified after a population changed size.
type OnPopResizer interface {
	OnPopResize(p *pop.Population, oldSize int)
}

// BeforeExiter is notified exactly once before the run tears down.
type BeforeExiter interface {
	BeforeExit()
}

// OnHelper is notified when the host driver requests module help output.
type OnHelper interface {
	OnHelp()
}

// BirthPlacer answers the first-valid query "where should this offspring
// go". Return the invalid zero Position to pass.
type BirthPlacer interface {
	PlaceBirth(org *organism.Organism, ppos pop.Position, target *pop.Population) pop.Position
}

// InjectPlacer answers the first-valid query "where should this injected
// organism go". Return the invalid zero Position to pass.
type InjectPlacer interface {
	PlaceInject(org *organism.Organism, target *pop.Population) pop.Position
}

// NeighborFinder answers the first-valid query "find a neighbor of pos".
// Return the invalid zero Position to pass.
type NeighborFinder interface {
	FindNeighbor(pos pop.Position) pop.Position
}
