package world

import (
	"fmt"

	"github.com/modevo/modevo/internal/organism"
	"github.com/modevo/modevo/internal/pop"
)

// DoBirth reproduces the organism at ppos into target, count times. Each
// offspring is cloned from the parent, optionally mutated by its manager,
// announced through OnOffspringReady, and then routed through the
// PlaceBirth query. Offspring with no willing placer are discarded with a
// warning. Returns the positions the surviving offspring landed at.
func (w *World) DoBirth(ppos pop.Position, target *pop.Population, count int, mutate bool) ([]pop.Position, error) {
	if !ppos.IsOccupied() {
		return nil, fmt.Errorf("birth parent at %s: no organism there", ppos)
	}
	if target == nil {
		return nil, fmt.Errorf("birth into nil population")
	}
	parent, _ := ppos.Org()
	w.kernel.BeforeRepro(ppos)

	var placed []pop.Position
	for i := 0; i < count; i++ {
		child := parent.Clone()
		if mutate {
			w.kernel.BeforeMutate(child)
			if child.Manager().Mutate(child, w.rng) > 0 {
				w.kernel.OnMutate(child)
			}
		}
		w.kernel.OnOffspringReady(child, ppos, target)
		pos := w.kernel.PlaceBirth(child, ppos, target)
		if !pos.IsValid() {
			w.sink.Warnf("no placement for offspring of %s into %q; discarding", ppos, target.Name())
			continue
		}
		if err := w.popmgr.AddOrgAt(child, pos, ppos); err != nil {
			return placed, err
		}
		placed = append(placed, pos)
	}
	return placed, nil
}

// Inject builds count fresh organisms with the named manager and places
// them into target through the PlaceInject query. Organisms with no willing
// placer are discarded with a warning.
func (w *World) Inject(target *pop.Population, managerName string, count int) ([]pop.Position, error) {
	mgr, ok := w.managers[managerName]
	if !ok {
		return nil, fmt.Errorf("inject: no organism manager named %q", managerName)
	}
	if target == nil {
		return nil, fmt.Errorf("inject into nil population")
	}
	var placed []pop.Position
	for i := 0; i < count; i++ {
		org, err := mgr.Make(w.rng)
		if err != nil {
			return placed, fmt.Errorf("inject: manager %q: %w", managerName, err)
		}
		w.kernel.OnInjectReady(org, target)
		pos := w.kernel.PlaceInject(org, target)
		if !pos.IsValid() {
			w.sink.Warnf("no placement for injected organism into %q; discarding", target.Name())
			continue
		}
		if err := w.popmgr.AddOrgAt(org, pos, pop.Position{}); err != nil {
			return placed, err
		}
		placed = append(placed, pos)
	}
	return placed, nil
}

// InjectAt places a copy of org at an exact position, bypassing the
// placement query but not the placement signals.
func (w *World) InjectAt(org *organism.Organism, pos pop.Position) error {
	if org == nil {
		return fmt.Errorf("inject nil organism")
	}
	clone := org.Clone()
	if pos.IsValid() {
		w.kernel.OnInjectReady(clone, pos.Population())
	}
	return w.popmgr.AddOrgAt(clone, pos, pop.Position{})
}
