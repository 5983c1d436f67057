// Package pop owns organism storage. A Population is an ordered sequence of
// slots, each either occupied by exactly one organism or empty; the Manager
// in this package is the single gatekeeper through which slots may be
// mutated, guaranteeing every mutation is bracketed by the right lifecycle
// notifications. The raw slot mutators are unexported, so no code outside
// this package can bypass the gatekeeper.
package pop

import (
	"fmt"

	"github.com/modevo/modevo/internal/organism"
)

// slot holds at most one organism. A nil org means the slot is empty; the
// nil is never handed out, callers always go through the (org, ok) accessors.
type slot struct {
	org *organism.Organism
}

// Population is an ordered, resizable container of organism slots.
type Population struct {
	name    string
	id      int
	slots   []slot
	numOrgs int
}

// NewPopulation builds a population of the given size with every slot empty.
func NewPopulation(name string, id, size int) *Population {
	return &Population{name: name, id: id, slots: make([]slot, size)}
}

// Name returns the population's unique name.
func (p *Population) Name() string { return p.name }

// ID returns the population's index in the world.
func (p *Population) ID() int { return p.id }

// Size is the number of slots, occupied or not.
func (p *Population) Size() int { return len(p.slots) }

// NumOrgs is the number of occupied slots.
func (p *Population) NumOrgs() int { return p.numOrgs }

// InRange reports whether idx addresses an existing slot.
func (p *Population) InRange(idx int) bool { return idx >= 0 && idx < len(p.slots) }

// IsOccupied reports whether the slot at idx holds an organism.
func (p *Population) IsOccupied(idx int) bool {
	return p.InRange(idx) && p.slots[idx].org != nil
}

// IsEmptyAt reports whether the slot at idx exists and is empty.
func (p *Population) IsEmptyAt(idx int) bool {
	return p.InRange(idx) && p.slots[idx].org == nil
}

// OrgAt returns the organism in a slot, if any.
func (p *Population) OrgAt(idx int) (*organism.Organism, bool) {
	if !p.IsOccupied(idx) {
		return nil, false
	}
	return p.slots[idx].org, true
}

// FirstEmpty returns the index of the first empty slot, or -1.
func (p *Population) FirstEmpty() int {
	for i := range p.slots {
		if p.slots[i].org == nil {
			return i
		}
	}
	return -1
}

// Audit recomputes the occupied count from scratch and verifies it matches
// the maintained field. Kept cheap enough to run after every mutation in
// tests.
func (p *Population) Audit() error {
	count := 0
	for i := range p.slots {
		if p.slots[i].org != nil {
			count++
		}
	}
	if count != p.numOrgs {
		return fmt.Errorf("population %q: occupied count %d does not match audit count %d",
			p.name, p.numOrgs, count)
	}
	return nil
}

// ---- slot mutators, reachable only via the Manager in this package ----

// setOrg installs an organism into an empty slot.
func (p *Population) setOrg(idx int, org *organism.Organism) {
	if p.slots[idx].org != nil {
		panic(fmt.Sprintf("pop: overwriting occupied slot %d in %q; clear it first", idx, p.name))
	}
	p.slots[idx].org = org
	p.numOrgs++
}

// extractOrg removes and returns the slot's organism, leaving it empty.
// Returns nil if the slot was already empty.
func (p *Population) extractOrg(idx int) *organism.Organism {
	org := p.slots[idx].org
	if org != nil {
		p.slots[idx].org = nil
		p.numOrgs--
	}
	return org
}

// resize changes the slot count. Shrinking must only happen after the
// out-of-range slots were cleared.
func (p *Population) resize(newSize int) {
	if newSize <= len(p.slots) {
		for i := newSize; i < len(p.slots); i++ {
			if p.slots[i].org != nil {
				panic(fmt.Sprintf("pop: resizing %q over occupied slot %d", p.name, i))
			}
		}
		p.slots = p.slots[:newSize]
		return
	}
	grown := make([]slot, newSize)
	copy(grown, p.slots)
	p.slots = grown
}

// pushEmpty appends one empty slot and returns its index.
func (p *Population) pushEmpty() int {
	p.slots = append(p.slots, slot{})
	return len(p.slots) - 1
}
