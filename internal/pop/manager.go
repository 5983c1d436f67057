package pop

import (
	"fmt"

	"github.com/modevo/modevo/internal/organism"
)

// Notifier receives the lifecycle notifications that bracket every slot
// mutation. The signal kernel implements it; pop stays free of a signal
// dependency so the bracketing contract can be tested with a plain recorder.
type Notifier interface {
	BeforePlacement(org *organism.Organism, pos, ppos Position)
	OnPlacement(pos Position)
	BeforeDeath(pos Position)
	BeforeSwap(pos1, pos2 Position)
	OnSwap(pos1, pos2 Position)
	BeforePopResize(p *Population, newSize int)
	OnPopResize(p *Population, oldSize int)
}

// Manager is the sole gatekeeper for organism placement. Every insert,
// removal, relocation and resize in the system funnels through these five
// operations; contract violations surface as errors rather than corrupting
// slot state.
type Manager struct {
	notify Notifier
}

// NewManager wires a gatekeeper to its notification sink.
func NewManager(n Notifier) *Manager {
	return &Manager{notify: n}
}

// AddOrgAt installs an organism into the addressed slot, clearing whatever
// occupied it first. Ownership of org transfers to the population. ppos is
// the parent position when the insertion is a birth; pass the zero Position
// for injections.
func (m *Manager) AddOrgAt(org *organism.Organism, pos, ppos Position) error {
	if org == nil {
		return fmt.Errorf("pop: AddOrgAt requires an organism")
	}
	if !pos.IsValid() {
		return fmt.Errorf("pop: AddOrgAt target %s is out of range", pos)
	}
	m.notify.BeforePlacement(org, pos, ppos)
	if err := m.ClearOrgAt(pos); err != nil {
		return err
	}
	pos.pop.setOrg(pos.index, org)
	m.notify.OnPlacement(pos)
	return nil
}

// ClearOrgAt empties the addressed slot, firing the death protocol for any
// living occupant. Clearing an already-empty slot is a no-op: no signals
// fire and no counts change.
func (m *Manager) ClearOrgAt(pos Position) error {
	if !pos.IsValid() {
		return fmt.Errorf("pop: ClearOrgAt position %s is out of range", pos)
	}
	if !pos.IsOccupied() {
		return nil
	}
	m.notify.BeforeDeath(pos)
	pos.pop.extractOrg(pos.index)
	return nil
}

// SwapOrgs exchanges the contents of two slots. Either slot may be empty;
// swapping moves an organism into the other's slot and leaves an empty slot
// behind.
func (m *Manager) SwapOrgs(pos1, pos2 Position) error {
	if !pos1.IsValid() {
		return fmt.Errorf("pop: SwapOrgs position %s is out of range", pos1)
	}
	if !pos2.IsValid() {
		return fmt.Errorf("pop: SwapOrgs position %s is out of range", pos2)
	}
	m.notify.BeforeSwap(pos1, pos2)
	org1 := pos1.pop.extractOrg(pos1.index)
	org2 := pos2.pop.extractOrg(pos2.index)
	if org1 != nil {
		pos2.pop.setOrg(pos2.index, org1)
	}
	if org2 != nil {
		pos1.pop.setOrg(pos1.index, org2)
	}
	m.notify.OnSwap(pos1, pos2)
	return nil
}

// ResizePop grows or shrinks a population. Slots falling outside the new
// size are cleared (each firing the death protocol) before the physical
// resize; new slots start empty. Resizing to the current size is a no-op.
func (m *Manager) ResizePop(p *Population, newSize int) error {
	if newSize < 0 {
		return fmt.Errorf("pop: ResizePop to negative size %d", newSize)
	}
	oldSize := p.Size()
	if oldSize == newSize {
		return nil
	}
	m.notify.BeforePopResize(p, newSize)
	for idx := newSize; idx < oldSize; idx++ {
		if err := m.ClearOrgAt(At(p, idx)); err != nil {
			return err
		}
	}
	p.resize(newSize)
	m.notify.OnPopResize(p, oldSize)
	return nil
}

// PushEmpty appends one empty slot and returns its position, bracketed by
// the same notifications as a size-one grow.
func (m *Manager) PushEmpty(p *Population) Position {
	m.notify.BeforePopResize(p, p.Size()+1)
	idx := p.pushEmpty()
	m.notify.OnPopResize(p, p.Size()-1)
	return At(p, idx)
}
