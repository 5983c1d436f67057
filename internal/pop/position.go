package pop

import (
	"fmt"

	"github.com/modevo/modevo/internal/organism"
)

// Position addresses one slot in one population without owning anything in
// it. It is a logical address: after an intervening swap the same Position
// may no longer name the organism the holder had in mind. The zero Position
// is the invalid sentinel used by first-valid queries to mean "no answer";
// callers must check IsValid before use.
type Position struct {
	pop   *Population
	index int
}

// At builds a position addressing the idx'th slot of p.
func At(p *Population, idx int) Position {
	return Position{pop: p, index: idx}
}

// IsValid reports whether the position addresses an existing slot.
func (pos Position) IsValid() bool {
	return pos.pop != nil && pos.pop.InRange(pos.index)
}

// IsOccupied reports whether the addressed slot holds an organism.
func (pos Position) IsOccupied() bool {
	return pos.pop != nil && pos.pop.IsOccupied(pos.index)
}

// IsEmpty reports whether the addressed slot is valid and empty.
func (pos Position) IsEmpty() bool {
	return pos.pop != nil && pos.pop.IsEmptyAt(pos.index)
}

// Population returns the addressed population, nil for the invalid sentinel.
func (pos Position) Population() *Population { return pos.pop }

// Index returns the slot index within the population.
func (pos Position) Index() int { return pos.index }

// Org returns the organism at the addressed slot, if any.
func (pos Position) Org() (*organism.Organism, bool) {
	if pos.pop == nil {
		return nil, false
	}
	return pos.pop.OrgAt(pos.index)
}

func (pos Position) String() string {
	if pos.pop == nil {
		return "position(invalid)"
	}
	return fmt.Sprintf("%s[%d]", pos.pop.Name(), pos.index)
}
