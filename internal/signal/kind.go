package signal

// Kind identifies one lifecycle signal the kernel can dispatch.
type Kind int

const (
	KindBeforeUpdate Kind = iota
	KindOnUpdate
	KindBeforeRepro
	KindOnOffspringReady
	KindOnInjectReady
	KindBeforePlacement
	KindOnPlacement
	KindBeforeMutate
	KindOnMutate
	KindBeforeDeath
	KindBeforeSwap
	KindOnSwap
	KindBeforePopResize
	KindOnPopResize
	KindBeforeExit
	KindOnHelp
	KindPlaceBirth
	KindPlaceInject
	KindFindNeighbor

	numKinds
)

var kindNames = [...]string{
	KindBeforeUpdate:     "before_update",
	KindOnUpdate:         "on_update",
	KindBeforeRepro:      "before_repro",
	KindOnOffspringReady: "on_offspring_ready",
	KindOnInjectReady:    "on_inject_ready",
	KindBeforePlacement:  "before_placement",
	KindOnPlacement:      "on_placement",
	KindBeforeMutate:     "before_mutate",
	KindOnMutate:         "on_mutate",
	KindBeforeDeath:      "before_death",
	KindBeforeSwap:       "before_swap",
	KindOnSwap:           "on_swap",
	KindBeforePopResize:  "before_pop_resize",
	KindOnPopResize:      "on_pop_resize",
	KindBeforeExit:       "before_exit",
	KindOnHelp:           "on_help",
	KindPlaceBirth:       "place_birth",
	KindPlaceInject:      "place_inject",
	KindFindNeighbor:     "find_neighbor",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds returns every signal kind, in dispatch-table order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}
