package grammar

import (
	"fmt"
	"sort"
)

// lr1Automaton is the canonical collection of LR(1) item sets.
type lr1Automaton struct {
	initialState kernelID
	states       map[kernelID]*lrState

	// stateList holds the states in discovery order; state numbers
	// index into it.
	stateList []*lrState

	// missingLHS records non-terminals that appeared after a dot but
	// have no productions. Non-fatal; surfaced as diagnostics.
	missingLHS map[string]struct{}
}

// StateTransition is one edge of the state graph. The set of
// transitions forms a relation with at most one target per
// (from, symbol) pair.
type StateTransition struct {
	From   stateNum
	To     stateNum
	Symbol *Symbol
}

// transitions lists every edge in deterministic order: by source
// state, then by symbol id.
func (a *lr1Automaton) transitions() []*StateTransition {
	var trans []*StateTransition
	for _, state := range a.stateList {
		syms := make([]*Symbol, 0, len(state.next))
		for sym := range state.next {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool {
			return syms[i].id < syms[j].id
		})
		for _, sym := range syms {
			trans = append(trans, &StateTransition{
				From:   state.num,
				To:     a.states[state.next[sym]].num,
				Symbol: sym,
			})
		}
	}
	return trans
}

func genLR1Automaton(prods *productionSet, startProd *Production, terms []*Symbol, first *firstSet) (*lr1Automaton, error) {
	if startProd == nil || startProd.num != productionNumStart {
		return nil, newGrammarError(GrammarErrorNoStartProduction, "the augmented start production is missing")
	}

	automaton := &lr1Automaton{
		states:     map[kernelID]*lrState{},
		missingLHS: map[string]struct{}{},
	}

	currentState := stateNumInitial
	knownKernels := map[kernelID]struct{}{}
	uncheckedKernels := []*kernel{}

	// State 0 is the closure of {[S' → ・S, $]}.
	{
		initialItem, err := newLRItem(startProd, 0, terms[symbolIDEOF])
		if err != nil {
			return nil, err
		}

		k, err := newKernel([]*lrItem{initialItem})
		if err != nil {
			return nil, err
		}

		automaton.initialState = k.id
		knownKernels[k.id] = struct{}{}
		uncheckedKernels = append(uncheckedKernels, k)
	}

	for len(uncheckedKernels) > 0 {
		nextUncheckedKernels := []*kernel{}
		for _, k := range uncheckedKernels {
			state, neighbours, err := genStateAndNeighbourKernels(k, prods, terms, first, automaton.missingLHS)
			if err != nil {
				return nil, err
			}
			state.num = currentState
			currentState = currentState.next()

			automaton.states[state.id] = state
			automaton.stateList = append(automaton.stateList, state)

			for _, nk := range neighbours {
				if _, known := knownKernels[nk.id]; known {
					continue
				}
				knownKernels[nk.id] = struct{}{}
				nextUncheckedKernels = append(nextUncheckedKernels, nk)
			}
		}
		uncheckedKernels = nextUncheckedKernels
	}

	return automaton, nil
}

func genStateAndNeighbourKernels(k *kernel, prods *productionSet, terms []*Symbol, first *firstSet, missingLHS map[string]struct{}) (*lrState, []*kernel, error) {
	items, err := genLR1Closure(k, prods, terms, first, missingLHS)
	if err != nil {
		return nil, nil, err
	}
	neighbours, err := genNeighbourKernels(items, prods)
	if err != nil {
		return nil, nil, err
	}

	next := map[*Symbol]kernelID{}
	kernels := []*kernel{}
	for _, n := range neighbours {
		next[n.symbol] = n.kernel.id
		kernels = append(kernels, n.kernel)
	}

	return &lrState{
		kernel:  k,
		closure: items,
		next:    next,
	}, kernels, nil
}

// genLR1Closure computes CLOSURE(k): for each item [A → α・Bβ, a] and
// each production B → γ, add [B → ・γ, b] for every b in FIRST(βa).
func genLR1Closure(k *kernel, prods *productionSet, terms []*Symbol, first *firstSet, missingLHS map[string]struct{}) ([]*lrItem, error) {
	items := []*lrItem{}
	knownItems := map[lrItemID]struct{}{}
	uncheckedItems := []*lrItem{}
	for _, item := range k.items {
		items = append(items, item)
		knownItems[item.id] = struct{}{}
		uncheckedItems = append(uncheckedItems, item)
	}
	for len(uncheckedItems) > 0 {
		nextUncheckedItems := []*lrItem{}
		for _, item := range uncheckedItems {
			if item.dottedSymbol == nil || item.dottedSymbol.IsTerminal() {
				continue
			}

			prod, ok := prods.findByNum(item.prod)
			if !ok {
				return nil, fmt.Errorf("production not found: %v", item.prod)
			}

			// FIRST(βa): the tail after the dotted symbol, then the
			// item's own lookahead when the tail is nullable.
			fst, err := first.find(prod, item.dot+1)
			if err != nil {
				return nil, err
			}
			lookAheads := fst.sortedSymbols()
			if fst.empty {
				lookAheads = append(lookAheads, symbolID(item.lookAhead.id))
			}

			ps, ok := prods.findByLHS(item.dottedSymbol)
			if !ok || len(ps) == 0 {
				missingLHS[item.dottedSymbol.name] = struct{}{}
				continue
			}
			for _, p := range ps {
				for _, laID := range lookAheads {
					id := newLRItemID(p.num, 0, laID)
					if _, exist := knownItems[id]; exist {
						continue
					}
					newItem, err := newLRItem(p, 0, terms[laID])
					if err != nil {
						return nil, err
					}
					items = append(items, newItem)
					knownItems[newItem.id] = struct{}{}
					nextUncheckedItems = append(nextUncheckedItems, newItem)
				}
			}
		}
		uncheckedItems = nextUncheckedItems
	}

	return items, nil
}

type neighbourKernel struct {
	symbol *Symbol
	kernel *kernel
}

// genNeighbourKernels advances the dot over every dotted symbol of
// the closure. Symbols are visited in id order so state discovery is
// deterministic for a fixed grammar.
func genNeighbourKernels(items []*lrItem, prods *productionSet) ([]*neighbourKernel, error) {
	kItemMap := map[*Symbol][]*lrItem{}
	for _, item := range items {
		if item.dottedSymbol == nil {
			continue
		}
		prod, ok := prods.findByNum(item.prod)
		if !ok {
			return nil, fmt.Errorf("production not found: %v", item.prod)
		}
		kItem, err := newLRItem(prod, item.dot+1, item.lookAhead)
		if err != nil {
			return nil, err
		}
		kItemMap[item.dottedSymbol] = append(kItemMap[item.dottedSymbol], kItem)
	}

	nextSyms := make([]*Symbol, 0, len(kItemMap))
	for sym := range kItemMap {
		nextSyms = append(nextSyms, sym)
	}
	sort.Slice(nextSyms, func(i, j int) bool {
		return nextSyms[i].id < nextSyms[j].id
	})

	kernels := make([]*neighbourKernel, 0, len(nextSyms))
	for _, sym := range nextSyms {
		k, err := newKernel(kItemMap[sym])
		if err != nil {
			return nil, err
		}
		kernels = append(kernels, &neighbourKernel{
			symbol: sym,
			kernel: k,
		})
	}

	return kernels, nil
}
