package grammar

import (
	"fmt"
	"sort"
)

// firstEntry is the FIRST set of one symbol or one production tail.
// empty stands for the ε marker: the symbol can derive the empty
// string.
type firstEntry struct {
	symbols map[symbolID]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: map[symbolID]struct{}{},
	}
}

func (e *firstEntry) add(sym symbolID) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for sym := range target.symbols {
		if e.add(sym) {
			changed = true
		}
	}
	return changed
}

func (e *firstEntry) has(sym symbolID) bool {
	_, ok := e.symbols[sym]
	return ok
}

// sortedSymbols returns the terminal ids in ascending order so
// callers that iterate a FIRST set stay deterministic.
func (e *firstEntry) sortedSymbols() []symbolID {
	syms := make([]symbolID, 0, len(e.symbols))
	for sym := range e.symbols {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

type firstSet struct {
	set map[*Symbol]*firstEntry
}

func (fst *firstSet) findBySymbol(sym *Symbol) *firstEntry {
	return fst.set[sym]
}

// first returns FIRST(sym). For a terminal the result is the
// singleton {sym}. For a non-terminal with no productions the entry
// is empty; the caller surfaces the diagnostic.
func (fst *firstSet) first(sym *Symbol) *firstEntry {
	if sym.IsTerminal() {
		e := newFirstEntry()
		e.add(symbolID(sym.id))
		return e
	}
	if e, ok := fst.set[sym]; ok {
		return e
	}
	return newFirstEntry()
}

// find computes FIRST of the tail prod.rhs[head:] by folding the
// per-symbol entries left to right.
func (fst *firstSet) find(prod *Production, head int) (*firstEntry, error) {
	if head > prod.rhsLen {
		return nil, fmt.Errorf("head %v exceeds production length %v", head, prod.rhsLen)
	}
	return fst.firstOfSequence(prod.rhs[head:])
}

// firstOfSequence computes FIRST(α) for an arbitrary symbol sequence.
// For the empty sequence the result is {ε}.
func (fst *firstSet) firstOfSequence(seq []*Symbol) (*firstEntry, error) {
	entry := newFirstEntry()
	for _, sym := range seq {
		if sym.IsTerminal() {
			entry.add(symbolID(sym.id))
			return entry, nil
		}
		e := fst.findBySymbol(sym)
		if e == nil {
			// A non-terminal without productions derives nothing;
			// its FIRST set is empty and blocks the fold. The
			// automaton builder surfaces the diagnostic.
			return entry, nil
		}
		entry.mergeExceptEmpty(e)
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

// genFirstSet runs the global fixpoint once up front; afterwards
// every first query is served from the computed set. Seeding each
// non-terminal with the empty entry makes left-recursive grammars
// converge because a pass only grows entries monotonically.
func genFirstSet(prods *productionSet) (*firstSet, error) {
	fst := &firstSet{
		set: map[*Symbol]*firstEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.lhs]; ok {
			continue
		}
		fst.set[prod.lhs] = newFirstEntry()
	}

	for {
		more := false
		for _, prod := range prods.getAllProductions() {
			acc := fst.set[prod.lhs]
			changed, err := genProdFirstEntry(fst, acc, prod)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return fst, nil
}

func genProdFirstEntry(fst *firstSet, acc *firstEntry, prod *Production) (bool, error) {
	if prod.IsEmpty() {
		return acc.addEmpty(), nil
	}

	for _, sym := range prod.rhs {
		if sym.IsTerminal() {
			return acc.add(symbolID(sym.id)), nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			// A non-terminal without productions contributes nothing.
			return false, nil
		}
		changed := acc.mergeExceptEmpty(e)
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty(), nil
}
