package grammar

import (
	"fmt"
	"sort"

	"github.com/julymiaw/seuyacc/spec"
)

// genReport flattens the automaton, the tables, and the conflict
// records into the serializable report the describe emitters consume.
func (b *lrTableBuilder) genReport(tab *ParsingTable, gram *Grammar) (*spec.Report, error) {
	var terms []*spec.Terminal
	{
		termSyms := gram.Terminals()
		terms = make([]*spec.Terminal, len(termSyms))
		for _, sym := range termSyms {
			term := &spec.Terminal{
				Number:  sym.ID(),
				Name:    sym.Name(),
				Literal: sym.Kind() == SymbolKindLiteral,
			}
			if sym.prec != precNil {
				term.Precedence = sym.prec
			}
			switch sym.assoc {
			case AssocTypeLeft:
				term.Associativity = "l"
			case AssocTypeRight:
				term.Associativity = "r"
			case AssocTypeNonAssoc:
				term.Associativity = "n"
			}
			terms[sym.ID()] = term
		}
	}

	var nonTerms []*spec.NonTerminal
	{
		nonTermSyms := gram.NonTerminals()
		nonTerms = make([]*spec.NonTerminal, len(nonTermSyms))
		for i, sym := range nonTermSyms {
			nonTerms[i] = &spec.NonTerminal{
				Number: sym.ID(),
				Name:   sym.Name(),
			}
		}
	}

	var prods []*spec.Production
	{
		ps := gram.Productions()
		prods = make([]*spec.Production, len(ps))
		for _, p := range ps {
			rhs := make([]int, len(p.rhs))
			for i, e := range p.rhs {
				rhs[i] = e.ID()
			}

			prod := &spec.Production{
				Number: p.Num(),
				LHS:    p.lhs.ID(),
				RHS:    rhs,
			}
			if p.prec != precNil {
				prod.Precedence = p.prec
			}
			switch p.assoc {
			case AssocTypeLeft:
				prod.Associativity = "l"
			case AssocTypeRight:
				prod.Associativity = "r"
			case AssocTypeNonAssoc:
				prod.Associativity = "n"
			}
			prods[p.Num()] = prod
		}
	}

	var states []*spec.State
	{
		srConflicts := map[stateNum][]*shiftReduceConflict{}
		rrConflicts := map[stateNum][]*reduceReduceConflict{}
		for _, con := range b.conflicts {
			switch c := con.(type) {
			case *shiftReduceConflict:
				srConflicts[c.state] = append(srConflicts[c.state], c)
			case *reduceReduceConflict:
				rrConflicts[c.state] = append(rrConflicts[c.state], c)
			}
		}

		states = make([]*spec.State, len(b.automaton.stateList))
		for _, s := range b.automaton.stateList {
			kernel := groupItems(s.items)
			items := groupItems(s.closure)

			var shift []*spec.Transition
			var reduce []*spec.Reduce
			var goTo []*spec.Transition
			acceptOnEOF := false
			{
			TERMINALS_LOOP:
				for t := 0; t < tab.TerminalCount(); t++ {
					act, next, prod := tab.Action(s.num.Int(), t)
					switch act {
					case ActionTypeShift:
						shift = append(shift, &spec.Transition{
							Symbol: t,
							State:  next,
						})
					case ActionTypeReduce:
						for _, r := range reduce {
							if r.Production == prod {
								r.LookAhead = append(r.LookAhead, t)
								continue TERMINALS_LOOP
							}
						}
						reduce = append(reduce, &spec.Reduce{
							LookAhead:  []int{t},
							Production: prod,
						})
					case ActionTypeAccept:
						acceptOnEOF = true
					}
				}

				for n := 0; n < tab.NonTerminalCount(); n++ {
					ok, next := tab.GoTo(s.num.Int(), tab.TerminalCount()+n)
					if ok {
						goTo = append(goTo, &spec.Transition{
							Symbol: tab.TerminalCount() + n,
							State:  next,
						})
					}
				}

				sort.Slice(shift, func(i, j int) bool {
					return shift[i].Symbol < shift[j].Symbol
				})
				sort.Slice(reduce, func(i, j int) bool {
					return reduce[i].Production < reduce[j].Production
				})
				sort.Slice(goTo, func(i, j int) bool {
					return goTo[i].Symbol < goTo[j].Symbol
				})
			}

			sr := []*spec.SRConflict{}
			rr := []*spec.RRConflict{}
			{
				for _, c := range srConflicts[s.num] {
					conflict := &spec.SRConflict{
						Symbol:     c.sym.ID(),
						State:      c.nextState.Int(),
						Production: c.prodNum.Int(),
						ResolvedBy: c.resolvedBy.Int(),
					}

					ty, next, p := tab.Action(s.num.Int(), c.sym.ID())
					switch ty {
					case ActionTypeShift:
						n := next
						conflict.AdoptedState = &n
					case ActionTypeReduce:
						n := p
						conflict.AdoptedProduction = &n
					}

					sr = append(sr, conflict)
				}

				sort.Slice(sr, func(i, j int) bool {
					return sr[i].Symbol < sr[j].Symbol
				})

				for _, c := range rrConflicts[s.num] {
					conflict := &spec.RRConflict{
						Symbol:      c.sym.ID(),
						Production1: c.prodNum1.Int(),
						Production2: c.prodNum2.Int(),
						ResolvedBy:  c.resolvedBy.Int(),
					}

					_, _, p := tab.Action(s.num.Int(), c.sym.ID())
					conflict.AdoptedProduction = p

					rr = append(rr, conflict)
				}

				sort.Slice(rr, func(i, j int) bool {
					return rr[i].Symbol < rr[j].Symbol
				})
			}

			states[s.num.Int()] = &spec.State{
				Number:      s.num.Int(),
				Kernel:      kernel,
				Items:       items,
				Shift:       shift,
				Reduce:      reduce,
				GoTo:        goTo,
				AcceptOnEOF: acceptOnEOF,
				SRConflict:  sr,
				RRConflict:  rr,
			}
		}
	}

	if len(states) == 0 {
		return nil, fmt.Errorf("no states were generated")
	}

	return &spec.Report{
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		States:       states,
		Summary:      b.summary(),
	}, nil
}

// groupItems collapses items that share a (production, dot) core into
// one report item with the lookaheads collected and sorted.
func groupItems(items []*lrItem) []*spec.Item {
	type core struct {
		prod productionNum
		dot  int
	}
	las := map[core][]int{}
	var order []core
	for _, item := range items {
		c := core{prod: item.prod, dot: item.dot}
		if _, ok := las[c]; !ok {
			order = append(order, c)
		}
		las[c] = append(las[c], item.lookAhead.ID())
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].prod != order[j].prod {
			return order[i].prod < order[j].prod
		}
		return order[i].dot < order[j].dot
	})

	grouped := make([]*spec.Item, 0, len(order))
	for _, c := range order {
		la := las[c]
		sort.Ints(la)
		grouped = append(grouped, &spec.Item{
			Production: c.prod.Int(),
			Dot:        c.dot,
			LookAhead:  la,
		})
	}
	return grouped
}
