package grammar

import (
	"fmt"

	"github.com/julymiaw/seuyacc/spec"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")
)

// actionEntry packs an ACTION cell into one int:
//
//	0                 empty (implicit error)
//	negative          shift to state -n
//	positive          reduce by production n
//	actionEntryAccept accept
//	actionEntryError  explicit error (nonassoc resolution)
//
// Shift targets and reduced productions are both ≥ 1: state 0 is
// never a goto/shift target, and production 0 (S' → S) accepts
// instead of reducing.
type actionEntry int

const (
	actionEntryEmpty  = actionEntry(0)
	actionEntryAccept = actionEntry(1 << 30)
	actionEntryError  = actionEntry(-(1 << 30))
)

func newShiftActionEntry(state stateNum) actionEntry {
	return actionEntry(state.Int() * -1)
}

func newReduceActionEntry(prod productionNum) actionEntry {
	return actionEntry(prod)
}

func (e actionEntry) isEmpty() bool {
	return e == actionEntryEmpty
}

func (e actionEntry) describe() (ActionType, stateNum, productionNum) {
	switch {
	case e == actionEntryEmpty || e == actionEntryError:
		return ActionTypeError, stateNumInitial, productionNumStart
	case e == actionEntryAccept:
		return ActionTypeAccept, stateNumInitial, productionNumStart
	case e < 0:
		return ActionTypeShift, stateNum(e * -1), productionNumStart
	default:
		return ActionTypeReduce, stateNumInitial, productionNum(e)
	}
}

type goToEntry int

const goToEntryEmpty = goToEntry(0)

func newGoToEntry(state stateNum) goToEntry {
	return goToEntry(state)
}

func (e goToEntry) describe() (bool, stateNum) {
	if e == goToEntryEmpty {
		return false, stateNumInitial
	}
	return true, stateNum(e)
}

type conflictResolutionMethod int

func (m conflictResolutionMethod) Int() int {
	return int(m)
}

const (
	// ResolvedByPrec and ResolvedByAssoc mark conflicts settled by
	// the declared precedence/associativity policy.
	ResolvedByPrec  conflictResolutionMethod = 1
	ResolvedByAssoc conflictResolutionMethod = 2

	// ResolvedByShift and ResolvedByProdOrder mark conflicts the
	// policy could not settle: the default shift and the
	// earlier-production tiebreak.
	ResolvedByShift     conflictResolutionMethod = 3
	ResolvedByProdOrder conflictResolutionMethod = 4
)

type conflict interface {
	conflict()
}

type shiftReduceConflict struct {
	state      stateNum
	sym        *Symbol
	nextState  stateNum
	prodNum    productionNum
	resolvedBy conflictResolutionMethod
}

func (c *shiftReduceConflict) conflict() {
}

type reduceReduceConflict struct {
	state      stateNum
	sym        *Symbol
	prodNum1   productionNum
	prodNum2   productionNum
	resolvedBy conflictResolutionMethod
}

func (c *reduceReduceConflict) conflict() {
}

var (
	_ conflict = &shiftReduceConflict{}
	_ conflict = &reduceReduceConflict{}
)

// ParsingTable is the finished ACTION/GOTO pair. Rows are state
// numbers; ACTION columns are terminal ids, GOTO columns are
// non-terminal ids offset by the terminal count.
type ParsingTable struct {
	actionTable      []actionEntry
	goToTable        []goToEntry
	stateCount       int
	terminalCount    int
	nonTerminalCount int

	InitialState stateNum
}

// Action looks up the ACTION cell for a state and a terminal id.
// Empty cells and explicit nonassoc error cells both describe as
// ActionTypeError.
func (t *ParsingTable) Action(state int, term int) (ActionType, int, int) {
	ty, s, p := t.actionTable[state*t.terminalCount+term].describe()
	return ty, s.Int(), p.Int()
}

// ExplicitError reports whether the cell holds a nonassoc-resolved
// error entry rather than a plain hole.
func (t *ParsingTable) ExplicitError(state int, term int) bool {
	return t.actionTable[state*t.terminalCount+term] == actionEntryError
}

// GoTo looks up the GOTO cell for a state and a non-terminal id.
func (t *ParsingTable) GoTo(state int, nonTerm int) (bool, int) {
	ok, s := t.goToTable[state*t.nonTerminalCount+(nonTerm-t.terminalCount)].describe()
	return ok, s.Int()
}

func (t *ParsingTable) StateCount() int {
	return t.stateCount
}

func (t *ParsingTable) TerminalCount() int {
	return t.terminalCount
}

func (t *ParsingTable) NonTerminalCount() int {
	return t.nonTerminalCount
}

func (t *ParsingTable) readAction(row int, col int) actionEntry {
	return t.actionTable[row*t.terminalCount+col]
}

func (t *ParsingTable) writeAction(row int, col int, act actionEntry) {
	t.actionTable[row*t.terminalCount+col] = act
}

func (t *ParsingTable) writeGoTo(state stateNum, sym *Symbol, nextState stateNum) {
	pos := state.Int()*t.nonTerminalCount + (sym.id.Int() - t.terminalCount)
	t.goToTable[pos] = newGoToEntry(nextState)
}

type lrTableBuilder struct {
	automaton    *lr1Automaton
	prods        *productionSet
	termCount    int
	nonTermCount int

	conflicts []conflict
}

func (b *lrTableBuilder) build() (*ParsingTable, error) {
	var ptab *ParsingTable
	{
		initialState := b.automaton.states[b.automaton.initialState]
		ptab = &ParsingTable{
			actionTable:      make([]actionEntry, len(b.automaton.states)*b.termCount),
			goToTable:        make([]goToEntry, len(b.automaton.states)*b.nonTermCount),
			stateCount:       len(b.automaton.states),
			terminalCount:    b.termCount,
			nonTerminalCount: b.nonTermCount,
			InitialState:     initialState.num,
		}
	}

	// The transition relation carries every shift and goto; dotted
	// items at the end of their production carry the reductions.
	for _, tr := range b.automaton.transitions() {
		if tr.Symbol.IsTerminal() {
			b.writeShiftAction(ptab, tr.From, tr.Symbol, tr.To)
		} else {
			ptab.writeGoTo(tr.From, tr.Symbol, tr.To)
		}
	}

	for _, state := range b.automaton.stateList {
		for _, item := range state.closure {
			if !item.reducible {
				continue
			}
			prod, ok := b.prods.findByNum(item.prod)
			if !ok {
				return nil, fmt.Errorf("reducible production not found: %v", item.prod)
			}
			if prod.num == productionNumStart && item.lookAhead.IsEOF() {
				// [S' → S・, $] accepts. Unique by construction, so
				// it never conflicts.
				ptab.writeAction(state.num.Int(), item.lookAhead.id.Int(), actionEntryAccept)
				continue
			}
			b.writeReduceAction(ptab, state.num, item.lookAhead, prod.num)
		}
	}

	return ptab, nil
}

// writeShiftAction writes a shift action. When the cell already holds
// a reduction, the conflict is resolved by resolveSRConflict; the
// default when the policy does not apply is to shift.
func (b *lrTableBuilder) writeShiftAction(tab *ParsingTable, state stateNum, sym *Symbol, nextState stateNum) {
	act := tab.readAction(state.Int(), sym.id.Int())
	if !act.isEmpty() {
		ty, _, p := act.describe()
		if ty == ActionTypeReduce {
			winner, method := b.resolveSRConflict(sym, p)
			b.conflicts = append(b.conflicts, &shiftReduceConflict{
				state:      state,
				sym:        sym,
				nextState:  nextState,
				prodNum:    p,
				resolvedBy: method,
			})
			switch winner {
			case ActionTypeShift:
				tab.writeAction(state.Int(), sym.id.Int(), newShiftActionEntry(nextState))
			case ActionTypeError:
				tab.writeAction(state.Int(), sym.id.Int(), actionEntryError)
			}
		}
		return
	}
	tab.writeAction(state.Int(), sym.id.Int(), newShiftActionEntry(nextState))
}

// writeReduceAction writes a reduce action, resolving a conflict when
// the cell is already occupied. A reduce/reduce conflict prefers the
// higher production precedence when both carry one, otherwise the
// production declared earlier; either way a record is kept.
func (b *lrTableBuilder) writeReduceAction(tab *ParsingTable, state stateNum, sym *Symbol, prod productionNum) {
	act := tab.readAction(state.Int(), sym.id.Int())
	if act.isEmpty() {
		tab.writeAction(state.Int(), sym.id.Int(), newReduceActionEntry(prod))
		return
	}

	ty, s, p := act.describe()
	switch ty {
	case ActionTypeReduce:
		if p == prod {
			return
		}
		winner, method := b.resolveRRConflict(p, prod)
		b.conflicts = append(b.conflicts, &reduceReduceConflict{
			state:      state,
			sym:        sym,
			prodNum1:   p,
			prodNum2:   prod,
			resolvedBy: method,
		})
		tab.writeAction(state.Int(), sym.id.Int(), newReduceActionEntry(winner))
	case ActionTypeShift:
		winner, method := b.resolveSRConflict(sym, prod)
		b.conflicts = append(b.conflicts, &shiftReduceConflict{
			state:      state,
			sym:        sym,
			nextState:  s,
			prodNum:    prod,
			resolvedBy: method,
		})
		switch winner {
		case ActionTypeReduce:
			tab.writeAction(state.Int(), sym.id.Int(), newReduceActionEntry(prod))
		case ActionTypeError:
			tab.writeAction(state.Int(), sym.id.Int(), actionEntryError)
		}
	}
}

// resolveSRConflict applies the shift/reduce policy:
//
//  1. either precedence unspecified → shift by default;
//  2. production precedence higher → reduce, lower → shift;
//  3. equal → associativity of the terminal decides: left reduces,
//     right shifts, nonassoc turns the cell into an error entry, and
//     no associativity falls back to the default shift.
func (b *lrTableBuilder) resolveSRConflict(sym *Symbol, prod productionNum) (ActionType, conflictResolutionMethod) {
	p, ok := b.prods.findByNum(prod)
	if !ok {
		return ActionTypeShift, ResolvedByShift
	}
	prodPrec := p.prec
	symPrec := sym.prec
	if prodPrec == precNil || symPrec == precNil {
		return ActionTypeShift, ResolvedByShift
	}
	if prodPrec > symPrec {
		return ActionTypeReduce, ResolvedByPrec
	}
	if prodPrec < symPrec {
		return ActionTypeShift, ResolvedByPrec
	}
	switch sym.assoc {
	case AssocTypeLeft:
		return ActionTypeReduce, ResolvedByAssoc
	case AssocTypeRight:
		return ActionTypeShift, ResolvedByAssoc
	case AssocTypeNonAssoc:
		return ActionTypeError, ResolvedByAssoc
	default:
		return ActionTypeShift, ResolvedByShift
	}
}

func (b *lrTableBuilder) resolveRRConflict(prod1, prod2 productionNum) (productionNum, conflictResolutionMethod) {
	p1, ok1 := b.prods.findByNum(prod1)
	p2, ok2 := b.prods.findByNum(prod2)
	if ok1 && ok2 && p1.prec != precNil && p2.prec != precNil && p1.prec != p2.prec {
		if p1.prec > p2.prec {
			return prod1, ResolvedByPrec
		}
		return prod2, ResolvedByPrec
	}
	if prod1 < prod2 {
		return prod1, ResolvedByProdOrder
	}
	return prod2, ResolvedByProdOrder
}

func (b *lrTableBuilder) summary() *spec.ConflictSummary {
	s := &spec.ConflictSummary{}
	for _, con := range b.conflicts {
		switch c := con.(type) {
		case *shiftReduceConflict:
			s.ShiftReduce++
			switch c.resolvedBy {
			case ResolvedByPrec:
				s.SRResolvedByPrecedence++
			case ResolvedByAssoc:
				s.SRResolvedByAssociativity++
			default:
				s.SRDefaultedToShift++
			}
		case *reduceReduceConflict:
			s.ReduceReduce++
			if c.resolvedBy == ResolvedByPrec {
				s.RRResolvedByPrecedence++
			} else {
				s.RRResolvedByOrder++
			}
		}
	}
	return s
}
