package grammar

import (
	"fmt"
	"sort"
)

type SymbolKind string

const (
	SymbolKindToken       = SymbolKind("token")
	SymbolKindNonTerminal = SymbolKind("non-terminal")
	SymbolKindLiteral     = SymbolKind("literal")
)

func (k SymbolKind) String() string {
	return string(k)
}

type AssocType string

const (
	AssocTypeNone     = AssocType("")
	AssocTypeLeft     = AssocType("left")
	AssocTypeRight    = AssocType("right")
	AssocTypeNonAssoc = AssocType("nonassoc")
)

const (
	precNil = 0
	precMin = 1
)

type symbolID int

const (
	symbolIDNil = symbolID(-1)

	// The EOF marker always takes the first terminal slot.
	symbolIDEOF = symbolID(0)
)

func (id symbolID) Int() int {
	return int(id)
}

// The EOF marker is written `$` in grammars and diagnostics. The name
// contains a character an identifier cannot start with, so it never
// collides with a user-defined symbol.
const symbolNameEOF = "$"

// Symbol is a single grammar element. Instances are shared: every
// production RHS references the registry's canonical *Symbol, so the
// dense id assigned at freeze time is visible everywhere at once and
// hot-path comparisons reduce to integer comparisons.
type Symbol struct {
	id        symbolID
	name      string
	kind      SymbolKind
	prec      int
	assoc     AssocType
	valueType string
}

func (s *Symbol) ID() int {
	return s.id.Int()
}

func (s *Symbol) Name() string {
	return s.name
}

func (s *Symbol) Kind() SymbolKind {
	return s.kind
}

func (s *Symbol) IsTerminal() bool {
	return s.kind == SymbolKindToken || s.kind == SymbolKindLiteral
}

func (s *Symbol) IsEOF() bool {
	return s.id == symbolIDEOF
}

func (s *Symbol) Precedence() int {
	return s.prec
}

func (s *Symbol) Associativity() AssocType {
	return s.assoc
}

func (s *Symbol) ValueType() string {
	return s.valueType
}

func (s *Symbol) String() string {
	return s.name
}

// symbolTable is the mutable registry the builder fills while reading
// a grammar. freeze assigns the dense ids and forbids all further
// mutation.
type symbolTable struct {
	name2Sym map[string]*Symbol
	order    []*Symbol
	frozen   bool
}

func newSymbolTable() *symbolTable {
	t := &symbolTable{
		name2Sym: map[string]*Symbol{},
	}
	eof := &Symbol{
		id:   symbolIDNil,
		name: symbolNameEOF,
		kind: SymbolKindToken,
	}
	t.name2Sym[symbolNameEOF] = eof
	t.order = append(t.order, eof)
	return t
}

func (t *symbolTable) intern(name string, kind SymbolKind) (*Symbol, error) {
	if t.frozen {
		panic("symbol table is frozen")
	}
	if sym, ok := t.name2Sym[name]; ok {
		if sym.kind == kind {
			return sym, nil
		}
		// A token reference and a literal occurrence of the same
		// quoted name are reconcilable; a token and a rule LHS are
		// not.
		if sym.IsTerminal() && (kind == SymbolKindToken || kind == SymbolKindLiteral) {
			return sym, nil
		}
		return nil, newGrammarError(GrammarErrorKindConflict, "symbol %v is declared as both a %v and a %v", name, sym.kind, kind)
	}
	sym := &Symbol{
		id:   symbolIDNil,
		name: name,
		kind: kind,
	}
	t.name2Sym[name] = sym
	t.order = append(t.order, sym)
	return sym, nil
}

func (t *symbolTable) lookup(name string) (*Symbol, bool) {
	sym, ok := t.name2Sym[name]
	return sym, ok
}

func (t *symbolTable) setPrecedence(name string, prec int, assoc AssocType) error {
	if t.frozen {
		panic("symbol table is frozen")
	}
	sym, ok := t.name2Sym[name]
	if !ok {
		var err error
		sym, err = t.intern(name, SymbolKindToken)
		if err != nil {
			return err
		}
	}
	if sym.prec != precNil {
		return newGrammarError(GrammarErrorDuplicateDeclaration, "precedence of %v is declared twice", name)
	}
	sym.prec = prec
	sym.assoc = assoc
	return nil
}

func (t *symbolTable) setValueType(name string, tag string) error {
	if t.frozen {
		panic("symbol table is frozen")
	}
	sym, ok := t.name2Sym[name]
	if !ok {
		var err error
		sym, err = t.intern(name, SymbolKindToken)
		if err != nil {
			return err
		}
	}
	sym.valueType = tag
	return nil
}

// freeze assigns the dense ids: terminals first in declaration order
// with `$` pinned to id 0, then non-terminals. Because productions
// hold the canonical *Symbol values, they observe the ids without a
// separate synchronization pass.
func (t *symbolTable) freeze() {
	if t.frozen {
		panic("symbol table is frozen")
	}
	next := 0
	for _, sym := range t.order {
		if sym.IsTerminal() {
			sym.id = symbolID(next)
			next++
		}
	}
	for _, sym := range t.order {
		if !sym.IsTerminal() {
			sym.id = symbolID(next)
			next++
		}
	}
	t.frozen = true
}

func (t *symbolTable) terminals() []*Symbol {
	syms := make([]*Symbol, 0, len(t.order))
	for _, sym := range t.order {
		if sym.IsTerminal() {
			syms = append(syms, sym)
		}
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i].id < syms[j].id
	})
	return syms
}

func (t *symbolTable) nonTerminals() []*Symbol {
	syms := make([]*Symbol, 0, len(t.order))
	for _, sym := range t.order {
		if !sym.IsTerminal() {
			syms = append(syms, sym)
		}
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i].id < syms[j].id
	})
	return syms
}

func (t *symbolTable) count() int {
	return len(t.order)
}

func (t *symbolTable) mustLookup(name string) *Symbol {
	sym, ok := t.name2Sym[name]
	if !ok {
		panic(fmt.Sprintf("symbol not found: %v", name))
	}
	return sym
}
