package grammar

import (
	"fmt"
	"sort"

	"github.com/julymiaw/seuyacc/spec"
)

// The augmented start symbol. The lexer cannot produce a quote
// character inside an identifier, so the name never collides with a
// user-defined symbol.
const augmentedStartName = "S'"

// Grammar is the frozen grammar model: symbols carry their dense ids,
// productions are numbered with S' → S at 0, and no further mutation
// is possible. Build one through a Builder.
type Grammar struct {
	symTab      *symbolTable
	prods       *productionSet
	startSym    *Symbol
	augStartSym *Symbol

	prologue string
	union    string
	epilogue string

	diagnostics []*Diagnostic
}

func (g *Grammar) Terminals() []*Symbol {
	return g.symTab.terminals()
}

func (g *Grammar) NonTerminals() []*Symbol {
	return g.symTab.nonTerminals()
}

func (g *Grammar) Productions() []*Production {
	return g.prods.getAllProductions()
}

func (g *Grammar) Production(num int) (*Production, bool) {
	return g.prods.findByNum(productionNum(num))
}

// StartSymbol returns the user's start symbol S (not the augmented
// S').
func (g *Grammar) StartSymbol() *Symbol {
	return g.startSym
}

func (g *Grammar) AugmentedStartSymbol() *Symbol {
	return g.augStartSym
}

func (g *Grammar) LookupSymbol(name string) (*Symbol, bool) {
	return g.symTab.lookup(name)
}

func (g *Grammar) Prologue() string {
	return g.prologue
}

func (g *Grammar) Union() string {
	return g.union
}

func (g *Grammar) Epilogue() string {
	return g.epilogue
}

// Diagnostics returns the non-fatal findings collected while building
// the grammar and the automaton.
func (g *Grammar) Diagnostics() []*Diagnostic {
	return g.diagnostics
}

// Builder turns a raw parse into a frozen Grammar. The zero value
// with AST set is ready to use.
type Builder struct {
	AST *spec.RootNode

	symTab      *symbolTable
	diagnostics []*Diagnostic

	// typeTags defers %type declarations until the referenced
	// symbols are classified by the rules section.
	typeTags map[string]string
	typeDirs map[string]spec.Position

	startName    string
	startDir     bool
	tokenDecls   map[string]struct{}
	usedTerms    map[string]struct{}
	currentLevel int
}

func (b *Builder) Build() (*Grammar, error) {
	if b.AST == nil || len(b.AST.Rules) == 0 {
		return nil, newGrammarError(GrammarErrorUndefinedStart, "a grammar needs at least one rule")
	}

	b.symTab = newSymbolTable()
	b.typeTags = map[string]string{}
	b.typeDirs = map[string]spec.Position{}
	b.tokenDecls = map[string]struct{}{}
	b.usedTerms = map[string]struct{}{}

	err := b.genDeclarations()
	if err != nil {
		return nil, err
	}

	prods, start, err := b.genProductions()
	if err != nil {
		return nil, err
	}

	err = b.applyTypeTags()
	if err != nil {
		return nil, err
	}

	b.genWarnings(prods)

	gram := &Grammar{
		symTab:      b.symTab,
		prods:       prods,
		startSym:    start,
		augStartSym: b.symTab.mustLookup(augmentedStartName),
		prologue:    b.AST.Prologue,
		union:       b.AST.Union,
		epilogue:    b.AST.Epilogue,
		diagnostics: b.diagnostics,
	}
	b.symTab.freeze()
	return gram, nil
}

func (b *Builder) genDeclarations() error {
	for _, dir := range b.AST.Directives {
		switch dir.Name {
		case "token":
			for _, name := range dir.Params {
				if _, ok := b.tokenDecls[name]; ok {
					return newGrammarError(GrammarErrorDuplicateDeclaration, "token %v is declared twice", name)
				}
				b.tokenDecls[name] = struct{}{}
				sym, err := b.internTerminal(name)
				if err != nil {
					return err
				}
				if dir.ValueType != "" {
					sym.valueType = dir.ValueType
				}
			}
		case "left", "right", "nonassoc":
			assoc := AssocTypeLeft
			switch dir.Name {
			case "right":
				assoc = AssocTypeRight
			case "nonassoc":
				assoc = AssocTypeNonAssoc
			}
			// Each directive opens a new level binding tighter than
			// every level before it.
			b.currentLevel++
			for _, name := range dir.Params {
				if _, err := b.internTerminal(name); err != nil {
					return err
				}
				if err := b.symTab.setPrecedence(name, b.currentLevel, assoc); err != nil {
					return err
				}
			}
		case "type":
			for _, name := range dir.Params {
				if _, ok := b.typeTags[name]; ok {
					return newGrammarError(GrammarErrorDuplicateDeclaration, "type of %v is declared twice", name)
				}
				b.typeTags[name] = dir.ValueType
				b.typeDirs[name] = dir.Pos
			}
		case "start":
			if b.startDir {
				return newGrammarError(GrammarErrorDuplicateDeclaration, "%%start is declared twice")
			}
			b.startDir = true
			b.startName = dir.Params[0]
		default:
			return fmt.Errorf("unknown directive: %%%v", dir.Name)
		}
	}
	return nil
}

func (b *Builder) internTerminal(name string) (*Symbol, error) {
	if isLiteralName(name) {
		if _, err := LiteralValue(name); err != nil {
			return nil, err
		}
		return b.symTab.intern(name, SymbolKindLiteral)
	}
	return b.symTab.intern(name, SymbolKindToken)
}

func (b *Builder) genProductions() (*productionSet, *Symbol, error) {
	// Every rule LHS is a non-terminal; classify them all before
	// resolving any RHS reference so ordering inside the file does
	// not matter.
	for _, rule := range b.AST.Rules {
		if _, err := b.symTab.intern(rule.LHS, SymbolKindNonTerminal); err != nil {
			return nil, nil, err
		}
	}

	startName := b.startName
	if startName == "" {
		startName = b.AST.Rules[0].LHS
	}
	start, ok := b.symTab.lookup(startName)
	if !ok || start.IsTerminal() {
		return nil, nil, newGrammarError(GrammarErrorUndefinedStart, "start symbol %v has no defining rule", startName)
	}

	prods := newProductionSet()

	// The augmented production takes number 0.
	augStart, err := b.symTab.intern(augmentedStartName, SymbolKindNonTerminal)
	if err != nil {
		return nil, nil, err
	}
	augProd, err := newProduction(augStart, []*Symbol{start}, "")
	if err != nil {
		return nil, nil, err
	}
	prods.append(augProd)

	for _, rule := range b.AST.Rules {
		lhs := b.symTab.mustLookup(rule.LHS)
		for _, alt := range rule.Alts {
			rhs := make([]*Symbol, 0, len(alt.Elements))
			for _, elem := range alt.Elements {
				sym, err := b.resolveElement(elem)
				if err != nil {
					return nil, nil, err
				}
				rhs = append(rhs, sym)
			}
			prod, err := newProduction(lhs, rhs, alt.Action)
			if err != nil {
				return nil, nil, err
			}
			err = b.assignProductionPrec(prod, alt)
			if err != nil {
				return nil, nil, err
			}
			prods.append(prod)
		}
	}

	return prods, start, nil
}

func (b *Builder) resolveElement(elem *spec.ElementNode) (*Symbol, error) {
	if elem.Literal != "" {
		sym, err := b.internTerminal(elem.Literal)
		if err != nil {
			return nil, err
		}
		b.usedTerms[sym.name] = struct{}{}
		return sym, nil
	}
	if sym, ok := b.symTab.lookup(elem.ID); ok {
		if sym.IsTerminal() {
			b.usedTerms[sym.name] = struct{}{}
		}
		return sym, nil
	}
	// An identifier that is neither a declared token nor a rule LHS:
	// treat it as a non-terminal without productions and let the
	// automaton builder report the missing definition.
	return b.symTab.intern(elem.ID, SymbolKindNonTerminal)
}

// assignProductionPrec computes the production's effective
// precedence: an explicit %prec wins, otherwise the rightmost
// terminal of the RHS donates its precedence and associativity.
func (b *Builder) assignProductionPrec(prod *Production, alt *spec.AlternativeNode) error {
	if alt.Prec != "" {
		sym, err := b.internTerminal(alt.Prec)
		if err != nil {
			return err
		}
		b.usedTerms[sym.name] = struct{}{}
		if sym.prec == precNil {
			b.diagnostics = append(b.diagnostics, &Diagnostic{
				Message: fmt.Sprintf("%%prec symbol %v has no declared precedence", sym.name),
				Row:     alt.Pos.Row,
			})
		}
		prod.prec = sym.prec
		prod.assoc = sym.assoc
		return nil
	}
	for i := prod.rhsLen - 1; i >= 0; i-- {
		sym := prod.rhs[i]
		if sym.IsTerminal() && sym.prec != precNil {
			prod.prec = sym.prec
			prod.assoc = sym.assoc
			return nil
		}
	}
	return nil
}

func (b *Builder) applyTypeTags() error {
	names := make([]string, 0, len(b.typeTags))
	for name := range b.typeTags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sym, ok := b.symTab.lookup(name)
		if !ok {
			b.diagnostics = append(b.diagnostics, &Diagnostic{
				Message: fmt.Sprintf("%%type declares %v, which never appears in the grammar", name),
				Row:     b.typeDirs[name].Row,
			})
			continue
		}
		sym.valueType = b.typeTags[name]
	}
	return nil
}

func (b *Builder) genWarnings(prods *productionSet) {
	for _, sym := range b.symTab.nonTerminals() {
		if sym.name == augmentedStartName {
			continue
		}
		if _, ok := prods.findByLHS(sym); !ok {
			b.diagnostics = append(b.diagnostics, &Diagnostic{
				Message: fmt.Sprintf("non-terminal %v is referenced but has no productions", sym.name),
			})
		}
	}
	for _, sym := range b.symTab.terminals() {
		if sym.IsEOF() || sym.name == symbolNameEOF {
			continue
		}
		if _, ok := b.usedTerms[sym.name]; !ok {
			b.diagnostics = append(b.diagnostics, &Diagnostic{
				Message: fmt.Sprintf("token %v is never used", sym.name),
			})
		}
	}
}

// Compile builds the canonical LR(1) collection and the ACTION/GOTO
// tables for a frozen grammar. Conflicts never abort compilation;
// they are resolved by the precedence policy and recorded in the
// report.
func Compile(gram *Grammar) (*ParsingTable, *spec.Report, error) {
	first, err := genFirstSet(gram.prods)
	if err != nil {
		return nil, nil, err
	}

	startProd, ok := gram.prods.findByNum(productionNumStart)
	if !ok {
		return nil, nil, newGrammarError(GrammarErrorNoStartProduction, "the augmented start production is missing")
	}

	automaton, err := genLR1Automaton(gram.prods, startProd, gram.Terminals(), first)
	if err != nil {
		return nil, nil, err
	}
	for _, name := range sortedKeys(automaton.missingLHS) {
		gram.diagnostics = append(gram.diagnostics, &Diagnostic{
			Message: fmt.Sprintf("%v: non-terminal %v has no productions", GrammarErrorMissingProduction, name),
		})
	}

	builder := &lrTableBuilder{
		automaton:    automaton,
		prods:        gram.prods,
		termCount:    len(gram.Terminals()),
		nonTermCount: len(gram.NonTerminals()),
	}
	ptab, err := builder.build()
	if err != nil {
		return nil, nil, err
	}

	report, err := builder.genReport(ptab, gram)
	if err != nil {
		return nil, nil, err
	}

	return ptab, report, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
