package grammar

import (
	"testing"
)

type firstTest struct {
	symbol  string
	symbols []string
	empty   bool
}

func TestGenFirstSet(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		first   []firstTest
	}{
		{
			caption: "productions contain only non-empty productions",
			src: `
%token NUM
%left '+'
%left '*'
%%
E : E '+' T | T ;
T : T '*' F | F ;
F : '(' E ')' | NUM ;
`,
			first: []firstTest{
				{symbol: "E", symbols: []string{"'('", "NUM"}},
				{symbol: "T", symbols: []string{"'('", "NUM"}},
				{symbol: "F", symbols: []string{"'('", "NUM"}},
			},
		},
		{
			caption: "an empty production makes its LHS nullable",
			src: `
%token A B
%%
S : A L B ;
L : | L A ;
`,
			first: []firstTest{
				{symbol: "S", symbols: []string{"A"}},
				{symbol: "L", symbols: []string{"A"}, empty: true},
			},
		},
		{
			caption: "nullability propagates through leading non-terminals",
			src: `
%token A B
%%
S : X B ;
X : Y ;
Y : | A ;
`,
			first: []firstTest{
				{symbol: "S", symbols: []string{"A", "B"}},
				{symbol: "X", symbols: []string{"A"}, empty: true},
				{symbol: "Y", symbols: []string{"A"}, empty: true},
			},
		},
		{
			caption: "left recursion converges",
			src: `
%token A
%%
S : S A | A ;
`,
			first: []firstTest{
				{symbol: "S", symbols: []string{"A"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := genGrammarFromSource(t, tt.src)
			fst, err := genFirstSet(gram.prods)
			if err != nil {
				t.Fatal(err)
			}
			for _, ft := range tt.first {
				sym, ok := gram.LookupSymbol(ft.symbol)
				if !ok {
					t.Fatalf("symbol not found: %v", ft.symbol)
				}
				e := fst.findBySymbol(sym)
				if e == nil {
					t.Fatalf("FIRST entry not found: %v", ft.symbol)
				}
				if len(e.symbols) != len(ft.symbols) {
					t.Fatalf("unexpected FIRST(%v) size; want: %v, got: %v", ft.symbol, ft.symbols, e.symbols)
				}
				for _, name := range ft.symbols {
					want, ok := gram.LookupSymbol(name)
					if !ok {
						t.Fatalf("symbol not found: %v", name)
					}
					if !e.has(symbolID(want.ID())) {
						t.Fatalf("FIRST(%v) must contain %v", ft.symbol, name)
					}
				}
				if e.empty != ft.empty {
					t.Fatalf("unexpected nullability of %v; want: %v, got: %v", ft.symbol, ft.empty, e.empty)
				}
			}
		})
	}
}

// A second full pass over the converged FIRST sets must change
// nothing.
func TestGenFirstSet_Idempotence(t *testing.T) {
	gram := genGrammarFromSource(t, `
%token A B
%%
S : A L B ;
L : | L A ;
`)
	fst, err := genFirstSet(gram.prods)
	if err != nil {
		t.Fatal(err)
	}

	for _, prod := range gram.prods.getAllProductions() {
		changed, err := genProdFirstEntry(fst, fst.set[prod.lhs], prod)
		if err != nil {
			t.Fatal(err)
		}
		if changed {
			t.Fatalf("a pass after convergence must not grow FIRST(%v)", prod.lhs)
		}
	}
}

func TestFirstOfSequence(t *testing.T) {
	gram := genGrammarFromSource(t, `
%token A B
%%
S : A L B ;
L : | L A ;
`)
	fst, err := genFirstSet(gram.prods)
	if err != nil {
		t.Fatal(err)
	}

	l, _ := gram.LookupSymbol("L")
	bSym, _ := gram.LookupSymbol("B")
	aSym, _ := gram.LookupSymbol("A")

	// FIRST(L B) = {A, B}: L is nullable, so B joins the set.
	e, err := fst.firstOfSequence([]*Symbol{l, bSym})
	if err != nil {
		t.Fatal(err)
	}
	if len(e.symbols) != 2 || !e.has(symbolID(aSym.ID())) || !e.has(symbolID(bSym.ID())) || e.empty {
		t.Fatalf("unexpected FIRST(L B); got: %v (empty: %v)", e.symbols, e.empty)
	}

	// FIRST of the empty sequence is {ε}.
	e, err = fst.firstOfSequence(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(e.symbols) != 0 || !e.empty {
		t.Fatalf("FIRST of the empty sequence must be {ε}; got: %v (empty: %v)", e.symbols, e.empty)
	}
}

// first on a terminal is the singleton of the terminal itself.
func TestFirst_Terminal(t *testing.T) {
	gram := genGrammarFromSource(t, `
%token A
%%
S : A ;
`)
	fst, err := genFirstSet(gram.prods)
	if err != nil {
		t.Fatal(err)
	}
	aSym, _ := gram.LookupSymbol("A")
	e := fst.first(aSym)
	if len(e.symbols) != 1 || !e.has(symbolID(aSym.ID())) || e.empty {
		t.Fatalf("FIRST(A) must be {A}; got: %v (empty: %v)", e.symbols, e.empty)
	}
}
