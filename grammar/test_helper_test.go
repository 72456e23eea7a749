package grammar

import (
	"strings"
	"testing"

	"github.com/julymiaw/seuyacc/spec"
)

func genGrammarFromSource(t *testing.T, src string) *Grammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse the grammar source: %v", err)
	}
	b := Builder{
		AST: ast,
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build the grammar: %v", err)
	}
	return gram
}

func compileSource(t *testing.T, src string) (*Grammar, *ParsingTable, *spec.Report) {
	t.Helper()

	gram := genGrammarFromSource(t, src)
	ptab, report, err := Compile(gram)
	if err != nil {
		t.Fatalf("failed to compile the grammar: %v", err)
	}
	return gram, ptab, report
}

func symbolIDByName(t *testing.T, gram *Grammar, name string) int {
	t.Helper()

	sym, ok := gram.LookupSymbol(name)
	if !ok {
		t.Fatalf("symbol not found: %v", name)
	}
	return sym.ID()
}

// findProduction locates a production by the names of its LHS and RHS
// symbols.
func findProduction(t *testing.T, gram *Grammar, lhs string, rhs ...string) *Production {
	t.Helper()

PRODS_LOOP:
	for _, prod := range gram.Productions() {
		if prod.LHS().Name() != lhs || len(prod.RHS()) != len(rhs) {
			continue
		}
		for i, sym := range prod.RHS() {
			if sym.Name() != rhs[i] {
				continue PRODS_LOOP
			}
		}
		return prod
	}
	t.Fatalf("production not found: %v -> %v", lhs, strings.Join(rhs, " "))
	return nil
}

// findStateWithReducibleItem returns the number of a state whose
// closure contains the item with the production's dot at the end.
// Fails unless exactly one state matches.
func findStateWithReducibleItem(t *testing.T, report *spec.Report, prodNum int, dot int) int {
	t.Helper()

	found := -1
	for _, state := range report.States {
		for _, item := range state.Items {
			if item.Production == prodNum && item.Dot == dot {
				if found >= 0 {
					t.Fatalf("more than one state contains the item (production: %v, dot: %v)", prodNum, dot)
				}
				found = state.Number
			}
		}
	}
	if found < 0 {
		t.Fatalf("no state contains the item (production: %v, dot: %v)", prodNum, dot)
	}
	return found
}
