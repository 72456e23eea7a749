package grammar

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"
)

const arithSrc = `
%token NUM
%left '+'
%left '*'
%%
E : E '+' E
  | E '*' E
  | NUM
  ;
`

func TestGenLR1Automaton_InitialState(t *testing.T) {
	_, _, report := compileSource(t, arithSrc)

	state0 := report.States[0]
	if state0.Number != 0 {
		t.Fatalf("state 0 must be the start state")
	}
	if len(state0.Kernel) != 1 {
		t.Fatalf("the kernel of state 0 must contain exactly the initial item; got: %v items", len(state0.Kernel))
	}
	item := state0.Kernel[0]
	if item.Production != 0 || item.Dot != 0 {
		t.Fatalf("the initial item must be [S' -> ・S, $]; got production %v, dot %v", item.Production, item.Dot)
	}
	if len(item.LookAhead) != 1 || item.LookAhead[0] != 0 {
		t.Fatalf("the initial item's lookahead must be $; got: %v", item.LookAhead)
	}
}

func TestGenLR1Automaton_AcceptUniqueness(t *testing.T) {
	gram, _, report := compileSource(t, arithSrc)

	var acceptStates []int
	for _, state := range report.States {
		if state.AcceptOnEOF {
			acceptStates = append(acceptStates, state.Number)
		}
	}
	if len(acceptStates) != 1 {
		t.Fatalf("exactly one state must accept; got: %v", acceptStates)
	}

	// The accepting state is goto(0, S).
	startID := gram.StartSymbol().ID()
	var gotoTarget = -1
	for _, tr := range report.States[0].GoTo {
		if tr.Symbol == startID {
			gotoTarget = tr.State
		}
	}
	if gotoTarget != acceptStates[0] {
		t.Fatalf("the accepting state must be goto(0, S); want: %v, got: %v", gotoTarget, acceptStates[0])
	}
}

func TestGenLR1Automaton_TransitionsAreFunctional(t *testing.T) {
	_, _, report := compileSource(t, arithSrc)

	for _, state := range report.States {
		seen := map[int]int{}
		for _, tr := range append(state.Shift, state.GoTo...) {
			if to, ok := seen[tr.Symbol]; ok && to != tr.State {
				t.Fatalf("state %v has two targets for symbol %v", state.Number, tr.Symbol)
			}
			seen[tr.Symbol] = tr.State
		}
	}
}

// Generating twice from the same input must produce byte-identical
// tables and reports.
func TestCompile_Determinism(t *testing.T) {
	gram1, ptab1, report1 := compileSource(t, arithSrc)
	gram2, ptab2, report2 := compileSource(t, arithSrc)

	if len(gram1.Productions()) != len(gram2.Productions()) {
		t.Fatalf("production counts differ across runs")
	}
	if !reflect.DeepEqual(ptab1.actionTable, ptab2.actionTable) {
		t.Fatalf("ACTION tables differ across runs")
	}
	if !reflect.DeepEqual(ptab1.goToTable, ptab2.goToTable) {
		t.Fatalf("GOTO tables differ across runs")
	}

	b1, err := json.Marshal(report1)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := json.Marshal(report2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b1, b2) {
		t.Fatalf("reports differ across runs")
	}
}

func TestCompile_MissingProductionDiagnostic(t *testing.T) {
	gram := genGrammarFromSource(t, `
%token A
%%
S : A MISSING ;
`)
	_, _, err := Compile(gram)
	if err != nil {
		t.Fatal(err)
	}

	found := false
	for _, d := range gram.Diagnostics() {
		if d.Message == "missing production: non-terminal MISSING has no productions" {
			found = true
		}
	}
	if !found {
		t.Fatalf("closure over a productionless non-terminal must surface a diagnostic; got: %v", gram.Diagnostics())
	}
}
