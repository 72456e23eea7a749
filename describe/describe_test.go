package describe

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julymiaw/seuyacc/grammar"
	"github.com/julymiaw/seuyacc/spec"
)

func genReport(t *testing.T, src string) *spec.Report {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	require.NoError(t, err)
	b := grammar.Builder{
		AST: ast,
	}
	gram, err := b.Build()
	require.NoError(t, err)
	_, report, err := grammar.Compile(gram)
	require.NoError(t, err)
	return report
}

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

func TestPlantUML(t *testing.T) {
	report := genReport(t, arithSrc)
	uml := PlantUML(report)

	assert.True(t, strings.HasPrefix(uml, "@startuml\n"))
	assert.True(t, strings.HasSuffix(uml, "@enduml\n"))
	assert.Contains(t, uml, "[*] --> State0")
	assert.Contains(t, uml, "State0 : ")
	// The initial item with its lookahead.
	assert.Contains(t, uml, "S' -> • E, $")
	// Every state appears as a node.
	for _, state := range report.States {
		assert.Contains(t, uml, "State"+strconv.Itoa(state.Number))
	}
	// Transitions render as labeled edges.
	assert.Contains(t, uml, " : NUM")
	assert.Contains(t, uml, " : E")
}

func TestMarkdown(t *testing.T) {
	report := genReport(t, arithSrc)
	md := Markdown(report)

	assert.Contains(t, md, "# LR(1) Parsing Table")
	assert.Contains(t, md, "## Productions")
	assert.Contains(t, md, "- (0) S' -> E")
	assert.Contains(t, md, "- (1) E -> E '+' E [prec: 1]")
	assert.Contains(t, md, "- (2) E -> E '*' E [prec: 2]")
	assert.Contains(t, md, "## ACTION")
	assert.Contains(t, md, "## GOTO")
	assert.Contains(t, md, "## Reductions")
	assert.Contains(t, md, "## Conflicts")
	assert.Contains(t, md, "acc")
	assert.Contains(t, md, "shift/reduce:")
}

func TestMarkdown_EmptyProductionAndConflictFree(t *testing.T) {
	report := genReport(t, `
%token A B
%%
S : A L B ;
L : | L A ;
`)
	md := Markdown(report)

	// ε productions render with the ε marker.
	assert.Contains(t, md, "L -> ε")
	assert.Contains(t, md, "No conflicts.")
}

func TestMarkdown_NonAssocErrorCell(t *testing.T) {
	report := genReport(t, `
%token NUM
%nonassoc '<'
%%
E : E '<' E
  | NUM
  ;
`)
	md := Markdown(report)
	assert.Contains(t, md, "err")
}
