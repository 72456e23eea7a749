package codegen

import (
	"github.com/julymiaw/seuyacc/grammar"
)

// Token code assignment: `$end` is 0, a literal folds its character
// content into its numeric value, and named tokens count up from 256.
const namedTokenBase = 256

// TokenValues returns the raw token code for every terminal, indexed
// by the terminal's dense id.
func TokenValues(terms []*grammar.Symbol) ([]int, error) {
	values := make([]int, len(terms))
	next := namedTokenBase
	for i, sym := range terms {
		if sym.IsEOF() {
			values[i] = 0
			continue
		}
		if sym.Kind() == grammar.SymbolKindLiteral {
			v, err := grammar.LiteralValue(sym.Name())
			if err != nil {
				return nil, err
			}
			values[i] = v
			continue
		}
		values[i] = next
		next++
	}
	return values, nil
}

// translateTable maps raw token values back to dense terminal ids;
// unassigned slots hold -1 (YYUNDEF).
func translateTable(values []int) ([]int, int) {
	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	table := make([]int, max+1)
	for i := range table {
		table[i] = -1
	}
	for id, v := range values {
		table[v] = id
	}
	return table, max
}
