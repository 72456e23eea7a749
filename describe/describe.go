// Package describe renders the diagnostic views of a generated
// parser: a PlantUML diagram of the state machine and a Markdown
// rendering of the ACTION/GOTO tables.
package describe

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/julymiaw/seuyacc/spec"
)

// symbolName resolves a dense symbol id against the report's symbol
// listings.
func symbolName(report *spec.Report, id int) string {
	if id < len(report.Terminals) {
		return report.Terminals[id].Name
	}
	n := id - len(report.Terminals)
	if n < len(report.NonTerminals) {
		return report.NonTerminals[n].Name
	}
	return fmt.Sprintf("sym%v", id)
}

func productionString(report *spec.Report, prod *spec.Production) string {
	var b strings.Builder
	b.WriteString(symbolName(report, prod.LHS))
	b.WriteString(" ->")
	if len(prod.RHS) == 0 {
		b.WriteString(" ε")
		return b.String()
	}
	for _, sym := range prod.RHS {
		b.WriteString(" ")
		b.WriteString(symbolName(report, sym))
	}
	return b.String()
}

func itemString(report *spec.Report, item *spec.Item) string {
	prod := report.Productions[item.Production]
	var b strings.Builder
	b.WriteString(symbolName(report, prod.LHS))
	b.WriteString(" ->")
	for i, sym := range prod.RHS {
		if i == item.Dot {
			b.WriteString(" •")
		}
		b.WriteString(" ")
		b.WriteString(symbolName(report, sym))
	}
	if item.Dot == len(prod.RHS) {
		b.WriteString(" •")
	}
	if len(item.LookAhead) > 0 {
		las := make([]string, len(item.LookAhead))
		for i, la := range item.LookAhead {
			las[i] = symbolName(report, la)
		}
		b.WriteString(", ")
		b.WriteString(strings.Join(las, "/"))
	}
	return b.String()
}

// PlantUML renders the state machine as a PlantUML state diagram: one
// node per state listing its items, one edge per transition.
func PlantUML(report *spec.Report) string {
	var b strings.Builder
	b.WriteString("@startuml\n")
	b.WriteString("[*] --> State0\n")

	for _, state := range report.States {
		fmt.Fprintf(&b, "State%v : ", state.Number)
		for _, item := range state.Items {
			b.WriteString(itemString(report, item))
			b.WriteString("\\n")
		}
		b.WriteString("\n")
	}

	edges := arraylist.New()
	for _, state := range report.States {
		for _, t := range state.Shift {
			edges.Add(fmt.Sprintf("State%v --> State%v : %v", state.Number, t.State, symbolName(report, t.Symbol)))
		}
		for _, t := range state.GoTo {
			edges.Add(fmt.Sprintf("State%v --> State%v : %v", state.Number, t.State, symbolName(report, t.Symbol)))
		}
	}
	edges.Each(func(_ int, edge interface{}) {
		b.WriteString(edge.(string))
		b.WriteString("\n")
	})

	b.WriteString("@enduml\n")
	return b.String()
}

// Markdown renders the production list, the ACTION and GOTO tables,
// the reduction legend, and the conflict summary.
func Markdown(report *spec.Report) string {
	var b strings.Builder

	literalCount := 0
	tokenCount := 0
	for _, term := range report.Terminals {
		if term.Number == 0 {
			continue
		}
		if term.Literal {
			literalCount++
		} else {
			tokenCount++
		}
	}

	b.WriteString("# LR(1) Parsing Table\n\n")
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- states: %v\n", len(report.States))
	fmt.Fprintf(&b, "- terminals: %v (excluding $)\n", len(report.Terminals)-1)
	fmt.Fprintf(&b, "- literals: %v\n", literalCount)
	fmt.Fprintf(&b, "- tokens: %v\n", tokenCount)
	fmt.Fprintf(&b, "- non-terminals: %v\n", len(report.NonTerminals))
	fmt.Fprintf(&b, "- productions: %v\n\n", len(report.Productions))

	b.WriteString("## Productions\n\n")
	for _, prod := range report.Productions {
		fmt.Fprintf(&b, "- (%v) %v", prod.Number, productionString(report, prod))
		if prod.Precedence > 0 {
			fmt.Fprintf(&b, " [prec: %v]", prod.Precedence)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	writeActionTable(&b, report)
	writeGoToTable(&b, report)
	writeReduceLegend(&b, report)
	writeConflictSummary(&b, report.Summary)

	return b.String()
}

// usedTerminals collects the terminals that act in at least one
// state; the ACTION table restricts its columns to them. `$` is
// always included.
func usedTerminals(report *spec.Report) *treeset.Set {
	used := treeset.NewWithIntComparator()
	used.Add(0)
	for _, state := range report.States {
		for _, t := range state.Shift {
			used.Add(t.Symbol)
		}
		for _, r := range state.Reduce {
			for _, la := range r.LookAhead {
				used.Add(la)
			}
		}
		for _, c := range state.SRConflict {
			used.Add(c.Symbol)
		}
	}
	return used
}

func actionCell(state *spec.State, term int) string {
	if term == 0 && state.AcceptOnEOF {
		return "acc"
	}
	for _, t := range state.Shift {
		if t.Symbol == term {
			return fmt.Sprintf("s%v", t.State)
		}
	}
	for _, r := range state.Reduce {
		for _, la := range r.LookAhead {
			if la == term {
				return fmt.Sprintf("r%v", r.Production)
			}
		}
	}
	// A shift/reduce conflict that adopted neither side is a
	// nonassoc resolution: the cell holds an explicit error.
	for _, c := range state.SRConflict {
		if c.Symbol == term && c.AdoptedState == nil && c.AdoptedProduction == nil {
			return "err"
		}
	}
	return ""
}

func writeActionTable(b *strings.Builder, report *spec.Report) {
	b.WriteString("## ACTION\n\n")

	used := usedTerminals(report)

	b.WriteString("| id |")
	used.Each(func(_ int, term interface{}) {
		fmt.Fprintf(b, " %v |", term.(int))
	})
	b.WriteString("\n| --- |")
	for i := 0; i < used.Size(); i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n| state |")
	used.Each(func(_ int, term interface{}) {
		fmt.Fprintf(b, " %v |", symbolName(report, term.(int)))
	})
	b.WriteString("\n")

	for _, state := range report.States {
		row := arraylist.New()
		hasAction := false
		used.Each(func(_ int, term interface{}) {
			cell := actionCell(state, term.(int))
			if cell != "" {
				hasAction = true
			}
			row.Add(cell)
		})
		if !hasAction {
			continue
		}
		fmt.Fprintf(b, "| %v |", state.Number)
		row.Each(func(_ int, cell interface{}) {
			fmt.Fprintf(b, " %v |", cell.(string))
		})
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeGoToTable(b *strings.Builder, report *spec.Report) {
	b.WriteString("## GOTO\n\n")

	b.WriteString("| state |")
	for _, nt := range report.NonTerminals {
		fmt.Fprintf(b, " %v |", nt.Name)
	}
	b.WriteString("\n| --- |")
	for range report.NonTerminals {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	for _, state := range report.States {
		fmt.Fprintf(b, "| %v |", state.Number)
		for _, nt := range report.NonTerminals {
			cell := ""
			for _, t := range state.GoTo {
				if t.Symbol == nt.Number {
					cell = fmt.Sprintf("%v", t.State)
					break
				}
			}
			fmt.Fprintf(b, " %v |", cell)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeReduceLegend(b *strings.Builder, report *spec.Report) {
	b.WriteString("## Reductions\n\n")
	b.WriteString("| action | production | result |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, prod := range report.Productions {
		fmt.Fprintf(b, "| r%v | %v | %v |\n",
			prod.Number, productionString(report, prod), symbolName(report, prod.LHS))
	}
	b.WriteString("\n")
}

func writeConflictSummary(b *strings.Builder, summary *spec.ConflictSummary) {
	b.WriteString("## Conflicts\n\n")
	if summary == nil || summary.Total() == 0 {
		b.WriteString("No conflicts.\n")
		return
	}
	fmt.Fprintf(b, "- shift/reduce: %v (by precedence: %v, by associativity: %v, defaulted to shift: %v)\n",
		summary.ShiftReduce, summary.SRResolvedByPrecedence, summary.SRResolvedByAssociativity, summary.SRDefaultedToShift)
	fmt.Fprintf(b, "- reduce/reduce: %v (by precedence: %v, by declaration order: %v)\n",
		summary.ReduceReduce, summary.RRResolvedByPrecedence, summary.RRResolvedByOrder)
}
