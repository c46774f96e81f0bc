package parse

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/automaton"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/grammar"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/util"
)

// SLRTable holds the ACTION and GOTO functions of an SLR(1) parser along with
// the augmented grammar and LR(0) automaton they were built from.
type SLRTable struct {
	gPrime grammar.Grammar
	lr0    automaton.Collection
	follow grammar.FollowSets

	action util.Matrix2[int, grammar.Symbol, Cell[LRAction]]
	gotos  util.Matrix2[int, string, int]
}

// BuildSLRTable constructs the SLR(1) table for g. It augments g to produce
// G', builds the canonical collection of sets of LR(0) items of G', and fills
// in ACTION and GOTO from it. For state i:
//
//   - If [A -> α.aβ] is in Iᵢ and GOTO(Iᵢ, a) = Iⱼ, ACTION[i, a] is "shift j".
//   - If [A -> α.] is in Iᵢ and A is not S', ACTION[i, a] is "reduce A -> α"
//     for every a in FOLLOW(A).
//   - If [S' -> S.] is in Iᵢ, ACTION[i, $] is "accept".
//   - If GOTO(Iᵢ, A) = Iⱼ for a nonterminal A, GOTO[i, A] is j.
//
// A cell of ACTION asked to hold two different actions becomes a conflict.
func BuildSLRTable(g grammar.Grammar) SLRTable {
	gPrime := g.Augmented()
	first := gPrime.FIRST()

	table := SLRTable{
		gPrime: gPrime,
		lr0:    automaton.BuildLR0(gPrime),
		follow: gPrime.FOLLOW(first),
		action: util.NewMatrix2[int, grammar.Symbol, Cell[LRAction]](),
		gotos:  util.NewMatrix2[int, string, int](),
	}

	startPrime := gPrime.StartSymbol()
	nonTerms := gPrime.NonTerminals()

	for _, state := range table.lr0.States {
		i := state.ID

		for _, item := range state.Items {
			if a, ok := item.Next(); ok {
				if !a.IsTerminal() {
					continue
				}
				if j, ok := table.lr0.Transition(i, a); ok {
					putCell(table.action, i, a, LRAction{Type: LRShift, State: j}, sameAction)
				}
				continue
			}

			// item is reducible
			if item.NonTerminal == startPrime {
				putCell(table.action, i, grammar.EndMarker, LRAction{Type: LRAccept}, sameAction)
				continue
			}

			reduce := LRAction{Type: LRReduce, NonTerminal: item.NonTerminal, Production: item.Index}
			for _, a := range sortedSymbols(table.follow.Of(item.NonTerminal)) {
				putCell(table.action, i, a, reduce, sameAction)
			}
		}

		for _, A := range nonTerms {
			if j, ok := table.lr0.Transition(i, grammar.NT(A)); ok {
				table.gotos.Set(i, A, j)
			}
		}
	}

	return table
}

// Initial returns the initial state of the table.
func (slr SLRTable) Initial() int {
	return 0
}

// Action returns the cell ACTION[state, a].
func (slr SLRTable) Action(state int, a grammar.Symbol) Cell[LRAction] {
	return getCell(slr.action, state, a)
}

// Goto returns GOTO[state, A]. The second return value is false if it is an
// error entry.
func (slr SLRTable) Goto(state int, A string) (int, bool) {
	j := slr.gotos.Get(state, A)
	if j == nil {
		return 0, false
	}
	return *j, true
}

// IsSLR1 returns whether no ACTION cell is a conflict.
func (slr SLRTable) IsSLR1() bool {
	for _, row := range slr.action {
		for _, c := range row {
			if c.State == CellConflict {
				return false
			}
		}
	}
	return true
}

// Augmented returns the augmented grammar G' the table was built from.
func (slr SLRTable) Augmented() grammar.Grammar {
	return slr.gPrime
}

// Automaton returns the LR(0) automaton of G'.
func (slr SLRTable) Automaton() automaton.Collection {
	return slr.lr0
}

// FOLLOW returns the FOLLOW sets of G'.
func (slr SLRTable) FOLLOW() grammar.FollowSets {
	return slr.follow
}

// columns gives the terminals of G' in discovery order followed by the end
// marker.
func (slr SLRTable) columns() []grammar.Symbol {
	var cols []grammar.Symbol
	for _, t := range slr.gPrime.Terminals() {
		cols = append(cols, grammar.T(t))
	}
	return append(cols, grammar.EndMarker)
}

// gotoColumns gives the nonterminals of the original grammar. S' never has a
// GOTO entry.
func (slr SLRTable) gotoColumns() []string {
	var cols []string
	for _, nt := range slr.gPrime.NonTerminals() {
		if nt != slr.gPrime.StartSymbol() {
			cols = append(cols, nt)
		}
	}
	return cols
}

// cellText gives act the way it is shown in the table, such as "s3",
// "rE -> E + T", or "acc".
func (slr SLRTable) cellText(act LRAction) string {
	switch act.Type {
	case LRAccept:
		return "acc"
	case LRReduce:
		return fmt.Sprintf("r%s -> %s", act.NonTerminal, slr.gPrime.Production(act.NonTerminal, act.Production).String())
	case LRShift:
		return fmt.Sprintf("s%d", act.State)
	default:
		return ""
	}
}

// Conflicts lists every conflicting ACTION cell, by state and then column.
func (slr SLRTable) Conflicts() []Conflict {
	var conflicts []Conflict

	for _, state := range slr.lr0.States {
		for _, a := range slr.columns() {
			c := slr.Action(state.ID, a)
			if c.State != CellConflict {
				continue
			}

			cands := make([]string, len(c.Candidates))
			for i, act := range c.Candidates {
				cands[i] = slr.cellText(act)
			}

			conflicts = append(conflicts, Conflict{
				Table:      "ACTION",
				Row:        fmt.Sprintf("%d", state.ID),
				Symbol:     a,
				Candidates: cands,
			})
		}
	}

	return conflicts
}

func (slr SLRTable) String() string {
	allTerms := slr.columns()
	nonTerms := slr.gotoColumns()

	data := [][]string{}

	headers := []string{"S", "|"}
	for _, t := range allTerms {
		headers = append(headers, fmt.Sprintf("A:%s", t.Name))
	}
	headers = append(headers, "|")
	for _, nt := range nonTerms {
		headers = append(headers, fmt.Sprintf("G:%s", nt))
	}
	data = append(data, headers)

	for _, state := range slr.lr0.States {
		i := state.ID
		row := []string{fmt.Sprintf("%d", i), "|"}

		for _, t := range allTerms {
			c := slr.Action(i, t)

			cell := ""
			switch c.State {
			case CellFilled:
				cell = slr.cellText(c.Value)
			case CellConflict:
				texts := make([]string, len(c.Candidates))
				for k, act := range c.Candidates {
					texts[k] = slr.cellText(act)
				}
				cell = strings.Join(texts, "/")
			}

			row = append(row, cell)
		}

		row = append(row, "|")

		for _, nt := range nonTerms {
			cell := ""
			if j, ok := slr.Goto(i, nt); ok {
				cell = fmt.Sprintf("%d", j)
			}
			row = append(row, cell)
		}

		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
