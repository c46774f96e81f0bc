package parse

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/grammar"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/util"
)

// LL1Table is the predictive parsing table M of a grammar. Each cell holds the
// index of the production of the row's nonterminal to expand.
type LL1Table struct {
	g     grammar.Grammar
	cells util.Matrix2[string, grammar.Symbol, Cell[int]]
}

func sameIndex(a, b int) bool {
	return a == b
}

// BuildLL1Table constructs the LL(1) table for g from its FIRST and FOLLOW
// sets. For each production A -> α, A -> α is put in M[A, a] for each terminal
// a in FIRST(α), and if ε is in FIRST(α), also in M[A, b] for each b in
// FOLLOW(A), which may be the end marker. A cell asked to hold two different
// productions becomes a conflict.
func BuildLL1Table(g grammar.Grammar, first grammar.FirstSets, follow grammar.FollowSets) LL1Table {
	M := LL1Table{
		g:     g,
		cells: util.NewMatrix2[string, grammar.Symbol, Cell[int]](),
	}

	for _, r := range g.Rules() {
		A := r.NonTerminal
		for idx, alpha := range r.Productions {
			firstAlpha := first.OfString(alpha)

			for _, a := range sortedSymbols(firstAlpha) {
				if !a.IsEpsilon() {
					putCell(M.cells, A, a, idx, sameIndex)
				}
			}

			if firstAlpha.Has(grammar.Epsilon) {
				for _, b := range sortedSymbols(follow.Of(A)) {
					putCell(M.cells, A, b, idx, sameIndex)
				}
			}
		}
	}

	return M
}

func sortedSymbols(s grammar.SymbolSet) []grammar.Symbol {
	return s.Sorted(func(l, r grammar.Symbol) bool { return l.Less(r) })
}

// Get returns the cell M[A, a].
func (M LL1Table) Get(A string, a grammar.Symbol) Cell[int] {
	return getCell(M.cells, A, a)
}

// IsLL1 returns whether no cell of M is a conflict.
func (M LL1Table) IsLL1() bool {
	for _, row := range M.cells {
		for _, c := range row {
			if c.State == CellConflict {
				return false
			}
		}
	}
	return true
}

// columns gives the terminals of the grammar in discovery order followed by
// the end marker.
func (M LL1Table) columns() []grammar.Symbol {
	var cols []grammar.Symbol
	for _, t := range M.g.Terminals() {
		cols = append(cols, grammar.T(t))
	}
	return append(cols, grammar.EndMarker)
}

func (M LL1Table) production(A string, idx int) string {
	return fmt.Sprintf("%s -> %s", A, M.g.Production(A, idx).String())
}

// Conflicts lists every conflicting cell, by row and then column.
func (M LL1Table) Conflicts() []Conflict {
	var conflicts []Conflict

	for _, A := range M.g.NonTerminals() {
		for _, a := range M.columns() {
			c := M.Get(A, a)
			if c.State != CellConflict {
				continue
			}

			cands := make([]string, len(c.Candidates))
			for i, idx := range c.Candidates {
				cands[i] = M.production(A, idx)
			}

			conflicts = append(conflicts, Conflict{
				Table:      "M",
				Row:        A,
				Symbol:     a,
				Candidates: cands,
			})
		}
	}

	return conflicts
}

func (M LL1Table) String() string {
	data := [][]string{}

	cols := M.columns()

	topRow := []string{""}
	for _, a := range cols {
		topRow = append(topRow, a.Name)
	}
	data = append(data, topRow)

	for _, A := range M.g.NonTerminals() {
		if len(M.g.Rule(A).Productions) == 0 {
			continue
		}

		dataRow := []string{A}
		for _, a := range cols {
			c := M.Get(A, a)

			var cell string
			switch c.State {
			case CellFilled:
				cell = M.g.Production(A, c.Value).String()
			case CellConflict:
				alts := make([]string, len(c.Candidates))
				for i, idx := range c.Candidates {
					alts[i] = M.g.Production(A, idx).String()
				}
				cell = strings.Join(alts, " / ")
			}

			dataRow = append(dataRow, cell)
		}
		data = append(data, dataRow)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 80, rosed.Options{
			TableBorders: true,
		}).
		String()
}

// LL1Parser is a predictive parser driven by an LL(1) table.
type LL1Parser struct {
	tracer

	g      grammar.Grammar
	first  grammar.FirstSets
	follow grammar.FollowSets
	table  LL1Table
	ll1    bool
}

// NewLL1Parser computes FIRST and FOLLOW for g and builds its LL(1) table. The
// parser is created even if the table has conflicts, in which case it rejects
// every input.
func NewLL1Parser(g grammar.Grammar) *LL1Parser {
	first := g.FIRST()
	follow := g.FOLLOW(first)
	table := BuildLL1Table(g, first, follow)

	return &LL1Parser{
		g:      g,
		first:  first,
		follow: follow,
		table:  table,
		ll1:    table.IsLL1(),
	}
}

func (ll *LL1Parser) Algorithm() Algorithm {
	return LL1
}

func (ll *LL1Parser) IsConflictFree() bool {
	return ll.ll1
}

func (ll *LL1Parser) Table() fmt.Stringer {
	return ll.table
}

// LL1Table returns the parse table M.
func (ll *LL1Parser) LL1Table() LL1Table {
	return ll.table
}

func (ll *LL1Parser) FIRST() grammar.FirstSets {
	return ll.first
}

func (ll *LL1Parser) FOLLOW() grammar.FollowSets {
	return ll.follow
}

func (ll *LL1Parser) ParseString(s string) bool {
	return ll.Parse(ll.g.Tokenize(s))
}

// Parse runs the predictive parsing loop over input. The stack starts as the
// start symbol over the end marker. A popped terminal must match the next
// input symbol and a popped nonterminal is replaced by the production in
// M[nonterminal, next input symbol]. The input is accepted when the stack
// empties with all of it consumed.
func (ll *LL1Parser) Parse(input []grammar.Symbol) bool {
	if !ll.ll1 {
		ll.notifyTrace("table has conflicts; rejecting input")
		return false
	}

	input = withEndMarker(input)
	stack := util.Stack[grammar.Symbol]{Of: []grammar.Symbol{grammar.EndMarker, grammar.NT(ll.g.StartSymbol())}}
	pos := 0

	for !stack.Empty() {
		if pos >= len(input) {
			ll.notifyTrace("input ended with symbols still on the stack")
			return false
		}

		X := stack.Pop()
		a := input[pos]
		ll.notifyTrace("pop %s, next input %s", X.Name, a.Name)

		switch X.Kind {
		case grammar.EpsilonKind:
			continue
		case grammar.TerminalKind, grammar.EndMarkerKind:
			if X != a {
				ll.notifyTrace("expected %s but got %s; rejecting", X.Name, a.Name)
				return false
			}
			pos++
		case grammar.NonTerminalKind:
			c := ll.table.Get(X.Name, a)
			if c.State != CellFilled {
				ll.notifyTrace("M[%s, %s] is %s; rejecting", X.Name, a.Name, c.State)
				return false
			}

			prod := ll.g.Production(X.Name, c.Value)
			ll.notifyTrace("expand %s", ll.table.production(X.Name, c.Value))
			if prod.IsEpsilon() {
				continue
			}
			for i := len(prod) - 1; i >= 0; i-- {
				stack.Push(prod[i])
			}
		}

		ll.notifyTraceFn(func() string {
			return fmt.Sprintf("stack: %s", formatSymbols(stack.Elements()))
		})
	}

	accepted := pos == len(input)
	ll.notifyTrace("stack empty with %d of %d symbols consumed", pos, len(input))
	return accepted
}
