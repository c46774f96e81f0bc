package parse

import (
	"fmt"
	"strings"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/grammar"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/util"
)

// lrStackEntry is one entry of the shift-reduce stack, which alternates
// states and grammar symbols starting and ending with a state.
type lrStackEntry struct {
	isState bool
	state   int
	symbol  grammar.Symbol
}

func stateEntry(s int) lrStackEntry {
	return lrStackEntry{isState: true, state: s}
}

func symbolEntry(sym grammar.Symbol) lrStackEntry {
	return lrStackEntry{symbol: sym}
}

func (e lrStackEntry) String() string {
	if e.isState {
		return fmt.Sprintf("%d", e.state)
	}
	return e.symbol.Name
}

// SLRParser is a shift-reduce parser driven by an SLR(1) table.
type SLRParser struct {
	tracer

	g     grammar.Grammar
	table SLRTable
	slr1  bool
}

// NewSLRParser builds the SLR(1) table for g. The parser is created even if
// the table has conflicts, in which case it rejects every input.
func NewSLRParser(g grammar.Grammar) *SLRParser {
	table := BuildSLRTable(g)

	return &SLRParser{
		g:     g,
		table: table,
		slr1:  table.IsSLR1(),
	}
}

func (lr *SLRParser) Algorithm() Algorithm {
	return SLR1
}

func (lr *SLRParser) IsConflictFree() bool {
	return lr.slr1
}

func (lr *SLRParser) Table() fmt.Stringer {
	return lr.table
}

// SLRTable returns the ACTION/GOTO table.
func (lr *SLRParser) SLRTable() SLRTable {
	return lr.table
}

func (lr *SLRParser) ParseString(s string) bool {
	return lr.Parse(lr.g.Tokenize(s))
}

func (lr *SLRParser) Parse(input []grammar.Symbol) bool {
	_, ok := lr.parse(input)
	return ok
}

func (lr *SLRParser) notifyStack(st util.Stack[lrStackEntry]) {
	lr.notifyTraceFn(func() string {
		var sb strings.Builder
		sb.WriteString("stack: ")
		sb.WriteString(util.JoinStrings(st.Elements(), " ", lrStackEntry.String))
		return sb.String()
	})
}

// parse runs the LR-parsing loop over input and returns the stack as it was
// when the loop stopped, along with whether input was accepted.
func (lr *SLRParser) parse(input []grammar.Symbol) (util.Stack[lrStackEntry], bool) {
	stack := util.Stack[lrStackEntry]{Of: []lrStackEntry{stateEntry(lr.table.Initial())}}

	if !lr.slr1 {
		lr.notifyTrace("table has conflicts; rejecting input")
		return stack, false
	}

	input = withEndMarker(input)
	pos := 0

	for {
		if pos >= len(input) {
			lr.notifyTrace("ran past the end of input")
			return stack, false
		}

		lr.notifyStack(stack)

		// let s be the state on top of the stack and a the next input symbol
		s := stack.Peek().state
		a := input[pos]

		c := lr.table.Action(s, a)
		if c.State != CellFilled {
			lr.notifyTrace("ACTION[%d, %s] is %s; rejecting", s, a.Name, c.State)
			return stack, false
		}
		act := c.Value
		lr.notifyTrace("ACTION[%d, %s] = %s", s, a.Name, lr.table.cellText(act))

		switch act.Type {
		case LRShift:
			stack.Push(symbolEntry(a))
			stack.Push(stateEntry(act.State))
			pos++
		case LRReduce:
			A := act.NonTerminal
			beta := lr.table.gPrime.Production(A, act.Production)

			// pop a symbol and a state for every symbol of β
			stack.PopN(2 * beta.Len())

			t := stack.Peek().state
			j, ok := lr.table.Goto(t, A)
			if !ok {
				lr.notifyTrace("GOTO[%d, %s] is an error entry; rejecting", t, A)
				return stack, false
			}

			stack.Push(symbolEntry(grammar.NT(A)))
			stack.Push(stateEntry(j))
		case LRAccept:
			// accept is only set on $, so it must be the final one
			accepted := pos == len(input)-1
			if !accepted {
				lr.notifyTrace("accept reached with input remaining; rejecting")
			}
			return stack, accepted
		}
	}
}
