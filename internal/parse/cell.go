package parse

import (
	"fmt"
	"strings"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/grammar"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/util"
)

// CellState is the state of a single parse table cell.
type CellState int

const (
	// CellUnset is a cell that no rule has written to. Looking it up during a
	// parse is an error entry.
	CellUnset CellState = iota

	// CellFilled is a cell holding exactly one value.
	CellFilled

	// CellConflict is a cell that two or more different values were written
	// to. It is never usable by a parser.
	CellConflict
)

func (cs CellState) String() string {
	switch cs {
	case CellUnset:
		return "unset"
	case CellFilled:
		return "filled"
	case CellConflict:
		return "conflict"
	default:
		return fmt.Sprintf("CellState(%d)", int(cs))
	}
}

// Cell is one entry of a parse table. Writing the value it already holds
// leaves it unchanged; writing any other value turns it into a conflict.
type Cell[E any] struct {
	State CellState

	// Value is the value of a filled cell. For a conflict it is the first
	// value that was written.
	Value E

	// Candidates lists every distinct value written to the cell, in the order
	// they were first written.
	Candidates []E
}

// Put writes v to the cell, using eq to decide whether v is the same value as
// one already written.
func (c *Cell[E]) Put(v E, eq func(a, b E) bool) {
	for _, existing := range c.Candidates {
		if eq(existing, v) {
			return
		}
	}

	c.Candidates = append(c.Candidates, v)

	switch c.State {
	case CellUnset:
		c.State = CellFilled
		c.Value = v
	case CellFilled:
		c.State = CellConflict
	}
}

// putCell writes v to the cell at (x, y) of m.
func putCell[X, Y comparable, E any](m util.Matrix2[X, Y, Cell[E]], x X, y Y, v E, eq func(a, b E) bool) {
	var c Cell[E]
	if existing := m.Get(x, y); existing != nil {
		c = *existing
	}
	c.Put(v, eq)
	m.Set(x, y, c)
}

// getCell returns the cell at (x, y) of m, which is CellUnset if nothing was
// written there.
func getCell[X, Y comparable, E any](m util.Matrix2[X, Y, Cell[E]], x X, y Y) Cell[E] {
	c := m.Get(x, y)
	if c == nil {
		return Cell[E]{}
	}
	return *c
}

// Conflict describes one conflicting cell of a parse table.
type Conflict struct {
	// Table is the name of the table holding the cell, such as "M" or
	// "ACTION".
	Table string

	// Row is the nonterminal or state that addresses the cell.
	Row string

	Symbol grammar.Symbol

	// Candidates are the competing entries as they would be shown in the
	// table.
	Candidates []string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s[%s, %s]: %s", c.Table, c.Row, c.Symbol.Name, strings.Join(c.Candidates, " / "))
}
