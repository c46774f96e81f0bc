package grammar

import (
	"fmt"
	"strings"
)

// LR0Item is a production of a nonterminal annotated with how much of it has
// been recognized. Dot ranges from 0 to Production.Len().
type LR0Item struct {
	NonTerminal string

	// Index is the position of Production among the productions of
	// NonTerminal.
	Index      int
	Production Production
	Dot        int
}

// ItemKey identifies an LR0Item without its production body. It is
// comparable and suitable as a map key.
type ItemKey struct {
	NonTerminal string
	Index       int
	Dot         int
}

// Item returns the item for production idx of nonterminal with the dot at the
// given position. It panics if there is no such production.
func (g Grammar) Item(nonterminal string, idx int, dot int) LR0Item {
	return LR0Item{
		NonTerminal: nonterminal,
		Index:       idx,
		Production:  g.Production(nonterminal, idx),
		Dot:         dot,
	}
}

// InitialItems returns the items of every production of nonterminal with the
// dot at the start.
func (g Grammar) InitialItems(nonterminal string) []LR0Item {
	r := g.Rule(nonterminal)
	items := make([]LR0Item, len(r.Productions))
	for i := range r.Productions {
		items[i] = LR0Item{
			NonTerminal: nonterminal,
			Index:       i,
			Production:  r.Productions[i],
		}
	}
	return items
}

func (item LR0Item) Key() ItemKey {
	return ItemKey{NonTerminal: item.NonTerminal, Index: item.Index, Dot: item.Dot}
}

// Next returns the symbol immediately after the dot. The second return value
// is false if there is none, which is the case for reducible items.
func (item LR0Item) Next() (Symbol, bool) {
	if item.Dot >= item.Production.Len() {
		return Symbol{}, false
	}
	return item.Production[item.Dot], true
}

// Advance returns the item with the dot moved one symbol to the right. It
// panics if the item is reducible.
func (item LR0Item) Advance() LR0Item {
	if item.Reducible() {
		panic(fmt.Sprintf("cannot advance dot past end of item %s", item))
	}
	item.Dot++
	return item
}

// Reducible returns whether the dot is at the end of the production. For the
// epsilon production that is the only possible position, 0.
func (item LR0Item) Reducible() bool {
	return item.Dot >= item.Production.Len()
}

// Compare orders items by nonterminal, then production index, then dot. It
// returns a negative number, zero, or a positive number as item is less than,
// equal to, or greater than o.
func (item LR0Item) Compare(o LR0Item) int {
	if c := strings.Compare(item.NonTerminal, o.NonTerminal); c != 0 {
		return c
	}
	if item.Index != o.Index {
		return item.Index - o.Index
	}
	return item.Dot - o.Dot
}

func (item LR0Item) String() string {
	var left, right []string

	if !item.Production.IsEpsilon() {
		for i, sym := range item.Production {
			if i < item.Dot {
				left = append(left, sym.Name)
			} else {
				right = append(right, sym.Name)
			}
		}
	}

	return fmt.Sprintf("%s -> %s.%s", item.NonTerminal, strings.Join(left, " "), strings.Join(right, " "))
}
