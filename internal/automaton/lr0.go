// Package automaton builds the LR(0) automaton of an augmented grammar: the
// canonical collection of sets of LR(0) items together with the GOTO
// transitions between them.
package automaton

import (
	"fmt"
	"strings"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/grammar"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/util"
)

// State is one set of items in the canonical collection. Items are kept in
// item order, so two states with the same items have identical Items slices.
type State struct {
	ID    int
	Items []grammar.LR0Item
}

func (s State) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("I%d:", s.ID))
	for _, item := range s.Items {
		sb.WriteString("\n  ")
		sb.WriteString(item.String())
	}
	return sb.String()
}

// Has returns whether the state contains the given item.
func (s State) Has(key grammar.ItemKey) bool {
	for _, item := range s.Items {
		if item.Key() == key {
			return true
		}
	}
	return false
}

func itemComparator(a, b interface{}) int {
	return a.(grammar.LR0Item).Compare(b.(grammar.LR0Item))
}

// Closure returns the closure of the given items over g: the items themselves
// plus, for every item with a nonterminal B right after the dot, every item
// B -> .γ, repeated until nothing new is added.
func Closure(g grammar.Grammar, items []grammar.LR0Item) []grammar.LR0Item {
	set := treeset.NewWith(itemComparator)
	pending := util.Stack[grammar.LR0Item]{}

	for _, item := range items {
		if !set.Contains(item) {
			set.Add(item)
			pending.Push(item)
		}
	}

	for !pending.Empty() {
		item := pending.Pop()

		B, ok := item.Next()
		if !ok || !B.IsNonTerminal() {
			continue
		}

		for _, added := range g.InitialItems(B.Name) {
			if !set.Contains(added) {
				set.Add(added)
				pending.Push(added)
			}
		}
	}

	closure := make([]grammar.LR0Item, 0, set.Size())
	for _, v := range set.Values() {
		closure = append(closure, v.(grammar.LR0Item))
	}
	return closure
}

// Goto returns GOTO(I, X): the closure of every item of I whose dot is
// immediately before X, with the dot moved past X. The result is empty if no
// item of I has X after the dot.
func Goto(g grammar.Grammar, items []grammar.LR0Item, X grammar.Symbol) []grammar.LR0Item {
	var kernel []grammar.LR0Item
	for _, item := range items {
		next, ok := item.Next()
		if ok && next == X {
			kernel = append(kernel, item.Advance())
		}
	}

	if len(kernel) == 0 {
		return nil
	}
	return Closure(g, kernel)
}

// Collection is the canonical collection of sets of LR(0) items for an
// augmented grammar. State 0 is the closure of the augmented start item and
// the rest are numbered in the order they were discovered.
type Collection struct {
	// Grammar is the augmented grammar the collection was built from.
	Grammar grammar.Grammar

	States []State

	transitions util.Matrix2[int, grammar.Symbol, int]

	// byContent indexes states by a hash of their item keys. More than one
	// state may share a hash, so contents are still compared on lookup.
	byContent map[string][]int
}

// stateContent is the hashed form of a state's items.
type stateContent struct {
	Items []grammar.ItemKey
}

// BuildLR0 computes the canonical LR(0) collection for aug, which must be an
// augmented grammar whose start symbol has the single production S' -> S.
//
// States are processed in the order they are discovered. For each one, GOTO
// is taken on every terminal and then every nonterminal of aug, in the order
// they were first mentioned in the grammar, and any non-empty result that is
// not already a state becomes a new one.
func BuildLR0(aug grammar.Grammar) Collection {
	c := Collection{
		Grammar:     aug,
		transitions: util.NewMatrix2[int, grammar.Symbol, int](),
		byContent:   map[string][]int{},
	}

	start := Closure(aug, aug.InitialItems(aug.StartSymbol()))
	c.addState(start)

	alphabet := aug.Symbols()

	for i := 0; i < len(c.States); i++ {
		items := c.States[i].Items

		for _, X := range alphabet {
			J := Goto(aug, items, X)
			if len(J) == 0 {
				continue
			}

			j, ok := c.find(J)
			if !ok {
				j = c.addState(J)
			}
			c.transitions.Set(i, X, j)
		}
	}

	return c
}

func contentHash(items []grammar.LR0Item) string {
	keys := make([]grammar.ItemKey, len(items))
	for i := range items {
		keys[i] = items[i].Key()
	}

	h, err := structhash.Hash(stateContent{Items: keys}, 1)
	if err != nil {
		// only possible for unsupported field types, which ItemKey never has
		panic(fmt.Sprintf("hash item set: %v", err))
	}
	return h
}

func (c *Collection) addState(items []grammar.LR0Item) int {
	id := len(c.States)
	c.States = append(c.States, State{ID: id, Items: items})

	h := contentHash(items)
	c.byContent[h] = append(c.byContent[h], id)

	return id
}

// find returns the ID of the state whose items are exactly items.
func (c *Collection) find(items []grammar.LR0Item) (int, bool) {
	for _, id := range c.byContent[contentHash(items)] {
		if sameItems(c.States[id].Items, items) {
			return id, true
		}
	}
	return 0, false
}

func sameItems(a, b []grammar.LR0Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key() != b[i].Key() {
			return false
		}
	}
	return true
}

// Transition returns GOTO(from, X) as a state ID. The second return value is
// false if the automaton has no such transition.
func (c Collection) Transition(from int, X grammar.Symbol) (int, bool) {
	to := c.transitions.Get(from, X)
	if to == nil {
		return 0, false
	}
	return *to, true
}

// Transitions returns every transition out of state from, keyed by symbol.
func (c Collection) Transitions(from int) map[grammar.Symbol]int {
	out := map[grammar.Symbol]int{}
	for X, to := range c.transitions.Row(from) {
		out[X] = to
	}
	return out
}

// String lists every state with its items followed by its transitions, in
// state order and then alphabet order.
func (c Collection) String() string {
	var sb strings.Builder

	alphabet := c.Grammar.Symbols()
	for i, s := range c.States {
		sb.WriteString(s.String())
		sb.WriteRune('\n')

		for _, X := range alphabet {
			if to, ok := c.Transition(s.ID, X); ok {
				sb.WriteString(fmt.Sprintf("  =(%s)=> I%d\n", X.Name, to))
			}
		}

		if i+1 < len(c.States) {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}
