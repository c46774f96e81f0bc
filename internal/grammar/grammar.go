// Package grammar holds the context-free grammar model along with the FIRST
// and FOLLOW solvers, LR(0) items, and readers for the grammar text formats.
package grammar

import (
	"fmt"
	"strings"
)

// Production is one alternative that a nonterminal may derive in a single
// step. The epsilon production is the Production holding only Epsilon.
type Production []Symbol

// EpsilonProduction is the production that derives the empty string.
var EpsilonProduction = Production{Epsilon}

// IsEpsilon returns whether p derives the empty string directly. An empty
// Production is also treated as the epsilon production.
func (p Production) IsEpsilon() bool {
	return len(p) == 0 || (len(p) == 1 && p[0].IsEpsilon())
}

// Len returns the number of symbols in p that are pushed onto or popped off a
// parse stack. It is 0 for the epsilon production.
func (p Production) Len() int {
	if p.IsEpsilon() {
		return 0
	}
	return len(p)
}

// Copy returns a deep-copied duplicate of this production.
func (p Production) Copy() Production {
	p2 := make(Production, len(p))
	copy(p2, p)

	return p2
}

// Equal returns whether p is equal to another value. It will not be equal if
// the other value cannot be cast to Production or *Production.
func (p Production) Equal(o any) bool {
	other, ok := o.(Production)
	if !ok {
		otherPtr, ok := o.(*Production)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if p.IsEpsilon() || other.IsEpsilon() {
		return p.IsEpsilon() && other.IsEpsilon()
	}

	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

func (p Production) String() string {
	if p.IsEpsilon() {
		return Epsilon.Name
	}

	var sb strings.Builder
	for i := range p {
		sb.WriteString(p[i].Name)
		if i+1 < len(p) {
			sb.WriteRune(' ')
		}
	}

	return sb.String()
}

// normalizeProduction drops epsilon markers mixed in with other symbols. An
// alternative made of nothing but epsilon markers becomes EpsilonProduction.
func normalizeProduction(p Production) Production {
	norm := Production{}
	for _, sym := range p {
		if !sym.IsEpsilon() {
			norm = append(norm, sym)
		}
	}
	if len(norm) == 0 {
		return EpsilonProduction.Copy()
	}
	return norm
}

// Rule is every production of one nonterminal, in the order they were added.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Copy returns a deep-copy duplicate of the given Rule.
func (r Rule) Copy() Rule {
	r2 := Rule{
		NonTerminal: r.NonTerminal,
		Productions: make([]Production, len(r.Productions)),
	}

	for i := range r.Productions {
		r2.Productions[i] = r.Productions[i].Copy()
	}

	return r2
}

func (r Rule) String() string {
	var sb strings.Builder

	sb.WriteString(r.NonTerminal)
	sb.WriteString(" -> ")

	for i := range r.Productions {
		sb.WriteString(r.Productions[i].String())
		if i+1 < len(r.Productions) {
			sb.WriteString(" | ")
		}
	}

	return sb.String()
}

// Grammar is a context-free grammar. The zero value is an empty grammar ready
// for use.
type Grammar struct {
	// rules are kept in order of first mention; nonterminals only referenced
	// so far have a Rule with no productions.
	rulesByName map[string]int
	rules       []Rule

	termsByName map[string]int
	terminals   []string

	// Start is the name of the start symbol. If not set, StartSymbol picks
	// one.
	Start string
}

// AddProduction appends each alternative to the productions of nonterminal,
// registering the nonterminal and every symbol in the alternatives. Calling it
// again for the same nonterminal accumulates alternatives. Symbols may be
// used before their own productions are added.
//
// Epsilon markers mixed with other symbols are dropped, and an empty
// alternative is taken to be the epsilon production.
func (g *Grammar) AddProduction(nonterminal string, alternatives ...Production) {
	if nonterminal == "" {
		panic("empty nonterminal name not allowed for production rule")
	}

	idx := g.registerNonTerminal(nonterminal)

	for _, alt := range alternatives {
		alt = normalizeProduction(alt)

		for _, sym := range alt {
			switch sym.Kind {
			case NonTerminalKind:
				g.registerNonTerminal(sym.Name)
			case TerminalKind:
				g.registerTerminal(sym.Name)
			}
		}

		g.rules[idx].Productions = append(g.rules[idx].Productions, alt)
	}
}

func (g *Grammar) registerNonTerminal(name string) int {
	if g.rulesByName == nil {
		g.rulesByName = map[string]int{}
	}

	idx, ok := g.rulesByName[name]
	if !ok {
		g.rules = append(g.rules, Rule{NonTerminal: name})
		idx = len(g.rules) - 1
		g.rulesByName[name] = idx
	}
	return idx
}

func (g *Grammar) registerTerminal(name string) {
	if g.termsByName == nil {
		g.termsByName = map[string]int{}
	}

	if _, ok := g.termsByName[name]; !ok {
		g.terminals = append(g.terminals, name)
		g.termsByName[name] = len(g.terminals) - 1
	}
}

// Rule returns the grammar rule for the given nonterminal symbol. If the
// nonterminal is not in the grammar, a Rule with an empty NonTerminal field is
// returned.
func (g Grammar) Rule(nonterminal string) Rule {
	idx, ok := g.rulesByName[nonterminal]
	if !ok {
		return Rule{}
	}
	return g.rules[idx]
}

// Production returns the production of nonterminal at index idx. It panics if
// there is no such production.
func (g Grammar) Production(nonterminal string, idx int) Production {
	r := g.Rule(nonterminal)
	if idx < 0 || idx >= len(r.Productions) {
		panic(fmt.Sprintf("no production %d for nonterminal %q", idx, nonterminal))
	}
	return r.Productions[idx]
}

// Rules returns every rule in the order the nonterminals were first
// mentioned.
func (g Grammar) Rules() []Rule {
	rules := make([]Rule, len(g.rules))
	for i := range g.rules {
		rules[i] = g.rules[i].Copy()
	}
	return rules
}

// NonTerminals returns the names of all nonterminals in the order they were
// first mentioned.
func (g Grammar) NonTerminals() []string {
	nts := make([]string, len(g.rules))
	for i := range g.rules {
		nts[i] = g.rules[i].NonTerminal
	}
	return nts
}

// Terminals returns the names of all terminals in the order they were first
// mentioned.
func (g Grammar) Terminals() []string {
	terms := make([]string, len(g.terminals))
	copy(terms, g.terminals)
	return terms
}

// Symbols returns the full alphabet of the grammar: every terminal followed by
// every nonterminal, each group in order of first mention.
func (g Grammar) Symbols() []Symbol {
	syms := make([]Symbol, 0, len(g.terminals)+len(g.rules))
	for _, t := range g.terminals {
		syms = append(syms, T(t))
	}
	for _, r := range g.rules {
		syms = append(syms, NT(r.NonTerminal))
	}
	return syms
}

func (g Grammar) IsNonTerminal(name string) bool {
	_, ok := g.rulesByName[name]
	return ok
}

func (g Grammar) IsTerminal(name string) bool {
	_, ok := g.termsByName[name]
	return ok
}

// StartSymbol returns the start symbol of the grammar. If Start is not set,
// "S" is used when the grammar has that nonterminal; otherwise it is the first
// nonterminal mentioned.
func (g Grammar) StartSymbol() string {
	if g.Start != "" {
		return g.Start
	}
	if g.IsNonTerminal("S") || len(g.rules) == 0 {
		return "S"
	}
	return g.rules[0].NonTerminal
}

// Copy makes a duplicate deep copy of the grammar.
func (g Grammar) Copy() Grammar {
	g2 := Grammar{
		rulesByName: make(map[string]int, len(g.rulesByName)),
		rules:       make([]Rule, len(g.rules)),
		termsByName: make(map[string]int, len(g.termsByName)),
		terminals:   make([]string, len(g.terminals)),
		Start:       g.Start,
	}

	for k := range g.rulesByName {
		g2.rulesByName[k] = g.rulesByName[k]
	}
	for i := range g.rules {
		g2.rules[i] = g.rules[i].Copy()
	}
	for k := range g.termsByName {
		g2.termsByName[k] = g.termsByName[k]
	}
	copy(g2.terminals, g.terminals)

	return g2
}

// String gives the rules of the grammar one per line, in the extended
// notation.
func (g Grammar) String() string {
	var sb strings.Builder
	for i := range g.rules {
		if len(g.rules[i].Productions) == 0 {
			continue
		}
		sb.WriteString(g.rules[i].String())
		sb.WriteRune('\n')
	}
	return sb.String()
}

// GenerateUniqueName generates a name for a nonterminal guaranteed to be
// unique within the grammar, based on original. Primes are appended until the
// name is unused.
func (g Grammar) GenerateUniqueName(original string) string {
	newName := original + "'"
	for g.IsNonTerminal(newName) || g.IsTerminal(newName) {
		newName += "'"
	}
	return newName
}

// Augmented returns a copy of g with a fresh start symbol S' and the single
// production S' -> S added, where S is the start symbol of g. Every other
// production is copied unchanged.
func (g Grammar) Augmented() Grammar {
	oldStart := g.StartSymbol()

	aug := g.Copy()
	newStart := aug.GenerateUniqueName(oldStart)
	aug.AddProduction(newStart, Production{NT(oldStart)})
	aug.Start = newStart

	return aug
}

// Validate checks that the grammar is complete enough to analyze: the start
// symbol has at least one production, every nonterminal used has productions,
// no name is both a terminal and a nonterminal, and no production uses the
// end marker.
func (g Grammar) Validate() error {
	if len(g.rules) < 1 {
		return fmt.Errorf("no rules defined in grammar")
	}

	var errs []string

	start := g.StartSymbol()
	if len(g.Rule(start).Productions) == 0 {
		errs = append(errs, fmt.Sprintf("no productions defined for start symbol %q", start))
	}

	for _, r := range g.rules {
		if r.NonTerminal != start && len(r.Productions) == 0 {
			errs = append(errs, fmt.Sprintf("no productions defined for nonterminal %q", r.NonTerminal))
		}
		if g.IsTerminal(r.NonTerminal) {
			errs = append(errs, fmt.Sprintf("%q is used as both a terminal and a nonterminal", r.NonTerminal))
		}
		for _, p := range r.Productions {
			for _, sym := range p {
				if sym.IsEndMarker() {
					errs = append(errs, fmt.Sprintf("production %q of %q uses the end marker", p.String(), r.NonTerminal))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}
	return nil
}
