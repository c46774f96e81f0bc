package grammar

import (
	"strings"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/util"
)

// SymbolSet is a set of grammar symbols.
type SymbolSet = util.KeySet[Symbol]

// FormatSet gives the members of s in symbol order, such as "{a, b, ε}".
func FormatSet(s SymbolSet) string {
	sorted := s.Sorted(func(l, r Symbol) bool { return l.Less(r) })
	return "{" + util.JoinStrings(sorted, ", ", Symbol.String) + "}"
}

// FirstSets maps each symbol X to FIRST(X), the terminals (and possibly
// epsilon) that can begin a string derived from X.
type FirstSets map[Symbol]SymbolSet

// FIRST computes FIRST(X) for every symbol of the grammar as a least fixed
// point. Full passes over every production are made until one completes with
// no set changing.
func (g Grammar) FIRST() FirstSets {
	first := FirstSets{}

	for _, t := range g.terminals {
		first[T(t)] = util.KeySetOf([]Symbol{T(t)})
	}
	first[Epsilon] = util.KeySetOf([]Symbol{Epsilon})
	for _, r := range g.rules {
		first[NT(r.NonTerminal)] = util.NewKeySet[Symbol]()
	}

	for first.refine(g) {
	}

	return first
}

// refine makes one full pass over every production of g, growing the sets in
// fs. It returns whether any set changed.
func (fs FirstSets) refine(g Grammar) bool {
	var updated bool

	for _, r := range g.rules {
		A := NT(r.NonTerminal)
		firstA := fs.seed(A)

		for _, p := range r.Productions {
			if p.IsEpsilon() {
				if firstA.Add(Epsilon) {
					updated = true
				}
				continue
			}

			epsInEverything := true
			for _, X := range p {
				firstX := fs.seed(X)

				for sym := range firstX {
					if !sym.IsEpsilon() && firstA.Add(sym) {
						updated = true
					}
				}

				if !firstX.Has(Epsilon) {
					epsInEverything = false
					break
				}
			}

			if epsInEverything && firstA.Add(Epsilon) {
				updated = true
			}
		}
	}

	return updated
}

// seed returns the set for X, creating it first if X has not been seen: a
// terminal or the end marker gets itself, a nonterminal gets the empty set.
func (fs FirstSets) seed(X Symbol) SymbolSet {
	set, ok := fs[X]
	if !ok {
		set = initialFirst(X)
		fs[X] = set
	}
	return set
}

func initialFirst(X Symbol) SymbolSet {
	if X.IsNonTerminal() {
		return util.NewKeySet[Symbol]()
	}
	return util.KeySetOf([]Symbol{X})
}

// Of returns a copy of FIRST(X). A symbol never seen during the computation is
// treated the same way it would have been seeded.
func (fs FirstSets) Of(X Symbol) SymbolSet {
	set, ok := fs[X]
	if !ok {
		return initialFirst(X)
	}
	return set.Copy()
}

// OfString returns FIRST of the concatenation of the symbols in str. Symbols
// are scanned left to right, stopping at the first one that cannot derive
// epsilon. Epsilon is included only if every symbol can derive it, which
// includes the case of an empty or epsilon-only string.
func (fs FirstSets) OfString(str []Symbol) SymbolSet {
	result := util.NewKeySet[Symbol]()

	allDeriveEpsilon := true
	for _, X := range str {
		if X.IsEpsilon() {
			continue
		}

		firstX := fs.Of(X)
		for sym := range firstX {
			if !sym.IsEpsilon() {
				result.Add(sym)
			}
		}

		if !firstX.Has(Epsilon) {
			allDeriveEpsilon = false
			break
		}
	}

	if allDeriveEpsilon {
		result.Add(Epsilon)
	}

	return result
}

// Format lists FIRST of each given symbol, one per line.
func (fs FirstSets) Format(symbols []Symbol) string {
	var sb strings.Builder
	for _, X := range symbols {
		sb.WriteString("FIRST(")
		sb.WriteString(X.Name)
		sb.WriteString(") = ")
		sb.WriteString(FormatSet(fs.Of(X)))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// FollowSets maps each nonterminal name A to FOLLOW(A), the terminals
// (including the end marker) that can immediately follow A in some sentential
// form.
type FollowSets map[string]SymbolSet

// FOLLOW computes FOLLOW(A) for every nonterminal of the grammar as a least
// fixed point, using first as the already-computed FIRST sets of g.
func (g Grammar) FOLLOW(first FirstSets) FollowSets {
	follow := FollowSets{}

	for _, r := range g.rules {
		follow[r.NonTerminal] = util.NewKeySet[Symbol]()
	}
	follow.seed(g.StartSymbol()).Add(EndMarker)

	for follow.refine(g, first) {
	}

	return follow
}

// refine makes one full pass over every production of g, growing the sets in
// fol. It returns whether any set changed.
func (fol FollowSets) refine(g Grammar, first FirstSets) bool {
	var updated bool

	for _, r := range g.rules {
		followA := fol.seed(r.NonTerminal)

		for _, p := range r.Productions {
			if p.IsEpsilon() {
				continue
			}

			for i, B := range p {
				if !B.IsNonTerminal() {
					continue
				}
				followB := fol.seed(B.Name)

				beta := p[i+1:]
				if len(beta) == 0 {
					if followB.AddAll(followA) > 0 {
						updated = true
					}
					continue
				}

				firstBeta := first.OfString(beta)
				for sym := range firstBeta {
					if !sym.IsEpsilon() && followB.Add(sym) {
						updated = true
					}
				}
				if firstBeta.Has(Epsilon) && followB.AddAll(followA) > 0 {
					updated = true
				}
			}
		}
	}

	return updated
}

func (fol FollowSets) seed(A string) SymbolSet {
	set, ok := fol[A]
	if !ok {
		set = util.NewKeySet[Symbol]()
		fol[A] = set
	}
	return set
}

// Of returns a copy of FOLLOW(A). It is empty for a nonterminal that was
// never seen.
func (fol FollowSets) Of(A string) SymbolSet {
	set, ok := fol[A]
	if !ok {
		return util.NewKeySet[Symbol]()
	}
	return set.Copy()
}

// Format lists FOLLOW of each given nonterminal, one per line.
func (fol FollowSets) Format(nonTerminals []string) string {
	var sb strings.Builder
	for _, A := range nonTerminals {
		sb.WriteString("FOLLOW(")
		sb.WriteString(A)
		sb.WriteString(") = ")
		sb.WriteString(FormatSet(fol.Of(A)))
		sb.WriteRune('\n')
	}
	return sb.String()
}
