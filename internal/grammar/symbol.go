package grammar

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SymbolKind is the classification of a grammar Symbol.
type SymbolKind int

const (
	TerminalKind SymbolKind = iota
	NonTerminalKind
	EpsilonKind
	EndMarkerKind
)

func (k SymbolKind) String() string {
	switch k {
	case TerminalKind:
		return "terminal"
	case NonTerminalKind:
		return "nonterminal"
	case EpsilonKind:
		return "epsilon"
	case EndMarkerKind:
		return "end-marker"
	default:
		return fmt.Sprintf("SymbolKind(%d)", int(k))
	}
}

// Symbol is a single grammar symbol. Two Symbols are the same symbol only if
// both their Kind and Name match, so a terminal and a nonterminal may share a
// name without being confused for one another.
type Symbol struct {
	Kind SymbolKind
	Name string
}

var (
	// Epsilon is the empty-string marker. It never appears in a derived
	// string.
	Epsilon = Symbol{Kind: EpsilonKind, Name: "ε"}

	// EndMarker is the end-of-input marker "$". It is never defined by a
	// production.
	EndMarker = Symbol{Kind: EndMarkerKind, Name: "$"}
)

// T returns the terminal with the given name.
func T(name string) Symbol {
	return Symbol{Kind: TerminalKind, Name: name}
}

// NT returns the nonterminal with the given name.
func NT(name string) Symbol {
	return Symbol{Kind: NonTerminalKind, Name: name}
}

func (s Symbol) String() string {
	return s.Name
}

func (s Symbol) IsTerminal() bool {
	return s.Kind == TerminalKind
}

func (s Symbol) IsNonTerminal() bool {
	return s.Kind == NonTerminalKind
}

func (s Symbol) IsEpsilon() bool {
	return s.Kind == EpsilonKind
}

func (s Symbol) IsEndMarker() bool {
	return s.Kind == EndMarkerKind
}

// Less orders symbols by kind (terminals, nonterminals, epsilon, end marker)
// and then by name.
func (s Symbol) Less(o Symbol) bool {
	if s.Kind != o.Kind {
		return s.Kind < o.Kind
	}
	return s.Name < o.Name
}

// ClassifySymbol converts a written symbol into a Symbol using the letter-case
// convention: "ε" and "epsilon" are Epsilon, "$" is the EndMarker, a name
// whose first rune is uppercase is a nonterminal, and everything else is a
// terminal.
func ClassifySymbol(s string) Symbol {
	switch {
	case s == "ε" || strings.EqualFold(s, "epsilon"):
		return Epsilon
	case s == "$":
		return EndMarker
	}

	first, _ := utf8.DecodeRuneInString(s)
	if unicode.IsUpper(first) {
		return NT(s)
	}
	return T(s)
}

// classicSymbol classifies a single rune of the classic one-character-per-
// symbol format, where 'e' stands for epsilon.
func classicSymbol(r rune) Symbol {
	switch {
	case r == 'e':
		return Epsilon
	case r == '$':
		return EndMarker
	case unicode.IsUpper(r):
		return NT(string(r))
	default:
		return T(string(r))
	}
}
