// Package parse builds the LL(1) and SLR(1) parse tables of a grammar and
// runs the table-driven parsing engines that use them. Each engine only
// answers whether an input is in the language of the grammar.
package parse

import (
	"fmt"
	"strings"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/grammar"
)

// Algorithm is a parsing algorithm supported by GramLab.
type Algorithm int

const (
	LL1 Algorithm = iota
	SLR1
)

func (a Algorithm) String() string {
	switch a {
	case LL1:
		return "LL(1)"
	case SLR1:
		return "SLR(1)"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ID gives the short lowercase name of the algorithm as accepted by
// ParseAlgorithm.
func (a Algorithm) ID() string {
	switch a {
	case LL1:
		return "ll1"
	case SLR1:
		return "slr1"
	default:
		return ""
	}
}

// ParseAlgorithm parses the name of an algorithm. Case is ignored, and the
// forms "ll1", "ll(1)", "slr", "slr1", and "slr(1)" are accepted.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ll1", "ll(1)":
		return LL1, nil
	case "slr", "slr1", "slr(1)":
		return SLR1, nil
	default:
		return LL1, fmt.Errorf("not a parsing algorithm: %q", s)
	}
}

// Parser is a table-driven parser for a single grammar. A Parser is read-only
// once created, so Parse may be called from several goroutines at once as long
// as no trace listener is being registered at the same time.
type Parser interface {
	// Parse returns whether input is a sentence of the grammar. The end
	// marker is appended to input if it is not already the last symbol. It
	// always returns false if the table has a conflict.
	Parse(input []grammar.Symbol) bool

	// ParseString tokenizes s with grammar.Grammar.Tokenize and parses the
	// result.
	ParseString(s string) bool

	// IsConflictFree returns whether no cell of the parse table is a
	// conflict.
	IsConflictFree() bool

	Algorithm() Algorithm

	// RegisterTraceListener sets a function that is called with a line
	// describing each step the parser takes. Pass nil to remove it.
	RegisterTraceListener(listener func(s string))

	// Table returns the parse table of the parser.
	Table() fmt.Stringer
}

// withEndMarker returns input with the end marker appended if it is not
// already the last symbol.
func withEndMarker(input []grammar.Symbol) []grammar.Symbol {
	if len(input) > 0 && input[len(input)-1].IsEndMarker() {
		return input
	}

	terminated := make([]grammar.Symbol, len(input), len(input)+1)
	copy(terminated, input)
	return append(terminated, grammar.EndMarker)
}

// tracer holds a trace listener. It is embedded by both parsers.
type tracer struct {
	trace func(s string)
}

func (tr *tracer) RegisterTraceListener(listener func(s string)) {
	tr.trace = listener
}

func (tr tracer) notifyTraceFn(fn func() string) {
	if tr.trace != nil {
		tr.trace(fn())
	}
}

func (tr tracer) notifyTrace(fmtStr string, args ...interface{}) {
	tr.notifyTraceFn(func() string { return fmt.Sprintf(fmtStr, args...) })
}

func formatSymbols(syms []grammar.Symbol) string {
	if len(syms) == 0 {
		return "(empty)"
	}
	names := make([]string, len(syms))
	for i := range syms {
		names[i] = syms[i].Name
	}
	return strings.Join(names, " ")
}
