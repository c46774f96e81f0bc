package gramlab

import (
	"strings"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/grammar"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/parse"
)

// Verdicts given by Analysis.Verdict.
const (
	VerdictBoth    = "Grammar is LL(1) and SLR(1)."
	VerdictLL1     = "Grammar is LL(1)."
	VerdictSLR1    = "Grammar is SLR(1)."
	VerdictNeither = "Grammar is neither LL(1) nor SLR(1)."
)

// Analysis is the complete analysis of a single grammar: its FIRST and FOLLOW
// sets and a parser for each supported algorithm. It is read-only once
// created and may be shared between goroutines that only call Parse on its
// parsers.
type Analysis struct {
	Grammar grammar.Grammar
	First   grammar.FirstSets
	Follow  grammar.FollowSets

	LL1 *parse.LL1Parser
	SLR *parse.SLRParser
}

// Analyze computes FIRST and FOLLOW for g and builds both its LL(1) and its
// SLR(1) parser. g should already have passed Validate; a grammar that has
// not may produce parsers that reject everything.
func Analyze(g grammar.Grammar) Analysis {
	ll1 := parse.NewLL1Parser(g)

	return Analysis{
		Grammar: g,
		First:   ll1.FIRST(),
		Follow:  ll1.FOLLOW(),
		LL1:     ll1,
		SLR:     parse.NewSLRParser(g),
	}
}

func (a Analysis) IsLL1() bool {
	return a.LL1.IsConflictFree()
}

func (a Analysis) IsSLR1() bool {
	return a.SLR.IsConflictFree()
}

// Verdict gives a one-line summary of which tables are conflict-free.
func (a Analysis) Verdict() string {
	switch {
	case a.IsLL1() && a.IsSLR1():
		return VerdictBoth
	case a.IsLL1():
		return VerdictLL1
	case a.IsSLR1():
		return VerdictSLR1
	default:
		return VerdictNeither
	}
}

// Parser returns the parser for the given algorithm.
func (a Analysis) Parser(alg parse.Algorithm) parse.Parser {
	if alg == parse.SLR1 {
		return a.SLR
	}
	return a.LL1
}

// Preferred returns the LL(1) parser if its table is conflict-free and the
// SLR(1) parser otherwise.
func (a Analysis) Preferred() parse.Parser {
	if a.IsLL1() {
		return a.LL1
	}
	return a.SLR
}

// Conflicts lists the conflicts of the LL(1) table followed by those of the
// SLR(1) ACTION table.
func (a Analysis) Conflicts() []parse.Conflict {
	conflicts := a.LL1.LL1Table().Conflicts()
	return append(conflicts, a.SLR.SLRTable().Conflicts()...)
}

// Report gives a full text report of the analysis: the grammar, FIRST and
// FOLLOW, both parse tables with the LR(0) states between them, any
// conflicts, and finally the verdict.
func (a Analysis) Report() string {
	var sb strings.Builder

	section := func(title, body string) {
		sb.WriteString(title)
		sb.WriteRune('\n')
		sb.WriteString(strings.Repeat("=", len(title)))
		sb.WriteRune('\n')
		sb.WriteString(strings.TrimRight(body, "\n"))
		sb.WriteString("\n\n")
	}

	var firstOf []grammar.Symbol
	for _, nt := range a.Grammar.NonTerminals() {
		firstOf = append(firstOf, grammar.NT(nt))
	}

	section("Grammar", a.Grammar.String())
	section("FIRST", a.First.Format(firstOf))
	section("FOLLOW", a.Follow.Format(a.Grammar.NonTerminals()))
	section("LL(1) table", a.LL1.Table().String())
	section("LR(0) states", a.SLR.SLRTable().Automaton().String())
	section("SLR(1) table", a.SLR.Table().String())

	conflicts := a.Conflicts()
	if len(conflicts) > 0 {
		var lines []string
		for _, c := range conflicts {
			lines = append(lines, c.String())
		}
		section("Conflicts", strings.Join(lines, "\n"))
	}

	sb.WriteString(a.Verdict())
	sb.WriteRune('\n')

	return sb.String()
}
