package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const exprGrammar = `
	E  -> T E'
	E' -> + T E' | ε
	T  -> F T'
	T' -> * F T' | ε
	F  -> ( E ) | id
`

func Test_Grammar_FIRST(t *testing.T) {
	testCases := []struct {
		name    string
		grammar string
		expect  map[string]string
	}{
		{
			name:    "nullable chain",
			grammar: "S -> A ; A -> a A | ε",
			expect: map[string]string{
				"S": "{a, ε}",
				"A": "{a, ε}",
			},
		},
		{
			name:    "balanced parens",
			grammar: "S -> ( S ) | ε",
			expect: map[string]string{
				"S": "{(, ε}",
			},
		},
		{
			name:    "expression grammar",
			grammar: exprGrammar,
			expect: map[string]string{
				"E":  "{(, id}",
				"E'": "{+, ε}",
				"T":  "{(, id}",
				"T'": "{*, ε}",
				"F":  "{(, id}",
			},
		},
		{
			name:    "undefined nonterminal blocks the rest",
			grammar: "S -> A b",
			expect: map[string]string{
				"S": "{}",
				"A": "{}",
			},
		},
		{
			name:    "left recursion",
			grammar: "E -> E + T | T ; T -> id",
			expect: map[string]string{
				"E": "{id}",
				"T": "{id}",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.grammar)
			first := g.FIRST()

			for nt, expect := range tc.expect {
				assert.Equal(expect, FormatSet(first.Of(NT(nt))), "FIRST(%s)", nt)
			}

			for _, term := range g.Terminals() {
				assert.Equal("{"+term+"}", FormatSet(first.Of(T(term))), "FIRST of a terminal is itself")
			}

			// already at the fixed point, so another pass must change nothing
			assert.False(first.refine(g))
		})
	}
}

func Test_FirstSets_OfString(t *testing.T) {
	g := MustParse(exprGrammar)
	first := g.FIRST()

	testCases := []struct {
		name   string
		input  []Symbol
		expect string
	}{
		{
			name:   "empty string",
			input:  nil,
			expect: "{ε}",
		},
		{
			name:   "epsilon only",
			input:  []Symbol{Epsilon},
			expect: "{ε}",
		},
		{
			name:   "nullable prefix then terminal",
			input:  []Symbol{NT("E'"), NT("T'"), T(")")},
			expect: "{), *, +}",
		},
		{
			name:   "all nullable",
			input:  []Symbol{NT("E'"), NT("T'")},
			expect: "{*, +, ε}",
		},
		{
			name:   "stops at first non-nullable",
			input:  []Symbol{NT("F"), NT("E'")},
			expect: "{(, id}",
		},
		{
			name:   "end marker",
			input:  []Symbol{NT("E'"), EndMarker},
			expect: "{+, $}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := first.OfString(tc.input)

			assert.Equal(tc.expect, FormatSet(actual))
		})
	}
}

func Test_Grammar_FOLLOW(t *testing.T) {
	testCases := []struct {
		name    string
		grammar string
		expect  map[string]string
	}{
		{
			name:    "nullable chain",
			grammar: "S -> A ; A -> a A | ε",
			expect: map[string]string{
				"S": "{$}",
				"A": "{$}",
			},
		},
		{
			name:    "balanced parens",
			grammar: "S -> ( S ) | ε",
			expect: map[string]string{
				"S": "{), $}",
			},
		},
		{
			name:    "expression grammar",
			grammar: exprGrammar,
			expect: map[string]string{
				"E":  "{), $}",
				"E'": "{), $}",
				"T":  "{), +, $}",
				"T'": "{), +, $}",
				"F":  "{), *, +, $}",
			},
		},
		{
			name:    "undefined nonterminal still gets follow",
			grammar: "S -> A b",
			expect: map[string]string{
				"S": "{$}",
				"A": "{b}",
			},
		},
		{
			name:    "follow through nullable suffix",
			grammar: "S -> A B c ; A -> a ; B -> b | ε",
			expect: map[string]string{
				"S": "{$}",
				"A": "{b, c}",
				"B": "{c}",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.grammar)
			first := g.FIRST()
			follow := g.FOLLOW(first)

			for nt, expect := range tc.expect {
				assert.Equal(expect, FormatSet(follow.Of(nt)), "FOLLOW(%s)", nt)
			}

			assert.True(follow.Of(g.StartSymbol()).Has(EndMarker))
			for _, nt := range g.NonTerminals() {
				assert.False(follow.Of(nt).Has(Epsilon), "FOLLOW(%s) must never hold epsilon", nt)
			}

			assert.False(follow.refine(g, first))
		})
	}
}

func Test_FirstSets_Format(t *testing.T) {
	assert := assert.New(t)

	g := MustParse("S -> ( S ) | ε")
	first := g.FIRST()
	follow := g.FOLLOW(first)

	assert.Equal("FIRST(S) = {(, ε}\n", first.Format([]Symbol{NT("S")}))
	assert.Equal("FOLLOW(S) = {), $}\n", follow.Format([]string{"S"}))
}
