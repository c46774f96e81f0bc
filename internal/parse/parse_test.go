package parse

import (
	"testing"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/grammar"
	"github.com/stretchr/testify/assert"
)

const (
	nullableChainGrammar = "S -> A ; A -> a A | ε"
	ambiguousSumGrammar  = "E -> E + E | id"
	balancedParenGrammar = "S -> ( S ) | ε"

	leftRecursiveExprGrammar = `
		E -> E + T | T
		T -> T * F | F
		F -> ( E ) | id
	`

	predictiveExprGrammar = `
		E  -> T E'
		E' -> + T E' | ε
		T  -> F T'
		T' -> * F T' | ε
		F  -> ( E ) | id
	`

	followClashGrammar = "S -> A a ; A -> a | ε"
)

func Test_Cell_Put(t *testing.T) {
	assert := assert.New(t)

	var c Cell[int]
	assert.Equal(CellUnset, c.State)

	c.Put(2, sameIndex)
	assert.Equal(CellFilled, c.State)
	assert.Equal(2, c.Value)

	c.Put(2, sameIndex)
	assert.Equal(CellFilled, c.State, "writing the same value must not conflict")
	assert.Equal([]int{2}, c.Candidates)

	c.Put(0, sameIndex)
	assert.Equal(CellConflict, c.State)

	c.Put(2, sameIndex)
	c.Put(1, sameIndex)
	assert.Equal(CellConflict, c.State)
	assert.Equal([]int{2, 0, 1}, c.Candidates)
}

func Test_ParseAlgorithm(t *testing.T) {
	testCases := []struct {
		input     string
		expect    Algorithm
		expectErr bool
	}{
		{input: "ll1", expect: LL1},
		{input: "LL(1)", expect: LL1},
		{input: "slr", expect: SLR1},
		{input: " SLR1 ", expect: SLR1},
		{input: "slr(1)", expect: SLR1},
		{input: "lalr", expectErr: true},
		{input: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseAlgorithm(tc.input)

			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
			assert.Equal(tc.expect, must(ParseAlgorithm(actual.ID())))
		})
	}
}

func must[E any](v E, err error) E {
	if err != nil {
		panic(err.Error())
	}
	return v
}

func Test_ConflictDetection(t *testing.T) {
	testCases := []struct {
		name       string
		grammar    string
		expectLL1  bool
		expectSLR1 bool
	}{
		{
			name:       "nullable chain",
			grammar:    nullableChainGrammar,
			expectLL1:  true,
			expectSLR1: true,
		},
		{
			name:    "ambiguous sum",
			grammar: ambiguousSumGrammar,
		},
		{
			name:       "balanced parens",
			grammar:    balancedParenGrammar,
			expectLL1:  true,
			expectSLR1: true,
		},
		{
			name:       "left recursive expressions",
			grammar:    leftRecursiveExprGrammar,
			expectSLR1: true,
		},
		{
			name:       "predictive expressions",
			grammar:    predictiveExprGrammar,
			expectLL1:  true,
			expectSLR1: true,
		},
		{
			name:    "FIRST/FOLLOW clash",
			grammar: followClashGrammar,
		},
		{
			name:    "duplicate alternatives",
			grammar: "S -> a | a",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := grammar.MustParse(tc.grammar)

			ll := NewLL1Parser(g)
			slr := NewSLRParser(g)

			assert.Equal(tc.expectLL1, ll.IsConflictFree(), "LL(1)")
			assert.Equal(tc.expectLL1, len(ll.LL1Table().Conflicts()) == 0)
			assert.Equal(tc.expectSLR1, slr.IsConflictFree(), "SLR(1)")
			assert.Equal(tc.expectSLR1, len(slr.SLRTable().Conflicts()) == 0)
		})
	}
}

func Test_LL1Table_Conflicts(t *testing.T) {
	assert := assert.New(t)

	g := grammar.MustParse(ambiguousSumGrammar)
	table := NewLL1Parser(g).LL1Table()

	conflicts := table.Conflicts()
	if !assert.Len(conflicts, 1) {
		return
	}
	assert.Equal("M[E, id]: E -> E + E / E -> id", conflicts[0].String())
}

func Test_LL1Table_Get(t *testing.T) {
	assert := assert.New(t)

	g := grammar.MustParse(balancedParenGrammar)
	table := NewLL1Parser(g).LL1Table()

	c := table.Get("S", grammar.T("("))
	assert.Equal(CellFilled, c.State)
	assert.Equal(0, c.Value)

	c = table.Get("S", grammar.T(")"))
	assert.Equal(CellFilled, c.State)
	assert.Equal(1, c.Value)

	c = table.Get("S", grammar.EndMarker)
	assert.Equal(CellFilled, c.State)
	assert.Equal(1, c.Value)

	assert.Equal(CellUnset, table.Get("S", grammar.T("x")).State)
	assert.Contains(table.String(), "( S )")
}

func Test_SLRTable_Conflicts(t *testing.T) {
	assert := assert.New(t)

	g := grammar.MustParse(ambiguousSumGrammar)
	table := NewSLRParser(g).SLRTable()

	conflicts := table.Conflicts()
	if !assert.NotEmpty(conflicts) {
		return
	}

	found := false
	for _, c := range conflicts {
		if c.Symbol == grammar.T("+") {
			found = true
			assert.Equal("ACTION", c.Table)
			assert.Contains(c.Candidates, "rE -> E + E")
		}
	}
	assert.True(found, "expected shift/reduce conflict on '+'")
}

func Test_SLRTable_singleAccept(t *testing.T) {
	grammars := []string{
		nullableChainGrammar,
		balancedParenGrammar,
		leftRecursiveExprGrammar,
		predictiveExprGrammar,
	}

	for _, gr := range grammars {
		t.Run(gr, func(t *testing.T) {
			assert := assert.New(t)

			table := BuildSLRTable(grammar.MustParse(gr))

			var accepts int
			for _, state := range table.Automaton().States {
				for _, a := range table.columns() {
					for _, act := range table.Action(state.ID, a).Candidates {
						if act.Type == LRAccept {
							accepts++
							assert.Equal(grammar.EndMarker, a)
							assert.True(state.Has(grammar.ItemKey{NonTerminal: table.Augmented().StartSymbol(), Index: 0, Dot: 1}))
						}
					}
				}
			}
			assert.Equal(1, accepts)
		})
	}
}

func Test_SLRTable_String(t *testing.T) {
	assert := assert.New(t)

	table := BuildSLRTable(grammar.MustParse(balancedParenGrammar))
	actual := table.String()

	assert.Contains(actual, "A:(")
	assert.Contains(actual, "A:$")
	assert.Contains(actual, "G:S")
	assert.NotContains(actual, "G:S'")
	assert.Contains(actual, "acc")
	assert.Contains(actual, "rS -> ( S )")
}

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name      string
		grammar   string
		algorithm Algorithm
		accept    []string
		reject    []string
	}{
		{
			name:      "LL(1) nullable chain",
			grammar:   nullableChainGrammar,
			algorithm: LL1,
			accept:    []string{"aa", "aa$", "", "a"},
			reject:    []string{"ab", "b", "a$a"},
		},
		{
			name:      "SLR(1) nullable chain",
			grammar:   nullableChainGrammar,
			algorithm: SLR1,
			accept:    []string{"aa", "aa$", "", "a"},
			reject:    []string{"ab", "b", "a$a"},
		},
		{
			name:      "LL(1) balanced parens",
			grammar:   balancedParenGrammar,
			algorithm: LL1,
			accept:    []string{"(())", "()", ""},
			reject:    []string{"(()", "())", ")(", "()()"},
		},
		{
			name:      "SLR(1) balanced parens",
			grammar:   balancedParenGrammar,
			algorithm: SLR1,
			accept:    []string{"(())", "(())$", "()", ""},
			reject:    []string{"(()", "())", ")(", "()()"},
		},
		{
			name:      "SLR(1) left recursive expressions",
			grammar:   leftRecursiveExprGrammar,
			algorithm: SLR1,
			accept:    []string{"id+id*id", "(id+id)*id", "id", "id * ( id )"},
			reject:    []string{"id+*id", "(id", "", "id id"},
		},
		{
			name:      "LL(1) predictive expressions",
			grammar:   predictiveExprGrammar,
			algorithm: LL1,
			accept:    []string{"id+id*id", "(id+id)*id", "id"},
			reject:    []string{"id+*id", "(id", "", "id)"},
		},
		{
			name:      "SLR(1) predictive expressions",
			grammar:   predictiveExprGrammar,
			algorithm: SLR1,
			accept:    []string{"id+id*id", "(id+id)*id", "id"},
			reject:    []string{"id+*id", "(id", "", "id)"},
		},
		{
			name:      "LL(1) refuses a conflicting table",
			grammar:   ambiguousSumGrammar,
			algorithm: LL1,
			reject:    []string{"id", "id+id"},
		},
		{
			name:      "SLR(1) refuses a conflicting table",
			grammar:   ambiguousSumGrammar,
			algorithm: SLR1,
			reject:    []string{"id", "id+id"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := grammar.MustParse(tc.grammar)

			var p Parser
			if tc.algorithm == LL1 {
				p = NewLL1Parser(g)
			} else {
				p = NewSLRParser(g)
			}
			assert.Equal(tc.algorithm, p.Algorithm())

			for _, s := range tc.accept {
				assert.True(p.ParseString(s), "expected %q to be accepted", s)
			}
			for _, s := range tc.reject {
				assert.False(p.ParseString(s), "expected %q to be rejected", s)
			}
		})
	}
}

func Test_SLRParser_finalStack(t *testing.T) {
	testCases := []struct {
		name    string
		grammar string
		input   string
		expect  string
	}{
		{
			name:    "balanced parens",
			grammar: balancedParenGrammar,
			input:   "(())",
			expect:  "0 S 2",
		},
		{
			name:    "nullable chain",
			grammar: nullableChainGrammar,
			input:   "aa",
			expect:  "0 S 2",
		},
		{
			name:    "empty input",
			grammar: balancedParenGrammar,
			input:   "",
			expect:  "0 S 2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := grammar.MustParse(tc.grammar)
			p := NewSLRParser(g)

			stack, ok := p.parse(g.Tokenize(tc.input))

			assert.True(ok)
			entries := stack.Elements()
			if !assert.Len(entries, 3) {
				return
			}
			assert.Equal(tc.expect, entries[0].String()+" "+entries[1].String()+" "+entries[2].String())

			accepting := p.SLRTable().Action(entries[2].state, grammar.EndMarker)
			assert.Equal(CellFilled, accepting.State)
			assert.Equal(LRAccept, accepting.Value.Type)
		})
	}
}

func Test_Parser_trace(t *testing.T) {
	assert := assert.New(t)

	g := grammar.MustParse(balancedParenGrammar)

	for _, p := range []Parser{NewLL1Parser(g), NewSLRParser(g)} {
		var lines []string
		p.RegisterTraceListener(func(s string) { lines = append(lines, s) })

		assert.True(p.ParseString("()"))
		assert.NotEmpty(lines, "%s should trace", p.Algorithm())

		p.RegisterTraceListener(nil)
		count := len(lines)
		p.ParseString("()")
		assert.Len(lines, count, "%s should stop tracing", p.Algorithm())
	}
}

func Test_Parse_symbols(t *testing.T) {
	assert := assert.New(t)

	g := grammar.MustParse(nullableChainGrammar)
	a := grammar.T("a")

	ll := NewLL1Parser(g)
	slr := NewSLRParser(g)

	assert.True(ll.Parse([]grammar.Symbol{a, a}))
	assert.True(slr.Parse([]grammar.Symbol{a, a, grammar.EndMarker}))

	// a nonterminal in the input is never matched by a terminal
	assert.False(ll.Parse([]grammar.Symbol{grammar.NT("A")}))
	assert.False(slr.Parse([]grammar.Symbol{grammar.NT("A")}))
}
