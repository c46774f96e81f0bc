package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grammar_AddProduction(t *testing.T) {
	assert := assert.New(t)

	var g Grammar
	g.AddProduction("S", Production{T("a"), NT("A")}, Production{T("b")})
	g.AddProduction("A", Production{Epsilon})
	g.AddProduction("S", Production{NT("B"), Epsilon, T("c")})

	assert.Equal([]string{"S", "A", "B"}, g.NonTerminals())
	assert.Equal([]string{"a", "b", "c"}, g.Terminals())

	s := g.Rule("S")
	assert.Len(s.Productions, 3, "alternatives must accumulate")
	assert.Equal("B c", s.Productions[2].String(), "epsilon mixed with symbols must be dropped")

	assert.True(g.Rule("A").Productions[0].IsEpsilon())
	assert.Empty(g.Rule("B").Productions, "forward reference registers nonterminal without productions")
	assert.Equal("", g.Rule("C").NonTerminal)

	assert.Panics(func() { g.AddProduction("", Production{T("a")}) })
}

func Test_Grammar_StartSymbol(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		start  string
		expect string
	}{
		{
			name:   "S is the default when defined",
			input:  "A -> a ; S -> A",
			expect: "S",
		},
		{
			name:   "first nonterminal when there is no S",
			input:  "E -> T ; T -> id",
			expect: "E",
		},
		{
			name:   "explicit start wins",
			input:  "S -> A ; A -> a",
			start:  "A",
			expect: "A",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)
			g.Start = tc.start

			assert.Equal(tc.expect, g.StartSymbol())
		})
	}
}

func Test_Grammar_Augmented(t *testing.T) {
	assert := assert.New(t)

	g := MustParse("S -> ( S ) | ε")
	aug := g.Augmented()

	assert.Equal("S'", aug.StartSymbol())
	assert.Equal(Production{NT("S")}, aug.Production("S'", 0))
	assert.Equal(g.Rule("S"), aug.Rule("S"), "original productions must be unchanged")
	assert.False(g.IsNonTerminal("S'"), "original grammar must not be modified")

	// a grammar already using S' gets a fresh name
	g2 := MustParse("S' -> S ; S -> a")
	g2.Start = "S"
	assert.Equal("S''", g2.Augmented().StartSymbol())
}

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		grammar   func() Grammar
		expectErr bool
	}{
		{
			name:      "empty grammar",
			grammar:   func() Grammar { return Grammar{} },
			expectErr: true,
		},
		{
			name: "complete grammar",
			grammar: func() Grammar {
				return MustParse("S -> A b ; A -> a | ε")
			},
		},
		{
			name: "undefined nonterminal",
			grammar: func() Grammar {
				return MustParse("S -> A b")
			},
			expectErr: true,
		},
		{
			name: "start symbol without productions",
			grammar: func() Grammar {
				g := MustParse("A -> a")
				g.Start = "S"
				return g
			},
			expectErr: true,
		},
		{
			name: "end marker in production",
			grammar: func() Grammar {
				var g Grammar
				g.AddProduction("S", Production{T("a"), EndMarker})
				return g
			},
			expectErr: true,
		},
		{
			name: "name used as terminal and nonterminal",
			grammar: func() Grammar {
				var g Grammar
				g.AddProduction("S", Production{T("S")})
				return g
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.grammar().Validate()

			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Grammar_String(t *testing.T) {
	assert := assert.New(t)

	g := MustParse(`
		S -> a A | ε
		A -> b
	`)

	assert.Equal("S -> a A | ε\nA -> b\n", g.String())
}

func Test_Grammar_MarshalBinary(t *testing.T) {
	assert := assert.New(t)

	g := MustParse(`
		E -> T E' ;
		E' -> + T E' | ε ;
		T -> id | ( E ) | Undefined ;
	`)
	g.Start = "E"

	data, err := g.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var decoded Grammar
	err = decoded.UnmarshalBinary(data)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(g, decoded)

	err = decoded.UnmarshalBinary(data[:len(data)/2])
	assert.Error(err)
}

func Test_LR0Item(t *testing.T) {
	assert := assert.New(t)

	g := MustParse("E -> E + T | T ; T -> id ; A -> ε")

	item := g.Item("E", 0, 0)
	assert.Equal("E -> .E + T", item.String())

	next, ok := item.Next()
	assert.True(ok)
	assert.Equal(NT("E"), next)

	item = item.Advance().Advance()
	assert.Equal("E -> E +.T", item.String())
	assert.False(item.Reducible())

	item = item.Advance()
	assert.True(item.Reducible())
	_, ok = item.Next()
	assert.False(ok)
	assert.Panics(func() { item.Advance() })

	eps := g.Item("A", 0, 0)
	assert.True(eps.Reducible(), "epsilon item is reducible with the dot at 0")
	assert.Equal("A -> .", eps.String())

	assert.Equal(ItemKey{NonTerminal: "E", Index: 1, Dot: 0}, g.Item("E", 1, 0).Key())
	assert.Negative(g.Item("E", 0, 1).Compare(g.Item("E", 1, 0)))
	assert.Zero(g.Item("T", 0, 1).Compare(g.Item("T", 0, 1)))

	assert.Len(g.InitialItems("E"), 2)
}

func Test_Grammar_Tokenize(t *testing.T) {
	g := MustParse("E -> E + T | T ; T -> id | ( E )")

	testCases := []struct {
		name   string
		input  string
		expect []Symbol
	}{
		{
			name:   "longest match without spaces",
			input:  "id+id",
			expect: []Symbol{T("id"), T("+"), T("id")},
		},
		{
			name:   "whitespace separated",
			input:  "( id ) + id",
			expect: []Symbol{T("("), T("id"), T(")"), T("+"), T("id")},
		},
		{
			name:   "explicit end marker",
			input:  "id$",
			expect: []Symbol{T("id"), EndMarker},
		},
		{
			name:   "unknown runes become single terminals",
			input:  "ix",
			expect: []Symbol{T("i"), T("x")},
		},
		{
			name:   "empty input",
			input:  "",
			expect: []Symbol{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := g.Tokenize(tc.input)

			assert.Equal(tc.expect, actual)
		})
	}
}
