package gramfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Unmarshal(t *testing.T) {
	testCases := []struct {
		name          string
		data          string
		expectGrammar string
		expectStart   string
		expectSamples []Sample
		expectErr     bool
	}{
		{
			name: "extended text with samples",
			data: `
format = "GRAMLAB"
type = "GRAMMAR"
text = """
E -> E + T | T
T -> id
"""

[[samples]]
input = "id+id"
accept = true

[[samples]]
input = "id+"
accept = false
`,
			expectGrammar: "E -> E + T | T\nT -> id\n",
			expectStart:   "E",
			expectSamples: []Sample{
				{Input: "id+id", Accept: true},
				{Input: "id+", Accept: false},
			},
		},
		{
			name: "classic text",
			data: `
format = "gramlab"
type = "grammar"
notation = "classic"
text = """
2
S -> aS b
B -> e
"""
`,
			expectGrammar: "S -> a S | b\nB -> ε\n",
			expectStart:   "S",
		},
		{
			name: "rules tables with explicit start",
			data: `
format = "GRAMLAB"
type = "GRAMMAR"
start = "T"

[[rules]]
nonterminal = "E"
productions = ["T + E", "T"]

[[rules]]
nonterminal = "T"
productions = ["( E )", "id"]
`,
			expectGrammar: "E -> T + E | T\nT -> ( E ) | id\n",
			expectStart:   "T",
		},
		{
			name: "epsilon in rules",
			data: `
format = "GRAMLAB"
type = "GRAMMAR"

[[rules]]
nonterminal = "S"
productions = ["a S", "ε"]
`,
			expectGrammar: "S -> a S | ε\n",
			expectStart:   "S",
		},
		{
			name:      "missing format",
			data:      "type = \"GRAMMAR\"\ntext = \"S -> a\"\n",
			expectErr: true,
		},
		{
			name:      "wrong type",
			data:      "format = \"GRAMLAB\"\ntype = \"DATA\"\ntext = \"S -> a\"\n",
			expectErr: true,
		},
		{
			name:      "no grammar",
			data:      "format = \"GRAMLAB\"\ntype = \"GRAMMAR\"\n",
			expectErr: true,
		},
		{
			name:      "bad notation",
			data:      "format = \"GRAMLAB\"\ntype = \"GRAMMAR\"\nnotation = \"bnf\"\ntext = \"S -> a\"\n",
			expectErr: true,
		},
		{
			name:      "start not in grammar",
			data:      "format = \"GRAMLAB\"\ntype = \"GRAMMAR\"\nstart = \"X\"\ntext = \"S -> a\"\n",
			expectErr: true,
		},
		{
			name:      "undefined nonterminal",
			data:      "format = \"GRAMLAB\"\ntype = \"GRAMMAR\"\ntext = \"S -> a B\"\n",
			expectErr: true,
		},
		{
			name: "text and rules both given",
			data: `
format = "GRAMLAB"
type = "GRAMMAR"
text = "S -> a"

[[rules]]
nonterminal = "S"
productions = ["b"]
`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Unmarshal([]byte(tc.data))
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expectGrammar, actual.Grammar.String())
			assert.Equal(tc.expectStart, actual.Grammar.StartSymbol())
			assert.Equal(tc.expectSamples, actual.Samples)
		})
	}
}

func Test_ScanFileInfo(t *testing.T) {
	assert := assert.New(t)

	info, err := ScanFileInfo([]byte("format = \"GRAMLAB\"\ntype = \"GRAMMAR\"\n\n[[rules]]\nnonterminal = 5\n"))
	if !assert.NoError(err) {
		return
	}

	assert.Equal(FileInfo{Format: "GRAMLAB", Type: "GRAMMAR"}, info)
}

func Test_Load(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	testCases := []struct {
		name          string
		file          string
		content       string
		expectGrammar string
		expectErr     error
		expectAnyErr  bool
	}{
		{
			name:          "toml",
			file:          "expr.toml",
			content:       "format = \"GRAMLAB\"\ntype = \"GRAMMAR\"\ntext = \"S -> ( S ) | ε\"\n",
			expectGrammar: "S -> ( S ) | ε\n",
		},
		{
			name:          "extended text",
			file:          "expr.gram",
			content:       "E -> E + T | T ; T -> id\n",
			expectGrammar: "E -> E + T | T\nT -> id\n",
		},
		{
			name:          "txt is extended",
			file:          "expr.txt",
			content:       "S -> a S | b\n",
			expectGrammar: "S -> a S | b\n",
		},
		{
			name:          "classic",
			file:          "expr.cfg",
			content:       "1\nS -> (S) e\n",
			expectGrammar: "S -> ( S ) | ε\n",
		},
		{
			name:          "ll is classic",
			file:          "expr.ll",
			content:       "1\nS -> ab\n",
			expectGrammar: "S -> a b\n",
		},
		{
			name:      "unknown extension",
			file:      "expr.yaml",
			content:   "S -> a\n",
			expectErr: ErrUnknownExtension,
		},
		{
			name:         "syntax error",
			file:         "bad.gram",
			content:      "-> a\n",
			expectAnyErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			p := write(tc.file, tc.content)

			actual, err := Load(p)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if tc.expectAnyErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(p, actual.Path)
			assert.Equal(tc.expectGrammar, actual.Grammar.String())
		})
	}
}

func Test_Load_missingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
