package gramfile

import (
	"fmt"
	"strings"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/grammar"
)

// topLevelGrammarFile is the top-level structure containing all keys in a
// complete GRAMLAB 'GRAMMAR' type file.
type topLevelGrammarFile struct {
	Format   string   `toml:"format"`
	Type     string   `toml:"type"`
	Start    string   `toml:"start"`
	Notation string   `toml:"notation"`
	Text     string   `toml:"text"`
	Rules    []rule   `toml:"rules"`
	Samples  []sample `toml:"samples"`
}

type rule struct {
	NonTerminal string   `toml:"nonterminal"`
	Productions []string `toml:"productions"`
}

// toExtended gives the rule as a line of the extended notation.
func (r rule) toExtended() string {
	return fmt.Sprintf("%s -> %s", r.NonTerminal, strings.Join(r.Productions, " | "))
}

type sample struct {
	Input  string `toml:"input"`
	Accept bool   `toml:"accept"`
}

func (s sample) toSample() Sample {
	return Sample{Input: s.Input, Accept: s.Accept}
}

func (top topLevelGrammarFile) toFile() (File, error) {
	var g grammar.Grammar
	var err error

	if top.Text != "" && len(top.Rules) > 0 {
		return File{}, fmt.Errorf("give either 'text' or [[rules]], not both")
	}

	if len(top.Rules) > 0 {
		lines := make([]string, len(top.Rules))
		for i, r := range top.Rules {
			if strings.TrimSpace(r.NonTerminal) == "" {
				return File{}, fmt.Errorf("rules[%d]: nonterminal: must not be empty", i)
			}
			if len(r.Productions) == 0 {
				return File{}, fmt.Errorf("rules[%q]: productions: must list at least one production", r.NonTerminal)
			}
			lines[i] = r.toExtended()
		}
		g, err = grammar.Parse(strings.Join(lines, "\n"))
		if err != nil {
			return File{}, fmt.Errorf("rules: %w", err)
		}
	} else {
		n, err := ParseNotation(top.Notation)
		if err != nil {
			return File{}, fmt.Errorf("notation: %w", err)
		}
		if strings.TrimSpace(top.Text) == "" {
			return File{}, fmt.Errorf("no grammar given; set 'text' or add [[rules]]")
		}
		g, err = ReadText(top.Text, n)
		if err != nil {
			return File{}, fmt.Errorf("text: %w", err)
		}
	}

	if top.Start != "" {
		if !g.IsNonTerminal(top.Start) {
			return File{}, fmt.Errorf("start: no nonterminal %q in grammar", top.Start)
		}
		g.Start = top.Start
	}

	if err := g.Validate(); err != nil {
		return File{}, fmt.Errorf("grammar: %w", err)
	}

	f := File{Grammar: g}
	for _, s := range top.Samples {
		f.Samples = append(f.Samples, s.toSample())
	}

	return f, nil
}
