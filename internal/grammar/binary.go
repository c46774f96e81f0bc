package grammar

import (
	"fmt"

	"github.com/dekarrin/rezi"
)

// MarshalBinary encodes the grammar into a slice of bytes. Terminal and
// nonterminal discovery order is preserved so that a decoded grammar numbers
// its automaton states and table columns identically.
func (g Grammar) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(g.Start)...)

	data = append(data, rezi.EncInt(len(g.terminals))...)
	for _, t := range g.terminals {
		data = append(data, rezi.EncString(t)...)
	}

	data = append(data, rezi.EncInt(len(g.rules))...)
	for _, r := range g.rules {
		data = append(data, rezi.EncString(r.NonTerminal)...)
		data = append(data, rezi.EncInt(len(r.Productions))...)
		for _, p := range r.Productions {
			data = append(data, rezi.EncInt(len(p))...)
			for _, sym := range p {
				data = append(data, rezi.EncInt(int(sym.Kind))...)
				data = append(data, rezi.EncString(sym.Name)...)
			}
		}
	}

	return data, nil
}

// UnmarshalBinary decodes a grammar produced by MarshalBinary, replacing the
// contents of g.
func (g *Grammar) UnmarshalBinary(data []byte) error {
	var decoded Grammar
	var n int
	var err error

	decoded.Start, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("start symbol: %w", err)
	}
	data = data[n:]

	termCount, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("terminal count: %w", err)
	}
	data = data[n:]

	for i := 0; i < termCount; i++ {
		var t string
		t, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("terminal %d: %w", i, err)
		}
		data = data[n:]
		decoded.registerTerminal(t)
	}

	ruleCount, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("rule count: %w", err)
	}
	data = data[n:]

	for i := 0; i < ruleCount; i++ {
		var nt string
		nt, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("rule %d: nonterminal: %w", i, err)
		}
		data = data[n:]
		idx := decoded.registerNonTerminal(nt)

		var prodCount int
		prodCount, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("rule %q: production count: %w", nt, err)
		}
		data = data[n:]

		for j := 0; j < prodCount; j++ {
			var symCount int
			symCount, n, err = rezi.DecInt(data)
			if err != nil {
				return fmt.Errorf("rule %q: production %d: %w", nt, j, err)
			}
			data = data[n:]

			p := make(Production, symCount)
			for k := 0; k < symCount; k++ {
				var kind int
				kind, n, err = rezi.DecInt(data)
				if err != nil {
					return fmt.Errorf("rule %q: production %d: symbol %d: %w", nt, j, k, err)
				}
				data = data[n:]

				p[k].Kind = SymbolKind(kind)
				p[k].Name, n, err = rezi.DecString(data)
				if err != nil {
					return fmt.Errorf("rule %q: production %d: symbol %d: %w", nt, j, k, err)
				}
				data = data[n:]
			}

			decoded.rules[idx].Productions = append(decoded.rules[idx].Productions, p)
		}
	}

	*g = decoded
	return nil
}
