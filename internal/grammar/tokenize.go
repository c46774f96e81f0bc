package grammar

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Tokenize splits input text into terminal symbols of g for parsing. The text
// is NFC-normalized first. If it contains whitespace it is split on
// whitespace; otherwise it is split by longest match against the terminals of
// g, falling back to a single rune when no terminal matches. A "$" token
// becomes the EndMarker.
func (g Grammar) Tokenize(input string) []Symbol {
	input = norm.NFC.String(strings.TrimSpace(input))

	var words []string
	if strings.IndexFunc(input, unicode.IsSpace) >= 0 {
		words = strings.Fields(input)
	} else {
		words = g.munch(input)
	}

	toks := make([]Symbol, len(words))
	for i, w := range words {
		if w == EndMarker.Name {
			toks[i] = EndMarker
		} else {
			toks[i] = T(w)
		}
	}
	return toks
}

// munch splits s by repeatedly taking the longest terminal of g that prefixes
// the remaining text.
func (g Grammar) munch(s string) []string {
	var words []string

	for len(s) > 0 {
		best := ""
		for _, t := range g.terminals {
			if len(t) > len(best) && strings.HasPrefix(s, t) {
				best = t
			}
		}
		if best == "" {
			_, size := utf8.DecodeRuneInString(s)
			best = s[:size]
		}
		words = append(words, best)
		s = s[len(best):]
	}

	return words
}
