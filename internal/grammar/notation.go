package grammar

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/gramerr"
	lex "github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
	"golang.org/x/text/unicode/norm"
)

// token types of the extended notation.
const (
	tokArrow = iota
	tokAlt
	tokRuleEnd
	tokNewline
	tokSymbol
)

var (
	notationLexer     *lex.Lexer
	notationLexerErr  error
	notationLexerOnce sync.Once
)

func getNotationLexer() (*lex.Lexer, error) {
	notationLexerOnce.Do(func() {
		lexer := lex.NewLexer()

		lexer.Add([]byte(`->`), makeToken(tokArrow))
		lexer.Add([]byte(`\|`), makeToken(tokAlt))
		lexer.Add([]byte(`;`), makeToken(tokRuleEnd))
		lexer.Add([]byte("\n"), makeToken(tokNewline))
		lexer.Add([]byte("[ \t\r]+"), skipToken)
		lexer.Add([]byte("#[^\n]*"), skipToken)
		lexer.Add([]byte("[^ \t\r\n|;#]+"), makeToken(tokSymbol))

		notationLexerErr = lexer.Compile()
		notationLexer = lexer
	})
	return notationLexer, notationLexerErr
}

func makeToken(id int) lex.Action {
	return func(s *lex.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

func skipToken(*lex.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MustParse is Parse but panics on error. It is intended for grammars given as
// literals, such as in tests.
func MustParse(gr string) Grammar {
	g, err := Parse(gr)
	if err != nil {
		panic(err.Error())
	}
	return g
}

// Parse reads a grammar written in the extended notation:
//
//	E -> E + T | T ;
//	T -> ( E )
//	   | id
//
// Symbols are separated by whitespace and may be several characters long. A
// symbol whose first rune is uppercase is a nonterminal; "ε" or "epsilon"
// denotes the empty string, as does an empty alternative. A rule ends at ";"
// or at the end of its line, and a line beginning with "|" continues the rule
// above it. "#" starts a comment that runs to the end of the line.
//
// The returned error, if any, can be examined with gramerr.UserMessage and
// gramerr.Line.
func Parse(gr string) (Grammar, error) {
	lexer, err := getNotationLexer()
	if err != nil {
		return Grammar{}, fmt.Errorf("compile notation lexer: %w", err)
	}

	scanner, err := lexer.Scanner([]byte(norm.NFC.String(gr)))
	if err != nil {
		return Grammar{}, fmt.Errorf("start notation scanner: %w", err)
	}

	var toks []*lex.Token
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if ui, ok := err.(*machines.UnconsumedInput); ok {
			return Grammar{}, gramerr.Syntaxf(ui.FailLine, "unexpected input at column %d", ui.FailColumn)
		} else if err != nil {
			return Grammar{}, fmt.Errorf("scan grammar: %w", err)
		}
		toks = append(toks, tok.(*lex.Token))
	}

	p := &notationParser{toks: toks}
	return p.parse()
}

type notationParser struct {
	toks []*lex.Token
	pos  int

	g    Grammar
	head string
	alts []Production
	cur  Production

	// whether a line break or ';' separates the current position from the
	// last symbol of the open rule.
	brokeLine bool
}

func (p *notationParser) peek(offset int) *lex.Token {
	if p.pos+offset >= len(p.toks) {
		return nil
	}
	return p.toks[p.pos+offset]
}

func (p *notationParser) parse() (Grammar, error) {
	for ; p.pos < len(p.toks); p.pos++ {
		tok := p.toks[p.pos]

		switch tok.Type {
		case tokSymbol:
			next := p.peek(1)
			startsRule := next != nil && next.Type == tokArrow
			if startsRule {
				if p.head != "" {
					if !p.brokeLine {
						return Grammar{}, gramerr.Syntaxf(tok.StartLine, "missing ';' or line break before the rule for %q", tok.Value)
					}
					p.finishRule()
				}
				if err := p.openRule(tok); err != nil {
					return Grammar{}, err
				}
				p.pos++
				continue
			}

			if p.head == "" {
				return Grammar{}, gramerr.Syntaxf(tok.StartLine, "expected a rule of the form 'NONTERM -> SYMBOLS' but got %q", tok.Value)
			}
			sym := ClassifySymbol(tok.Value.(string))
			if sym.IsEndMarker() {
				return Grammar{}, gramerr.Syntax(tok.StartLine, "the end marker '$' cannot appear in a production", "")
			}
			p.cur = append(p.cur, sym)
			p.brokeLine = false
		case tokArrow:
			return Grammar{}, gramerr.Syntax(tok.StartLine, "unexpected '->'; the left side of a rule must be a single nonterminal", "")
		case tokAlt:
			if p.head == "" {
				return Grammar{}, gramerr.Syntax(tok.StartLine, "unexpected '|' outside of a rule", "")
			}
			p.alts = append(p.alts, p.cur)
			p.cur = nil
			p.brokeLine = false
		case tokRuleEnd:
			if p.head != "" {
				p.finishRule()
			}
		case tokNewline:
			if p.head != "" {
				p.brokeLine = true
			}
		}
	}

	if p.head != "" {
		p.finishRule()
	}

	if len(p.g.rules) == 0 {
		return Grammar{}, gramerr.Syntax(0, "no rules given", "grammar text has no rules")
	}

	return p.g, nil
}

func (p *notationParser) openRule(tok *lex.Token) error {
	name := tok.Value.(string)
	if !ClassifySymbol(name).IsNonTerminal() {
		return gramerr.Syntaxf(tok.StartLine, "left side of a rule must be a nonterminal starting with an uppercase letter, not %q", name)
	}
	p.head = name
	p.alts = nil
	p.cur = nil
	p.brokeLine = false
	return nil
}

func (p *notationParser) finishRule() {
	p.alts = append(p.alts, p.cur)
	p.g.AddProduction(p.head, p.alts...)
	p.head = ""
	p.alts = nil
	p.cur = nil
	p.brokeLine = false
}

// MustParseClassic is ParseClassic but panics on error.
func MustParseClassic(text string) Grammar {
	g, err := ParseClassic(text)
	if err != nil {
		panic(err.Error())
	}
	return g
}

// ParseClassic reads a grammar in the classic format. The first non-blank
// line is the number N of rule lines that follow, and each of the next N lines
// has the form:
//
//	A -> alt1 alt2 ...
//
// Alternatives are separated by whitespace and every rune of an alternative
// is one symbol: uppercase letters are nonterminals, 'e' is epsilon, and any
// other rune is a terminal.
func ParseClassic(text string) (Grammar, error) {
	lines := strings.Split(norm.NFC.String(text), "\n")

	cur := 0
	for cur < len(lines) && strings.TrimSpace(lines[cur]) == "" {
		cur++
	}
	if cur >= len(lines) {
		return Grammar{}, gramerr.Syntax(0, "no rule count given", "classic grammar text is empty")
	}

	count, err := strconv.Atoi(strings.TrimSpace(lines[cur]))
	if err != nil || count < 1 {
		return Grammar{}, gramerr.Syntaxf(cur+1, "first line must be the number of rules, not %q", strings.TrimSpace(lines[cur]))
	}
	cur++

	ruleLines := lines[cur:]
	return ReadClassicRules(ruleLines, count, cur+1)
}

// ReadClassicRules reads count rule lines of the classic format from lines.
// firstLine is the line number of lines[0], used in error messages.
func ReadClassicRules(lines []string, count int, firstLine int) (Grammar, error) {
	if len(lines) < count {
		return Grammar{}, gramerr.Syntaxf(firstLine+len(lines), "expected %d rule lines but got %d", count, len(lines))
	}

	var g Grammar
	for i := 0; i < count; i++ {
		lineNum := firstLine + i
		line := strings.TrimSpace(lines[i])

		parts := strings.SplitN(line, "->", 2)
		if len(parts) != 2 {
			return Grammar{}, gramerr.Syntaxf(lineNum, "not a rule of the form 'A -> alt1 alt2 ...': %q", line)
		}

		nonTerminal := strings.TrimSpace(parts[0])
		if nonTerminal == "" {
			return Grammar{}, gramerr.Syntax(lineNum, "empty nonterminal on left side of rule", "")
		}

		altStrs := strings.Fields(parts[1])
		if len(altStrs) == 0 {
			return Grammar{}, gramerr.Syntaxf(lineNum, "no alternatives given for %q", nonTerminal)
		}

		alts := make([]Production, len(altStrs))
		for j, a := range altStrs {
			for _, r := range a {
				sym := classicSymbol(r)
				if sym.IsEndMarker() {
					return Grammar{}, gramerr.Syntax(lineNum, "the end marker '$' cannot appear in a production", "")
				}
				alts[j] = append(alts[j], sym)
			}
		}

		g.AddProduction(nonTerminal, alts...)
	}

	return g, nil
}
