// Package gramlab contains the grammar analysis entry point and a CLI-driven
// engine that reads a grammar and input strings from a session and answers
// whether each string is accepted.
package gramlab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/gramerr"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/grammar"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/input"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/parse"
)

// MenuPrompt is shown when the grammar is both LL(1) and SLR(1).
const MenuPrompt = "Select a parser (T: for LL(1), B: for SLR(1), Q: quit):"

// ErrBadGrammar is wrapped by the error RunUntilQuit returns when the grammar
// read from the session could not be used. The message has already been
// written to the output stream by then.
var ErrBadGrammar = errors.New("bad grammar")

// Options are settings for a session Engine.
type Options struct {
	// ForceDirect disables readline even when attached to a terminal.
	ForceDirect bool

	// Delay is how long to wait before and after each line of output.
	Delay time.Duration

	// Trace, if set, receives every step taken by the parsers.
	Trace func(s string)
}

// Engine contains the things needed to run a grammar session from an
// interactive shell attached to an input stream and an output stream.
type Engine struct {
	in      input.LineReader
	out     *bufio.Writer
	opts    Options
	running bool
}

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and a
// buffered writer on the output stream.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used. Readline is used only when both are the
// standard streams and opts.ForceDirect is not set.
func New(inputStream io.Reader, outputStream io.Writer, opts Options) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	eng := &Engine{
		out:  bufio.NewWriter(outputStream),
		opts: opts,
	}

	useReadline := !opts.ForceDirect && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var err error
		eng.in, err = input.NewInteractiveReader("")
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close line reader: %w", err)
	}

	return nil
}

func (eng *Engine) pause() {
	if eng.opts.Delay > 0 {
		time.Sleep(eng.opts.Delay)
	}
}

// say writes one line of output, with the configured delay before and after.
func (eng *Engine) say(line string) error {
	eng.pause()
	if _, err := eng.out.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	eng.pause()
	return nil
}

// RunUntilQuit reads a grammar in the classic format from the input stream,
// reports which parsers can be used with it, and then answers "yes" or "no"
// for each input string until a blank line, the end of input, or Q at the
// parser menu.
func (eng *Engine) RunUntilQuit() error {
	eng.running = true
	defer func() {
		eng.running = false
	}()

	g, err := eng.readGrammar()
	if err != nil {
		if errors.Is(err, gramerr.ErrSyntax) || errors.Is(err, io.EOF) {
			if sayErr := eng.say("Error: " + gramerr.UserMessage(err)); sayErr != nil {
				return sayErr
			}
			return fmt.Errorf("%w: %v", ErrBadGrammar, err)
		}
		return err
	}

	a := Analyze(g)
	if eng.opts.Trace != nil {
		a.LL1.RegisterTraceListener(eng.opts.Trace)
		a.SLR.RegisterTraceListener(eng.opts.Trace)
	}

	switch a.Verdict() {
	case VerdictBoth:
		return eng.menu(a)
	case VerdictLL1:
		if err := eng.say(VerdictLL1); err != nil {
			return err
		}
		return eng.parseStrings(a.LL1)
	case VerdictSLR1:
		if err := eng.say(VerdictSLR1); err != nil {
			return err
		}
		return eng.parseStrings(a.SLR)
	default:
		return eng.say(VerdictNeither)
	}
}

func (eng *Engine) readGrammar() (grammar.Grammar, error) {
	eng.in.AllowBlank(false)
	countLine, err := eng.in.ReadLine()
	if err == io.EOF {
		return grammar.Grammar{}, gramerr.Wrap(err, "no grammar given", "")
	} else if err != nil {
		return grammar.Grammar{}, fmt.Errorf("read rule count: %w", err)
	}

	count, err := strconv.Atoi(countLine)
	if err != nil || count < 1 {
		return grammar.Grammar{}, gramerr.Syntaxf(1, "first line must be the number of rules, not %q", countLine)
	}

	var lines []string
	eng.in.AllowBlank(true)
	defer eng.in.AllowBlank(false)
	for len(lines) < count {
		line, err := eng.in.ReadLine()
		if err == io.EOF {
			break
		} else if err != nil {
			return grammar.Grammar{}, fmt.Errorf("read rule line: %w", err)
		}
		lines = append(lines, line)
	}

	return grammar.ReadClassicRules(lines, count, 2)
}

func (eng *Engine) menu(a Analysis) error {
	defer eng.in.AllowBlank(false)

	for {
		eng.in.AllowBlank(true)
		if err := eng.say(MenuPrompt); err != nil {
			return err
		}

		choice, err := eng.in.ReadLine()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("read parser choice: %w", err)
		}

		switch choice {
		case "Q":
			return nil
		case "T":
			err = eng.parseStrings(a.Parser(parse.LL1))
		case "B":
			err = eng.parseStrings(a.Parser(parse.SLR1))
		}
		if err != nil {
			return err
		}
	}
}

// parseStrings reads strings one per line and answers each with yes or no
// until a blank line or the end of input.
func (eng *Engine) parseStrings(p parse.Parser) error {
	eng.in.AllowBlank(true)
	defer eng.in.AllowBlank(false)

	for {
		line, err := eng.in.ReadLine()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("read input string: %w", err)
		}

		if line == "" {
			return nil
		}

		answer := "no"
		if p.ParseString(line) {
			answer = "yes"
		}
		if err := eng.say(answer); err != nil {
			return err
		}
	}
}
