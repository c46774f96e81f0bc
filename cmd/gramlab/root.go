package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	gramlab "github.com/sscalderod/ProyectoFinalLenguajesSM"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/gramfile"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/parse"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/version"
)

var rootFlags = struct {
	direct *bool
	delay  *time.Duration
	trace  *bool
	format *string
}{}

var rootCmd = &cobra.Command{
	Use:   "gramlab",
	Short: "Analyze LL(1) and SLR(1) grammars and parse strings with them",
	Long: `gramlab reads a context-free grammar and builds its LL(1) and SLR(1)
parse tables. With no command it starts an interactive session that reads a
grammar in the classic format and then answers yes or no for each string.`,
	Version:       version.Current,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runSession,
}

func init() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootFlags.direct = rootCmd.Flags().BoolP("direct", "d", false, "force reading directly from stdin instead of going through GNU readline where possible")
	rootFlags.delay = rootCmd.Flags().Duration("delay", 0, "time to wait before and after each line of output")
	rootFlags.trace = rootCmd.PersistentFlags().Bool("trace", false, "log every step taken by the parsers")
	rootFlags.format = rootCmd.PersistentFlags().String("format", "auto", "how to read grammar files: auto, toml, extended, or classic")
}

func runSession(cmd *cobra.Command, args []string) error {
	opts := gramlab.Options{
		ForceDirect: *rootFlags.direct,
		Delay:       *rootFlags.delay,
	}
	if *rootFlags.trace {
		opts.Trace = logTrace
	}

	eng, err := gramlab.New(os.Stdin, os.Stdout, opts)
	if err != nil {
		returnCode = ExitInitError
		return err
	}
	defer eng.Close()

	if err := eng.RunUntilQuit(); err != nil {
		if errors.Is(err, gramlab.ErrBadGrammar) {
			// already reported to the user by the engine
			returnCode = ExitInitError
			return nil
		}
		returnCode = ExitSessionError
		return err
	}

	return nil
}

func logTrace(s string) {
	log.Printf("DEBUG %s", s)
}

// loadGrammar reads the grammar file at path as selected by --format.
func loadGrammar(path string) (gramfile.File, error) {
	var f gramfile.File
	var err error

	switch strings.ToLower(*rootFlags.format) {
	case "", "auto":
		f, err = gramfile.Load(path)
	case "toml":
		f, err = gramfile.LoadTOML(path)
	default:
		var n gramfile.Notation
		n, err = gramfile.ParseNotation(*rootFlags.format)
		if err != nil {
			return f, fmt.Errorf("--format: %w", err)
		}
		f, err = gramfile.LoadAs(path, n)
	}

	if err != nil {
		return f, fmt.Errorf("cannot read grammar: %w", err)
	}
	return f, nil
}

// analyzeGrammar analyzes g, routing parser traces to the log if --trace was
// given.
func analyzeGrammar(f gramfile.File) gramlab.Analysis {
	a := gramlab.Analyze(f.Grammar)
	if *rootFlags.trace {
		a.LL1.RegisterTraceListener(logTrace)
		a.SLR.RegisterTraceListener(logTrace)
	}
	return a
}

// selectParser gives the parser of a named by name, which is "auto", "ll1",
// or "slr1". Auto picks the LL(1) parser if its table is conflict-free and the
// SLR(1) parser otherwise.
func selectParser(a gramlab.Analysis, name string) (parse.Parser, error) {
	if name == "" || strings.EqualFold(name, "auto") {
		return a.Preferred(), nil
	}

	alg, err := parse.ParseAlgorithm(name)
	if err != nil {
		return nil, fmt.Errorf("--parser: %w", err)
	}
	return a.Parser(alg), nil
}

// warnIfConflicted logs a warning when p will reject every string.
func warnIfConflicted(p parse.Parser) {
	if !p.IsConflictFree() {
		log.Printf("WARN  the %s table has conflicts; every string will be rejected", p.Algorithm())
	}
}

func execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
	}
	return err
}
