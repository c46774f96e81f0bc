package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/input"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/parse"
)

var parseFlags = struct {
	parser *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file path> [string...]",
		Short: "Say whether each string is accepted by a grammar",
		Example: `  gramlab parse expr.gram 'id+id' 'id*'
  cat inputs.txt | gramlab parse expr.gram --parser slr1`,
		Args: cobra.MinimumNArgs(1),
		RunE: runParse,
	}
	parseFlags.parser = cmd.Flags().StringP("parser", "p", "auto", "parser to use: ll1, slr1, or auto")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	f, err := loadGrammar(args[0])
	if err != nil {
		returnCode = ExitInitError
		return err
	}

	p, err := selectParser(analyzeGrammar(f), *parseFlags.parser)
	if err != nil {
		returnCode = ExitInitError
		return err
	}
	warnIfConflicted(p)

	out := cmd.OutOrStdout()

	if len(args) > 1 {
		for _, s := range args[1:] {
			fmt.Fprintln(out, answer(p, s))
		}
		return nil
	}

	return parseLines(input.NewDirectReader(cmd.InOrStdin()), out, p)
}

// parseLines answers each non-blank line read from r until the end of input.
func parseLines(r input.LineReader, out io.Writer, p parse.Parser) error {
	defer r.Close()

	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("read input string: %w", err)
		}

		if _, err := fmt.Fprintln(out, answer(p, line)); err != nil {
			return fmt.Errorf("could not write output: %w", err)
		}
	}
}

func answer(p parse.Parser, s string) string {
	if p.ParseString(s) {
		return "yes"
	}
	return "no"
}
