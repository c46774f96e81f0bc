package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/gramfile"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/parse"
)

var checkFlags = struct {
	parser *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "check <grammar file path>",
		Short:   "Check a grammar against the samples listed in its file",
		Example: `  gramlab check expr.toml`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCheck,
	}
	checkFlags.parser = cmd.Flags().StringP("parser", "p", "auto", "parser to use: ll1, slr1, or auto")
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	f, err := gramfile.LoadTOML(args[0])
	if err != nil {
		returnCode = ExitInitError
		return fmt.Errorf("cannot read grammar: %w", err)
	}
	if len(f.Samples) == 0 {
		returnCode = ExitInitError
		return fmt.Errorf("%s does not list any [[samples]]", f.Path)
	}

	p, err := selectParser(analyzeGrammar(f), *checkFlags.parser)
	if err != nil {
		returnCode = ExitInitError
		return err
	}
	warnIfConflicted(p)

	failed := checkSamples(cmd.OutOrStdout(), p, f.Samples)
	if failed > 0 {
		returnCode = ExitMismatch
		return fmt.Errorf("%d of %d samples did not match", failed, len(f.Samples))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "all %d samples passed with %s\n", len(f.Samples), p.Algorithm())
	return nil
}

// checkSamples parses every sample with p, writes one result line per sample
// to w, and returns the number of samples whose result was not the expected
// one.
func checkSamples(w io.Writer, p parse.Parser, samples []gramfile.Sample) int {
	var failed int
	for _, s := range samples {
		accepted := p.ParseString(s.Input)
		if accepted == s.Accept {
			fmt.Fprintf(w, "PASS  %q\n", s.Input)
			continue
		}

		failed++
		fmt.Fprintf(w, "FAIL  %q: expected %s, got %s\n", s.Input, verdictWord(s.Accept), verdictWord(accepted))
	}
	return failed
}

func verdictWord(accept bool) string {
	if accept {
		return "accept"
	}
	return "reject"
}
