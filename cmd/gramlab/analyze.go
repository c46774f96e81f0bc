package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeFlags = struct {
	strict *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "analyze <grammar file path>",
		Short:   "Print the sets, tables, and conflicts of a grammar",
		Example: `  gramlab analyze expr.gram`,
		Args:    cobra.ExactArgs(1),
		RunE:    runAnalyze,
	}
	analyzeFlags.strict = cmd.Flags().Bool("strict", false, "exit with an error status if the grammar is neither LL(1) nor SLR(1)")
	rootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	f, err := loadGrammar(args[0])
	if err != nil {
		returnCode = ExitInitError
		return err
	}

	a := analyzeGrammar(f)
	fmt.Fprint(cmd.OutOrStdout(), a.Report())

	if *analyzeFlags.strict && !a.IsLL1() && !a.IsSLR1() {
		returnCode = ExitNotDeterministic
		return fmt.Errorf("%s is neither LL(1) nor SLR(1)", f.Path)
	}
	return nil
}
