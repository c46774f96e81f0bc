/*
Gramlab analyzes context-free grammars and parses strings with them.

Run with no subcommand, it starts an interactive session. The session reads a
grammar in the classic format, which is a line with the number of rules
followed by that many lines of the form "A -> alt1 alt2 ...". It then says
whether the grammar is LL(1), SLR(1), both, or neither, and answers "yes" or
"no" for every string entered afterwards, one per line, until a blank line is
entered.

Usage:

	gramlab [flags]
	gramlab [command]

The flags are:

	-v/--version
		Give the current version of GramLab and then exit.

	-d/--direct
		Force reading directly from the console as opposed to using GNU readline
		based routines for reading input even if launched in a tty with stdin
		and stdout.

	--delay DURATION
		Wait the given amount of time before and after every line of output.

	--trace
		Log every step taken by the parsers to stderr.

The commands are:

	analyze FILE
		Print the FIRST and FOLLOW sets, the parse tables, the LR(0) states,
		and any conflicts of the grammar in FILE.

	parse FILE [STRING...]
		Parse each STRING with the grammar in FILE and print "yes" or "no" for
		it. Strings are read from stdin, one per line, if none are given.

	check FILE.toml
		Parse every sample listed in a GRAMLAB grammar file and report those
		whose result differs from the expected one.

Grammar files are read based on their extension: ".toml" for GRAMLAB grammar
files, ".txt" and ".gram" for the extended notation, and ".cfg" and ".ll" for
the classic format.
*/
package main

import (
	"os"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitMismatch indicates that one or more samples checked gave a result
	// other than the expected one.
	ExitMismatch

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// reading the grammar or initializing the engine.
	ExitInitError

	// ExitNotDeterministic indicates that --strict was given and the grammar
	// is neither LL(1) nor SLR(1).
	ExitNotDeterministic

	// ExitSessionError indicates an unsuccessful program execution due to a
	// problem during an interactive session.
	ExitSessionError
)

var returnCode = ExitSuccess

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(panicErr)
		} else {
			os.Exit(returnCode)
		}
	}()

	if err := execute(); err != nil && returnCode == ExitSuccess {
		returnCode = ExitInitError
	}
}
