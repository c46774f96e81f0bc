// Package gramerr contains errors raised while reading grammar text or other
// user-supplied input. Each carries a human-readable message meant to be shown
// to whoever wrote the input, as well as a more technical Error() message.
package gramerr

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by errors.Is for every error created by Syntax and
// Syntaxf.
var ErrSyntax = errors.New("syntax error")

type inputError struct {
	msg   string
	human string
	line  int
	wrap  error
}

func (e *inputError) Error() string {
	return e.msg
}

// UserMessage gives the message to show to the author of the input. If the
// error is tied to a line, the line number is prefixed.
func (e *inputError) UserMessage() string {
	if e.line > 0 {
		return fmt.Sprintf("line %d: %s", e.line, e.human)
	}
	return e.human
}

// Line returns the 1-based line of input the error refers to, or 0 if it is
// not tied to a line.
func (e *inputError) Line() int {
	return e.line
}

func (e *inputError) Unwrap() error {
	return e.wrap
}

// Syntax returns an error for malformed input at the given 1-based line (0 if
// no line applies). If technical is empty, one is generated from human.
func Syntax(line int, human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("syntax error at line %d: %s", line, human)
	}
	return &inputError{
		msg:   technical,
		human: human,
		line:  line,
		wrap:  ErrSyntax,
	}
}

// Syntaxf is Syntax with a generated technical message and a human message
// built from a format string and its arguments.
func Syntaxf(line int, humanFormat string, a ...interface{}) error {
	return Syntax(line, fmt.Sprintf(humanFormat, a...), "")
}

// Wrap returns a new error with the message to show the user and the
// technical description, which wraps e.
func Wrap(e error, human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("%s: %v", human, e)
	}
	return &inputError{
		msg:   technical,
		human: human,
		wrap:  e,
	}
}

// Wrapf returns a new error that wraps e with a human message built from a
// format string and an automatically generated technical message.
func Wrapf(e error, humanFormat string, a ...interface{}) error {
	return Wrap(e, fmt.Sprintf(humanFormat, a...), "")
}

// UserMessage gets the message to display for the given error. If err is or
// wraps one of the types defined in gramerr, its user message is returned.
// Otherwise, err.Error() is returned.
func UserMessage(err error) string {
	var inErr *inputError
	if errors.As(err, &inErr) {
		return inErr.UserMessage()
	}
	return err.Error()
}

// Line gives the line number err refers to, or 0 if it does not refer to one.
func Line(err error) int {
	var inErr *inputError
	if errors.As(err, &inErr) {
		return inErr.Line()
	}
	return 0
}
