// Package input contains readers that get lines of user input for the GramLab
// session from a terminal or any other input stream.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader reads one trimmed line of input at a time.
type LineReader interface {
	// ReadLine reads the next line with surrounding whitespace removed. Blank
	// lines are skipped unless AllowBlank(true) has been called.
	ReadLine() (string, error)

	// AllowBlank sets whether ReadLine may return a blank line.
	AllowBlank(allow bool)

	// SetPrompt sets the prompt shown before each line is read, if the reader
	// shows one.
	SetPrompt(p string)

	// Close releases any resources held by the reader.
	Close() error
}

// DirectLineReader implements LineReader and reads lines from any generic
// input stream directly. It can be used generically with any io.Reader but
// does not sanitize the input of control and escape sequences, and it never
// shows a prompt.
//
// DirectLineReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectLineReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveLineReader implements LineReader and reads lines from stdin
// using a go implementation of the GNU Readline library. This keeps input
// clear of all typing and editing escape sequences and enables the use of
// history. This should in general only be used when directly connected to a
// TTY for input.
//
// InteractiveLineReader should not be used directly; instead, create one with
// [NewInteractiveReader].
type InteractiveLineReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewDirectReader creates a new DirectLineReader with a buffered reader on
// the provided reader.
func NewDirectReader(r io.Reader) *DirectLineReader {
	return &DirectLineReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates a new InteractiveLineReader and initializes
// readline with the given prompt. The returned InteractiveLineReader must
// have Close() called on it before disposal to properly teardown readline
// resources.
func NewInteractiveReader(prompt string) (*InteractiveLineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveLineReader{
		rl:     rl,
		prompt: prompt,
	}, nil
}

// Close cleans up resources associated with the DirectLineReader. It does not
// close the underlying stream.
func (dlr *DirectLineReader) Close() error {
	return nil
}

// Close cleans up readline resources and other resources associated with the
// InteractiveLineReader.
func (ilr *InteractiveLineReader) Close() error {
	return ilr.rl.Close()
}

// ReadLine reads the next line from the stream. Unless blanks are allowed,
// this function blocks until a line containing non-space characters is read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. A final line without a trailing newline is still returned. If any
// other error occurs, the returned string will be empty and error will be that
// error.
func (dlr *DirectLineReader) ReadLine() (string, error) {
	for {
		line, err := dlr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line != "" || dlr.blanksAllowed {
			return line, nil
		}
	}
}

// ReadLine reads the next line from stdin. Unless blanks are allowed, this
// function blocks until a line containing non-space characters is read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (ilr *InteractiveLineReader) ReadLine() (string, error) {
	for {
		line, err := ilr.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line != "" || ilr.blanksAllowed {
			return line, nil
		}
	}
}

// AllowBlank sets whether blank lines are returned. By default they are not.
func (dlr *DirectLineReader) AllowBlank(allow bool) {
	dlr.blanksAllowed = allow
}

// AllowBlank sets whether blank lines are returned. By default they are not.
func (ilr *InteractiveLineReader) AllowBlank(allow bool) {
	ilr.blanksAllowed = allow
}

// SetPrompt does nothing; a DirectLineReader never shows a prompt.
func (dlr *DirectLineReader) SetPrompt(p string) {}

// SetPrompt updates the prompt to the given text.
func (ilr *InteractiveLineReader) SetPrompt(p string) {
	ilr.prompt = p
	ilr.rl.SetPrompt(p)
}

// GetPrompt gets the current prompt.
func (ilr *InteractiveLineReader) GetPrompt() string {
	return ilr.prompt
}
