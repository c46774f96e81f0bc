// Package gramfile has functions for loading grammars from files on disk. It
// reads the GRAMLAB grammar file format, a TOML-based format that gives a
// grammar together with sample strings to check it against, as well as plain
// text files in either of the grammar notations.
package gramfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/grammar"
)

// FormatName is the value of the format key every GRAMLAB file must have.
const FormatName = "GRAMLAB"

// TypeGrammar is the value of the type key for files that define a grammar.
const TypeGrammar = "GRAMMAR"

// Notation is a text notation a grammar can be written in.
type Notation string

const (
	NotationExtended Notation = "extended"
	NotationClassic  Notation = "classic"
)

var (
	// ErrUnknownExtension is returned by Load when the file extension does not
	// say how the file should be read.
	ErrUnknownExtension = errors.New("unknown grammar file extension")

	// ErrNotGramlab is returned when a TOML file is missing the
	// format = "GRAMLAB" entry.
	ErrNotGramlab = errors.New("file does not have a 'format = \"GRAMLAB\"' entry")
)

// Sample is a string listed in a grammar file along with whether the grammar
// is expected to accept it.
type Sample struct {
	Input  string
	Accept bool
}

// File is a grammar loaded from disk.
type File struct {
	// Path is the path the file was loaded from.
	Path string

	Grammar grammar.Grammar

	// Samples is empty for anything other than a TOML grammar file.
	Samples []Sample
}

// FileInfo contains the essential information all GRAMLAB format files must
// contain. It can be obtained from a file by reading it into memory and calling
// ScanFileInfo on the bytes.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// ParseNotation gives the Notation with the given name. Case is ignored and
// the empty string is taken to mean NotationExtended.
func ParseNotation(s string) (Notation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(NotationExtended):
		return NotationExtended, nil
	case string(NotationClassic):
		return NotationClassic, nil
	default:
		return "", fmt.Errorf("not a grammar notation: %q", s)
	}
}

// ReadText parses grammar text written in the given notation.
func ReadText(text string, n Notation) (grammar.Grammar, error) {
	switch n {
	case NotationClassic:
		return grammar.ParseClassic(text)
	case NotationExtended, "":
		return grammar.Parse(text)
	default:
		return grammar.Grammar{}, fmt.Errorf("not a grammar notation: %q", string(n))
	}
}

// Load loads a grammar from the file at path. The extension decides how it is
// read: ".toml" files are GRAMLAB grammar files, ".txt" and ".gram" files are
// in the extended notation, and ".cfg" and ".ll" files are in the classic
// format.
//
// The grammar is validated before it is returned.
func Load(path string) (File, error) {
	path = filepath.Clean(path)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadTOML(path)
	case ".txt", ".gram":
		return LoadAs(path, NotationExtended)
	case ".cfg", ".ll":
		return LoadAs(path, NotationClassic)
	default:
		return File{}, fmt.Errorf("%q: %w", path, ErrUnknownExtension)
	}
}

// LoadAs loads a grammar written in notation n from the file at path,
// ignoring its extension.
func LoadAs(path string, n Notation) (File, error) {
	path = filepath.Clean(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	g, err := ReadText(string(data), n)
	if err != nil {
		return File{}, fmt.Errorf("%q: %w", path, err)
	}
	if err := g.Validate(); err != nil {
		return File{}, fmt.Errorf("%q: %w", path, err)
	}

	return File{Path: path, Grammar: g}, nil
}

// LoadTOML loads a grammar from a GRAMLAB grammar file regardless of its
// extension.
func LoadTOML(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	f, err := Unmarshal(data)
	if err != nil {
		return File{}, fmt.Errorf("%q: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Unmarshal reads a GRAMLAB grammar file from its bytes and validates the
// grammar in it.
func Unmarshal(data []byte) (File, error) {
	info, err := ScanFileInfo(data)
	if err != nil {
		return File{}, fmt.Errorf("detecting file type: %w", err)
	}

	if strings.ToUpper(info.Format) != FormatName {
		return File{}, ErrNotGramlab
	}
	if fileType := strings.ToUpper(info.Type); fileType != TypeGrammar {
		return File{}, fmt.Errorf("unsupported file type %q", info.Type)
	}

	var top topLevelGrammarFile
	if _, err := toml.Decode(string(data), &top); err != nil {
		return File{}, err
	}

	return top.toFile()
}

// ScanFileInfo takes the given data bytes and attempts to read the GRAMLAB
// format common header info from it. The bytes are read up to the first
// instance of a table definition header and those bytes are parsed for the
// info. If there is an error reading the info, returns a non-nil error.
func ScanFileInfo(data []byte) (FileInfo, error) {
	// only run the toml parser up to the end of the top-lev table
	var topLevelEnd int = -1
	var onNewLine = true
	for b := range data {
		if onNewLine {
			if data[b] == '[' {
				topLevelEnd = b
				break
			}
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}
