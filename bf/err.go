// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package bf

import (
	"errors"
	"strings"

	"github.com/ezrec/bfasm/translate"
)

var f = translate.From

var (
	// Lexical errors
	ErrUnmatchedBracket = errors.New(f("unmatched bracket"))
	ErrPointerUnderflow = errors.New(f("pointer underflow"))
)

// ErrLexical locates a lexical error in the source text.
type ErrLexical struct {
	Line    int    // Line number, starting at 1.
	Column  int    // Character index in the line, starting at 0.
	Offset  int    // Byte offset in the source, starting at 0.
	Excerpt string // Text surrounding the offending character.
	Marker  string // Caret line pointing at the offending character in Excerpt.
	Excess  int    // Unclosed '[' count, for ErrUnmatchedBracket at end of input.
	Err     error
}

// Message describes the failure without its location.
func (err *ErrLexical) Message() string {
	switch {
	case errors.Is(err.Err, ErrUnmatchedBracket) && err.Excess > 0:
		return f("an excess of %d '[' brackets were found", err.Excess)
	case errors.Is(err.Err, ErrUnmatchedBracket):
		return f("not enough matches for ']'")
	case errors.Is(err.Err, ErrPointerUnderflow):
		return f("index runs out of bounds")
	default:
		return err.Err.Error()
	}
}

func (err *ErrLexical) Error() string {
	return f("line %d col %d %v: %v", err.Line, err.Column, err.Err, err.Message())
}

func (err *ErrLexical) Unwrap() error {
	return err.Err
}

// Diagnostic renders the error with its source excerpt and marker, one
// item per line.
func (err *ErrLexical) Diagnostic() string {
	var sb strings.Builder

	sb.WriteString(f("Error: Line=%d | Col=%d", err.Line, err.Column))
	sb.WriteString("\n    ")
	sb.WriteString(err.Excerpt)
	sb.WriteString("\n    ")
	sb.WriteString(err.Marker)
	sb.WriteString("\n    ")
	sb.WriteString(strings.TrimSuffix(err.Marker, "^"))
	sb.WriteString("|----- ")
	sb.WriteString(err.Message())
	sb.WriteString("\n")

	return sb.String()
}
