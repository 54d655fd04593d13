// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package bf

import (
	"io"
	"log"
	"strings"
	"unicode"
)

// Characters of context shown on either side of an error.
const EXCERPT_CONTEXT = 9

// position of a scanned character.
type position struct {
	line   int
	column int
	offset int
	text   string // Full text of the line.
}

// Lexer tokenizes source text, checking bracket balance and pointer
// underflow as it scans.
type Lexer struct {
	Verbose bool // If set, verbosely logs the lexer actions.

	tokens  []Token
	opens   []position // Unclosed '[' positions; the bracket balance.
	pointer int        // Simulated cell pointer.
}

// Tokenize lexes source into a token sequence.
func Tokenize(source string) (tokens []Token, err error) {
	lex := &Lexer{}
	err = lex.Lex(source)
	if err != nil {
		return
	}

	tokens = lex.Tokens()
	return
}

// LexReader lexes all of input.
func (lex *Lexer) LexReader(input io.Reader) (err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	return lex.Lex(string(data))
}

// Lex scans the source text. On error no tokens are retained.
func (lex *Lexer) Lex(source string) (err error) {
	lex.tokens = nil
	lex.opens = lex.opens[:0]
	lex.pointer = 0

	defer func() {
		if err != nil {
			lex.tokens = nil
		}
	}()

	var lineno int
	var offset int
	for line := range strings.Lines(source) {
		lineno++
		err = lex.scanLine(position{line: lineno, offset: offset, text: line})
		if err != nil {
			return
		}
		offset += len(line)
	}

	if len(lex.opens) > 0 {
		lexical := lex.fail(lex.opens[0], ErrUnmatchedBracket)
		lexical.Excess = len(lex.opens)
		err = lexical
		return
	}

	if lex.Verbose {
		log.Printf("lexer: %d lines, %d tokens", lineno, len(lex.tokens))
	}

	return
}

// scanLine scans a single line, stopping at the first comment character.
func (lex *Lexer) scanLine(line position) (err error) {
	var column int
	for index, r := range line.text {
		here := line
		here.column = column
		here.offset = line.offset + index
		column++

		token, ok := TokenOf(r)
		if !ok {
			if unicode.IsSpace(r) {
				continue
			}
			// Comment to end of line.
			return
		}

		switch token {
		case TOKEN_MOVE_FORWARD:
			lex.pointer++
		case TOKEN_MOVE_BACK:
			if lex.pointer == 0 {
				err = lex.fail(here, ErrPointerUnderflow)
				return
			}
			lex.pointer--
		case TOKEN_LOOP_START:
			lex.opens = append(lex.opens, here)
		case TOKEN_LOOP_END:
			if len(lex.opens) == 0 {
				err = lex.fail(here, ErrUnmatchedBracket)
				return
			}
			lex.opens = lex.opens[:len(lex.opens)-1]
		}

		lex.tokens = append(lex.tokens, token)
	}

	return
}

// fail builds the error for a position.
func (lex *Lexer) fail(at position, kind error) *ErrLexical {
	excerpt, marker := excerptOf(at.text, at.column)

	if lex.Verbose {
		log.Printf("lexer: line %d col %d: %v", at.line, at.column, kind)
	}

	return &ErrLexical{
		Line:    at.line,
		Column:  at.column,
		Offset:  at.offset,
		Excerpt: excerpt,
		Marker:  marker,
		Err:     kind,
	}
}

// excerptOf returns up to EXCERPT_CONTEXT characters on either side of
// column, and a marker line with a caret under column.
func excerptOf(line string, column int) (excerpt string, marker string) {
	runes := []rune(strings.TrimRight(line, "\r\n"))
	if column >= len(runes) {
		return "", "^"
	}

	left := max(column-EXCERPT_CONTEXT, 0)
	right := min(column+EXCERPT_CONTEXT, len(runes)-1)

	excerpt = string(runes[left : right+1])
	// Tabs are kept, so the caret lines up however tabs are displayed.
	var sb strings.Builder
	for _, r := range runes[left:column] {
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
	}
	sb.WriteString("^")
	marker = sb.String()
	return
}

// Tokens hands over the scanned tokens. The Lexer no longer holds them
// afterwards, so a second call returns nil.
func (lex *Lexer) Tokens() (tokens []Token) {
	tokens = lex.tokens
	lex.tokens = nil
	return
}
