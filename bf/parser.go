// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package bf

import (
	"log"
)

// Parser builds a syntax tree from a token sequence by recursive descent.
//
//	Expr := (Loop | Op)*
//	Loop := '[' Expr ']'
//	Op   := '>' | '<' | '+' | '-' | '.' | ','
//
// The tokens must have balanced brackets, as the Lexer guarantees.
type Parser struct {
	Verbose bool // If set, verbosely logs the parser actions.

	tokens []Token
	index  int
}

// NewParser takes ownership of the tokens.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses a balanced token sequence.
func Parse(tokens []Token) []Expression {
	return NewParser(tokens).Parse()
}

// Parse builds the tree for all of the tokens.
func (p *Parser) Parse() (exprs []Expression) {
	p.index = 0
	exprs = p.parseExpr()

	if p.Verbose {
		log.Printf("parser: %d tokens, %d instructions", len(p.tokens), CountInstructions(exprs))
	}

	return
}

// parseExpr parses until the end of input, or the ']' closing the
// current loop.
func (p *Parser) parseExpr() (exprs []Expression) {
	exprs = []Expression{}

	for p.index < len(p.tokens) {
		token := p.tokens[p.index]
		p.index++

		switch token {
		case TOKEN_LOOP_START:
			exprs = append(exprs, &Loop{Body: p.parseExpr()})
		case TOKEN_LOOP_END:
			return
		default:
			exprs = append(exprs, &Operator{Kind: token, Count: 1})
		}
	}

	return
}
