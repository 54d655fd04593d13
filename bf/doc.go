// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package bf implements the front end for the eight-symbol tape language.
//
// The Lexer turns source text into Tokens while statically checking bracket
// balance and backwards pointer movement. The Parser builds a tree of Loop and
// Operator expressions, and Optimize merges runs of identical operators within
// each loop body.
//
// Any character that is not one of the eight symbols and is not whitespace
// starts a comment which runs to the end of the line.
package bf
