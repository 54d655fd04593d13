// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package compiler runs the whole translation: source text to tokens, to a
// syntax tree, to an optimized tree, to an assembler listing, to text.
package compiler

import (
	"log"

	"github.com/ezrec/bfasm/asm"
	"github.com/ezrec/bfasm/bf"
)

// Options control the compile pipeline.
type Options struct {
	asm.Options
	Optimize bool // If set, merge runs of repeated symbols.
}

// DefaultOptions returns the default pipeline configuration.
func DefaultOptions() Options {
	return Options{
		Options:  asm.DefaultOptions(),
		Optimize: true,
	}
}

// Result of a successful compile.
type Result struct {
	Listing *asm.Listing
	Text    string

	Tokens          int // Tokens lexed.
	RawInstructions int // Instruction count before optimization.
	Instructions    int // Instruction count of the generated tree.
	Loops           int
}

// Compiler runs the compile pipeline.
type Compiler struct {
	Verbose bool // If set, each stage logs verbosely.
	Options
}

// NewCompiler creates a compiler with the default options.
func NewCompiler() *Compiler {
	return &Compiler{Options: DefaultOptions()}
}

// Compile translates source with the given options.
func Compile(source string, opts Options) (result *Result, err error) {
	c := &Compiler{Options: opts}
	return c.Compile(source)
}

// Compile translates source text into assembler text.
// No partial result is returned on failure.
func (c *Compiler) Compile(source string) (result *Result, err error) {
	stage := STAGE_LEX
	defer func() {
		if err != nil {
			err = &ErrCompile{Stage: stage, Err: err}
			result = nil
		}
	}()

	lex := &bf.Lexer{Verbose: c.Verbose}
	err = lex.Lex(source)
	if err != nil {
		return
	}
	tokens := lex.Tokens()

	result = &Result{Tokens: len(tokens)}

	stage = STAGE_PARSE
	parser := bf.NewParser(tokens)
	parser.Verbose = c.Verbose
	exprs := parser.Parse()
	result.RawInstructions = bf.CountInstructions(exprs)

	if c.Optimize {
		stage = STAGE_OPTIMIZE
		exprs = bf.Optimize(exprs)
	}
	result.Instructions = bf.CountInstructions(exprs)
	result.Loops = bf.CountLoops(exprs)

	stage = STAGE_GENERATE
	gen := &asm.Generator{Verbose: c.Verbose, Options: c.Options.Options}
	result.Listing, err = gen.Generate(exprs)
	if err != nil {
		return
	}

	stage = STAGE_RENDER
	result.Text, err = result.Listing.Text()
	if err != nil {
		return
	}

	if c.Verbose {
		log.Printf("compiler: %d tokens, %d instructions (%d before optimization), %d loops, %d bytes",
			result.Tokens, result.Instructions, result.RawInstructions, result.Loops, len(result.Text))
	}

	return
}
