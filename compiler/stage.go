// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package compiler

// Stage is a step of the compile pipeline.
type Stage int

//go:generate go tool stringer -linecomment -type=Stage
const (
	STAGE_LEX      = Stage(0) // lex
	STAGE_PARSE    = Stage(1) // parse
	STAGE_OPTIMIZE = Stage(2) // optimize
	STAGE_GENERATE = Stage(3) // generate
	STAGE_RENDER   = Stage(4) // render
)
