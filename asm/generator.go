// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"fmt"
	"log"

	"github.com/ezrec/bfasm/bf"
)

const (
	TAPE_SIZE = 26                    // Default tape length, in cells.
	PROMPT    = "Enter a character: " // Default input prompt.
)

// Options control the generated program.
type Options struct {
	TapeSize    int           // Length of the tape, in cells.
	Prompt      string        // Written before each input; empty for none.
	BoundsCheck bool          // If set, exit when the pointer leaves the tape.
	DumpTape    bool          // If set, write the whole tape to stdout before exit.
	Registers   *RegisterFile // Register assignment; nil for I386.
}

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{
		TapeSize:  TAPE_SIZE,
		Prompt:    PROMPT,
		Registers: I386,
	}
}

// LoopInfo records a loop allocated during generation.
type LoopInfo struct {
	Id    int // Loop identifier, unique in the listing.
	Depth int // Nesting depth, 0 for a top level loop.
}

// genContext is the state of a single Generate call, threaded through the
// recursion.
type genContext struct {
	nextLoop   int
	usedStdin  bool
	usedStdout bool
	loops      []LoopInfo
	bodies     []Fragment
}

// allocLoop assigns the next loop identifier.
func (ctx *genContext) allocLoop(depth int) (id int) {
	id = ctx.nextLoop
	ctx.nextLoop++
	ctx.loops = append(ctx.loops, LoopInfo{Id: id, Depth: depth})
	return
}

// Generator turns a syntax tree into a Listing.
type Generator struct {
	Verbose bool // If set, verbosely logs the generator actions.
	Options
}

// NewGenerator creates a generator with the default options.
func NewGenerator() *Generator {
	return &Generator{Options: DefaultOptions()}
}

// Generate produces the listing for a syntax tree.
func (gen *Generator) Generate(exprs []bf.Expression) (listing *Listing, err error) {
	rf := gen.Registers
	if rf == nil {
		rf = I386
	}
	err = rf.Validate()
	if err != nil {
		return
	}
	if gen.TapeSize <= 0 {
		err = ErrTapeSize
		return
	}

	ctx := &genContext{nextLoop: 1}

	body, err := gen.generate(ctx, exprs, 0)
	if err != nil {
		return
	}

	var main []Fragment
	main = append(main, dataSection(gen.TapeSize))
	if ctx.usedStdin && len(gen.Prompt) != 0 {
		main = append(main, promptData(gen.Prompt))
	}
	main = append(main, entry())
	main = append(main, body...)
	if gen.DumpTape {
		main = append(main, dumpTape())
	}
	main = append(main, exitProgram())
	if gen.BoundsCheck {
		main = append(main, boundsFault())
	}

	listing = &Listing{
		Main:       main,
		Loops:      ctx.bodies,
		LoopInfo:   ctx.loops,
		UsedStdin:  ctx.usedStdin,
		UsedStdout: ctx.usedStdout,
		Registers:  rf,
	}

	if gen.Verbose {
		log.Printf("asm: %d main fragments, %d loops, stdin %v, stdout %v",
			len(listing.Main), len(listing.Loops), listing.UsedStdin, listing.UsedStdout)
	}

	return
}

// generate produces the fragments for one level of the tree. Loop bodies
// are collected in ctx.
func (gen *Generator) generate(ctx *genContext, exprs []bf.Expression, depth int) (frags []Fragment, err error) {
	for _, expr := range exprs {
		switch node := expr.(type) {
		case *bf.Loop:
			id := ctx.allocLoop(depth)
			frags = append(frags, loopCall(depth, id))

			var body []Fragment
			body, err = gen.generate(ctx, node.Body, depth+1)
			if err != nil {
				return
			}

			var frag Fragment
			frag.Label(LoopLabel(depth, id))
			frag.Append(body...)
			frag.Append(loopTail(depth, id))
			ctx.bodies = append(ctx.bodies, frag)

			if gen.Verbose {
				log.Printf("asm: loop %d depth %d: %d fragments", id, depth, len(body))
			}
		case *bf.Operator:
			var frag Fragment
			frag, err = gen.operator(ctx, node)
			if err != nil {
				return
			}
			frags = append(frags, frag)
		default:
			err = &ErrUnexpectedNode{Node: expr}
			return
		}
	}

	return
}

// operator produces the fragment for a single operator run.
func (gen *Generator) operator(ctx *genContext, op *bf.Operator) (frag Fragment, err error) {
	if op.Count == 0 {
		err = &ErrUnexpectedNode{Node: op}
		return
	}

	frag.Comment(fmt.Sprintf("Token %v (%v) | Count %d", op.Kind, op.Kind.Name(), op.Count))

	switch op.Kind {
	case bf.TOKEN_MOVE_FORWARD:
		frag.Append(stepPointer("addl", op.Count, gen.BoundsCheck))
	case bf.TOKEN_MOVE_BACK:
		frag.Append(stepPointer("subl", op.Count, gen.BoundsCheck))
	case bf.TOKEN_ADD:
		frag.Append(modifyCell("addl", op.Count))
	case bf.TOKEN_SUB:
		frag.Append(modifyCell("subl", op.Count))
	case bf.TOKEN_STDOUT:
		ctx.usedStdout = true
		for range op.Count {
			frag.Append(printCell())
		}
	case bf.TOKEN_STDIN:
		ctx.usedStdin = true
		for range op.Count {
			frag.Append(readCell(gen.Prompt))
		}
	default:
		err = &ErrUnexpectedNode{Node: op}
		return
	}

	return
}
