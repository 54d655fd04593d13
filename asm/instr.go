// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"fmt"
	"strings"
)

// Operand of an instruction, in AT&T syntax.
type Operand interface {
	Render(rf *RegisterFile) (text string, err error)
}

// Reg is the 32-bit register of a role.
type Reg Role

func (r Reg) Render(rf *RegisterFile) (string, error) {
	return rf.Resolve(Role(r), false)
}

// RegLow is the low byte register of a role.
type RegLow Role

func (r RegLow) Render(rf *RegisterFile) (string, error) {
	return rf.Resolve(Role(r), true)
}

// Imm is an immediate value.
type Imm int

func (i Imm) Render(rf *RegisterFile) (string, error) {
	return fmt.Sprintf("$%d", int(i)), nil
}

// ImmHex is an immediate value, written in hexadecimal.
type ImmHex int

func (i ImmHex) Render(rf *RegisterFile) (string, error) {
	return fmt.Sprintf("$0x%x", int(i)), nil
}

// Addr is the address of a symbol, as an immediate.
type Addr string

func (a Addr) Render(rf *RegisterFile) (string, error) {
	return "$" + string(a), nil
}

// Mem is the 32-bit memory contents at a symbol.
type Mem string

func (m Mem) Render(rf *RegisterFile) (string, error) {
	return string(m), nil
}

// Indexed is the memory at a symbol offset by the register of a role.
type Indexed struct {
	Symbol string
	Index  Role
}

func (ix Indexed) Render(rf *RegisterFile) (text string, err error) {
	reg, err := rf.Resolve(ix.Index, false)
	if err != nil {
		return
	}
	text = fmt.Sprintf("%s(%s)", ix.Symbol, reg)
	return
}

// Deref is the memory addressed by the register of a role.
type Deref Role

func (d Deref) Render(rf *RegisterFile) (text string, err error) {
	reg, err := rf.Resolve(Role(d), false)
	if err != nil {
		return
	}
	text = "(" + reg + ")"
	return
}

// Label is a jump target.
type Label string

func (l Label) Render(rf *RegisterFile) (string, error) {
	return string(l), nil
}

// Instr is a single instruction, with source operands first.
type Instr struct {
	Op      string
	Args    []Operand
	Comment string
}

// Render formats the instruction, without indentation.
func (in *Instr) Render(rf *RegisterFile) (text string, err error) {
	text = fmt.Sprintf("%-7s", in.Op)
	for n, arg := range in.Args {
		var str string
		str, err = arg.Render(rf)
		if err != nil {
			return
		}
		if n == 0 {
			text += " " + str
		} else {
			text += ", " + str
		}
	}
	text = strings.TrimRight(text, " ")
	return
}
