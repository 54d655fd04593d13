// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"strings"
)

// DATA_BASE is the address of the first data byte.
const DATA_BASE = 0x1000

// OperandKind is the addressing mode of an operand.
type OperandKind int

const (
	OPERAND_REG     = OperandKind(0) // %eax
	OPERAND_REG_LOW = OperandKind(1) // %al
	OPERAND_IMM     = OperandKind(2) // $4, $0x80, $symbol
	OPERAND_MEM     = OperandKind(3) // symbol, symbol(%reg), (%reg)
	OPERAND_LABEL   = OperandKind(4) // jump target
)

// Operand is a decoded instruction operand.
type Operand struct {
	Kind   OperandKind
	Reg    string // Register, or memory base register.
	Symbol string // Data symbol or label name.
	Value  uint32 // Immediate, or resolved symbol address or label index.
}

func (op Operand) String() string {
	switch op.Kind {
	case OPERAND_REG, OPERAND_REG_LOW:
		return "%" + op.Reg
	case OPERAND_IMM:
		if len(op.Symbol) != 0 {
			return "$" + op.Symbol
		}
		return fmt.Sprintf("$%d", op.Value)
	case OPERAND_MEM:
		if len(op.Reg) == 0 {
			return op.Symbol
		}
		return fmt.Sprintf("%s(%%%s)", op.Symbol, op.Reg)
	default:
		return op.Symbol
	}
}

// Instruction is a decoded line of program text.
type Instruction struct {
	LineNo int
	Op     string
	Args   []Operand
}

func (in *Instruction) String() string {
	args := make([]string, len(in.Args))
	for n, arg := range in.Args {
		args[n] = arg.String()
	}
	return fmt.Sprintf("%s %s", in.Op, strings.Join(args, ", "))
}

// Symbol is a named region of data.
type Symbol struct {
	Address uint32
	Size    int
}

// Program is an assembled program.
type Program struct {
	Instructions []Instruction
	Labels       map[string]int     // Map of code labels to instruction indexes.
	Symbols      map[string]*Symbol // Map of data symbols.
	Data         []byte             // Initial data, loaded at DATA_BASE.
	Entry        int                // Index of the first instruction to run.
}

// LineNo returns the source line of an instruction index, or 0.
func (prog *Program) LineNo(ip int) int {
	if ip < 0 || ip >= len(prog.Instructions) {
		return 0
	}
	return prog.Instructions[ip].LineNo
}
