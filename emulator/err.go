// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"

	"github.com/ezrec/bfasm/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrDirectiveInvalid = errors.New(f("directive invalid"))
	ErrDataSyntax       = errors.New(f("data syntax"))
	ErrDataInText       = errors.New(f("data outside .data section"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrOpcodeInvalid    = errors.New(f("opcode invalid"))
	ErrOperandCount     = errors.New(f("wrong operand count"))
	ErrOperandInvalid   = errors.New(f("operand invalid"))
	ErrRegisterInvalid  = errors.New(f("register invalid"))
	ErrStringSyntax     = errors.New(f("string syntax"))

	// Runtime errors
	ErrIpRange     = errors.New(f("instruction pointer out of range"))
	ErrSegfault    = errors.New(f("memory access out of range"))
	ErrSyscall     = errors.New(f("unknown system call"))
	ErrTickLimit   = errors.New(f("tick limit exceeded"))
	ErrNotRunnable = errors.New(f("program has exited"))
)

// ErrLabelMissing is a jump to an undefined label.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrSymbolMissing is a reference to an undefined data symbol.
type ErrSymbolMissing string

func (es ErrSymbolMissing) Error() string {
	return f("symbol %v missing", string(es))
}

// ErrSyntax locates an assembler error.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
