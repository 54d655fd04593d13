// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"encoding/binary"
	"fmt"
	"log"
	"maps"
	"slices"
	"strings"
)

// Linux i386 system call numbers.
const (
	SYS_EXIT  = 1
	SYS_READ  = 3
	SYS_WRITE = 4
)

// TICK_LIMIT is the default tick limit for Run.
const TICK_LIMIT = 1_000_000

// Emulator state. Registers + memory + tape.
type Emulator struct {
	Verbose bool     // If set, enables verbose logging.
	Program *Program // Reference to the currently running program.
	Tape    Tape     // Streams for the read and write system calls.

	Register map[string]uint32 // 32-bit registers, by name.
	Memory   []byte            // Data memory, from DATA_BASE.
	Ip       int               // Index of the next instruction.
	Ticks    int               // Instructions executed since reset.
	Exited   bool              // Set once the exit system call runs.
	Status   int               // Exit status.

	zero, sign, carry, overflow bool
}

// NewEmulator creates a new emulator for a program.
func NewEmulator(prog *Program) (emu *Emulator) {
	emu = &Emulator{
		Program: prog,
	}
	emu.Reset()

	return
}

// Reset the emulator state, reloading the program data.
func (emu *Emulator) Reset() {
	emu.Register = map[string]uint32{}
	for _, reg := range regMap {
		emu.Register[reg] = 0
	}
	emu.Memory = slices.Clone(emu.Program.Data)
	emu.Ip = emu.Program.Entry
	emu.Ticks = 0
	emu.Exited = false
	emu.Status = 0
	emu.zero, emu.sign, emu.carry, emu.overflow = false, false, false, false
}

// Symbol returns the current contents of a data symbol.
func (emu *Emulator) Symbol(name string) (data []byte, ok bool) {
	symbol, ok := emu.Program.Symbols[name]
	if !ok {
		return
	}
	start := int(symbol.Address - DATA_BASE)
	data = emu.Memory[start : start+symbol.Size]
	return
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	return emu.Program.LineNo(emu.Ip)
}

// String returns the register state.
func (emu *Emulator) String() string {
	var sb strings.Builder
	for _, reg := range slices.Sorted(maps.Keys(emu.Register)) {
		fmt.Fprintf(&sb, "% 5s: %04X_%04X\n", reg, emu.Register[reg]>>16, emu.Register[reg]&0xffff)
	}
	fmt.Fprintf(&sb, "   ip: %d (line %d)\n", emu.Ip, emu.LineNo())
	return sb.String()
}

// Run ticks until the program exits, or maxTicks instructions have run.
// A maxTicks of zero uses TICK_LIMIT.
func (emu *Emulator) Run(maxTicks int) (err error) {
	if maxTicks == 0 {
		maxTicks = TICK_LIMIT
	}

	for done := false; !done; {
		if emu.Ticks >= maxTicks {
			err = &ErrRuntime{LineNo: emu.LineNo(), Err: ErrTickLimit}
			return
		}
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if emu.Exited {
		err = ErrNotRunnable
		return
	}

	if emu.Ip < 0 || emu.Ip >= len(emu.Program.Instructions) {
		err = ErrIpRange
		return
	}

	in := &emu.Program.Instructions[emu.Ip]
	if emu.Verbose {
		log.Printf("emulator: %d: %v", lineno, in)
	}

	emu.Ip++
	emu.Ticks++

	err = emu.execute(in)
	if err != nil {
		return
	}

	done = emu.Exited
	return
}

// address computes the effective address of a memory operand.
func (emu *Emulator) address(arg Operand) (addr uint32, err error) {
	if arg.Kind != OPERAND_MEM {
		err = ErrOperandInvalid
		return
	}
	addr = arg.Value
	if len(arg.Reg) != 0 {
		addr += emu.Register[arg.Reg]
	}
	return
}

// memory returns size bytes of memory at addr.
func (emu *Emulator) memory(addr uint32, size int) (data []byte, err error) {
	start := int64(addr) - DATA_BASE
	if start < 0 || start+int64(size) > int64(len(emu.Memory)) {
		err = ErrSegfault
		return
	}
	data = emu.Memory[start : start+int64(size)]
	return
}

// read32 reads a 32-bit source operand.
func (emu *Emulator) read32(arg Operand) (value uint32, err error) {
	switch arg.Kind {
	case OPERAND_REG:
		value = emu.Register[arg.Reg]
	case OPERAND_REG_LOW:
		value = emu.Register[arg.Reg] & 0xff
	case OPERAND_IMM:
		value = arg.Value
	case OPERAND_MEM:
		var addr uint32
		addr, err = emu.address(arg)
		if err != nil {
			return
		}
		var data []byte
		data, err = emu.memory(addr, 4)
		if err != nil {
			return
		}
		value = binary.LittleEndian.Uint32(data)
	default:
		err = ErrOperandInvalid
	}
	return
}

// write32 writes a 32-bit destination operand.
func (emu *Emulator) write32(arg Operand, value uint32) (err error) {
	switch arg.Kind {
	case OPERAND_REG:
		emu.Register[arg.Reg] = value
	case OPERAND_MEM:
		var addr uint32
		addr, err = emu.address(arg)
		if err != nil {
			return
		}
		var data []byte
		data, err = emu.memory(addr, 4)
		if err != nil {
			return
		}
		binary.LittleEndian.PutUint32(data, value)
	default:
		err = ErrOperandInvalid
	}
	return
}

// read8 reads an 8-bit source operand.
func (emu *Emulator) read8(arg Operand) (value uint8, err error) {
	switch arg.Kind {
	case OPERAND_REG_LOW:
		value = uint8(emu.Register[arg.Reg])
	case OPERAND_IMM:
		value = uint8(arg.Value)
	case OPERAND_MEM:
		var addr uint32
		addr, err = emu.address(arg)
		if err != nil {
			return
		}
		var data []byte
		data, err = emu.memory(addr, 1)
		if err != nil {
			return
		}
		value = data[0]
	default:
		err = ErrOperandInvalid
	}
	return
}

// write8 writes an 8-bit destination operand.
func (emu *Emulator) write8(arg Operand, value uint8) (err error) {
	switch arg.Kind {
	case OPERAND_REG_LOW:
		emu.Register[arg.Reg] = (emu.Register[arg.Reg] & ^uint32(0xff)) | uint32(value)
	case OPERAND_MEM:
		var addr uint32
		addr, err = emu.address(arg)
		if err != nil {
			return
		}
		var data []byte
		data, err = emu.memory(addr, 1)
		if err != nil {
			return
		}
		data[0] = value
	default:
		err = ErrOperandInvalid
	}
	return
}

// flagsSub sets the flags for a - b.
func (emu *Emulator) flagsSub(a, b uint32) (result uint32) {
	result = a - b
	emu.zero = result == 0
	emu.sign = int32(result) < 0
	emu.carry = a < b
	emu.overflow = ((a^b)&(a^result))>>31 != 0
	return
}

// flagsAdd sets the flags for a + b.
func (emu *Emulator) flagsAdd(a, b uint32) (result uint32) {
	result = a + b
	emu.zero = result == 0
	emu.sign = int32(result) < 0
	emu.carry = result < a
	emu.overflow = (^(a^b)&(a^result))>>31 != 0
	return
}

// flagsLogic sets the flags for a logical result.
func (emu *Emulator) flagsLogic(result uint32) uint32 {
	emu.zero = result == 0
	emu.sign = int32(result) < 0
	emu.carry = false
	emu.overflow = false
	return result
}

// execute runs a decoded instruction.
func (emu *Emulator) execute(in *Instruction) (err error) {
	var src, dst uint32
	var byteValue uint8

	switch in.Op {
	case "movl":
		src, err = emu.read32(in.Args[0])
		if err != nil {
			return
		}
		err = emu.write32(in.Args[1], src)
	case "movb":
		byteValue, err = emu.read8(in.Args[0])
		if err != nil {
			return
		}
		err = emu.write8(in.Args[1], byteValue)
	case "movzbl":
		byteValue, err = emu.read8(in.Args[0])
		if err != nil {
			return
		}
		err = emu.write32(in.Args[1], uint32(byteValue))
	case "leal":
		src, err = emu.address(in.Args[0])
		if err != nil {
			return
		}
		err = emu.write32(in.Args[1], src)
	case "addl", "subl", "xorl", "cmpl":
		src, err = emu.read32(in.Args[0])
		if err != nil {
			return
		}
		dst, err = emu.read32(in.Args[1])
		if err != nil {
			return
		}
		switch in.Op {
		case "addl":
			err = emu.write32(in.Args[1], emu.flagsAdd(dst, src))
		case "subl":
			err = emu.write32(in.Args[1], emu.flagsSub(dst, src))
		case "xorl":
			err = emu.write32(in.Args[1], emu.flagsLogic(dst^src))
		case "cmpl":
			emu.flagsSub(dst, src)
		}
	case "incl", "decl":
		dst, err = emu.read32(in.Args[0])
		if err != nil {
			return
		}
		carry := emu.carry
		if in.Op == "incl" {
			dst = emu.flagsAdd(dst, 1)
		} else {
			dst = emu.flagsSub(dst, 1)
		}
		emu.carry = carry
		err = emu.write32(in.Args[0], dst)
	case "jmp", "je", "jne", "jl", "jge", "jb", "jae":
		var taken bool
		switch in.Op {
		case "jmp":
			taken = true
		case "je":
			taken = emu.zero
		case "jne":
			taken = !emu.zero
		case "jl":
			taken = emu.sign != emu.overflow
		case "jge":
			taken = emu.sign == emu.overflow
		case "jb":
			taken = emu.carry
		case "jae":
			taken = !emu.carry
		}
		if taken {
			emu.Ip = int(in.Args[0].Value)
		}
	case "int":
		if in.Args[0].Kind != OPERAND_IMM || in.Args[0].Value != 0x80 {
			err = ErrOperandInvalid
			return
		}
		err = emu.syscall()
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// syscall services an 'int $0x80' system call.
func (emu *Emulator) syscall() (err error) {
	number := emu.Register["eax"]
	arg1 := emu.Register["ebx"]
	arg2 := emu.Register["ecx"]
	arg3 := emu.Register["edx"]

	switch number {
	case SYS_EXIT:
		emu.Exited = true
		emu.Status = int(int32(arg1))
		if emu.Verbose {
			log.Printf("emulator: exit %d after %d ticks", emu.Status, emu.Ticks)
		}
	case SYS_READ:
		var data []byte
		data, err = emu.memory(arg2, int(arg3))
		if err != nil {
			return
		}
		var n int
		n, err = emu.Tape.Read(data)
		if err != nil {
			return
		}
		emu.Register["eax"] = uint32(n)
	case SYS_WRITE:
		var data []byte
		data, err = emu.memory(arg2, int(arg3))
		if err != nil {
			return
		}
		var n int
		n, err = emu.Tape.Write(data)
		if err != nil {
			return
		}
		emu.Register["eax"] = uint32(n)
	default:
		err = fmt.Errorf("%w: %d", ErrSyscall, number)
	}

	return
}
