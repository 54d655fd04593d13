// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"fmt"
	"strings"
)

// Symbols and labels of the generated program.
const (
	SYM_TAPE     = "array"        // The cell tape.
	SYM_TAPE_LEN = "array_len"    // 32-bit length of the cell tape.
	SYM_PROMPT   = "input_prompt" // NUL terminated input prompt.

	LABEL_START  = "_start"
	LABEL_FILL   = "fill_array"
	LABEL_EXIT   = "EXIT"
	LABEL_DUMP   = "DUMP_TAPE"
	LABEL_BOUNDS = "BOUNDS_FAULT"
	LABEL_LOOP   = "LOOP"
)

// Linux i386 system calls.
const (
	SYS_EXIT  = 1
	SYS_READ  = 3
	SYS_WRITE = 4

	FD_STDIN  = 0
	FD_STDOUT = 1

	INT_SYSCALL = 0x80

	EXIT_OK     = 0
	EXIT_BOUNDS = 2 // Status when the tape bounds check fails.
)

// LoopLabel is the entry label of a loop body.
func LoopLabel(depth int, id int) string {
	return fmt.Sprintf("%s_L%d_C%d", LABEL_LOOP, depth, id)
}

// LoopReturnLabel is where control continues once a loop ends.
func LoopReturnLabel(depth int, id int) string {
	return LoopLabel(depth, id) + "_RET"
}

// dataSection declares the tape and its length.
func dataSection(tapeSize int) (frag Fragment) {
	frag.Section(".data")
	frag.Data(fmt.Sprintf("%s: .long %d", SYM_TAPE_LEN, tapeSize), "Length of the tape")
	frag.Data(fmt.Sprintf("%s: .space %d", SYM_TAPE, tapeSize), "The tape")
	return
}

// promptData declares the input prompt.
func promptData(prompt string) (frag Fragment) {
	frag.Data(fmt.Sprintf("%s: .asciz %s", SYM_PROMPT, gasQuote(prompt)), "Prompt for user")
	return
}

// entry zero fills the tape, and resets the cell pointer.
func entry() (frag Fragment) {
	frag.Section(".text")
	frag.Section(".globl " + LABEL_START)
	frag.Label(LABEL_START)
	frag.OpC("Load the length of the tape", "movl", Mem(SYM_TAPE_LEN), Reg(ROLE_LENGTH))
	frag.OpC("Initialize a counter to 0", "xorl", Reg(ROLE_POINTER), Reg(ROLE_POINTER))
	frag.Label(LABEL_FILL)
	frag.Op("movb", Imm(0), Indexed{SYM_TAPE, ROLE_POINTER})
	frag.Op("incl", Reg(ROLE_POINTER))
	frag.Op("cmpl", Reg(ROLE_LENGTH), Reg(ROLE_POINTER))
	frag.Op("jl", Label(LABEL_FILL))
	frag.OpC("Reset the cell pointer to 0", "xorl", Reg(ROLE_POINTER), Reg(ROLE_POINTER))
	return
}

// exitProgram ends the program with a zero status.
func exitProgram() (frag Fragment) {
	frag.Label(LABEL_EXIT)
	frag.Op("movl", Imm(SYS_EXIT), Reg(ROLE_SYSCALL_NUMBER))
	frag.OpC("exit status 0", "xorl", Reg(ROLE_SYSCALL_FD), Reg(ROLE_SYSCALL_FD))
	frag.Op("int", ImmHex(INT_SYSCALL))
	return
}

// boundsFault ends the program when the cell pointer leaves the tape.
func boundsFault() (frag Fragment) {
	frag.Label(LABEL_BOUNDS)
	frag.Op("movl", Imm(SYS_EXIT), Reg(ROLE_SYSCALL_NUMBER))
	frag.OpC("exit status for a tape overrun", "movl", Imm(EXIT_BOUNDS), Reg(ROLE_SYSCALL_FD))
	frag.Op("int", ImmHex(INT_SYSCALL))
	return
}

// dumpTape writes the whole tape to stdout.
func dumpTape() (frag Fragment) {
	frag.Label(LABEL_DUMP)
	frag.Op("movl", Imm(SYS_WRITE), Reg(ROLE_SYSCALL_NUMBER))
	frag.Op("movl", Imm(FD_STDOUT), Reg(ROLE_SYSCALL_FD))
	frag.Op("movl", Addr(SYM_TAPE), Reg(ROLE_SYSCALL_BUFFER))
	frag.Op("movl", Mem(SYM_TAPE_LEN), Reg(ROLE_SYSCALL_COUNT))
	frag.Op("int", ImmHex(INT_SYSCALL))
	return
}

// saveRoles preserves the tape length and pointer across a system call.
func saveRoles() (frag Fragment) {
	frag.Comment("Save tape length & pointer")
	frag.Op("movl", Reg(ROLE_LENGTH), Reg(ROLE_SAVE_LENGTH))
	frag.Op("movl", Reg(ROLE_POINTER), Reg(ROLE_SAVE_POINTER))
	return
}

// restoreRoles undoes saveRoles.
func restoreRoles() (frag Fragment) {
	frag.Comment("Restore tape length & pointer")
	frag.Op("movl", Reg(ROLE_SAVE_LENGTH), Reg(ROLE_LENGTH))
	frag.Op("movl", Reg(ROLE_SAVE_POINTER), Reg(ROLE_POINTER))
	return
}

// cellAddress loads the address of the current cell.
func cellAddress() (frag Fragment) {
	frag.Op("leal", Indexed{SYM_TAPE, ROLE_POINTER}, Reg(ROLE_ADDRESS))
	return
}

// loadCell loads the current cell, zero extended, into the value role.
func loadCell() (frag Fragment) {
	frag.Append(cellAddress())
	frag.Op("movzbl", Deref(ROLE_ADDRESS), Reg(ROLE_VALUE))
	return
}

// syscall performs a system call. The buffer is loaded first, as its source
// may be overwritten by the other arguments.
func syscall(comment string, number int, fd int, buffer Fragment, count int) (frag Fragment) {
	frag.Comment(comment)
	frag.Append(saveRoles())
	frag.Append(buffer)
	frag.Op("movl", Imm(number), Reg(ROLE_SYSCALL_NUMBER))
	frag.Op("movl", Imm(fd), Reg(ROLE_SYSCALL_FD))
	frag.Op("movl", Imm(count), Reg(ROLE_SYSCALL_COUNT))
	frag.Op("int", ImmHex(INT_SYSCALL))
	frag.Append(restoreRoles())
	return
}

// cellBuffer points the system call buffer at the current cell.
func cellBuffer() (frag Fragment) {
	frag.Append(cellAddress())
	frag.Op("movl", Reg(ROLE_ADDRESS), Reg(ROLE_SYSCALL_BUFFER))
	return
}

// promptBuffer points the system call buffer at the input prompt.
func promptBuffer() (frag Fragment) {
	frag.Op("movl", Addr(SYM_PROMPT), Reg(ROLE_SYSCALL_BUFFER))
	return
}

// printCell writes the current cell to stdout.
func printCell() (frag Fragment) {
	return syscall("Print the current cell", SYS_WRITE, FD_STDOUT, cellBuffer(), 1)
}

// readCell prompts the user, then reads one byte from stdin into the
// current cell.
func readCell(prompt string) (frag Fragment) {
	if len(prompt) != 0 {
		frag.Append(syscall("Prompt user for input", SYS_WRITE, FD_STDOUT, promptBuffer(), len(prompt)))
	}
	frag.Append(syscall("Read into the current cell", SYS_READ, FD_STDIN, cellBuffer(), 1))
	return
}

// stepPointer moves the cell pointer, optionally checking it is still on
// the tape. A pointer below zero compares as a large unsigned value.
func stepPointer(op string, amount uint, checked bool) (frag Fragment) {
	frag.Op(op, Imm(amount), Reg(ROLE_POINTER))
	if checked {
		frag.Op("cmpl", Reg(ROLE_LENGTH), Reg(ROLE_POINTER))
		frag.Op("jae", Label(LABEL_BOUNDS))
	}
	return
}

// modifyCell adds to or subtracts from the current cell. Only the low byte
// is stored, so the cell wraps modulo 256.
func modifyCell(op string, amount uint) (frag Fragment) {
	frag.Append(loadCell())
	frag.Op(op, Imm(amount), Reg(ROLE_VALUE))
	frag.Op("movb", RegLow(ROLE_VALUE), Deref(ROLE_ADDRESS))
	return
}

// loopCall enters a loop when the current cell is non-zero, and marks the
// point a finished loop continues from.
func loopCall(depth int, id int) (frag Fragment) {
	frag.Append(loadCell())
	frag.Op("cmpl", Imm(0), Reg(ROLE_VALUE))
	frag.Op("jne", Label(LoopLabel(depth, id)))
	frag.Label(LoopReturnLabel(depth, id))
	return
}

// loopTail repeats the loop while the current cell is non-zero.
func loopTail(depth int, id int) (frag Fragment) {
	frag.Comment("Check if current index is zero")
	frag.Append(loadCell())
	frag.Op("cmpl", Imm(0), Reg(ROLE_VALUE))
	frag.Op("jne", Label(LoopLabel(depth, id)))
	frag.Comment("End loop if current index is zero")
	frag.Op("jmp", Label(LoopReturnLabel(depth, id)))
	return
}

// gasQuote quotes a string for a .asciz directive.
func gasQuote(text string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range []byte(text) {
		switch {
		case c == '"' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, "\\%03o", c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
