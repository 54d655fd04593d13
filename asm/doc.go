// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package asm generates i386 GNU assembler text from a syntax tree.
//
// Code is built as Fragments of instructions whose register operands are
// symbolic Roles. A RegisterFile maps each Role to a concrete register only
// when a Listing is rendered to text.
//
// The emitted program keeps the tape length and cell pointer in registers.
// The write and read system calls take their arguments in some of those same
// registers, so every system call is bracketed by a save of the length and
// pointer roles into the save slots, and a restore afterwards.
package asm
