// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs the i386 assembler text produced by package asm.
//
// Only the subset of instructions and directives the generator emits is
// understood. System calls are serviced from a Tape of input and output
// streams. The emulator exists to verify generated programs; it is not a
// general purpose i386 simulator.
package emulator
