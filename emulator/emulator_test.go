// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/bfasm/asm"
	"github.com/ezrec/bfasm/bf"
)

const helloWorld = `
++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]
>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.
`

func compile(t *testing.T, opts asm.Options, source string) (text string) {
	tokens, err := bf.Tokenize(source)
	require.NoError(t, err, source)

	gen := &asm.Generator{Options: opts}
	listing, err := gen.Generate(bf.Optimize(bf.Parse(tokens)))
	require.NoError(t, err, source)

	text, err = listing.Text()
	require.NoError(t, err, source)
	return
}

func doRun(t *testing.T, text string, input []byte) (emu *Emulator, output []byte) {
	assembler := &Assembler{}
	prog, err := assembler.Parse(strings.NewReader(text))
	require.NoError(t, err)

	emu = NewEmulator(prog)
	emu.Tape.Input = bytes.NewReader(input)
	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	err = emu.Run(0)
	if err != nil {
		t.Log(emu.String())
		t.Fatalf("%v", err)
	}

	output = tape_output.Bytes()
	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(&Program{})

	assert.False(emu.Verbose)
	assert.False(emu.Exited)
	assert.Equal(0, emu.Ip)

	_, err := emu.Tick()
	assert.ErrorIs(err, ErrIpRange)
}

func TestEmulatorScenarios(t *testing.T) {
	table := [...]struct {
		name   string
		source string
		input  string
		output string
		tape   []byte
	}{
		{name: "print", source: "++.", output: "\x02", tape: []byte{2, 0}},
		{name: "clear", source: "+[-]", tape: []byte{0, 0}},
		{name: "cells", source: "+++>++", tape: []byte{3, 2, 0}},
		{name: "echo", source: ",.", input: "A", output: "Enter a character: A", tape: []byte{'A'}},
		{name: "echo-eof", source: ",.", output: "Enter a character: \x00", tape: []byte{0}},
		{name: "pretest", source: "[.]", tape: []byte{0}},
		{name: "wrap-down", source: "-.", output: "\xff", tape: []byte{0xff}},
		{name: "wrap-up", source: strings.Repeat("+", 257) + ".", output: "\x01"},
		{name: "move-cell", source: "+++[>++<-]>.", output: "\x06", tape: []byte{0, 6}},
		{name: "hello", source: helloWorld, output: "Hello World!\n"},
		{name: "comments", source: "++ add two\n. print\n", output: "\x02"},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			text := compile(t, asm.DefaultOptions(), entry.source)
			emu, output := doRun(t, text, []byte(entry.input))

			assert.True(emu.Exited)
			assert.Equal(0, emu.Status)
			assert.Equal(entry.output, string(output))

			tape, ok := emu.Symbol(asm.SYM_TAPE)
			require.True(t, ok)
			assert.Len(tape, asm.TAPE_SIZE)
			if entry.tape != nil {
				assert.Equal(entry.tape, tape[:len(entry.tape)])
			}
		})
	}
}

func TestEmulatorOptions(t *testing.T) {
	assert := assert.New(t)

	opts := asm.DefaultOptions()
	opts.Prompt = ""
	_, output := doRun(t, compile(t, opts, ",."), []byte("x"))
	assert.Equal("x", string(output))

	opts = asm.DefaultOptions()
	opts.TapeSize = 4
	opts.DumpTape = true
	emu, output := doRun(t, compile(t, opts, "+>++>+++."), nil)
	assert.Equal([]byte{3, 1, 2, 3, 0}, output)
	assert.Equal(0, emu.Status)

	opts = asm.DefaultOptions()
	opts.TapeSize = 8
	opts.BoundsCheck = true
	emu, output = doRun(t, compile(t, opts, "+[>+]"), nil)
	assert.Equal(asm.EXIT_BOUNDS, emu.Status)
	assert.Empty(output)
	tape, _ := emu.Symbol(asm.SYM_TAPE)
	assert.Equal(bytes.Repeat([]byte{1}, 8), tape)

	emu, _ = doRun(t, compile(t, opts, ">>>>>>>."), nil)
	assert.Equal(0, emu.Status)

	emu, _ = doRun(t, compile(t, opts, ">>>>>>>>."), nil)
	assert.Equal(asm.EXIT_BOUNDS, emu.Status)
}

func TestEmulatorSyscallSaves(t *testing.T) {
	assert := assert.New(t)

	// Output and input inside nested loops must not disturb the pointer.
	text := compile(t, asm.DefaultOptions(), ">+++[<,.>-]<.")
	emu, output := doRun(t, text, []byte("abc"))

	prompt := asm.PROMPT
	assert.Equal(prompt+"a"+prompt+"b"+prompt+"cc", string(output))
	tape, _ := emu.Symbol(asm.SYM_TAPE)
	assert.Equal([]byte{'c', 0}, tape[:2])
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	assembler := &Assembler{}
	prog, err := assembler.Parse(strings.NewReader(compile(t, asm.DefaultOptions(), "+[]")))
	require.NoError(t, err)

	emu := NewEmulator(prog)
	err = emu.Run(1000)
	assert.ErrorIs(err, ErrTickLimit)
	assert.Equal(1000, emu.Ticks)
	assert.False(emu.Exited)

	var runtime *ErrRuntime
	assert.True(errors.As(err, &runtime))
	assert.NotZero(runtime.LineNo)
}

func TestEmulatorExited(t *testing.T) {
	assert := assert.New(t)

	emu, _ := doRun(t, compile(t, asm.DefaultOptions(), "+"), nil)
	assert.True(emu.Exited)

	_, err := emu.Tick()
	assert.ErrorIs(err, ErrNotRunnable)

	emu.Reset()
	assert.False(emu.Exited)
	assert.Equal(0, emu.Ticks)
	assert.Equal(emu.Program.Entry, emu.Ip)
}

func TestEmulatorFaults(t *testing.T) {
	table := [...]struct {
		program []string
		err     error
	}{
		{
			program: []string{".data", "x: .long 0", ".text", "movl $0x2000, %eax", "movb $1, (%eax)"},
			err:     ErrSegfault,
		},
		{
			program: []string{"movl $99, %eax", "int $0x80"},
			err:     ErrSyscall,
		},
		{
			program: []string{"int $0x81"},
			err:     ErrOperandInvalid,
		},
		{
			program: []string{"movl $1, %eax"},
			err:     ErrIpRange,
		},
	}

	for _, entry := range table {
		assert := assert.New(t)

		assembler := &Assembler{}
		prog, err := assembler.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		require.NoError(t, err, entry.program)

		emu := NewEmulator(prog)
		err = emu.Run(100)
		assert.ErrorIs(err, entry.err, entry.program)
	}
}

func TestEmulatorFlags(t *testing.T) {
	table := [...]struct {
		a, b  string
		jumps map[string]bool
	}{
		{a: "$5", b: "$5", jumps: map[string]bool{"je": true, "jne": false, "jl": false, "jge": true, "jb": false, "jae": true}},
		{a: "$4", b: "$5", jumps: map[string]bool{"je": false, "jne": true, "jl": true, "jge": false, "jb": true, "jae": false}},
		{a: "$6", b: "$5", jumps: map[string]bool{"je": false, "jne": true, "jl": false, "jge": true, "jb": false, "jae": true}},
		{a: "$-1", b: "$5", jumps: map[string]bool{"je": false, "jne": true, "jl": true, "jge": false, "jb": false, "jae": true}},
	}

	for _, entry := range table {
		for jump, taken := range entry.jumps {
			assert := assert.New(t)

			program := []string{
				"_start:",
				"movl " + entry.a + ", %eax",
				"cmpl " + entry.b + ", %eax",
				jump + " yes",
				"movl $0, %ebx",
				"jmp done",
				"yes:",
				"movl $1, %ebx",
				"done:",
				"movl $1, %eax",
				"int $0x80",
			}

			assembler := &Assembler{}
			prog, err := assembler.Parse(strings.NewReader(strings.Join(program, "\n")))
			require.NoError(t, err)

			emu := NewEmulator(prog)
			err = emu.Run(100)
			require.NoError(t, err)

			expected := 0
			if taken {
				expected = 1
			}
			assert.Equal(expected, emu.Status, "%v %v %v", entry.a, jump, entry.b)
		}
	}
}

// interpret runs source directly, for comparison with the generated code.
// ok is false if the pointer leaves the tape or the step limit is reached.
func interpret(source string, tapeSize int, limit int) (tape []byte, output []byte, ok bool) {
	tape = make([]byte, tapeSize)
	match := map[int]int{}
	var opens []int
	for n, c := range []byte(source) {
		switch c {
		case '[':
			opens = append(opens, n)
		case ']':
			open := opens[len(opens)-1]
			opens = opens[:len(opens)-1]
			match[open] = n
			match[n] = open
		}
	}

	ptr := 0
	for pc, steps := 0, 0; pc < len(source); pc, steps = pc+1, steps+1 {
		if steps > limit || ptr < 0 || ptr >= tapeSize {
			return
		}
		switch source[pc] {
		case '>':
			ptr++
		case '<':
			ptr--
		case '+':
			tape[ptr]++
		case '-':
			tape[ptr]--
		case '.':
			output = append(output, tape[ptr])
		case '[':
			if tape[ptr] == 0 {
				pc = match[pc]
			}
		case ']':
			if tape[ptr] != 0 {
				pc = match[pc]
			}
		}
	}

	ok = ptr >= 0 && ptr < tapeSize
	return
}

func TestEmulatorMatchesInterpreter(t *testing.T) {
	symbols := "><++--.[]"
	rnd := rand.New(rand.NewPCG(1, 2))

	checked := 0
	for range 300 {
		var sb strings.Builder
		depth := 0
		for range rnd.IntN(40) {
			c := symbols[rnd.IntN(len(symbols))]
			switch {
			case c == '[':
				depth++
			case c == ']' && depth == 0:
				continue
			case c == ']':
				depth--
			}
			sb.WriteByte(c)
		}
		sb.WriteString(strings.Repeat("]", depth))
		source := sb.String()

		if _, err := bf.Tokenize(source); err != nil {
			continue
		}
		tape, output, ok := interpret(source, asm.TAPE_SIZE, 2000)
		if !ok {
			continue
		}
		checked++

		t.Run(source, func(t *testing.T) {
			assert := assert.New(t)

			emu, emuOutput := doRun(t, compile(t, asm.DefaultOptions(), source), nil)
			assert.Equal(0, emu.Status)
			assert.Equal(output, emuOutput)
			emuTape, _ := emu.Symbol(asm.SYM_TAPE)
			assert.Equal(tape, emuTape)
		})
	}

	assert.NotZero(t, checked)
}
