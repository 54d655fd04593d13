// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/bfasm/bf"
)

func generate(t *testing.T, gen *Generator, source string) (listing *Listing, text string) {
	tokens, err := bf.Tokenize(source)
	require.NoError(t, err, source)

	listing, err = gen.Generate(bf.Optimize(bf.Parse(tokens)))
	require.NoError(t, err, source)

	text, err = listing.Text()
	require.NoError(t, err, source)
	return
}

func ops(frag Fragment) (names []string) {
	for _, in := range frag.Instrs() {
		names = append(names, in.Op)
	}
	return
}

func TestGenerate(t *testing.T) {
	assert := assert.New(t)

	listing, text := generate(t, NewGenerator(), "++.")

	assert.True(listing.UsedStdout)
	assert.False(listing.UsedStdin)
	assert.Empty(listing.Loops)
	assert.NotContains(text, SYM_PROMPT)

	assert.Contains(text, "array_len: .long 26")
	assert.Contains(text, "array: .space 26")
	assert.Contains(text, "# Token + (add) | Count 2")
	assert.Contains(text, "addl    $2, %eax")
	assert.Contains(text, "movb    %al, (%ebx)")
	assert.Contains(text, "# Token . (stdout) | Count 1")
	assert.Contains(text, "int     $0x80")

	// Main flow order: data, entry, body, exit.
	order := []string{".data", "_start:", "fill_array:", "addl    $2, %eax", "Print the current cell", "EXIT:"}
	last := -1
	for _, item := range order {
		at := strings.Index(text, item)
		assert.Greater(at, last, item)
		last = at
	}
}

func TestGenerateLoops(t *testing.T) {
	assert := assert.New(t)

	listing, text := generate(t, NewGenerator(), "+[>+[-]<[+[-]]-]>[.]")

	assert.Equal([]LoopInfo{
		{Id: 1, Depth: 0},
		{Id: 2, Depth: 1},
		{Id: 3, Depth: 1},
		{Id: 4, Depth: 2},
		{Id: 5, Depth: 0},
	}, listing.LoopInfo)

	for n, info := range listing.LoopInfo {
		assert.Equal(n+1, info.Id)
	}

	// Bodies are collected as they finish, inner loops first.
	labels := []string{}
	for _, frag := range listing.Loops {
		labels = append(labels, frag.Lines[0].Label)
	}
	assert.Equal([]string{"LOOP_L1_C2", "LOOP_L2_C4", "LOOP_L1_C3", "LOOP_L0_C1", "LOOP_L0_C5"}, labels)

	// Call sites in the main flow and in loop bodies.
	assert.Contains(text, "jne     LOOP_L0_C1\nLOOP_L0_C1_RET:\n")
	assert.Contains(text, "jne     LOOP_L1_C2\nLOOP_L1_C2_RET:\n")
	assert.Contains(text, "jne     LOOP_L2_C4\nLOOP_L2_C4_RET:\n")
	assert.Contains(text, "jmp     LOOP_L0_C5_RET\n")

	// Loop bodies follow the whole main flow.
	assert.Less(strings.Index(text, "EXIT:"), strings.Index(text, "\nLOOP_L1_C2:\n"))

	for _, label := range labels {
		assert.Equal(1, strings.Count(text, "\n"+label+":\n"), label)
		assert.Equal(1, strings.Count(text, "\n"+label+"_RET:\n"), label)
	}
}

func TestGenerateLoopIdsFresh(t *testing.T) {
	assert := assert.New(t)

	gen := NewGenerator()
	first, _ := generate(t, gen, "[][]")
	second, _ := generate(t, gen, "[]")

	assert.Equal(2, len(first.LoopInfo))
	assert.Equal([]LoopInfo{{Id: 1, Depth: 0}}, second.LoopInfo)
}

func TestGenerateInput(t *testing.T) {
	assert := assert.New(t)

	listing, text := generate(t, NewGenerator(), ",.")

	assert.True(listing.UsedStdin)
	assert.True(listing.UsedStdout)
	assert.Contains(text, `input_prompt: .asciz "Enter a character: "`)
	assert.Less(strings.Index(text, ".data"), strings.Index(text, SYM_PROMPT))
	assert.Less(strings.Index(text, SYM_PROMPT), strings.Index(text, "_start:"))
	assert.Contains(text, "movl    $19, %edx")
	assert.Contains(text, "movl    $input_prompt, %ecx")

	gen := NewGenerator()
	gen.Prompt = ""
	_, text = generate(t, gen, ",")
	assert.NotContains(text, SYM_PROMPT)
}

func TestGenerateSyscallSaves(t *testing.T) {
	assert := assert.New(t)

	listing, _ := generate(t, NewGenerator(), ",.")

	// Body fragments sit between the entry and exit fragments.
	body := listing.Main[3 : len(listing.Main)-1]
	require.Equal(t, 2, len(body))

	save := []string{"movl", "movl"}
	call := []string{"movl", "movl", "movl", "int"}
	restore := []string{"movl", "movl"}

	var read []string
	read = append(read, save...)
	read = append(read, "movl")
	read = append(read, call...)
	read = append(read, restore...)
	read = append(read, save...)
	read = append(read, "leal", "movl")
	read = append(read, call...)
	read = append(read, restore...)
	assert.Equal(read, ops(body[0]))

	for _, frag := range body {
		instrs := frag.Instrs()
		saved := false
		for n, in := range instrs {
			if in.Op == "movl" && len(in.Args) == 2 && in.Args[1] == Reg(ROLE_SAVE_POINTER) {
				saved = true
			}
			if in.Op == "int" {
				assert.True(saved)
				assert.Equal(Reg(ROLE_SAVE_LENGTH), instrs[n+1].Args[0])
				assert.Equal(Reg(ROLE_SAVE_POINTER), instrs[n+2].Args[0])
				saved = false
			}
		}
	}
}

func TestGenerateOptions(t *testing.T) {
	assert := assert.New(t)

	gen := NewGenerator()
	gen.TapeSize = 300
	gen.BoundsCheck = true
	gen.DumpTape = true

	_, text := generate(t, gen, ">+<")

	assert.Contains(text, "array_len: .long 300")
	assert.Contains(text, "array: .space 300")
	assert.Equal(2, strings.Count(text, "jae     "+LABEL_BOUNDS))
	assert.Contains(text, "\n"+LABEL_BOUNDS+":\n")
	assert.Less(strings.Index(text, LABEL_DUMP+":"), strings.Index(text, LABEL_EXIT+":"))
	assert.Contains(text, "movl    $array, %ecx")

	gen.TapeSize = 0
	_, err := gen.Generate(nil)
	assert.ErrorIs(err, ErrTapeSize)
}

func TestGenerateUnexpected(t *testing.T) {
	assert := assert.New(t)

	gen := NewGenerator()

	table := []bf.Expression{
		&bf.Operator{Kind: bf.TOKEN_LOOP_START, Count: 1},
		&bf.Operator{Kind: bf.TOKEN_LOOP_END, Count: 1},
		&bf.Operator{Kind: bf.TOKEN_ADD, Count: 0},
		nil,
	}

	for _, node := range table {
		listing, err := gen.Generate([]bf.Expression{&bf.Loop{Body: []bf.Expression{node}}})
		var unexpected *ErrUnexpectedNode
		assert.True(errors.As(err, &unexpected), "%v", node)
		assert.Nil(listing)
	}
}

func TestRegisterFile(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(I386.Validate())
	assert.Contains(I386.String(), "pointer=%edx")

	// Any register file can be used, as roles resolve at render time.
	custom := &RegisterFile{
		Name: "custom",
		Word: maps.Clone(I386.Word),
		Low:  map[Role]string{ROLE_VALUE: "%r0l"},
	}
	custom.Word[ROLE_VALUE] = "%r0"
	custom.Word[ROLE_SYSCALL_NUMBER] = "%r0"

	gen := NewGenerator()
	gen.Registers = custom
	listing, text := generate(t, gen, "+")
	assert.Contains(text, "movzbl  (%ebx), %r0")
	assert.Contains(text, "movb    %r0l, (%ebx)")

	listing.Registers = I386
	text, err := listing.Text()
	assert.NoError(err)
	assert.Contains(text, "movb    %al, (%ebx)")

	// Save slots must survive a system call.
	bad := &RegisterFile{Word: maps.Clone(I386.Word), Low: I386.Low}
	bad.Word[ROLE_SAVE_POINTER] = "%ebx"
	bad.Word[ROLE_ADDRESS] = "%ebp"
	var conflict *ErrRoleConflict
	assert.True(errors.As(bad.Validate(), &conflict))

	// Program roles must be distinct.
	bad = &RegisterFile{Word: maps.Clone(I386.Word), Low: I386.Low}
	bad.Word[ROLE_POINTER] = "%ecx"
	assert.True(errors.As(bad.Validate(), &conflict))

	bad = &RegisterFile{Word: I386.Word}
	var missing *ErrRoleMissing
	assert.True(errors.As(bad.Validate(), &missing))
}

func TestGasQuote(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(`"Enter a character: "`, gasQuote("Enter a character: "))
	assert.Equal(`"a\"b\\c\n\t"`, gasQuote("a\"b\\c\n\t"))
	assert.Equal(`"\303\251#"`, gasQuote("é#"))
}
