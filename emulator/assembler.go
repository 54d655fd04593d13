// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bufio"
	"encoding/binary"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"
)

// opArgs is the operand count of each known opcode.
var opArgs = map[string]int{
	"movl":   2,
	"movb":   2,
	"movzbl": 2,
	"leal":   2,
	"addl":   2,
	"subl":   2,
	"xorl":   2,
	"cmpl":   2,
	"incl":   1,
	"decl":   1,
	"jmp":    1,
	"je":     1,
	"jne":    1,
	"jl":     1,
	"jge":    1,
	"jb":     1,
	"jae":    1,
	"int":    1,
}

// jumpOps take a label operand.
var jumpOps = map[string]bool{
	"jmp": true, "je": true, "jne": true, "jl": true, "jge": true, "jb": true, "jae": true,
}

// regMap maps register names to their 32-bit register.
var regMap = map[string]string{
	"eax": "eax", "ebx": "ebx", "ecx": "ecx", "edx": "edx",
	"esi": "esi", "edi": "edi", "ebp": "ebp", "esp": "esp",
}

// lowMap maps low byte register names to their 32-bit register.
var lowMap = map[string]string{
	"al": "eax", "bl": "ebx", "cl": "ecx", "dl": "edx",
}

var (
	reLabel   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):\s*`)
	reImmNum  = regexp.MustCompile(`^\$(-?(0[xX][0-9a-fA-F]+|[0-9]+))$`)
	reImmSym  = regexp.MustCompile(`^\$([A-Za-z_][A-Za-z0-9_]*)$`)
	reMem     = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)?\(%([a-z]+)\)$`)
	reSymbol  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reRegName = regexp.MustCompile(`^%([a-z]+)$`)
)

// Assembler parses generated assembler text into a Program.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	inData  bool
	pending []string // Data symbols waiting for their directive.
	prog    *Program
}

// stripComment removes a '#' comment, ignoring '#' inside quotes.
func stripComment(text string) string {
	quoted := false
	escaped := false
	for n, c := range text {
		switch {
		case escaped:
			escaped = false
		case c == '\\' && quoted:
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == '#' && !quoted:
			return text[:n]
		}
	}
	return text
}

// splitOperands splits an operand list on commas outside parentheses.
func splitOperands(text string) (args []string) {
	depth := 0
	start := 0
	for n, c := range text {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(text[start:n]))
				start = n + 1
			}
		}
	}
	if rest := strings.TrimSpace(text[start:]); len(rest) != 0 || len(args) != 0 {
		args = append(args, rest)
	}
	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			prog = nil
		}
	}()

	asm.inData = false
	asm.pending = nil
	asm.prog = &Program{
		Labels:  map[string]int{},
		Symbols: map[string]*Symbol{},
	}

	entry := ""
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))

		for {
			match := reLabel.FindStringSubmatch(line)
			if match == nil {
				break
			}
			err = asm.define(match[1])
			if err != nil {
				return
			}
			line = line[len(match[0]):]
		}

		if len(line) == 0 {
			continue
		}

		if line[0] == '.' {
			var name string
			name, err = asm.directive(line)
			if err != nil {
				return
			}
			if len(name) != 0 {
				entry = name
			}
			continue
		}

		err = asm.instruction(line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	line = ""
	lineno = 0
	err = asm.link()
	if err != nil {
		return
	}

	if len(entry) != 0 {
		index, ok := asm.prog.Labels[entry]
		if !ok {
			err = ErrLabelMissing(entry)
			return
		}
		asm.prog.Entry = index
	}

	prog = asm.prog
	return
}

// define defines a label in the current section.
func (asm *Assembler) define(name string) (err error) {
	_, isLabel := asm.prog.Labels[name]
	_, isSymbol := asm.prog.Symbols[name]
	if isLabel || isSymbol {
		err = ErrLabelDuplicate
		return
	}

	if asm.inData {
		asm.prog.Symbols[name] = &Symbol{Address: DATA_BASE + uint32(len(asm.prog.Data))}
		asm.pending = append(asm.pending, name)
	} else {
		asm.prog.Labels[name] = len(asm.prog.Instructions)
	}

	return
}

// directive handles a '.' directive. For '.globl', the name is returned.
func (asm *Assembler) directive(line string) (globl string, err error) {
	words := strings.SplitN(line, " ", 2)
	name := words[0]
	arg := ""
	if len(words) > 1 {
		arg = strings.TrimSpace(words[1])
	}

	var data []byte
	switch name {
	case ".data":
		asm.inData = true
		return
	case ".text":
		asm.inData = false
		return
	case ".globl", ".global":
		if !reSymbol.MatchString(arg) {
			err = ErrDirectiveInvalid
			return
		}
		globl = arg
		return
	case ".long":
		var value int64
		value, err = strconv.ParseInt(arg, 0, 33)
		if err != nil {
			err = ErrDataSyntax
			return
		}
		data = binary.LittleEndian.AppendUint32(nil, uint32(value))
	case ".space":
		var size int64
		size, err = strconv.ParseInt(arg, 0, 32)
		if err != nil || size < 0 {
			err = ErrDataSyntax
			return
		}
		data = make([]byte, size)
	case ".asciz":
		var text string
		text, err = unquote(arg)
		if err != nil {
			return
		}
		data = append([]byte(text), 0)
	default:
		err = ErrDirectiveInvalid
		return
	}

	if !asm.inData {
		err = ErrDataInText
		return
	}

	for _, symbol := range asm.pending {
		asm.prog.Symbols[symbol].Size = len(data)
	}
	asm.pending = asm.pending[:0]
	asm.prog.Data = append(asm.prog.Data, data...)

	return
}

// unquote decodes a double quoted assembler string.
func unquote(arg string) (text string, err error) {
	if len(arg) < 2 || arg[0] != '"' || arg[len(arg)-1] != '"' {
		err = ErrStringSyntax
		return
	}

	var out []byte
	body := arg[1 : len(arg)-1]
	for n := 0; n < len(body); n++ {
		c := body[n]
		if c == '"' {
			err = ErrStringSyntax
			return
		}
		if c != '\\' {
			out = append(out, c)
			continue
		}
		n++
		if n == len(body) {
			err = ErrStringSyntax
			return
		}
		switch c = body[n]; {
		case c == 'n':
			out = append(out, '\n')
		case c == 't':
			out = append(out, '\t')
		case c == '"' || c == '\\':
			out = append(out, c)
		case c >= '0' && c <= '7':
			end := n
			for end < len(body) && end < n+3 && body[end] >= '0' && body[end] <= '7' {
				end++
			}
			var value uint64
			value, err = strconv.ParseUint(body[n:end], 8, 8)
			if err != nil {
				err = ErrStringSyntax
				return
			}
			out = append(out, byte(value))
			n = end - 1
		default:
			err = ErrStringSyntax
			return
		}
	}

	text = string(out)
	return
}

// instruction decodes an instruction line.
func (asm *Assembler) instruction(line string, lineno int) (err error) {
	if asm.inData {
		err = ErrOpcodeInvalid
		return
	}

	op, rest, _ := strings.Cut(line, " ")
	count, ok := opArgs[op]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	words := splitOperands(rest)
	if len(words) != count {
		err = ErrOperandCount
		return
	}

	in := Instruction{LineNo: lineno, Op: op}
	for _, word := range words {
		var arg Operand
		arg, err = operand(word, jumpOps[op])
		if err != nil {
			return
		}
		in.Args = append(in.Args, arg)
	}

	asm.prog.Instructions = append(asm.prog.Instructions, in)
	return
}

// operand decodes a single operand.
func operand(word string, isJump bool) (arg Operand, err error) {
	if isJump {
		if !reSymbol.MatchString(word) {
			err = ErrOperandInvalid
			return
		}
		arg = Operand{Kind: OPERAND_LABEL, Symbol: word}
		return
	}

	if match := reRegName.FindStringSubmatch(word); match != nil {
		if reg, ok := regMap[match[1]]; ok {
			arg = Operand{Kind: OPERAND_REG, Reg: reg}
			return
		}
		if reg, ok := lowMap[match[1]]; ok {
			arg = Operand{Kind: OPERAND_REG_LOW, Reg: reg}
			return
		}
		err = ErrRegisterInvalid
		return
	}

	if match := reImmNum.FindStringSubmatch(word); match != nil {
		var value int64
		value, err = strconv.ParseInt(match[1], 0, 64)
		if err != nil {
			err = ErrOperandInvalid
			return
		}
		arg = Operand{Kind: OPERAND_IMM, Value: uint32(value)}
		return
	}

	if match := reImmSym.FindStringSubmatch(word); match != nil {
		arg = Operand{Kind: OPERAND_IMM, Symbol: match[1]}
		return
	}

	if match := reMem.FindStringSubmatch(word); match != nil {
		reg, ok := regMap[match[2]]
		if !ok {
			err = ErrRegisterInvalid
			return
		}
		arg = Operand{Kind: OPERAND_MEM, Symbol: match[1], Reg: reg}
		return
	}

	if reSymbol.MatchString(word) {
		arg = Operand{Kind: OPERAND_MEM, Symbol: word}
		return
	}

	err = ErrOperandInvalid
	return
}

// link resolves label and symbol references.
func (asm *Assembler) link() (err error) {
	prog := asm.prog
	for n := range prog.Instructions {
		in := &prog.Instructions[n]
		for m := range in.Args {
			arg := &in.Args[m]
			if len(arg.Symbol) == 0 {
				continue
			}
			switch arg.Kind {
			case OPERAND_LABEL:
				index, ok := prog.Labels[arg.Symbol]
				if !ok {
					err = ErrLabelMissing(arg.Symbol)
					return
				}
				arg.Value = uint32(index)
			default:
				symbol, ok := prog.Symbols[arg.Symbol]
				if !ok {
					err = ErrSymbolMissing(arg.Symbol)
					return
				}
				arg.Value = symbol.Address
			}
		}
	}
	return
}
