// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"io"
	"strings"
)

// INDENT prefixes everything but labels and section directives.
const INDENT = "    "

// Line is one line of a Fragment. Exactly one of Label, Section, Data or
// Instr is set, or none for a comment-only line.
type Line struct {
	Label   string // 'name:' in the first column.
	Section string // Directive in the first column, ie '.text'.
	Data    string // Indented directive, ie 'array: .space 26'.
	Instr   *Instr
	Comment string
}

// Fragment is an ordered run of lines generated together.
type Fragment struct {
	Lines []Line
}

// Label appends a label definition.
func (frag *Fragment) Label(name string) *Fragment {
	frag.Lines = append(frag.Lines, Line{Label: name})
	return frag
}

// Section appends a first-column directive.
func (frag *Fragment) Section(directive string) *Fragment {
	frag.Lines = append(frag.Lines, Line{Section: directive})
	return frag
}

// Data appends an indented data directive.
func (frag *Fragment) Data(directive string, comment string) *Fragment {
	frag.Lines = append(frag.Lines, Line{Data: directive, Comment: comment})
	return frag
}

// Comment appends a comment line.
func (frag *Fragment) Comment(text string) *Fragment {
	frag.Lines = append(frag.Lines, Line{Comment: text})
	return frag
}

// Op appends an instruction.
func (frag *Fragment) Op(op string, args ...Operand) *Fragment {
	frag.Lines = append(frag.Lines, Line{Instr: &Instr{Op: op, Args: args}})
	return frag
}

// OpC appends an instruction with a trailing comment.
func (frag *Fragment) OpC(comment string, op string, args ...Operand) *Fragment {
	frag.Lines = append(frag.Lines, Line{Instr: &Instr{Op: op, Args: args}, Comment: comment})
	return frag
}

// Append appends all lines of other fragments.
func (frag *Fragment) Append(others ...Fragment) *Fragment {
	for _, other := range others {
		frag.Lines = append(frag.Lines, other.Lines...)
	}
	return frag
}

// Instrs returns the instructions of the fragment, in order.
func (frag *Fragment) Instrs() (instrs []*Instr) {
	for _, line := range frag.Lines {
		if line.Instr != nil {
			instrs = append(instrs, line.Instr)
		}
	}
	return
}

// Render writes the fragment as text, resolving roles with rf.
func (frag *Fragment) Render(w io.Writer, rf *RegisterFile) (err error) {
	var sb strings.Builder

	sb.WriteString("\n")
	for _, line := range frag.Lines {
		var text string
		switch {
		case len(line.Label) != 0:
			text = line.Label + ":"
		case len(line.Section) != 0:
			text = line.Section
		case len(line.Data) != 0:
			text = INDENT + line.Data
		case line.Instr != nil:
			text, err = line.Instr.Render(rf)
			if err != nil {
				return
			}
			text = INDENT + text
		default:
			text = INDENT
		}

		if len(line.Comment) != 0 {
			if text != INDENT {
				text = padComment(text)
			}
			text += "# " + line.Comment
		}

		sb.WriteString(text)
		sb.WriteString("\n")
	}

	_, err = io.WriteString(w, sb.String())
	return
}

// padComment aligns trailing comments to a common column.
func padComment(text string) string {
	const column = 36
	if len(text) < column {
		return text + strings.Repeat(" ", column-len(text))
	}
	return text + " "
}
