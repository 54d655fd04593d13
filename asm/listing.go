// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"io"
	"iter"
	"strings"

	"github.com/ezrec/bfasm/internal"
)

// Listing is a generated program: the main flow, then the loop bodies.
type Listing struct {
	Main       []Fragment // Top level program, in source order.
	Loops      []Fragment // Loop bodies, in order of completion.
	LoopInfo   []LoopInfo // Loops in the order they were encountered.
	UsedStdin  bool
	UsedStdout bool
	Registers  *RegisterFile
}

// Fragments iterates the main flow followed by the loop bodies.
func (listing *Listing) Fragments() iter.Seq[Fragment] {
	return internal.IterSliceConcat(listing.Main, listing.Loops)
}

// writeCounter counts bytes written.
type writeCounter struct {
	w io.Writer
	n int64
}

func (wc *writeCounter) Write(data []byte) (n int, err error) {
	n, err = wc.w.Write(data)
	wc.n += int64(n)
	return
}

// WriteTo renders the listing as assembler text.
func (listing *Listing) WriteTo(w io.Writer) (n int64, err error) {
	wc := &writeCounter{w: w}
	defer func() { n = wc.n }()

	rf := listing.Registers
	if rf == nil {
		rf = I386
	}

	for frag := range listing.Fragments() {
		err = frag.Render(wc, rf)
		if err != nil {
			return
		}
	}

	return
}

// Text renders the listing as a string.
func (listing *Listing) Text() (text string, err error) {
	var sb strings.Builder
	_, err = listing.WriteTo(&sb)
	if err != nil {
		return
	}
	text = sb.String()
	return
}
