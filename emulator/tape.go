// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"io"
)

// Tape provides the byte streams behind the read and write system calls.
// A nil Input is always at end of file; a nil Output discards.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

// Read reads up to len(data) bytes. End of input is not an error, and
// reads zero bytes.
func (tc *Tape) Read(data []byte) (n int, err error) {
	if tc.Input == nil || len(data) == 0 {
		return
	}

	n, err = tc.Input.Read(data)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	return
}

// Write writes all of data.
func (tc *Tape) Write(data []byte) (n int, err error) {
	if tc.Output == nil {
		n = len(data)
		return
	}

	return tc.Output.Write(data)
}
