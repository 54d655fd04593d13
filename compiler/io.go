// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package compiler

import (
	"io"
	"os"
)

// STDIO is the path naming standard input or standard output.
const STDIO = "-"

// LoadSource reads the program text at path. STDIO reads standard input.
func LoadSource(path string) (source string, err error) {
	if path == STDIO {
		return ReadSource(path, os.Stdin)
	}

	inf, err := os.Open(path)
	if err != nil {
		err = &ErrIO{Op: ErrSourceRead, Path: path, Err: err}
		return
	}
	defer inf.Close()

	return ReadSource(path, inf)
}

// ReadSource reads the program text from r. The path is used in errors.
func ReadSource(path string, r io.Reader) (source string, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		err = &ErrIO{Op: ErrSourceRead, Path: path, Err: err}
		return
	}

	source = string(data)
	return
}

// WriteOutput writes the generated text to path. STDIO writes standard output.
func WriteOutput(path string, text string) (err error) {
	if path == STDIO {
		return WriteText(path, os.Stdout, text)
	}

	ouf, err := os.Create(path)
	if err != nil {
		err = &ErrIO{Op: ErrOutputCreate, Path: path, Err: err}
		return
	}
	defer func() {
		cerr := ouf.Close()
		if err == nil && cerr != nil {
			err = &ErrIO{Op: ErrOutputWrite, Path: path, Err: cerr}
		}
	}()

	return WriteText(path, ouf, text)
}

// WriteText writes the generated text to w. The path is used in errors.
func WriteText(path string, w io.Writer, text string) (err error) {
	_, err = io.WriteString(w, text)
	if err != nil {
		err = &ErrIO{Op: ErrOutputWrite, Path: path, Err: err}
	}
	return
}
