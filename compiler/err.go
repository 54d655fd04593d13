// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package compiler

import (
	"errors"

	"github.com/ezrec/bfasm/translate"
)

var f = translate.From

var (
	// I/O errors
	ErrSourceRead   = errors.New(f("unable to read source"))
	ErrOutputCreate = errors.New(f("unable to create output"))
	ErrOutputWrite  = errors.New(f("unable to write output"))
	ErrWatch        = errors.New(f("unable to watch source"))
)

// ErrIO is a failure at the source or output boundary.
// Op is one of the I/O sentinel errors.
type ErrIO struct {
	Op   error
	Path string
	Err  error
}

func (err *ErrIO) Error() string {
	return f("%v: %v: %v", err.Path, err.Op, err.Err)
}

func (err *ErrIO) Unwrap() []error {
	return []error{err.Op, err.Err}
}

// ErrCompile indicates the pipeline stage that failed.
type ErrCompile struct {
	Stage Stage
	Err   error
}

func (err *ErrCompile) Error() string {
	return f("%v: %v", err.Stage, err.Err)
}

func (err *ErrCompile) Unwrap() error {
	return err.Err
}
