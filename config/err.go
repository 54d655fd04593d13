// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package config

import (
	"errors"

	"github.com/ezrec/bfasm/translate"
)

var f = translate.From

var (
	ErrKeyUnknown = errors.New(f("unknown configuration key"))
	ErrKeyType    = errors.New(f("configuration value has the wrong type"))
	ErrKeyRange   = errors.New(f("configuration value out of range"))
)

// ErrKey locates an invalid configuration value.
type ErrKey struct {
	Key   string
	Value string // Starlark representation of the value.
	Err   error
}

func (err *ErrKey) Error() string {
	return f("%v = %v: %v", err.Key, err.Value, err.Err)
}

func (err *ErrKey) Unwrap() error {
	return err.Err
}

// ErrConfig indicates the configuration file that failed.
type ErrConfig struct {
	Path string
	Err  error
}

func (err *ErrConfig) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}
