// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config loads compiler settings from a Starlark file.
//
// A configuration file assigns any of these globals:
//
//	tape_size = 30000       # cells on the tape
//	prompt = "> "           # text written before each input, "" for none
//	optimize = True         # merge runs of repeated symbols
//	bounds_check = False    # exit with status 2 when the pointer leaves the tape
//	dump_tape = False       # write the whole tape to stdout before exit
//	output = "prog.s"       # output path, "-" for stdout
//
// The defaults are predeclared in upper case (TAPE_SIZE, PROMPT, ...), so a
// file may compute from them. Globals starting with '_' are private to the
// file and ignored.
package config

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/bfasm/asm"
)

// MAX_TAPE_SIZE is the largest accepted tape.
const MAX_TAPE_SIZE = 1 << 24

// Config is the set of compiler settings.
type Config struct {
	TapeSize    int
	Prompt      string
	Optimize    bool
	BoundsCheck bool
	DumpTape    bool
	Output      string // Output path; empty for the default.
}

// Default returns the default configuration.
func Default() Config {
	opts := asm.DefaultOptions()
	return Config{
		TapeSize: opts.TapeSize,
		Prompt:   opts.Prompt,
		Optimize: true,
	}
}

// Options returns the generator options for the configuration.
func (cfg *Config) Options() (opts asm.Options) {
	opts = asm.DefaultOptions()
	opts.TapeSize = cfg.TapeSize
	opts.Prompt = cfg.Prompt
	opts.BoundsCheck = cfg.BoundsCheck
	opts.DumpTape = cfg.DumpTape
	return
}

// Loader evaluates configuration files.
type Loader struct {
	Verbose bool // If set, logs each value loaded, and Starlark print() output.
}

// key binds a Starlark global to a Config field.
type key struct {
	name string
	get  func(cfg *Config) starlark.Value
	set  func(cfg *Config, value starlark.Value) error
}

var keys = []key{
	{
		name: "tape_size",
		get:  func(cfg *Config) starlark.Value { return starlark.MakeInt(cfg.TapeSize) },
		set: func(cfg *Config, value starlark.Value) (err error) {
			st_int, ok := value.(starlark.Int)
			if !ok {
				return ErrKeyType
			}
			size, ok := st_int.Int64()
			if !ok || size <= 0 || size > MAX_TAPE_SIZE {
				return ErrKeyRange
			}
			cfg.TapeSize = int(size)
			return
		},
	},
	{
		name: "prompt",
		get:  func(cfg *Config) starlark.Value { return starlark.String(cfg.Prompt) },
		set: func(cfg *Config, value starlark.Value) (err error) {
			return setString(&cfg.Prompt, value)
		},
	},
	{
		name: "output",
		get:  func(cfg *Config) starlark.Value { return starlark.String(cfg.Output) },
		set: func(cfg *Config, value starlark.Value) (err error) {
			return setString(&cfg.Output, value)
		},
	},
	{
		name: "optimize",
		get:  func(cfg *Config) starlark.Value { return starlark.Bool(cfg.Optimize) },
		set: func(cfg *Config, value starlark.Value) (err error) {
			return setBool(&cfg.Optimize, value)
		},
	},
	{
		name: "bounds_check",
		get:  func(cfg *Config) starlark.Value { return starlark.Bool(cfg.BoundsCheck) },
		set: func(cfg *Config, value starlark.Value) (err error) {
			return setBool(&cfg.BoundsCheck, value)
		},
	},
	{
		name: "dump_tape",
		get:  func(cfg *Config) starlark.Value { return starlark.Bool(cfg.DumpTape) },
		set: func(cfg *Config, value starlark.Value) (err error) {
			return setBool(&cfg.DumpTape, value)
		},
	},
}

func setString(field *string, value starlark.Value) error {
	str, ok := value.(starlark.String)
	if !ok {
		return ErrKeyType
	}
	*field = string(str)
	return nil
}

func setBool(field *bool, value starlark.Value) error {
	b, ok := value.(starlark.Bool)
	if !ok {
		return ErrKeyType
	}
	*field = bool(b)
	return nil
}

// Validate checks every value as if it had been loaded from a file.
func (cfg *Config) Validate() (err error) {
	check := *cfg
	for _, k := range keys {
		value := k.get(cfg)
		err = k.set(&check, value)
		if err != nil {
			err = &ErrKey{Key: k.name, Value: value.String(), Err: err}
			return
		}
	}
	return
}

// Keys returns the names of the configuration globals.
func Keys() (names []string) {
	for _, k := range keys {
		names = append(names, k.name)
	}
	return
}

// predeclared returns the upper case defaults visible to a file.
func predeclared(cfg *Config) (pred starlark.StringDict) {
	pred = starlark.StringDict{}
	for _, k := range keys {
		pred[strings.ToUpper(k.name)] = k.get(cfg)
	}
	return
}

// Parse evaluates a configuration from src, starting from the defaults.
// The filename is used in error messages.
func (ld *Loader) Parse(filename string, src string) (cfg Config, err error) {
	defer func() {
		if err != nil {
			err = &ErrConfig{Path: filename, Err: err}
		}
	}()

	cfg = Default()

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			if ld.Verbose {
				log.Printf("config: %v: %v", filename, msg)
			}
		},
	}
	opts := syntax.FileOptions{}
	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, predeclared(&cfg))
	if err != nil {
		return
	}

	for _, name := range globals.Keys() {
		if strings.HasPrefix(name, "_") {
			continue
		}
		value := globals[name]
		index := slices.IndexFunc(keys, func(k key) bool { return k.name == name })
		if index < 0 {
			err = &ErrKey{Key: name, Value: value.String(), Err: ErrKeyUnknown}
			return
		}
		err = keys[index].set(&cfg, value)
		if err != nil {
			err = &ErrKey{Key: name, Value: value.String(), Err: err}
			return
		}
		if ld.Verbose {
			log.Printf("config: %v = %v", name, value)
		}
	}

	return
}

// Load evaluates a configuration file.
func (ld *Loader) Load(path string) (cfg Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = &ErrConfig{Path: path, Err: err}
		return
	}

	return ld.Parse(path, string(data))
}

// Load evaluates a configuration file with a quiet Loader.
func Load(path string) (cfg Config, err error) {
	ld := &Loader{}
	return ld.Load(path)
}

// String returns the configuration as a Starlark file.
func (cfg *Config) String() string {
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%v = %v\n", k.name, k.get(cfg))
	}
	return sb.String()
}
