// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/ezrec/bfasm/bf"
	"github.com/ezrec/bfasm/compiler"
	"github.com/ezrec/bfasm/config"
	"github.com/ezrec/bfasm/translate"
)

var f = translate.From

// Process exit status.
const (
	EXIT_OK      = 0
	EXIT_USAGE   = 1 // Bad arguments or configuration.
	EXIT_COMPILE = 2 // The source did not compile.
	EXIT_IO      = 3 // Source or output could not be accessed.
)

// exitStatus maps an error to a process exit status.
func exitStatus(err error) int {
	var compile *compiler.ErrCompile
	var io *compiler.ErrIO
	switch {
	case err == nil:
		return EXIT_OK
	case errors.As(err, &compile):
		return EXIT_COMPILE
	case errors.As(err, &io):
		return EXIT_IO
	default:
		return EXIT_USAGE
	}
}

// report logs an error, with a source excerpt for lexical errors.
func report(source string, err error) {
	var lexical *bf.ErrLexical
	if errors.As(err, &lexical) {
		fmt.Fprint(os.Stderr, lexical.Diagnostic())
	}
	log.Printf("%v: %v", source, err)
}

// build compiles source to output.
func build(c *compiler.Compiler, source string, output string) (err error) {
	text, err := compiler.LoadSource(source)
	if err != nil {
		return
	}

	result, err := c.Compile(text)
	if err != nil {
		return
	}

	return compiler.WriteOutput(output, result.Text)
}

// options are the command line flags.
type options struct {
	compile    string
	output     string
	configPath string
	optimize   bool
	tapeSize   int
	prompt     string
	bounds     bool
	dump       bool
	watch      bool
	locale     string
	verbose    bool
}

// newFlagSet defines the command line flags, defaulting from cfg.
func newFlagSet(name string, cfg config.Config, opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.StringVar(&opts.compile, "c", "", "source file to compile, - for stdin")
	fs.StringVar(&opts.output, "o", compiler.STDIO, "assembler output, - for stdout")
	fs.StringVar(&opts.configPath, "config", "", "Starlark configuration file")
	fs.BoolVar(&opts.optimize, "O", cfg.Optimize, "Merge runs of repeated symbols")
	fs.IntVar(&opts.tapeSize, "tape", cfg.TapeSize, "Tape size, in cells")
	fs.StringVar(&opts.prompt, "prompt", cfg.Prompt, "Input prompt, empty for none")
	fs.BoolVar(&opts.bounds, "bounds", cfg.BoundsCheck, "Exit with status 2 when the pointer leaves the tape")
	fs.BoolVar(&opts.dump, "dump", cfg.DumpTape, "Write the tape to stdout before exit")
	fs.BoolVar(&opts.watch, "w", false, "Recompile when the source changes")
	fs.StringVar(&opts.locale, "locale", "", "Message locale")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose mode")

	return fs
}

// settings applies the flags given on the command line over cfg, and
// validates the result.
func settings(fs *flag.FlagSet, cfg config.Config, opts *options) (merged config.Config, err error) {
	merged = cfg
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "o":
			merged.Output = opts.output
		case "O":
			merged.Optimize = opts.optimize
		case "tape":
			merged.TapeSize = opts.tapeSize
		case "prompt":
			merged.Prompt = opts.prompt
		case "bounds":
			merged.BoundsCheck = opts.bounds
		case "dump":
			merged.DumpTape = opts.dump
		}
	})
	if len(merged.Output) == 0 {
		merged.Output = compiler.STDIO
	}

	err = merged.Validate()
	return
}

// run is the command, returning the process exit status.
func run(name string, args []string) int {
	opts := &options{}
	fs := newFlagSet(name, config.Default(), opts)

	err := fs.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return EXIT_OK
	}
	if err != nil {
		return EXIT_USAGE
	}

	if len(opts.locale) != 0 {
		translate.SetLocales(opts.locale)
	}

	if fs.NArg() != 0 {
		log.Print(f("%v: Unknown arguments: %v", name, fs.Args()))
		return EXIT_USAGE
	}

	if len(opts.compile) == 0 {
		log.Print(f("%v: No source file, use -c", name))
		fs.Usage()
		return EXIT_USAGE
	}

	if opts.watch && opts.compile == compiler.STDIO {
		log.Print(f("%v: Cannot watch stdin", name))
		return EXIT_USAGE
	}

	cfg := config.Default()
	if len(opts.configPath) != 0 {
		ld := &config.Loader{Verbose: opts.verbose}
		cfg, err = ld.Load(opts.configPath)
		if err != nil {
			log.Print(err)
			return EXIT_USAGE
		}
	}

	// Flags given on the command line override the configuration file.
	cfg, err = settings(fs, cfg, opts)
	if err != nil {
		log.Print(err)
		return EXIT_USAGE
	}

	c := &compiler.Compiler{
		Verbose: opts.verbose,
		Options: compiler.Options{
			Options:  cfg.Options(),
			Optimize: cfg.Optimize,
		},
	}

	err = build(c, opts.compile, cfg.Output)
	if err != nil {
		report(opts.compile, err)
	}
	if !opts.watch {
		return exitStatus(err)
	}

	watcher, err := compiler.NewWatcher(opts.compile)
	if err != nil {
		log.Print(err)
		return exitStatus(err)
	}
	defer watcher.Close()
	watcher.Verbose = opts.verbose

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Print(f("watching %v", opts.compile))
	err = watcher.Run(ctx, func() {
		err := build(c, opts.compile, cfg.Output)
		if err != nil {
			report(opts.compile, err)
			return
		}
		log.Print(f("%v: compiled to %v", opts.compile, cfg.Output))
	})
	if err != nil {
		log.Print(err)
	}

	return exitStatus(err)
}

func main() {
	os.Exit(run(os.Args[0], os.Args[1:]))
}
