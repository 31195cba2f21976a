// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/chip8vm/internal/options"
)

const (
	defaultSpeed = 15
	defaultScale = 10
)

// ParseFlags parses command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	return parseArgs(os.Args)
}

func parseArgs(arguments []string) (options.Program, error) {
	flags := flag.NewFlagSet(arguments[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(arguments[1:])
	args := flags.Args()
	if err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}
	if len(args) > 0 {
		opts.Input = args[0]
	}

	if opts.Input == "" && opts.ROM == "" && !opts.List {
		return opts, &UsageError{flags: flags}
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage information and all flag defaults.
func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("%s\n\n", e.msg)
	}
	fmt.Printf("usage: chip8vm [options] <program file or built-in name>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after program file, please pass the program file as last argument", arg),
			}
		}
	}
	if len(args) > 1 {
		return &UsageError{
			msg: fmt.Sprintf("Only one program file can be run, got %d", len(args)),
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	if opts.Input != "" && opts.ROM != "" {
		return fmt.Errorf("a program file and a built-in program can not be used together")
	}

	opts.Frontend = strings.ToLower(opts.Frontend)
	if !slices.Contains(options.Frontends, opts.Frontend) {
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join(options.Frontends, ", "))
	}

	if opts.Speed <= 0 {
		return fmt.Errorf("invalid speed %d, at least 1 instruction per frame is required", opts.Speed)
	}
	if opts.Frames < 0 {
		return fmt.Errorf("invalid frame limit %d", opts.Frames)
	}
	if opts.Scale <= 0 {
		return fmt.Errorf("invalid scale %d", opts.Scale)
	}

	if opts.Trace {
		opts.Debug = true
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the CHIP-8 program file")
	flags.StringVar(&opts.ROM, "rom", "", "name of a built-in program to run, see -list")
	flags.StringVar(&opts.Output, "o", "", "name of the output file for listings and screen dumps, printed on console if no name given")
	flags.StringVar(&opts.Record, "record", "", "record the sound output to the given .wav file")
	flags.StringVar(&opts.Script, "script", "", "Lua script that drives the keypad, implies the headless frontend if no frontend is set")

	flags.StringVar(&opts.Frontend, "frontend", options.FrontendAuto, "frontend to use (auto/window/terminal/headless)")
	flags.IntVar(&opts.Speed, "speed", defaultSpeed, "instructions executed per frame, 60 frames are run per second")
	flags.IntVar(&opts.Frames, "frames", 0, "stop after the given number of frames, 0 runs until the program halts")
	flags.IntVar(&opts.Scale, "scale", defaultScale, "pixel scale of the window frontend")
	flags.BoolVar(&opts.Mute, "mute", false, "disable the sound output")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly listing of the program instead of running it")
	flags.BoolVar(&opts.List, "list", false, "list the built-in programs")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	flags.BoolVar(&opts.NoHexComments, "nohexcomments", false, "do not output instruction bytes as hex values in listing comments")
	flags.BoolVar(&opts.NoOffsets, "nooffsets", false, "do not output addresses in listing comments")

	flags.BoolVar(&opts.ShiftUsesVY, "quirk-shift", false, "8XY6 and 8XYE shift VY and store the result in VX")
	flags.BoolVar(&opts.LoadStoreIncrementsI, "quirk-loadstore", false, "FX55 and FX65 increment I by X+1")
	flags.BoolVar(&opts.NoIndexOverflowFlag, "quirk-noindexflag", false, "FX1E does not set VF on overflow")
	flags.BoolVar(&opts.StrictAlignment, "strict", false, "halt with a memory fault on jumps to odd addresses")
	flags.BoolVar(&opts.NoHaltOnSelfJump, "nohalt", false, "keep running when the program jumps to its own address")
}
