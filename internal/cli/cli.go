// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/chip8asm/internal/arch/chip8"
	"github.com/retroenv/chip8asm/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := validateOptionCombinations(opts); err != nil {
		return opts, err
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
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

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chip8asm [options] <file to assemble>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	} else if e.msg != "" {
		fmt.Println(e.msg)
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to assemble, please pass the file to assemble as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptionCombinations checks for option values and combinations that are not supported
func validateOptionCombinations(opts options.Program) error {
	if opts.Offset > chip8.MaxAddress {
		return fmt.Errorf("offset %d is outside of the address space", opts.Offset)
	}

	if opts.Batch != "" && (opts.Output != "" || opts.Listing != "" || opts.Symbols != "") {
		return errors.New("output, listing and symbol file names can not be combined with batch mode")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input assembly file")
	flags.StringVar(&opts.Output, "o", "", "name of the output .ch8 file, defaults to the input name with .ch8 extension")
	flags.StringVar(&opts.Listing, "l", "", "name of the listing file to write")
	flags.StringVar(&opts.Symbols, "sym", "", "name of the symbol file to write")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically .ch8 file naming, for example *.asm")
	flags.UintVar(&opts.Offset, "offset", chip8.ProgramStart, "decimal address the program is loaded at")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the generated output by decoding all emitted instructions")
}
