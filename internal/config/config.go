// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/retroenv/chip8asm/internal/arch/chip8"
	"github.com/retroenv/chip8asm/internal/assembler"
	"github.com/retroenv/chip8asm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// AssemblerOptions converts the program options to assembler options.
func AssemblerOptions(opts options.Program) (assembler.Options, error) {
	if opts.Offset > chip8.MaxAddress {
		return assembler.Options{}, fmt.Errorf("offset %d is outside of the address space", opts.Offset)
	}

	asmOpts := assembler.DefaultOptions()
	asmOpts.Base = uint16(opts.Offset)
	return asmOpts, nil
}
