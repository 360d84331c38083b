// Package assembler runs all passes that turn CHIP-8 assembly source into
// a binary program image.
package assembler

import (
	"fmt"

	"github.com/retroenv/chip8asm/internal/arch/chip8"
	"github.com/retroenv/chip8asm/internal/encoder"
	"github.com/retroenv/chip8asm/internal/layout"
	"github.com/retroenv/chip8asm/internal/loader"
	"github.com/retroenv/chip8asm/internal/preprocessor"
	"github.com/retroenv/chip8asm/internal/program"
	"github.com/retroenv/chip8asm/internal/symbols"
	"github.com/retroenv/retrogolib/log"
)

// Options defines the assembly settings.
type Options struct {
	// Base is the address the program image is loaded at.
	Base uint16
}

// DefaultOptions returns the default assembly options.
func DefaultOptions() Options {
	return Options{
		Base: chip8.ProgramStart,
	}
}

// Result is an assembled program.
type Result struct {
	Program *program.Program
	Symbols *symbols.Table
	Image   []byte
}

// Assembler assembles source files that are loaded using a resolver.
type Assembler struct {
	logger   *log.Logger
	resolver loader.Resolver
	options  Options
}

// New creates a new assembler.
func New(logger *log.Logger, resolver loader.Resolver, options Options) *Assembler {
	return &Assembler{
		logger:   logger,
		resolver: resolver,
		options:  options,
	}
}

// Assemble assembles the primary source file and all files it includes.
// Any error aborts the assembly and no partial image is returned.
func (a *Assembler) Assemble(primary string) (*Result, error) {
	pre := preprocessor.New(a.logger, a.resolver)
	source, err := pre.Process(primary)
	if err != nil {
		return nil, err
	}

	table := symbols.New()
	prg, err := layout.New(a.logger, table, a.options.Base).Run(source.Statements, source.Defines)
	if err != nil {
		return nil, err
	}

	if err := encoder.New(a.logger, table).Run(prg); err != nil {
		return nil, err
	}

	image, err := prg.Bytes()
	if err != nil {
		return nil, fmt.Errorf("building program image: %w", err)
	}

	a.logger.Debug("Assembled program",
		log.String("file", primary),
		log.Hex("base", a.options.Base),
		log.Int("size", len(image)),
		log.Int("symbols", table.Len()))

	return &Result{
		Program: prg,
		Symbols: table,
		Image:   image,
	}, nil
}
