// Package pipeline orchestrates the assembly workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/retroenv/chip8asm/internal/assembler"
	"github.com/retroenv/chip8asm/internal/config"
	"github.com/retroenv/chip8asm/internal/loader"
	"github.com/retroenv/chip8asm/internal/options"
	"github.com/retroenv/chip8asm/internal/verification"
	"github.com/retroenv/chip8asm/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete assembly workflow.
type Pipeline struct {
	logger *log.Logger
}

// New creates a new assembly pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
	}
}

// Execute runs the complete assembly pipeline for one input file. No output
// file is written if the assembly fails.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) (*assembler.Result, error) {
	asmOpts, err := config.AssemblerOptions(opts)
	if err != nil {
		return nil, err
	}

	p.printInfo(opts)

	// includes are searched in the working directory, then next to the input file
	resolver := loader.ForFile(opts.Input)
	asm := assembler.New(p.logger, resolver, asmOpts)
	result, err := asm.Assemble(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("assembling: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := p.writeOutputs(opts, result); err != nil {
		return nil, err
	}

	if opts.Verify {
		if err := p.verify(opts, result); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	return result, nil
}

func (p *Pipeline) writeOutputs(opts options.Program, result *assembler.Result) error {
	if err := os.WriteFile(opts.Output, result.Image, 0o644); err != nil {
		return fmt.Errorf("writing output file %s: %w", opts.Output, err)
	}

	if opts.Listing != "" {
		if err := writeFile(opts.Listing, result, writer.Writer.WriteListing); err != nil {
			return fmt.Errorf("writing listing file: %w", err)
		}
	}

	if opts.Symbols != "" {
		if err := writeFile(opts.Symbols, result, writer.Writer.WriteSymbols); err != nil {
			return fmt.Errorf("writing symbol file: %w", err)
		}
	}

	if !opts.Quiet {
		p.logger.Info("Program assembled",
			log.String("output", opts.Output),
			log.Int("size", len(result.Image)),
			log.Int("symbols", result.Symbols.Len()))
	}
	return nil
}

func (p *Pipeline) verify(opts options.Program, result *assembler.Result) error {
	if err := verification.VerifyProgram(p.logger, result.Program); err != nil {
		return err
	}
	if err := verification.VerifyFile(p.logger, opts.Output, result.Image); err != nil {
		return err
	}
	return nil
}

func writeFile(path string, result *assembler.Result, write func(writer.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}

	w := writer.New(result.Program, result.Symbols, file)
	if err := write(*w); err != nil {
		_ = file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing file %s: %w", path, err)
	}
	return nil
}

// printInfo prints information about the file being processed.
func (p *Pipeline) printInfo(opts options.Program) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing CHIP-8 source",
		log.String("file", opts.Input),
		log.Uint16("offset", uint16(opts.Offset)),
	)
}
