// Package verification verifies that the generated program image decodes
// back to the assembled instructions and that the output file matches it.
package verification

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/chip8asm/internal/arch/chip8"
	"github.com/retroenv/chip8asm/internal/program"
	"github.com/retroenv/retrogolib/log"
)

// maxReportedMismatches limits the number of logged mismatches per check.
const maxReportedMismatches = 10

var errInstructionMismatch = errors.New("instruction verification failed")

// VerifyProgram decodes every emitted instruction word and checks that it
// encodes the same opcode again. Standard CHIP-8 opcodes are additionally
// checked against the reference opcode table.
func VerifyProgram(logger *log.Logger, prg *program.Program) error {
	var failures int

	for _, item := range prg.Items {
		if !item.IsType(program.CodeItem) {
			continue
		}

		if err := verifyInstruction(logger, item); err != nil {
			failures++
			if failures <= maxReportedMismatches {
				logger.Error("Instruction verification failed",
					log.Hex("address", item.Address),
					log.Stringer("location", item.Statement.Location),
					log.Err(err))
			}
		}
	}

	if failures > 0 {
		return fmt.Errorf("%w: %d instruction mismatches", errInstructionMismatch, failures)
	}
	return nil
}

func verifyInstruction(logger *log.Logger, item *program.Item) error {
	if len(item.Data) != chip8.OpcodeSize {
		return fmt.Errorf("instruction has %d bytes", len(item.Data))
	}
	opcode := uint16(item.Data[0])<<8 | uint16(item.Data[1])

	form, values, ok := chip8.Decode(opcode)
	if !ok {
		return fmt.Errorf("opcode $%04X can not be decoded", opcode)
	}

	encoded, err := form.Encode(values)
	if err != nil {
		return fmt.Errorf("re-encoding opcode $%04X as '%s': %w", opcode, form, err)
	}
	if encoded != opcode {
		return fmt.Errorf("opcode $%04X re-encodes as $%04X", opcode, encoded)
	}

	if form.Mnemonic != item.Statement.Mnemonic {
		logger.Warn("Instruction decodes to a different mnemonic",
			log.Hex("address", item.Address),
			log.String("source", item.Statement.String()),
			log.String("decoded", form.String()))
	}

	if form.Family == nil {
		return nil
	}
	ins, ok := chip8.StandardInstruction(opcode)
	if !ok {
		return fmt.Errorf("opcode $%04X is missing in the standard opcode table", opcode)
	}
	if ins != form.Family {
		return fmt.Errorf("opcode $%04X decodes as %s in the standard opcode table but expected %s",
			opcode, ins.Name, form.Family.Name)
	}
	return nil
}

// VerifyFile verifies that the written output file contains the exact image.
func VerifyFile(logger *log.Logger, path string, image []byte) error {
	written, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading output file for comparison: %w", err)
	}

	if err := checkBufferEqual(logger, image, written); err != nil {
		return fmt.Errorf("output file mismatch: %w", err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < maxReportedMismatches {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
