package chip8

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// StandardInstruction looks up an opcode in the standard CHIP-8 opcode table
// and returns the instruction it belongs to. SUPER-CHIP and extension opcodes
// are not part of the standard table.
func StandardInstruction(opcode uint16) (*chip8.Instruction, bool) {
	firstNibble := (opcode & 0xF000) >> 12
	opcodes := chip8.Opcodes[int(firstNibble)]
	for _, op := range opcodes {
		if op.Info.Mask&opcode == op.Info.Value {
			return op.Instruction, op.Instruction != nil
		}
	}
	return nil, false
}
