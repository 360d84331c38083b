package chip8

import (
	"fmt"

	"github.com/retroenv/chip8asm/internal/ast"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// CHIP-8 memory layout constants.
const (
	// ProgramStart is the memory address where CHIP-8 programs are loaded by default.
	ProgramStart = 0x200

	// MaxAddress is the highest address the assembler can place data at.
	MaxAddress = 0xFFFF

	// OpcodeSize is the size of all CHIP-8 instructions in bytes.
	OpcodeSize = 2
)

// Slot defines the operand shape accepted at one operand position.
type Slot uint8

// operand slots.
const (
	SlotRegister Slot = iota + 1 // Vx
	SlotV0                       // only V0
	SlotI
	SlotIndirect // [I]
	SlotDT
	SlotST
	SlotK
	SlotF
	SlotHF
	SlotB
	SlotR
	SlotAddress // 12-bit immediate
	SlotByte    // 8-bit immediate
	SlotNibble  // 4-bit immediate
)

var slotKeywords = map[Slot]string{
	SlotI:        ast.KeywordI,
	SlotIndirect: ast.KeywordIndirect,
	SlotDT:       ast.KeywordDT,
	SlotST:       ast.KeywordST,
	SlotK:        ast.KeywordK,
	SlotF:        ast.KeywordF,
	SlotHF:       ast.KeywordHF,
	SlotB:        ast.KeywordB,
	SlotR:        ast.KeywordR,
}

// Accepts returns whether the operand has a shape that fits the slot.
func (s Slot) Accepts(op ast.Operand) bool {
	switch s {
	case SlotRegister:
		return op.Kind == ast.RegisterOperand
	case SlotV0:
		return op.Kind == ast.RegisterOperand && op.Value == 0
	case SlotAddress, SlotByte, SlotNibble:
		return op.IsImmediate()
	default:
		keyword, ok := slotKeywords[s]
		return ok && op.IsKeyword(keyword)
	}
}

// Specificity ranks the slot for pattern priority, higher values are more specific.
func (s Slot) Specificity() int {
	switch s {
	case SlotRegister:
		return 2
	case SlotAddress, SlotByte, SlotNibble:
		return 1
	default:
		return 3
	}
}

// IsImmediate returns whether the slot takes a numeric value.
func (s Slot) IsImmediate() bool {
	return s == SlotAddress || s == SlotByte || s == SlotNibble
}

// Field defines where an operand value is placed in the opcode template.
type Field uint8

// opcode fields.
const (
	FieldNone Field = iota
	FieldX
	FieldY
	FieldNNN
	FieldKK
	FieldN
)

// Mask returns the opcode bits that the field occupies.
func (f Field) Mask() uint16 {
	switch f {
	case FieldX:
		return 0x0F00
	case FieldY:
		return 0x00F0
	case FieldNNN:
		return 0x0FFF
	case FieldKK:
		return 0x00FF
	case FieldN:
		return 0x000F
	default:
		return 0
	}
}

func (f Field) shift() uint {
	switch f {
	case FieldX:
		return 8
	case FieldY:
		return 4
	default:
		return 0
	}
}

// Bits returns the number of bits available for the field value.
func (f Field) Bits() int {
	switch f {
	case FieldNNN:
		return 12
	case FieldKK:
		return 8
	case FieldX, FieldY, FieldN:
		return 4
	default:
		return 0
	}
}

// Operand describes one operand of an instruction form.
type Operand struct {
	Slot  Slot
	Field Field
}

// Form is one entry of the instruction table.
type Form struct {
	Mnemonic string
	Operands []Operand
	Template uint16

	// Family is the matching instruction of the standard CHIP-8 opcode
	// table, nil for SUPER-CHIP and extension forms.
	Family *chip8.Instruction

	Super     bool // SUPER-CHIP instruction
	Extension bool // non standard 5xy1/5xy2 instruction
}

// Specificity returns the summed specificity of all operand slots.
func (f *Form) Specificity() int {
	sum := 0
	for _, op := range f.Operands {
		sum += op.Slot.Specificity()
	}
	return sum
}

// Mask returns the template bits that are fixed for this form.
func (f *Form) Mask() uint16 {
	mask := uint16(0xFFFF)
	for _, op := range f.Operands {
		mask &^= op.Field.Mask()
	}
	return mask
}

// Matches returns whether the operand shapes fit this form.
func (f *Form) Matches(operands []ast.Operand) bool {
	if len(operands) != len(f.Operands) {
		return false
	}
	for i, op := range f.Operands {
		if !op.Slot.Accepts(operands[i]) {
			return false
		}
	}
	return true
}

// FieldOverflowError is returned when an operand value does not fit its opcode field.
type FieldOverflowError struct {
	Index int
	Value uint16
	Bits  int
}

func (e *FieldOverflowError) Error() string {
	return fmt.Sprintf("operand %d value $%X does not fit in %d bits", e.Index+1, e.Value, e.Bits)
}

// Encode places the operand values into the opcode template. The values
// contain the register index or the resolved immediate for every operand.
func (f *Form) Encode(values []uint16) (uint16, error) {
	if len(values) != len(f.Operands) {
		return 0, fmt.Errorf("expected %d operand values but got %d", len(f.Operands), len(values))
	}

	opcode := f.Template
	for i, op := range f.Operands {
		if op.Field == FieldNone {
			continue
		}
		value := values[i]
		if value > op.Field.Mask()>>op.Field.shift() {
			return 0, &FieldOverflowError{Index: i, Value: value, Bits: op.Field.Bits()}
		}
		opcode |= value << op.Field.shift()
	}
	return opcode, nil
}

// Fields extracts the operand values of the form from an opcode. Operands
// without a field, like keywords, return 0.
func (f *Form) Fields(opcode uint16) []uint16 {
	values := make([]uint16, len(f.Operands))
	for i, op := range f.Operands {
		values[i] = (opcode & op.Field.Mask()) >> op.Field.shift()
	}
	return values
}

// String returns the form in assembly notation, for example "LD Vx, byte".
func (f *Form) String() string {
	s := f.Mnemonic
	for i, op := range f.Operands {
		if i == 0 {
			s += " "
		} else {
			s += ", "
		}
		s += op.notation()
	}
	return s
}

func (o Operand) notation() string {
	if keyword, ok := slotKeywords[o.Slot]; ok {
		return keyword
	}
	switch o.Slot {
	case SlotV0:
		return "V0"
	case SlotAddress:
		return "addr"
	case SlotByte:
		return "byte"
	case SlotNibble:
		return "nibble"
	}
	if o.Field == FieldY {
		return "Vy"
	}
	return "Vx"
}
