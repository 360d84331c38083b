package chip8

import (
	"sort"
	"strings"

	"github.com/retroenv/chip8asm/internal/ast"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

var (
	vx     = Operand{Slot: SlotRegister, Field: FieldX}
	vy     = Operand{Slot: SlotRegister, Field: FieldY}
	v0     = Operand{Slot: SlotV0}
	addr   = Operand{Slot: SlotAddress, Field: FieldNNN}
	byt    = Operand{Slot: SlotByte, Field: FieldKK}
	nibble = Operand{Slot: SlotNibble, Field: FieldN}

	regI     = Operand{Slot: SlotI}
	indirect = Operand{Slot: SlotIndirect}
	dt       = Operand{Slot: SlotDT}
	st       = Operand{Slot: SlotST}
	key      = Operand{Slot: SlotK}
	font     = Operand{Slot: SlotF}
	hiFont   = Operand{Slot: SlotHF}
	bcd      = Operand{Slot: SlotB}
	flags    = Operand{Slot: SlotR}
)

func form(mnemonic string, template uint16, family *chip8.Instruction, operands ...Operand) *Form {
	return &Form{
		Mnemonic: mnemonic,
		Operands: operands,
		Template: template,
		Family:   family,
	}
}

func superForm(mnemonic string, template uint16, operands ...Operand) *Form {
	f := form(mnemonic, template, nil, operands...)
	f.Super = true
	return f
}

func extensionForm(mnemonic string, template uint16, operands ...Operand) *Form {
	f := form(mnemonic, template, nil, operands...)
	f.Extension = true
	return f
}

// Forms is the instruction table. Forms of the same mnemonic are listed in
// matching priority order, most specific operand shape first.
var Forms = []*Form{
	form("CLS", 0x00E0, chip8.ClsInst),
	form("RET", 0x00EE, chip8.RetInst),
	form("SYS", 0x0000, nil, addr),

	superForm("SCD", 0x00C0, nibble),
	superForm("SCU", 0x00B0, nibble),
	superForm("SCR", 0x00FB),
	superForm("SCL", 0x00FC),
	superForm("EXIT", 0x00FD),
	superForm("LOW", 0x00FE),
	superForm("HIGH", 0x00FF),

	form("JP", 0xB000, chip8.JpInst, v0, addr),
	form("JP", 0x1000, chip8.JpInst, addr),
	form("CALL", 0x2000, chip8.CallInst, addr),

	form("SE", 0x5000, chip8.SeInst, vx, vy),
	form("SE", 0x3000, chip8.SeInst, vx, byt),
	form("SNE", 0x9000, chip8.SneInst, vx, vy),
	form("SNE", 0x4000, chip8.SneInst, vx, byt),

	form("LD", 0xF007, chip8.LdInst, vx, dt),
	form("LD", 0xF00A, chip8.LdInst, vx, key),
	form("LD", 0xF065, chip8.LdInst, vx, indirect),
	superForm("LD", 0xF085, vx, flags),
	form("LD", 0xF015, chip8.LdInst, dt, vx),
	form("LD", 0xF018, chip8.LdInst, st, vx),
	form("LD", 0xF029, chip8.LdInst, font, vx),
	superForm("LD", 0xF030, hiFont, vx),
	form("LD", 0xF033, chip8.LdInst, bcd, vx),
	form("LD", 0xF055, chip8.LdInst, indirect, vx),
	superForm("LD", 0xF075, flags, vx),
	extensionForm("LD", 0x5001, vx, vy, regI),
	extensionForm("LD", 0x5002, regI, vx, vy),
	form("LD", 0xA000, chip8.LdInst, regI, addr),
	form("LD", 0x8000, chip8.LdInst, vx, vy),
	form("LD", 0x6000, chip8.LdInst, vx, byt),

	form("ADD", 0xF01E, chip8.AddInst, regI, vx),
	form("ADD", 0x8004, chip8.AddInst, vx, vy),
	form("ADD", 0x7000, chip8.AddInst, vx, byt),

	form("OR", 0x8001, chip8.OrInst, vx, vy),
	form("AND", 0x8002, chip8.AndInst, vx, vy),
	form("XOR", 0x8003, chip8.XorInst, vx, vy),
	form("SUB", 0x8005, chip8.SubInst, vx, vy),
	form("SHR", 0x8006, chip8.ShrInst, vx, vy),
	form("SHR", 0x8006, chip8.ShrInst, vx),
	form("SUBN", 0x8007, chip8.SubnInst, vx, vy),
	form("SHL", 0x800E, chip8.ShlInst, vx, vy),
	form("SHL", 0x800E, chip8.ShlInst, vx),

	form("RND", 0xC000, chip8.RndInst, vx, byt),
	form("DRW", 0xD000, chip8.DrwInst, vx, vy, nibble),

	form("SKP", 0xE09E, chip8.SkpInst, vx),
	form("SKNP", 0xE0A1, chip8.SknpInst, vx),
}

var (
	formsByMnemonic = map[string][]*Form{}

	// decodeOrder lists all forms with the most fixed opcode bits first,
	// so that 00E0 decodes as CLS and not as SYS.
	decodeOrder []*Form
)

func init() {
	for _, f := range Forms {
		formsByMnemonic[f.Mnemonic] = append(formsByMnemonic[f.Mnemonic], f)
	}

	decodeOrder = make([]*Form, len(Forms))
	copy(decodeOrder, Forms)
	sort.SliceStable(decodeOrder, func(i, j int) bool {
		return bitCount(decodeOrder[i].Mask()) > bitCount(decodeOrder[j].Mask())
	})
}

// IsMnemonic returns whether the name is a known instruction mnemonic.
func IsMnemonic(name string) bool {
	_, ok := formsByMnemonic[strings.ToUpper(name)]
	return ok
}

// FormsOf returns all forms of a mnemonic in matching priority order.
func FormsOf(mnemonic string) []*Form {
	return formsByMnemonic[strings.ToUpper(mnemonic)]
}

// Decode returns the form that an opcode encodes and its operand values.
func Decode(opcode uint16) (*Form, []uint16, bool) {
	for _, f := range decodeOrder {
		if opcode&f.Mask() == f.Template {
			return f, f.Fields(opcode), true
		}
	}
	return nil, nil, false
}

func bitCount(v uint16) int {
	n := 0
	for ; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// Match returns the first form of the mnemonic whose operand pattern fits
// the operand shapes. Symbols are matched as immediates without resolving them.
func Match(mnemonic string, operands []ast.Operand) (*Form, bool) {
	for _, f := range FormsOf(mnemonic) {
		if f.Matches(operands) {
			return f, true
		}
	}
	return nil, false
}
