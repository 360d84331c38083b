package ast

import (
	"fmt"
	"strconv"
)

// OperandKind defines the type of an operand.
type OperandKind uint8

// operand kinds.
const (
	InvalidOperand OperandKind = iota
	RegisterOperand            // V0..VF, Value holds the register index
	KeywordOperand             // I, DT, ST, K, F, HF, B, R or [I]
	NumberOperand              // numeric literal, Value holds the number
	SymbolOperand              // label or define reference
	StringOperand              // quoted string literal
)

// Keyword register and operand names.
const (
	KeywordI        = "I"
	KeywordIndirect = "[I]"
	KeywordDT       = "DT"
	KeywordST       = "ST"
	KeywordK        = "K"
	KeywordF        = "F"
	KeywordHF       = "HF"
	KeywordB        = "B"
	KeywordR        = "R"
)

// Operand is a tagged operand value.
type Operand struct {
	Kind  OperandKind
	Text  string // keyword, symbol name or string contents
	Value uint16 // register index or numeric value
}

// Register returns a register operand for V0..VF.
func Register(index uint8) Operand {
	return Operand{Kind: RegisterOperand, Value: uint16(index & 0xF)}
}

// Keyword returns a keyword operand like I or DT.
func Keyword(name string) Operand {
	return Operand{Kind: KeywordOperand, Text: name}
}

// Number returns a numeric literal operand.
func Number(value uint16) Operand {
	return Operand{Kind: NumberOperand, Value: value}
}

// Symbol returns a symbol reference operand.
func Symbol(name string) Operand {
	return Operand{Kind: SymbolOperand, Text: name}
}

// String returns a string literal operand.
func String(text string) Operand {
	return Operand{Kind: StringOperand, Text: text}
}

// IsKeyword returns whether the operand is the given keyword.
func (o Operand) IsKeyword(name string) bool {
	return o.Kind == KeywordOperand && o.Text == name
}

// IsImmediate returns whether the operand resolves to a number.
func (o Operand) IsImmediate() bool {
	return o.Kind == NumberOperand || o.Kind == SymbolOperand
}

func (o Operand) String() string {
	switch o.Kind {
	case RegisterOperand:
		return fmt.Sprintf("V%X", o.Value)
	case KeywordOperand, SymbolOperand:
		return o.Text
	case NumberOperand:
		return fmt.Sprintf("0x%X", o.Value)
	case StringOperand:
		return strconv.Quote(o.Text)
	default:
		return "<invalid>"
	}
}
