// Package ast contains the parsed representation of CHIP-8 assembly source.
package ast

import (
	"fmt"
	"strings"
)

// Location identifies a line of a source file.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("line %d", l.Line)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// StatementKind defines the variant of a statement.
type StatementKind uint8

// statement variants.
const (
	Blank StatementKind = iota
	LabelDef
	Define
	Include
	Instruction
	Directive
)

var statementKindNames = map[StatementKind]string{
	Blank:       "blank",
	LabelDef:    "label",
	Define:      "define",
	Include:     "include",
	Instruction: "instruction",
	Directive:   "directive",
}

func (k StatementKind) String() string {
	if name, ok := statementKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("StatementKind(%d)", k)
}

// DirectiveKind defines the type of data emitting directive.
type DirectiveKind string

// supported data directives.
const (
	DirectiveByte   DirectiveKind = "db"
	DirectiveWord   DirectiveKind = "dw"
	DirectiveText   DirectiveKind = "text"
	DirectiveOffset DirectiveKind = "offset"
)

// Statement is one parsed element of a source line. Only the fields that
// belong to the statement kind are set.
type Statement struct {
	Kind     StatementKind
	Location Location

	Name      string        // label name, define alias or include file name
	Mnemonic  string        // upper case instruction mnemonic
	Directive DirectiveKind // data directive kind
	Value     Operand       // define value
	Operands  []Operand     // instruction or directive operands
}

// WithOperands returns a copy of the statement that uses the given operands.
// Statements are shared between passes and are never modified in place.
func (s Statement) WithOperands(operands []Operand) Statement {
	s.Operands = operands
	return s
}

func (s Statement) String() string {
	switch s.Kind {
	case LabelDef:
		return s.Name + ":"
	case Define:
		return fmt.Sprintf("define %s %s", s.Name, s.Value)
	case Include:
		return fmt.Sprintf("include %q", s.Name)
	case Instruction:
		return joinOperands(s.Mnemonic, s.Operands, ", ")
	case Directive:
		return joinOperands(string(s.Directive), s.Operands, " ")
	default:
		return ""
	}
}

func joinOperands(name string, operands []Operand, sep string) string {
	if len(operands) == 0 {
		return name
	}
	parts := make([]string, len(operands))
	for i, op := range operands {
		parts[i] = op.String()
	}
	return name + " " + strings.Join(parts, sep)
}
