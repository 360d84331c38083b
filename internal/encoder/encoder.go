// Package encoder emits the bytes of all placed program items.
package encoder

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/chip8asm/internal/arch/chip8"
	"github.com/retroenv/chip8asm/internal/asmerr"
	"github.com/retroenv/chip8asm/internal/ast"
	"github.com/retroenv/chip8asm/internal/program"
	"github.com/retroenv/chip8asm/internal/symbols"
	"github.com/retroenv/retrogolib/log"
)

// FillByte is the value of the bytes reserved by an offset directive.
const FillByte = 0x00

// Encoder converts statements to bytes. The symbol table has to be complete.
type Encoder struct {
	logger *log.Logger
	table  *symbols.Table
}

// New creates a new encoder that resolves symbols using the given table.
func New(logger *log.Logger, table *symbols.Table) *Encoder {
	return &Encoder{
		logger: logger,
		table:  table,
	}
}

// Run encodes all items of the program.
func (e *Encoder) Run(prg *program.Program) error {
	for _, item := range prg.Items {
		data, err := e.Encode(item.Statement)
		if err != nil {
			return err
		}
		if len(data) != item.Size {
			return fmt.Errorf("statement '%s' at %s encoded to %d bytes but has a size of %d",
				item.Statement, item.Statement.Location, len(data), item.Size)
		}
		item.Data = data
	}

	for _, sym := range e.table.Unused() {
		e.logger.Debug("Label is not referenced",
			log.String("label", sym.Name),
			log.Stringer("location", sym.Location))
	}
	return nil
}

// Encode returns the bytes of a single statement. Labels emit no bytes.
func (e *Encoder) Encode(stmt ast.Statement) ([]byte, error) {
	switch stmt.Kind {
	case ast.Instruction:
		return e.encodeInstruction(stmt)
	case ast.Directive:
		return e.encodeDirective(stmt)
	default:
		return nil, nil
	}
}

func (e *Encoder) encodeInstruction(stmt ast.Statement) ([]byte, error) {
	form, ok := chip8.Match(stmt.Mnemonic, stmt.Operands)
	if !ok {
		return nil, asmerr.New(asmerr.ErrOperandMismatch, stmt.Location,
			"no form of %s accepts '%s', supported forms: %s", stmt.Mnemonic, stmt, formList(stmt.Mnemonic))
	}

	values := make([]uint16, len(stmt.Operands))
	for i, op := range stmt.Operands {
		switch {
		case form.Operands[i].Slot.IsImmediate():
			value, err := e.table.Resolve(op, stmt.Location)
			if err != nil {
				return nil, err
			}
			values[i] = value
		case op.Kind == ast.RegisterOperand:
			values[i] = op.Value
		}
	}

	opcode, err := form.Encode(values)
	if err != nil {
		var overflow *chip8.FieldOverflowError
		if errors.As(err, &overflow) {
			return nil, asmerr.Wrap(asmerr.ErrOperandMismatch, stmt.Location, err, "invalid operand for '%s'", form)
		}
		return nil, fmt.Errorf("encoding '%s': %w", stmt, err)
	}

	return []byte{byte(opcode >> 8), byte(opcode)}, nil
}

func (e *Encoder) encodeDirective(stmt ast.Statement) ([]byte, error) {
	switch stmt.Directive {
	case ast.DirectiveByte:
		data := make([]byte, 0, len(stmt.Operands))
		for _, op := range stmt.Operands {
			value, err := e.table.Resolve(op, stmt.Location)
			if err != nil {
				return nil, err
			}
			if value > 0xFF {
				return nil, asmerr.New(asmerr.ErrOperandMismatch, stmt.Location,
					"db value %s ($%X) does not fit in a byte", op, value)
			}
			data = append(data, byte(value))
		}
		return data, nil

	case ast.DirectiveWord:
		data := make([]byte, 0, 2*len(stmt.Operands))
		for _, op := range stmt.Operands {
			value, err := e.table.Resolve(op, stmt.Location)
			if err != nil {
				return nil, err
			}
			data = append(data, byte(value>>8), byte(value))
		}
		return data, nil

	case ast.DirectiveText:
		text := stmt.Operands[0].Text
		data := make([]byte, 0, len(text)+1)
		data = append(data, text...)
		return append(data, 0), nil

	case ast.DirectiveOffset:
		size := int(stmt.Operands[0].Value)
		return bytes.Repeat([]byte{FillByte}, size), nil

	default:
		return nil, fmt.Errorf("unsupported directive '%s' at %s", stmt.Directive, stmt.Location)
	}
}

func formList(mnemonic string) string {
	forms := chip8.FormsOf(mnemonic)
	names := make([]string, len(forms))
	for i, f := range forms {
		names[i] = f.String()
	}
	return strings.Join(names, "; ")
}
