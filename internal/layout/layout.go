// Package layout assigns addresses to all statements and binds labels.
package layout

import (
	"fmt"

	"github.com/retroenv/chip8asm/internal/arch/chip8"
	"github.com/retroenv/chip8asm/internal/asmerr"
	"github.com/retroenv/chip8asm/internal/ast"
	"github.com/retroenv/chip8asm/internal/program"
	"github.com/retroenv/chip8asm/internal/symbols"
	"github.com/retroenv/retrogolib/log"
)

// Layout places statements in the address space of the program.
type Layout struct {
	logger *log.Logger
	table  *symbols.Table
	base   uint16
}

// New creates a new layout pass that starts at the base address and binds
// labels in the given symbol table.
func New(logger *log.Logger, table *symbols.Table, base uint16) *Layout {
	return &Layout{
		logger: logger,
		table:  table,
		base:   base,
	}
}

// Run records all defines in the symbol table, assigns every statement its
// address and byte length and binds every label to the address of the
// statement that follows it. Range is checked before anything is encoded.
func (l *Layout) Run(statements, defines []ast.Statement) (*program.Program, error) {
	for _, def := range defines {
		if err := l.table.AddDefine(def.Name, def.Value, def.Location); err != nil {
			return nil, err
		}
	}

	prg := program.New(l.base)
	address := int(l.base)

	for _, stmt := range statements {
		size, err := Length(stmt)
		if err != nil {
			return nil, err
		}

		if err := checkRange(stmt, address, size); err != nil {
			return nil, err
		}

		item := &program.Item{
			Statement: stmt,
			Address:   uint16(address),
			Size:      size,
		}

		switch stmt.Kind {
		case ast.LabelDef:
			if err := l.table.AddLabel(stmt.Name, uint16(address), stmt.Location); err != nil {
				return nil, err
			}
			item.SetType(program.LabelItem)
		case ast.Instruction:
			item.SetType(program.CodeItem)
		case ast.Directive:
			if stmt.Directive == ast.DirectiveOffset {
				item.SetType(program.FillItem)
			} else {
				item.SetType(program.DataItem)
			}
		default:
			return nil, fmt.Errorf("unexpected %s statement at %s", stmt.Kind, stmt.Location)
		}

		prg.Add(item)
		address += size
	}

	l.logger.Debug("Program layout complete",
		log.Int("items", len(prg.Items)),
		log.Int("size", prg.Size()),
		log.Hex("end", prg.End()),
		log.Int("symbols", l.table.Len()))

	return prg, nil
}

// Length returns the number of bytes a statement occupies. Lengths never
// depend on symbol values.
func Length(stmt ast.Statement) (int, error) {
	switch stmt.Kind {
	case ast.Instruction:
		return chip8.OpcodeSize, nil

	case ast.Directive:
		switch stmt.Directive {
		case ast.DirectiveByte:
			return len(stmt.Operands), nil
		case ast.DirectiveWord:
			return 2 * len(stmt.Operands), nil
		case ast.DirectiveText:
			return len(stmt.Operands[0].Text) + 1, nil
		case ast.DirectiveOffset:
			op := stmt.Operands[0]
			if op.Kind != ast.NumberOperand {
				return 0, asmerr.New(asmerr.ErrOperandMismatch, stmt.Location,
					"offset size %s must be a number literal", op)
			}
			return int(op.Value), nil
		default:
			return 0, fmt.Errorf("unsupported directive '%s' at %s", stmt.Directive, stmt.Location)
		}

	default:
		return 0, nil
	}
}

func checkRange(stmt ast.Statement, address, size int) error {
	if stmt.Kind == ast.LabelDef && address > chip8.MaxAddress {
		return asmerr.New(asmerr.ErrAddressOverflow, stmt.Location,
			"label '%s' at $%X is outside of the address space", stmt.Name, address)
	}

	if stmt.Kind == ast.Instruction && address%chip8.OpcodeSize != 0 {
		return asmerr.New(asmerr.ErrAddressOverflow, stmt.Location,
			"instruction '%s' is placed at odd address $%04X", stmt, address)
	}

	if size > 0 && address+size-1 > chip8.MaxAddress {
		return asmerr.New(asmerr.ErrAddressOverflow, stmt.Location,
			"'%s' at $%X with %d bytes exceeds the address space", stmt, address, size)
	}
	return nil
}
