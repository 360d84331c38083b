// Package writer implements the listing and symbol file output.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/chip8asm/internal/ast"
	"github.com/retroenv/chip8asm/internal/program"
	"github.com/retroenv/chip8asm/internal/symbols"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const dataBytesPerLine = 8

type lineWriterFunc func(line string, byteCount int) error

// Writer writes listings and symbol files of an assembled program.
type Writer struct {
	prg    *program.Program
	table  *symbols.Table
	writer io.Writer
}

// New creates a new writer.
func New(prg *program.Program, table *symbols.Table, writer io.Writer) *Writer {
	return &Writer{
		prg:    prg,
		table:  table,
		writer: writer,
	}
}

// WriteListing writes every statement of the program with its address and
// the emitted bytes as comment.
func (w Writer) WriteListing() error {
	if err := w.writeCommentHeader(); err != nil {
		return err
	}

	for i, item := range w.prg.Items {
		switch {
		case item.IsType(program.LabelItem):
			if err := w.writeLabel(i, item); err != nil {
				return err
			}

		case item.IsType(program.DataItem) && item.Statement.Directive != ast.DirectiveText:
			if err := w.writeData(item); err != nil {
				return err
			}

		default:
			comment := fmt.Sprintf("$%04X  %s", item.Address, item.HexCodeComment())
			if item.IsType(program.FillItem) {
				comment = fmt.Sprintf("$%04X  %d bytes", item.Address, item.Size)
			}
			if err := w.writeCodeLine(item.Statement.String(), comment); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteSymbols writes all labels and defines sorted by name.
func (w Writer) WriteSymbols() error {
	labels := map[string]uint16{}
	defines := map[string]ast.Operand{}
	for _, sym := range w.table.Symbols() {
		if sym.Kind == symbols.Label {
			labels[sym.Name] = sym.Address
		} else {
			defines[sym.Name] = sym.Value
		}
	}

	if err := w.outputAliasMap(labels); err != nil {
		return fmt.Errorf("writing labels: %w", err)
	}

	names := maps.Keys(defines)
	slices.Sort(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w.writer, "%s = %s\n", name, defines[name]); err != nil {
			return fmt.Errorf("writing define: %w", err)
		}
	}
	return nil
}

// BundleDataWrites bundles writes of data bytes to print dataBytesPerLine bytes per line.
func (w Writer) BundleDataWrites(data []byte, lineWriter lineWriterFunc) error {
	remaining := len(data)
	for i := 0; remaining > 0; {
		toWrite := min(remaining, dataBytesPerLine)

		buf := &strings.Builder{}
		buf.WriteString(string(ast.DirectiveByte))
		buf.WriteByte(' ')

		for j := range toWrite {
			if _, err := fmt.Fprintf(buf, "0x%02X, ", data[i+j]); err != nil {
				return fmt.Errorf("writing data byte: %w", err)
			}
		}

		line := strings.TrimRight(buf.String(), ", ")

		if err := lineWriter(line, toWrite); err != nil {
			return fmt.Errorf("writing data line: %w", err)
		}

		i += toWrite
		remaining -= toWrite
	}

	return nil
}

func (w Writer) writeCommentHeader() error {
	if _, err := fmt.Fprintf(w.writer, "; Base address: $%04X\n", w.prg.Base); err != nil {
		return fmt.Errorf("writing base address: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Program size: %d bytes\n\n", w.prg.Size()); err != nil {
		return fmt.Errorf("writing program size: %w", err)
	}
	return nil
}

func (w Writer) writeLabel(index int, item *program.Item) error {
	if index > 0 {
		if _, err := fmt.Fprintln(w.writer); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w.writer, "%-32s ; $%04X\n", item.Statement.Name+":", item.Address); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

func (w Writer) writeCodeLine(code, comment string) error {
	if _, err := fmt.Fprintf(w.writer, "  %-30s ; %s\n", code, comment); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func (w Writer) writeData(item *program.Item) error {
	address := int(item.Address)
	lineWriter := func(line string, byteCount int) error {
		if err := w.writeCodeLine(line, fmt.Sprintf("$%04X", address)); err != nil {
			return err
		}
		address += byteCount
		return nil
	}

	if err := w.BundleDataWrites(item.Data, lineWriter); err != nil {
		return fmt.Errorf("writing data of '%s': %w", item.Statement, err)
	}
	return nil
}

// outputAliasMap outputs an alias map sorted by name.
func (w Writer) outputAliasMap(aliases map[string]uint16) error {
	names := maps.Keys(aliases)
	slices.Sort(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(w.writer, "%s = $%04X\n", name, aliases[name]); err != nil {
			return fmt.Errorf("writing alias: %w", err)
		}
	}
	return nil
}
