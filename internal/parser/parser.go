// Package parser turns lines of CHIP-8 assembly source into statements.
// The parser has no knowledge of addresses or symbol values.
package parser

import (
	"strings"

	"github.com/retroenv/chip8asm/internal/arch/chip8"
	"github.com/retroenv/chip8asm/internal/asmerr"
	"github.com/retroenv/chip8asm/internal/ast"
)

const (
	keywordDefine  = "define"
	keywordInclude = "include"
)

// ParseSource parses all lines of a source file. Blank lines are dropped.
// A line ending with a comma or a bare db or dw directive continues on the
// next non blank line.
func ParseSource(name, text string) ([]ast.Statement, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var statements []ast.Statement
	for i := 0; i < len(lines); i++ {
		loc := ast.Location{File: name, Line: i + 1}
		code := strings.TrimSpace(stripComment(lines[i]))

		for continues(code) && i+1 < len(lines) {
			next := strings.TrimSpace(stripComment(lines[i+1]))
			if next == "" {
				break
			}
			code += " " + next
			i++
		}

		parsed, err := ParseLine(loc, code)
		if err != nil {
			return nil, err
		}
		for _, stmt := range parsed {
			if stmt.Kind != ast.Blank {
				statements = append(statements, stmt)
			}
		}
	}
	return statements, nil
}

// ParseLine parses a single line of source. The result is a single blank
// statement, or an optional label declaration followed by at most one
// define, include, directive or instruction statement.
func ParseLine(loc ast.Location, line string) ([]ast.Statement, error) {
	code := strings.TrimSpace(stripComment(line))
	if code == "" {
		return []ast.Statement{{Kind: ast.Blank, Location: loc}}, nil
	}

	var statements []ast.Statement
	if label, rest, ok := splitLabel(code); ok {
		if !isIdentifier(label) {
			return nil, asmerr.New(asmerr.ErrParse, loc, "invalid label name '%s'", label)
		}
		if op, _ := ParseOperand(label); op.Kind != ast.SymbolOperand {
			return nil, asmerr.New(asmerr.ErrParse, loc, "label name '%s' is a reserved register name", label)
		}
		statements = append(statements, ast.Statement{
			Kind:     ast.LabelDef,
			Location: loc,
			Name:     label,
		})

		code = strings.TrimSpace(rest)
		if code == "" {
			return statements, nil
		}
	}

	stmt, err := parseStatement(loc, code)
	if err != nil {
		return nil, err
	}
	return append(statements, stmt), nil
}

func parseStatement(loc ast.Location, code string) (ast.Statement, error) {
	fields, err := splitFields(code)
	if err != nil {
		return ast.Statement{}, asmerr.Wrap(asmerr.ErrParse, loc, err, "invalid line")
	}

	name := fields[0]
	args := fields[1:]

	switch strings.ToLower(name) {
	case keywordDefine:
		return parseDefine(loc, args)
	case keywordInclude:
		return parseInclude(loc, args)
	case string(ast.DirectiveByte), string(ast.DirectiveWord):
		return parseData(loc, ast.DirectiveKind(strings.ToLower(name)), args)
	case string(ast.DirectiveText):
		return parseText(loc, args)
	case string(ast.DirectiveOffset):
		return parseOffset(loc, args)
	}

	if !chip8.IsMnemonic(name) {
		return ast.Statement{}, asmerr.New(asmerr.ErrParse, loc, "unknown instruction '%s'", name)
	}

	operands, err := parseOperands(loc, args)
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.Statement{
		Kind:     ast.Instruction,
		Location: loc,
		Mnemonic: strings.ToUpper(name),
		Operands: operands,
	}, nil
}

func parseDefine(loc ast.Location, args []string) (ast.Statement, error) {
	if len(args) != 2 {
		return ast.Statement{}, asmerr.New(asmerr.ErrParse, loc, "define expects a name and a value but got %d operands", len(args))
	}

	alias, err := ParseOperand(args[0])
	if err != nil || alias.Kind != ast.SymbolOperand {
		return ast.Statement{}, asmerr.New(asmerr.ErrParse, loc, "invalid define name '%s'", args[0])
	}

	value, err := ParseOperand(args[1])
	if err != nil {
		return ast.Statement{}, asmerr.Wrap(asmerr.ErrParse, loc, err, "invalid define value")
	}
	if value.Kind == ast.StringOperand {
		return ast.Statement{}, asmerr.New(asmerr.ErrParse, loc, "define value can not be a string")
	}

	return ast.Statement{
		Kind:     ast.Define,
		Location: loc,
		Name:     alias.Text,
		Value:    value,
	}, nil
}

func parseInclude(loc ast.Location, args []string) (ast.Statement, error) {
	if len(args) != 1 {
		return ast.Statement{}, asmerr.New(asmerr.ErrParse, loc, "include expects a single file name")
	}

	op, err := ParseOperand(args[0])
	if err != nil || op.Kind != ast.StringOperand || op.Text == "" {
		return ast.Statement{}, asmerr.New(asmerr.ErrParse, loc, "include expects a quoted file name but got %s", args[0])
	}

	return ast.Statement{
		Kind:     ast.Include,
		Location: loc,
		Name:     op.Text,
	}, nil
}

func parseData(loc ast.Location, kind ast.DirectiveKind, args []string) (ast.Statement, error) {
	if len(args) == 0 {
		return ast.Statement{}, asmerr.New(asmerr.ErrParse, loc, "%s expects at least one value", kind)
	}

	operands, err := parseOperands(loc, args)
	if err != nil {
		return ast.Statement{}, err
	}
	for i, op := range operands {
		if !op.IsImmediate() {
			return ast.Statement{}, asmerr.New(asmerr.ErrParse, loc, "%s value %s is not a number or symbol", kind, args[i])
		}
	}

	return ast.Statement{
		Kind:      ast.Directive,
		Location:  loc,
		Directive: kind,
		Operands:  operands,
	}, nil
}

func parseText(loc ast.Location, args []string) (ast.Statement, error) {
	if len(args) != 1 {
		return ast.Statement{}, asmerr.New(asmerr.ErrParse, loc, "text expects a single quoted string")
	}

	op, err := ParseOperand(args[0])
	if err != nil {
		return ast.Statement{}, asmerr.Wrap(asmerr.ErrParse, loc, err, "invalid text")
	}
	if op.Kind != ast.StringOperand {
		return ast.Statement{}, asmerr.New(asmerr.ErrParse, loc, "text expects a quoted string but got %s", args[0])
	}
	for i := 0; i < len(op.Text); i++ {
		if op.Text[i] > 0x7F {
			return ast.Statement{}, asmerr.New(asmerr.ErrParse, loc, "text contains non ASCII character at position %d", i+1)
		}
	}

	return ast.Statement{
		Kind:      ast.Directive,
		Location:  loc,
		Directive: ast.DirectiveText,
		Operands:  []ast.Operand{op},
	}, nil
}

func parseOffset(loc ast.Location, args []string) (ast.Statement, error) {
	if len(args) != 1 {
		return ast.Statement{}, asmerr.New(asmerr.ErrParse, loc, "offset expects a single size")
	}

	op, err := ParseOperand(args[0])
	if err != nil {
		return ast.Statement{}, asmerr.Wrap(asmerr.ErrParse, loc, err, "invalid offset size")
	}
	if !op.IsImmediate() {
		return ast.Statement{}, asmerr.New(asmerr.ErrParse, loc, "offset size %s is not a number", args[0])
	}

	return ast.Statement{
		Kind:      ast.Directive,
		Location:  loc,
		Directive: ast.DirectiveOffset,
		Operands:  []ast.Operand{op},
	}, nil
}

func parseOperands(loc ast.Location, args []string) ([]ast.Operand, error) {
	operands := make([]ast.Operand, 0, len(args))
	for _, arg := range args {
		op, err := ParseOperand(arg)
		if err != nil {
			return nil, asmerr.Wrap(asmerr.ErrParse, loc, err, "invalid operand")
		}
		operands = append(operands, op)
	}
	return operands, nil
}

// splitLabel splits a leading "name:" label declaration from the line.
func splitLabel(code string) (string, string, bool) {
	i := strings.IndexAny(code, ":\"' \t")
	if i <= 0 || code[i] != ':' {
		return "", "", false
	}
	return code[:i], code[i+1:], true
}

// continues returns whether a line is continued on the next line.
func continues(code string) bool {
	if _, rest, ok := splitLabel(code); ok {
		code = strings.TrimSpace(rest)
	}
	if strings.HasSuffix(code, ",") {
		return true
	}
	lower := strings.ToLower(code)
	return lower == string(ast.DirectiveByte) || lower == string(ast.DirectiveWord)
}
