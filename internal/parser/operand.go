package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/chip8asm/internal/ast"
)

var keywords = map[string]string{
	"I":   ast.KeywordI,
	"[I]": ast.KeywordIndirect,
	"DT":  ast.KeywordDT,
	"ST":  ast.KeywordST,
	"K":   ast.KeywordK,
	"F":   ast.KeywordF,
	"HF":  ast.KeywordHF,
	"B":   ast.KeywordB,
	"R":   ast.KeywordR,
}

// ParseOperand parses a single operand token.
func ParseOperand(token string) (ast.Operand, error) {
	if token == "" {
		return ast.Operand{}, fmt.Errorf("missing operand")
	}

	switch token[0] {
	case '"':
		if len(token) < 2 || token[len(token)-1] != '"' {
			return ast.Operand{}, fmt.Errorf("%w: %s", errUnterminatedString, token)
		}
		return ast.String(token[1 : len(token)-1]), nil

	case '\'':
		if len(token) != 3 || token[2] != '\'' {
			return ast.Operand{}, fmt.Errorf("invalid character literal %s", token)
		}
		return ast.Number(uint16(token[1])), nil
	}

	if reg, ok := parseRegister(strings.ToUpper(token)); ok {
		return ast.Register(reg), nil
	}
	// keywords are case sensitive, lower case spellings are symbol names
	if keyword, ok := keywords[token]; ok {
		return ast.Keyword(keyword), nil
	}

	if c := token[0]; (c >= '0' && c <= '9') || c == '#' || c == '$' || c == '%' {
		value, err := ParseNumber(token)
		if err != nil {
			return ast.Operand{}, err
		}
		return ast.Number(value), nil
	}

	if isIdentifier(token) {
		return ast.Symbol(token), nil
	}
	return ast.Operand{}, fmt.Errorf("malformed operand %s", token)
}

// ParseNumber parses a decimal, 0x or # or $ prefixed hexadecimal or %
// prefixed binary number that fits into 16 bits.
func ParseNumber(s string) (uint16, error) {
	digits, base := s, 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		digits, base = s[2:], 16
	case strings.HasPrefix(s, "#"), strings.HasPrefix(s, "$"):
		digits, base = s[1:], 16
	case strings.HasPrefix(s, "%"):
		digits, base = s[1:], 2
	}

	value, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid number %s", s)
	}
	return uint16(value), nil
}

// parseRegister parses an upper case V0..VF register name.
func parseRegister(name string) (uint8, bool) {
	if len(name) != 2 || name[0] != 'V' {
		return 0, false
	}
	value, err := strconv.ParseUint(name[1:], 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(value), true
}
