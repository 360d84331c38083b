package parser

import (
	"errors"
	"fmt"
	"strings"
)

var errUnterminatedString = errors.New("unterminated string")

// stripComment removes a ; comment that is not part of a string or
// character literal.
func stripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ';':
			return line[:i]
		}
	}
	return line
}

// splitFields splits a line into tokens separated by whitespace or commas.
// Quoted strings and character literals are kept as single tokens including
// their quotes.
func splitFields(line string) ([]string, error) {
	var (
		fields []string
		buf    strings.Builder
	)

	flush := func() {
		if buf.Len() > 0 {
			fields = append(fields, buf.String())
			buf.Reset()
		}
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' || c == '\'':
			end := strings.IndexByte(line[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("%w: %s", errUnterminatedString, line[i:])
			}
			buf.WriteString(line[i : i+end+2])
			i += end + 1

		case c == ',' || c == ' ' || c == '\t' || c == '\r':
			flush()

		default:
			buf.WriteByte(c)
		}
	}
	flush()

	return fields, nil
}

func isIdentifierStart(c byte) bool {
	return c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentifierChar(c byte) bool {
	return isIdentifierStart(c) || (c >= '0' && c <= '9')
}

// isIdentifier returns whether the name is a valid label or define name.
func isIdentifier(name string) bool {
	if name == "" || !isIdentifierStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentifierChar(name[i]) {
			return false
		}
	}
	return true
}
