// Package asmerr defines the error taxonomy of the assembler.
// All errors are fatal to an assembly run, every error carries the source
// location that caused it.
package asmerr

import (
	"errors"
	"fmt"

	"github.com/retroenv/chip8asm/internal/ast"
)

// Error kinds, use errors.Is to check the kind of a returned error.
var (
	ErrParse            = errors.New("parse error")
	ErrDuplicateSymbol  = errors.New("duplicate symbol")
	ErrUnresolvedSymbol = errors.New("unresolved symbol")
	ErrOperandMismatch  = errors.New("operand mismatch")
	ErrAddressOverflow  = errors.New("address overflow")
	ErrIncludeCycle     = errors.New("include cycle")
	ErrIncludeNotFound  = errors.New("include not found")
)

// Error is an assembly error at a source location.
type Error struct {
	Kind     error
	Location ast.Location
	Message  string
	Err      error // optional underlying cause
}

// New returns a new located error of the given kind.
func New(kind error, loc ast.Location, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Wrap returns a new located error of the given kind that wraps a cause.
func Wrap(kind error, loc ast.Location, err error, format string, args ...any) *Error {
	e := New(kind, loc, format, args...)
	e.Err = err
	return e
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Location, e.Kind, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the error kind and the optional cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
