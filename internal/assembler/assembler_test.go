package assembler

import (
	"errors"
	"testing"

	"github.com/retroenv/chip8asm/internal/arch/chip8"
	"github.com/retroenv/chip8asm/internal/asmerr"
	"github.com/retroenv/chip8asm/internal/layout"
	"github.com/retroenv/chip8asm/internal/loader"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func assemble(t *testing.T, files loader.MapResolver) (*Result, error) {
	t.Helper()
	asm := New(log.NewTestLogger(t), files, DefaultOptions())
	return asm.Assemble("main.asm")
}

func TestAssemble(t *testing.T) {
	files := loader.MapResolver{
		"main.asm": `; draw a sprite forever
define X V1
define Y V2
start:
	CLS
	LD X, 10
	LD Y, 5
	LD I, sprite
loop:
	DRW X, Y, 4
	JP loop
sprite: db
	%01100110,
	%11111111,
	0x7E, 0x3C`,
	}

	result, err := assemble(t, files)
	assert.NoError(t, err)
	assert.Equal(t, []byte{
		0x00, 0xE0,
		0x61, 0x0A,
		0x62, 0x05,
		0xA2, 0x0C,
		0xD1, 0x24,
		0x12, 0x08,
		0x66, 0xFF, 0x7E, 0x3C,
	}, result.Image)

	sym, ok := result.Symbols.Get("loop")
	assert.True(t, ok)
	assert.Equal(t, uint16(0x208), sym.Address)
	assert.Equal(t, uint16(chip8.ProgramStart), result.Program.Base)
}

func TestAssembleLengthsMatchLayout(t *testing.T) {
	files := loader.MapResolver{
		"main.asm": `a: CLS
b: db 1 2 3
c: dw 1
d: text "xyz"
e: offset 3
f: SE V1, 2`,
	}

	result, err := assemble(t, files)
	assert.NoError(t, err)

	total := 0
	for _, item := range result.Program.Items {
		length, err := layout.Length(item.Statement)
		assert.NoError(t, err)
		assert.Equal(t, length, len(item.Data))
		assert.Equal(t, uint16(int(result.Program.Base)+total), item.Address)
		total += length
	}
	assert.Equal(t, total, len(result.Image))
}

func TestAssembleIncludeOrder(t *testing.T) {
	files := loader.MapResolver{
		"main.asm": `CLS
include "lib.asm"
after: JP after`,
		"lib.asm": `lib: RET`,
	}

	result, err := assemble(t, files)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xE0, 0x12, 0x02, 0x00, 0xEE}, result.Image)

	after, _ := result.Symbols.Get("after")
	assert.Equal(t, uint16(0x202), after.Address)
	lib, _ := result.Symbols.Get("lib")
	assert.Equal(t, uint16(0x204), lib.Address)
}

func TestAssembleDefineRegister(t *testing.T) {
	aliased, err := assemble(t, loader.MapResolver{
		"main.asm": "define ALIAS V0\nLD ALIAS, 1\nJP ALIAS, 0x300",
	})
	assert.NoError(t, err)

	direct, err := assemble(t, loader.MapResolver{
		"main.asm": "LD V0, 1\nJP V0, 0x300",
	})
	assert.NoError(t, err)
	assert.Equal(t, direct.Image, aliased.Image)
}

func TestAssembleBase(t *testing.T) {
	asm := New(log.NewTestLogger(t), loader.MapResolver{"main.asm": "here: JP here"}, Options{Base: 0x600})
	result, err := asm.Assemble("main.asm")
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x16, 0x00}, result.Image)
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name  string
		files loader.MapResolver
		kind  error
	}{
		{"missing primary", loader.MapResolver{}, asmerr.ErrIncludeNotFound},
		{"missing operand", loader.MapResolver{"main.asm": "LD V1,"}, asmerr.ErrOperandMismatch},
		{"unknown instruction", loader.MapResolver{"main.asm": "NOP"}, asmerr.ErrParse},
		{"duplicate label and define", loader.MapResolver{"main.asm": "define a 1\na: CLS"}, asmerr.ErrDuplicateSymbol},
		{"unresolved", loader.MapResolver{"main.asm": "CALL sub"}, asmerr.ErrUnresolvedSymbol},
		{"overflow", loader.MapResolver{"main.asm": "offset 0xFDFE\nCLS\nCLS"}, asmerr.ErrAddressOverflow},
		{"cycle", loader.MapResolver{"main.asm": `include "main.asm"`}, asmerr.ErrIncludeCycle},
		{"register define in data", loader.MapResolver{"main.asm": "define X V3\ndb X"}, asmerr.ErrOperandMismatch},
		{"keyword define in words", loader.MapResolver{"main.asm": "define X DT\ndw X"}, asmerr.ErrOperandMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := assemble(t, tt.files)
			assert.Error(t, err)
			assert.True(t, result == nil)
			assert.True(t, errors.Is(err, tt.kind), "unexpected error kind")
		})
	}
}

func TestAssembleDataRegisterLocation(t *testing.T) {
	_, err := assemble(t, loader.MapResolver{"main.asm": "define X V3\nCLS\ndb X"})
	assert.Error(t, err)
	assert.ErrorContains(t, err, "main.asm:3")
	assert.ErrorContains(t, err, "operand V3 is not an immediate value")
}

func TestAssembleLowerCaseKeywordLabels(t *testing.T) {
	result, err := assemble(t, loader.MapResolver{
		"main.asm": "i: CLS\nf: JP i\ndt: LD I, f\nLD DT, V1",
	})
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xE0, 0x12, 0x00, 0xA2, 0x02, 0xF1, 0x15}, result.Image)
}

func TestAssembleMultipleIncludes(t *testing.T) {
	files := loader.MapResolver{
		"main.asm": "include \"b.asm\"\ninclude \"c.asm\"\nCLS",
		"b.asm":    "b: db 0xBB",
		"c.asm":    "c: db 0xCC",
	}

	result, err := assemble(t, files)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xE0, 0xCC, 0xBB}, result.Image)

	c, _ := result.Symbols.Get("c")
	assert.Equal(t, uint16(0x202), c.Address)
	b, _ := result.Symbols.Get("b")
	assert.Equal(t, uint16(0x203), b.Address)
}
