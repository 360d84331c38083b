package preprocessor

import (
	"errors"
	"testing"

	"github.com/retroenv/chip8asm/internal/asmerr"
	"github.com/retroenv/chip8asm/internal/ast"
	"github.com/retroenv/chip8asm/internal/loader"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func process(t *testing.T, files loader.MapResolver) (Result, error) {
	t.Helper()
	p := New(log.NewTestLogger(t), files)
	return p.Process("main.asm")
}

func TestIncludeOrder(t *testing.T) {
	files := loader.MapResolver{
		"main.asm": `CLS
include "b.asm"
after: RET
include "c.asm"
JP after`,
		"b.asm": `b_start: LD V1, 1
include "d.asm"
LD V1, 2`,
		"c.asm": "c_start: LD V2, 3",
		"d.asm": "d_start: LD V3, 4",
	}

	result, err := process(t, files)
	assert.NoError(t, err)

	var sequence []string
	for _, stmt := range result.Statements {
		sequence = append(sequence, stmt.Location.String()+" "+stmt.String())
	}
	assert.Equal(t, []string{
		"main.asm:1 CLS",
		"main.asm:3 after:",
		"main.asm:3 RET",
		"main.asm:5 JP after",
		"c.asm:1 c_start:",
		"c.asm:1 LD V2, 0x3",
		"b.asm:1 b_start:",
		"b.asm:1 LD V1, 0x1",
		"b.asm:3 LD V1, 0x2",
		"d.asm:1 d_start:",
		"d.asm:1 LD V3, 0x4",
	}, sequence)
}

func TestIncludeStackOrder(t *testing.T) {
	tests := []struct {
		name     string
		files    loader.MapResolver
		expected []string
	}{
		{
			name: "last include first",
			files: loader.MapResolver{
				"main.asm": "include \"b.asm\"\ninclude \"c.asm\"\nCLS",
				"b.asm":    "db 0xBB",
				"c.asm":    "db 0xCC",
			},
			expected: []string{"main.asm", "c.asm", "b.asm"},
		},
		{
			name: "nested include follows its includer",
			files: loader.MapResolver{
				"main.asm": "include \"b.asm\"\ninclude \"c.asm\"\nCLS",
				"b.asm":    "db 0xBB",
				"c.asm":    "include \"d.asm\"\ndb 0xCC",
				"d.asm":    "db 0xDD",
			},
			expected: []string{"main.asm", "c.asm", "d.asm", "b.asm"},
		},
		{
			name: "file queued twice is expanded at its first position",
			files: loader.MapResolver{
				"main.asm": "include \"b.asm\"\ninclude \"c.asm\"\nCLS",
				"b.asm":    "db 0xBB",
				"c.asm":    "include \"b.asm\"\ninclude \"d.asm\"\ndb 0xCC",
				"d.asm":    "db 0xDD",
			},
			expected: []string{"main.asm", "c.asm", "d.asm", "b.asm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := process(t, tt.files)
			assert.NoError(t, err)

			files := make([]string, 0, len(result.Statements))
			for _, stmt := range result.Statements {
				files = append(files, stmt.Location.File)
			}
			assert.Equal(t, tt.expected, files)
		})
	}
}

func TestIncludeOnce(t *testing.T) {
	files := loader.MapResolver{
		"main.asm": `include "lib.asm"
include "other.asm"`,
		"other.asm": `include "lib.asm"
RET`,
		"lib.asm": "CLS",
	}

	result, err := process(t, files)
	assert.NoError(t, err)
	assert.Len(t, result.Statements, 2)
	assert.Equal(t, "RET", result.Statements[0].Mnemonic)
	assert.Equal(t, "CLS", result.Statements[1].Mnemonic)
}

func TestIncludeErrors(t *testing.T) {
	tests := []struct {
		name  string
		files loader.MapResolver
		kind  error
		err   string
	}{
		{
			name: "self include",
			files: loader.MapResolver{
				"main.asm": `include "main.asm"`,
			},
			kind: asmerr.ErrIncludeCycle,
			err:  "main.asm:1: include cycle: file 'main.asm' includes itself: main.asm -> main.asm",
		},
		{
			name: "indirect cycle",
			files: loader.MapResolver{
				"main.asm": `include "a.asm"`,
				"a.asm":    "CLS\ninclude \"b.asm\"",
				"b.asm":    `include "a.asm"`,
			},
			kind: asmerr.ErrIncludeCycle,
			err:  "b.asm:1: include cycle: file 'a.asm' includes itself: main.asm -> a.asm -> b.asm -> a.asm",
		},
		{
			name: "missing include",
			files: loader.MapResolver{
				"main.asm": "CLS\ninclude \"missing.asm\"",
			},
			kind: asmerr.ErrIncludeNotFound,
			err:  "main.asm:2: include not found: file 'missing.asm' can not be found",
		},
		{
			name: "parse error in include",
			files: loader.MapResolver{
				"main.asm": `include "bad.asm"`,
				"bad.asm":  "CLS\nFOO V1",
			},
			kind: asmerr.ErrParse,
			err:  "bad.asm:2: parse error: unknown instruction 'FOO'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := process(t, tt.files)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind))
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestDefineSubstitution(t *testing.T) {
	files := loader.MapResolver{
		"main.asm": `JP SPRITE_X
define SPRITE_X V0
define POS SPRITE_X
define TARGET sprite
LD SPRITE_X, 5
LD POS, 6
LD I, TARGET
sprite: db SPEED
define SPEED 4
db SPEED`,
	}

	result, err := process(t, files)
	assert.NoError(t, err)
	assert.Len(t, result.Defines, 4)
	assert.Equal(t, ast.Register(0), result.Defines[1].Value)

	statements := result.Statements
	assert.Len(t, statements, 7)
	assert.Equal(t, []ast.Operand{ast.Symbol("SPRITE_X")}, statements[0].Operands)
	assert.Equal(t, []ast.Operand{ast.Register(0), ast.Number(5)}, statements[1].Operands)
	assert.Equal(t, []ast.Operand{ast.Register(0), ast.Number(6)}, statements[2].Operands)
	assert.Equal(t, []ast.Operand{ast.Keyword(ast.KeywordI), ast.Symbol("sprite")}, statements[3].Operands)
	assert.Equal(t, []ast.Operand{ast.Symbol("SPEED")}, statements[5].Operands)
	assert.Equal(t, []ast.Operand{ast.Number(4)}, statements[6].Operands)
}

func TestDefineAcrossIncludes(t *testing.T) {
	files := loader.MapResolver{
		"main.asm": `include "consts.asm"
define COLOR 1`,
		"consts.asm": "LD V1, COLOR",
	}

	result, err := process(t, files)
	assert.NoError(t, err)
	assert.Equal(t, []ast.Operand{ast.Register(1), ast.Number(1)}, result.Statements[0].Operands)
}

func TestDuplicateDefine(t *testing.T) {
	files := loader.MapResolver{
		"main.asm": "define A 1\ndefine A 2",
	}

	_, err := process(t, files)
	assert.True(t, errors.Is(err, asmerr.ErrDuplicateSymbol))
	assert.ErrorContains(t, err, "main.asm:2: duplicate symbol: define 'A' is already declared at main.asm:1")
}
