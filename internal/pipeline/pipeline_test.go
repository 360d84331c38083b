package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/chip8asm/internal/asmerr"
	"github.com/retroenv/chip8asm/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestNew(t *testing.T) {
	logger := log.NewTestLogger(t)
	p := New(logger)

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
}

//nolint:funlen // test functions can be long
func TestExecute(t *testing.T) {
	dir := t.TempDir()
	input := createTempFile(t, dir, "game.asm", `include "sprites.asm"
start:
	LD I, ball
	DRW V0, V1, 2
	JP start
`)
	createTempFile(t, dir, "sprites.asm", "ball: db 0x60, 0x60\n")

	opts := options.Program{
		Parameters: options.Parameters{
			Input:   input,
			Output:  filepath.Join(dir, "game.ch8"),
			Listing: filepath.Join(dir, "game.lst"),
			Symbols: filepath.Join(dir, "game.sym"),
		},
		Flags: options.Flags{
			Offset: 512,
			Verify: true,
		},
	}

	p := New(log.NewTestLogger(t))
	result, err := p.Execute(context.Background(), opts)
	assert.NoError(t, err)
	assert.NotNil(t, result)

	image, err := os.ReadFile(opts.Output)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xA2, 0x06, 0xD0, 0x12, 0x12, 0x00, 0x60, 0x60}, image)

	listing, err := os.ReadFile(opts.Listing)
	assert.NoError(t, err)
	assert.Contains(t, string(listing), "LD I, ball")

	symbols, err := os.ReadFile(opts.Symbols)
	assert.NoError(t, err)
	assert.Equal(t, "ball = $0206\nstart = $0200\n", string(symbols))
}

func TestExecuteFailureWritesNoOutput(t *testing.T) {
	dir := t.TempDir()
	input := createTempFile(t, dir, "broken.asm", "CLS\nJP missing\n")

	opts := options.Program{
		Parameters: options.Parameters{
			Input:  input,
			Output: filepath.Join(dir, "broken.ch8"),
		},
		Flags: options.Flags{Offset: 512},
	}

	p := New(log.NewTestLogger(t))
	_, err := p.Execute(context.Background(), opts)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, asmerr.ErrUnresolvedSymbol))
	assert.True(t, strings.Contains(err.Error(), "broken.asm:2"))

	_, err = os.Stat(opts.Output)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestExecuteCancelled(t *testing.T) {
	dir := t.TempDir()
	input := createTempFile(t, dir, "game.asm", "CLS\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := options.Program{
		Parameters: options.Parameters{
			Input:  input,
			Output: filepath.Join(dir, "game.ch8"),
		},
		Flags: options.Flags{Offset: 512, Quiet: true},
	}

	_, err := New(log.NewTestLogger(t)).Execute(ctx, opts)
	assert.True(t, errors.Is(err, context.Canceled))
}

func createTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return path
}
