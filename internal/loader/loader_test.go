package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

//nolint:funlen // test functions can be long
func TestResolve(t *testing.T) {
	t.Run("load file adjacent to primary", func(t *testing.T) {
		dir := t.TempDir()
		primary := createTempFile(t, dir, "main.asm", "CLS\n")
		createTempFile(t, dir, "sprites.asm", "db 0xFF\n")

		loader := ForFile(primary)
		src, err := loader.Resolve("sprites.asm")
		assert.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "sprites.asm"), src.Name)
		assert.Equal(t, "db 0xFF\n", src.Text)
	})

	t.Run("load absolute path", func(t *testing.T) {
		dir := t.TempDir()
		primary := createTempFile(t, dir, "main.asm", "RET\n")

		loader := New()
		src, err := loader.Resolve(primary)
		assert.NoError(t, err)
		assert.Equal(t, "RET\n", src.Text)
	})

	t.Run("search directories in order", func(t *testing.T) {
		first := t.TempDir()
		second := t.TempDir()
		createTempFile(t, first, "lib.asm", "first")
		createTempFile(t, second, "lib.asm", "second")

		loader := New(first, second)
		src, err := loader.Resolve("lib.asm")
		assert.NoError(t, err)
		assert.Equal(t, "first", src.Text)
	})

	t.Run("working directory before primary directory", func(t *testing.T) {
		cwd := t.TempDir()
		primaryDir := t.TempDir()
		primary := createTempFile(t, primaryDir, "main.asm", "CLS\n")
		createTempFile(t, cwd, "lib.asm", "cwd")
		createTempFile(t, primaryDir, "lib.asm", "primary")
		t.Chdir(cwd)

		loader := ForFile(primary)
		src, err := loader.Resolve("lib.asm")
		assert.NoError(t, err)
		assert.Equal(t, "lib.asm", src.Name)
		assert.Equal(t, "cwd", src.Text)
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		loader := New(t.TempDir())
		_, err := loader.Resolve("missing.asm")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
		assert.ErrorContains(t, err, "missing.asm")
	})
}

func TestMapResolver(t *testing.T) {
	resolver := MapResolver{
		"main.asm": "include \"lib.asm\"\n",
	}

	src, err := resolver.Resolve("main.asm")
	assert.NoError(t, err)
	assert.Equal(t, "main.asm", src.Name)
	assert.Equal(t, "include \"lib.asm\"\n", src.Text)

	_, err = resolver.Resolve("lib.asm")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func createTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return path
}
