// Package loader handles loading assembly source files.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Source is the content of a loaded source file.
type Source struct {
	// Name identifies the file, two sources with the same name are the same file.
	Name string
	Text string
}

// Resolver resolves a file name to its source. Implementations return an
// error wrapping fs.ErrNotExist if the file can not be found.
type Resolver interface {
	Resolve(name string) (Source, error)
}

// Loader resolves source files on disk. Relative names are looked up in the
// current working directory first and then in the configured directories in
// order.
type Loader struct {
	dirs []string
}

// New creates a new file loader that searches the given directories.
func New(dirs ...string) *Loader {
	return &Loader{dirs: dirs}
}

// ForFile creates a file loader that falls back to the directory of the given
// primary source file.
func ForFile(primary string) *Loader {
	return New(filepath.Dir(primary))
}

// Resolve loads the named source file.
func (l *Loader) Resolve(name string) (Source, error) {
	for _, path := range l.candidates(name) {
		data, err := os.ReadFile(path)
		if err == nil {
			return Source{
				Name: filepath.Clean(path),
				Text: string(data),
			}, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Source{}, fmt.Errorf("reading file %s: %w", path, err)
		}
	}

	return Source{}, fmt.Errorf("resolving file %s: %w", name, fs.ErrNotExist)
}

func (l *Loader) candidates(name string) []string {
	if filepath.IsAbs(name) {
		return []string{name}
	}

	paths := make([]string, 0, len(l.dirs)+1)
	paths = append(paths, name)
	for _, dir := range l.dirs {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths
}

// MapResolver resolves sources from memory, keyed by file name.
type MapResolver map[string]string

// Resolve returns the source registered for the name.
func (m MapResolver) Resolve(name string) (Source, error) {
	text, ok := m[name]
	if !ok {
		return Source{}, fmt.Errorf("resolving file %s: %w", name, fs.ErrNotExist)
	}
	return Source{Name: name, Text: text}, nil
}
