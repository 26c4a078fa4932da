package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the file extension of persisted tool scripts.
const Ext = ".js"

// ErrToolNotFound is returned by Inspect when no script file exists
// for the requested name.
var ErrToolNotFound = errors.New("tool not found")

// ToolStore is a filesystem-backed registry of tool sources, one
// script file per tool with the file stem as the tool name. The
// directory is the single source of truth: List rescans it on every
// call, so external writes become visible immediately. The store keeps
// no locks of its own and relies on filesystem semantics for the
// atomicity of individual reads and writes.
type ToolStore struct {
	dir string
}

// New opens (creating if needed) a tool store rooted at dir.
func New(dir string) (*ToolStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create tools directory %s: %w", dir, err)
	}
	return &ToolStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *ToolStore) Dir() string {
	return s.dir
}

// Path returns the script file path for a tool name.
func (s *ToolStore) Path(name string) string {
	return filepath.Join(s.dir, name+Ext)
}

// Create writes the script file for name, overwriting any previous
// version. Last write wins; there is no versioning.
func (s *ToolStore) Create(name, code string) error {
	if err := os.WriteFile(s.Path(name), []byte(code), 0o644); err != nil {
		return fmt.Errorf("unable to write tool %s: %w", name, err)
	}
	return nil
}

// List returns the names of every stored tool, sorted. It is derived
// by scanning the directory for script files, never from a cached
// index.
func (s *ToolStore) List() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filename := entry.Name()
		if !strings.HasSuffix(filename, Ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(filename, Ext))
	}
	sort.Strings(names)
	return names
}

// Inspect returns the stored source for name, or ErrToolNotFound.
func (s *ToolStore) Inspect(name string) (string, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
		}
		return "", fmt.Errorf("unable to read tool %s: %w", name, err)
	}
	return string(data), nil
}
