package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *ToolStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "tools"))
	require.NoError(t, err)
	return s
}

func TestCreateAndInspect(t *testing.T) {
	s := newStore(t)

	code := `function greet(x) { return "hi " + x; }`
	require.NoError(t, s.Create("greet", code))

	got, err := s.Inspect("greet")
	require.NoError(t, err)
	assert.Equal(t, code, got)
}

func TestInspect_NotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.Inspect("missing")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestCreate_OverwriteLastWriteWins(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.Create("evolve_me", `function evolve_me() { return "version 1"; }`))
	require.NoError(t, s.Create("evolve_me", `function evolve_me() { return "version 2"; }`))

	got, err := s.Inspect("evolve_me")
	require.NoError(t, err)
	assert.Contains(t, got, "version 2")

	// Exactly one stored source remains.
	assert.Equal(t, []string{"evolve_me"}, s.List())
}

func TestList_ScansDirectory(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.Create("dummy_tool", `function dummy_tool() { return "ok"; }`))
	require.NoError(t, s.Create("magic_math", `function magic_math(x) { return parseInt(x) * 2; }`))

	assert.Equal(t, []string{"dummy_tool", "magic_math"}, s.List())

	// An external write to the directory is visible on the next List.
	external := filepath.Join(s.Dir(), "dropped_in"+Ext)
	require.NoError(t, os.WriteFile(external, []byte("function dropped_in() {}"), 0o644))
	assert.Contains(t, s.List(), "dropped_in")
}

func TestList_IgnoresForeignFiles(t *testing.T) {
	s := newStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "subdir"), 0o755))

	assert.Empty(t, s.List())
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "tools")
	_, err := New(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
