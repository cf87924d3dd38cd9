package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapFS serves files from memory.
type mapFS map[string]string

func (m mapFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(data), nil
}

func TestTOMLLoader(t *testing.T) {
	fsys := mapFS{"undolog.toml": `
[undo]
soft_limit = 1000
outer_limit = 5000

[logging]
level = "debug"
`}
	config, err := NewTOMLLoaderWithFS(fsys, "undolog.toml").Load()
	require.NoError(t, err)

	soft, ok := Lookup(config, "undo.soft_limit")
	require.True(t, ok)
	assert.EqualValues(t, 1000, soft)

	level, ok := Lookup(config, "logging.level")
	require.True(t, ok)
	assert.Equal(t, "debug", level)
}

func TestTOMLLoaderMissingFile(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(mapFS{}, "missing.toml").Load()
	assert.NoError(t, err)
	assert.Nil(t, config)
}

func TestTOMLLoaderParseError(t *testing.T) {
	fsys := mapFS{"bad.toml": "[undo]\nsoft_limit = = 3\n"}
	_, err := NewTOMLLoaderWithFS(fsys, "bad.toml").Load()

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "bad.toml", perr.Path)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, err.Error(), "bad.toml")
}

func TestTOMLLoaderFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, config)
}

func TestYAMLLoader(t *testing.T) {
	fsys := mapFS{"undolog.yaml": `
undo:
  strong_limit: 2000
scripts:
  paths: [a.lua, b.lua]
`}
	config, err := NewYAMLLoaderWithFS(fsys, "undolog.yaml").Load()
	require.NoError(t, err)

	strong, ok := Lookup(config, "undo.strong_limit")
	require.True(t, ok)
	assert.EqualValues(t, 2000, strong)

	paths, ok := Lookup(config, "scripts.paths")
	require.True(t, ok)
	assert.Equal(t, []any{"a.lua", "b.lua"}, paths)
}

func TestYAMLLoaderParseError(t *testing.T) {
	fsys := mapFS{"bad.yaml": "undo: [unclosed\n"}
	_, err := NewYAMLLoaderWithFS(fsys, "bad.yaml").Load()

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want any
	}{
		{"a.toml", &TOMLLoader{}},
		{"a.yaml", &YAMLLoader{}},
		{"A.YML", &YAMLLoader{}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			l, err := ForPath(tt.path)
			require.NoError(t, err)
			assert.IsType(t, tt.want, l)
		})
	}

	_, err := ForPath("a.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "undolog.toml")
	require.NoError(t, os.WriteFile(path, []byte("[undo]\nsoft_limit = 7\n"), 0o644))

	l, err := ForPath(path)
	require.NoError(t, err)
	config, err := l.Load()
	require.NoError(t, err)

	soft, _ := Lookup(config, "undo.soft_limit")
	assert.EqualValues(t, 7, soft)
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"undo":    map[string]any{"soft_limit": 1, "strong_limit": 2},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"undo":    map[string]any{"soft_limit": 10},
		"logging": "flat",
	}

	got := DeepMerge(dst, src)
	assert.Equal(t, map[string]any{
		"undo":    map[string]any{"soft_limit": 10, "strong_limit": 2},
		"logging": "flat",
	}, got)

	assert.Equal(t, src, DeepMerge(nil, src))
}

func TestLookupMissing(t *testing.T) {
	data := map[string]any{"undo": map[string]any{"soft_limit": 1}, "flat": 3}

	_, ok := Lookup(data, "undo.strong_limit")
	assert.False(t, ok)
	_, ok = Lookup(data, "flat.deeper")
	assert.False(t, ok)
}
