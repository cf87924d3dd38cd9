package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
name: sample
undo:
  soft_limit: 1
  strong_limit: 1
buffers:
  - name: main
    text: "hello"
  - name: mirror
    base: main
steps:
  - {op: insert, at: 5, text: " world"}
  - {op: end}
  - {op: delete, from: 0, to: 6}
  - {op: end}
  - {op: replace, from: 0, to: 5, text: WORLD}
  - {op: end}
  - {op: collect}
`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "sample", s.Name)
	require.NotNil(t, s.Undo)
	require.NotNil(t, s.Undo.SoftLimit)
	assert.Equal(t, 1, *s.Undo.SoftLimit)
	assert.Nil(t, s.Undo.OuterLimit)
	assert.Equal(t, []BufferSpec{
		{Name: "main", Text: "hello"},
		{Name: "mirror", Base: "main"},
	}, s.Buffers)
	require.Len(t, s.Steps, 7)
	assert.Equal(t, Step{Op: OpInsert, At: 5, Text: " world"}, s.Steps[0])
	assert.Equal(t, "main", s.bufferFor(s.Steps[0]))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"empty", "", ErrInvalidScript},
		{"no buffers", "steps: []\n", ErrInvalidScript},
		{"unnamed buffer", "buffers: [{text: x}]\n", ErrInvalidScript},
		{"duplicate buffer", "buffers: [{name: a}, {name: a}]\n", ErrInvalidScript},
		{"unknown base", "buffers: [{name: a, base: b}]\n", ErrInvalidScript},
		{"indirect with text", "buffers: [{name: a}, {name: b, base: a, text: x}]\n", ErrInvalidScript},
		{"unknown op", "buffers: [{name: a}]\nsteps: [{op: yank}]\n", ErrUnknownOp},
		{"unknown step buffer", "buffers: [{name: a}]\nsteps: [{op: end, buffer: b}]\n", ErrInvalidScript},
		{"negative limit", "undo: {soft_limit: -1}\nbuffers: [{name: a}]\n", ErrInvalidScript},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("buffers: [{name: a, colour: red}]\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.yaml")
	require.NoError(t, os.WriteFile(path, []byte("buffers: [{name: a}]\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStepString(t *testing.T) {
	tests := []struct {
		step Step
		want string
	}{
		{Step{Op: OpInsert, At: 2, Text: "x"}, `insert "x" at 2`},
		{Step{Op: OpDelete, From: 1, To: 3}, "delete [1,3)"},
		{Step{Op: OpReplace, From: 0, To: 1, Text: "y"}, `replace [0,1) with "y"`},
		{Step{Op: OpProperty, Name: "face", Value: "bold", From: 0, To: 2}, "property face=bold on [0,2)"},
		{Step{Op: OpGoto, At: 4}, "goto 4"},
		{Step{Op: OpEnd}, "end"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.step.String())
	}
}
