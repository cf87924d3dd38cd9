package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/undolog/internal/engine"
	"github.com/dshills/undolog/internal/report"
)

func TestReplayText(t *testing.T) {
	path := writeFile(t, "edits.yaml", sampleScript)

	stdout, _, err := execute(t, "replay", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "script sample\n")
	assert.Contains(t, stdout, "buffer main  point 0  size 112  boundaries 2  entries 5")
	assert.Contains(t, stdout, `  text "bcxy"`)
	assert.Contains(t, stdout, "  sizes 16 80")
	assert.Contains(t, stdout, `delete "a" at 0`)
	assert.Contains(t, stdout, "buffer mirror (indirect, base main)")
}

func TestReplayJSON(t *testing.T) {
	path := writeFile(t, "edits.yaml", sampleScript)

	stdout, _, err := execute(t, "replay", path, "--format", "json")
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &r))
	assert.Equal(t, "sample", r.Script)

	main, ok := r.Buffer("main")
	require.True(t, ok)
	assert.Equal(t, 112, main.Size)
	assert.Equal(t, []int{16, 80}, main.CommandSizes)
	require.Len(t, main.Entries, 5)
	assert.Equal(t, "deletion", main.Entries[1].Kind)
	assert.Equal(t, 48, main.Entries[1].Cost)
}

func TestReplayVerbose(t *testing.T) {
	path := writeFile(t, "edits.yaml", sampleScript)

	_, stderr, err := execute(t, "replay", path, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, `step 0: insert "xy" at 3`)
	assert.Contains(t, stderr, "step 3: end")
	assert.Contains(t, stderr, "first change main: 1")
}

func TestReplayStepFailure(t *testing.T) {
	path := writeFile(t, "edits.yaml", `
buffers:
  - name: main
    text: abc
steps:
  - {op: insert, at: 0, text: x}
  - {op: delete, from: 2, to: 10}
`)

	stdout, _, err := execute(t, "replay", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, engine.ErrRangeInvalid)

	assert.Contains(t, stdout, `  text "xabc"`)
}

func TestReplayErrors(t *testing.T) {
	t.Run("missing script", func(t *testing.T) {
		_, _, err := execute(t, "replay", "/nonexistent/edits.yaml")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("invalid script", func(t *testing.T) {
		path := writeFile(t, "edits.yaml", "steps:\n  - {op: fly}\n")
		_, _, err := execute(t, "replay", path)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("bad config", func(t *testing.T) {
		path := writeFile(t, "edits.yaml", sampleScript)
		cfg := writeFile(t, "undolog.yaml", "undo:\n  soft_limit: -1\n")
		_, _, err := execute(t, "replay", path, "--config", cfg)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("missing argument", func(t *testing.T) {
		_, _, err := execute(t, "replay")
		require.Error(t, err)
	})
}

func TestReplayWithConfig(t *testing.T) {
	path := writeFile(t, "edits.yaml", sampleScript)
	cfg := writeFile(t, "undolog.toml", `
[undo]
soft_limit = 20
strong_limit = 60
`)

	stdout, _, err := execute(t, "replay", path, "-c", cfg, "--format", "json")
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &r))
	main, ok := r.Buffer("main")
	require.True(t, ok)
	assert.Less(t, main.Size, 112)
}
