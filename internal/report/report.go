// Package report describes the state of an engine's buffers and undo logs
// for display.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/undolog/internal/engine"
	"github.com/dshills/undolog/internal/engine/undo"
)

// Report is a snapshot of every buffer of an engine.
type Report struct {
	Script  string         `json:"script,omitempty"`
	Buffers []BufferReport `json:"buffers"`
}

// BufferReport describes one buffer. Indirect buffers name their base and
// carry no journal of their own. IDs stay stable when a buffer is renamed
// between snapshots.
type BufferReport struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Base      string `json:"base,omitempty"`
	BaseID    string `json:"base_id,omitempty"`
	Text      string `json:"text"`
	Point     int    `json:"point"`
	Modified  bool   `json:"modified"`
	Recording bool   `json:"recording"`

	Size       int `json:"size"`
	Boundaries int `json:"boundaries"`
	// CommandSizes[k-1] is the cost of the log through its k-th boundary.
	CommandSizes []int         `json:"command_sizes,omitempty"`
	Entries      []EntryReport `json:"entries,omitempty"`
}

// EntryReport is one undo record, newest first.
type EntryReport struct {
	Kind   string `json:"kind"`
	Record string `json:"record"`
	Cost   int    `json:"cost"`
}

// Build snapshots e.
func Build(e *engine.Engine, scriptName string) (*Report, error) {
	r := &Report{Script: scriptName}
	for _, b := range e.Buffers() {
		br := BufferReport{
			ID:        b.ID().String(),
			Name:      b.Name(),
			Text:      b.Text(),
			Point:     int(b.Point()),
			Modified:  b.Modified(),
			Recording: b.UndoEnabled(),
		}
		if b.IsIndirect() {
			br.Base = b.Root().Name()
			br.BaseID = b.Root().ID().String()
			r.Buffers = append(r.Buffers, br)
			continue
		}

		size, ok, err := e.UndoSize(b.Name(), 0)
		if err != nil {
			return nil, fmt.Errorf("report %s: %w", b.Name(), err)
		}
		if ok {
			br.Size = size
			br.Boundaries = b.UndoLog().Boundaries()
			for k := 1; k <= br.Boundaries; k++ {
				s, _, err := e.UndoSize(b.Name(), k)
				if err != nil {
					return nil, fmt.Errorf("report %s: %w", b.Name(), err)
				}
				br.CommandSizes = append(br.CommandSizes, s)
			}
		}

		entries, err := e.UndoEntries(b.Name())
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			br.Entries = append(br.Entries, EntryReport{
				Kind:   entry.Kind().String(),
				Record: entry.String(),
				Cost:   undo.Cost(entry),
			})
		}
		r.Buffers = append(r.Buffers, br)
	}
	return r, nil
}

// Buffer returns the report for the named buffer.
func (r *Report) Buffer(name string) (BufferReport, bool) {
	for _, b := range r.Buffers {
		if b.Name == name {
			return b, true
		}
	}
	return BufferReport{}, false
}

// BufferByID returns the report for the buffer with the given ID.
func (r *Report) BufferByID(id string) (BufferReport, bool) {
	for _, b := range r.Buffers {
		if b.ID == id {
			return b, true
		}
	}
	return BufferReport{}, false
}

// WriteJSON writes r as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes r for a terminal.
func (r *Report) WriteText(w io.Writer) error {
	var sb strings.Builder
	if r.Script != "" {
		fmt.Fprintf(&sb, "script %s\n", r.Script)
	}
	for i, b := range r.Buffers {
		if i > 0 || r.Script != "" {
			sb.WriteByte('\n')
		}
		for _, line := range b.Lines() {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Header returns the one-line summary of the buffer.
func (b BufferReport) Header() string {
	switch {
	case b.Base != "":
		return fmt.Sprintf("buffer %s (indirect, base %s)  point %d", b.Name, b.Base, b.Point)
	case !b.Recording:
		return fmt.Sprintf("buffer %s  point %d  recording off", b.Name, b.Point)
	default:
		return fmt.Sprintf("buffer %s  point %d  size %d  boundaries %d  entries %d",
			b.Name, b.Point, b.Size, b.Boundaries, len(b.Entries))
	}
}

// Lines renders the buffer as text lines: the header, the text, the
// per-boundary sizes and the journal newest first.
func (b BufferReport) Lines() []string {
	lines := []string{b.Header(), fmt.Sprintf("  text %q", b.Text)}
	if len(b.CommandSizes) > 0 {
		sizes := make([]string, len(b.CommandSizes))
		for i, s := range b.CommandSizes {
			sizes[i] = fmt.Sprint(s)
		}
		lines = append(lines, "  sizes "+strings.Join(sizes, " "))
	}
	for i, e := range b.Entries {
		lines = append(lines, fmt.Sprintf("  %3d  %-40s %6d", i, e.Record, e.Cost))
	}
	return lines
}
