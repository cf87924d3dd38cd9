package script

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Errors returned while reading a script.
var (
	// ErrInvalidScript indicates a script that parsed but makes no sense.
	ErrInvalidScript = errors.New("invalid edit script")

	// ErrUnknownOp indicates a step with an unrecognised op.
	ErrUnknownOp = errors.New("unknown step op")
)

// Op names a step type.
type Op string

// Step ops.
const (
	OpInsert   Op = "insert"
	OpDelete   Op = "delete"
	OpReplace  Op = "replace"
	OpProperty Op = "property"
	OpGoto     Op = "goto"
	OpMarker   Op = "marker"
	OpSave     Op = "save"
	OpEnd      Op = "end"
	OpCollect  Op = "collect"
	OpEnable   Op = "enable"
	OpDisable  Op = "disable"
	OpReset    Op = "reset"
)

var knownOps = map[Op]bool{
	OpInsert: true, OpDelete: true, OpReplace: true, OpProperty: true,
	OpGoto: true, OpMarker: true, OpSave: true, OpEnd: true,
	OpCollect: true, OpEnable: true, OpDisable: true, OpReset: true,
}

// Script is a parsed edit script.
type Script struct {
	Name    string       `yaml:"name"`
	Undo    *Limits      `yaml:"undo"`
	Buffers []BufferSpec `yaml:"buffers"`
	Steps   []Step       `yaml:"steps"`
}

// Limits overrides session settings for the run. Unset fields keep the
// engine's values; an outer_limit of zero removes the outer limit.
type Limits struct {
	SoftLimit   *int `yaml:"soft_limit"`
	StrongLimit *int `yaml:"strong_limit"`
	OuterLimit  *int `yaml:"outer_limit"`
}

// BufferSpec describes a buffer created before the first step.
type BufferSpec struct {
	Name string `yaml:"name"`
	Text string `yaml:"text"`
	// Base makes the buffer an indirect view of an earlier buffer.
	Base string `yaml:"base"`
	// NoUndo creates the buffer with recording disabled.
	NoUndo bool `yaml:"no_undo"`
}

// Step is one engine call. Which fields matter depends on Op.
type Step struct {
	Op     Op     `yaml:"op"`
	Buffer string `yaml:"buffer"`

	At   int `yaml:"at"`
	From int `yaml:"from"`
	To   int `yaml:"to"`

	Text  string `yaml:"text"`
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`

	// Insertion makes a marker advance over text inserted at it.
	Insertion bool `yaml:"insertion"`
}

// String returns a short description of the step.
func (s Step) String() string {
	switch s.Op {
	case OpInsert:
		return fmt.Sprintf("insert %q at %d", s.Text, s.At)
	case OpDelete:
		return fmt.Sprintf("delete [%d,%d)", s.From, s.To)
	case OpReplace:
		return fmt.Sprintf("replace [%d,%d) with %q", s.From, s.To, s.Text)
	case OpProperty:
		return fmt.Sprintf("property %s=%v on [%d,%d)", s.Name, s.Value, s.From, s.To)
	case OpGoto, OpMarker:
		return fmt.Sprintf("%s %d", s.Op, s.At)
	default:
		return string(s.Op)
	}
}

// Parse reads a script from r. Unknown fields are rejected.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScript)
		}
		return nil, fmt.Errorf("parse edit script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open edit script: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Validate checks buffer names and step ops.
func (s *Script) Validate() error {
	if len(s.Buffers) == 0 {
		return fmt.Errorf("%w: no buffers", ErrInvalidScript)
	}

	seen := make(map[string]bool, len(s.Buffers))
	for i, b := range s.Buffers {
		switch {
		case b.Name == "":
			return fmt.Errorf("%w: buffer %d has no name", ErrInvalidScript, i)
		case seen[b.Name]:
			return fmt.Errorf("%w: duplicate buffer %q", ErrInvalidScript, b.Name)
		case b.Base != "" && !seen[b.Base]:
			return fmt.Errorf("%w: buffer %q has unknown base %q", ErrInvalidScript, b.Name, b.Base)
		case b.Base != "" && b.Text != "":
			return fmt.Errorf("%w: indirect buffer %q cannot have text", ErrInvalidScript, b.Name)
		}
		seen[b.Name] = true
	}

	for i, step := range s.Steps {
		if !knownOps[step.Op] {
			return fmt.Errorf("step %d: %w: %q", i, ErrUnknownOp, step.Op)
		}
		if step.Buffer != "" && !seen[step.Buffer] {
			return fmt.Errorf("%w: step %d names unknown buffer %q", ErrInvalidScript, i, step.Buffer)
		}
	}

	if l := s.Undo; l != nil {
		for name, v := range map[string]*int{
			"soft_limit": l.SoftLimit, "strong_limit": l.StrongLimit, "outer_limit": l.OuterLimit,
		} {
			if v != nil && *v < 0 {
				return fmt.Errorf("%w: undo.%s is negative", ErrInvalidScript, name)
			}
		}
	}
	return nil
}

// bufferFor returns the buffer a step applies to.
func (s *Script) bufferFor(step Step) string {
	if step.Buffer != "" {
		return step.Buffer
	}
	return s.Buffers[0].Name
}
