package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/undolog/internal/engine/undo"
	"github.com/dshills/undolog/internal/logging"
)

// Overflow policies for Undo.Overflow.
const (
	// OverflowDiscard drops the log of a buffer whose newest command is
	// over the outer limit.
	OverflowDiscard = "discard"
	// OverflowNone leaves such a log to the ordinary limits.
	OverflowNone = "none"
)

// Config is the complete undolog configuration.
type Config struct {
	Undo    UndoConfig    `yaml:"undo" json:"undo"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Scripts ScriptsConfig `yaml:"scripts" json:"scripts"`
}

// UndoConfig holds the retention and recording settings.
type UndoConfig struct {
	// SoftLimit, StrongLimit and OuterLimit are cost-model bytes.
	SoftLimit   int `yaml:"soft_limit" json:"soft_limit"`
	StrongLimit int `yaml:"strong_limit" json:"strong_limit"`
	// OuterLimit of zero means no outer limit.
	OuterLimit int `yaml:"outer_limit" json:"outer_limit"`

	// Overflow is OverflowDiscard or OverflowNone. A script defining
	// outer_limit takes precedence.
	Overflow string `yaml:"overflow" json:"overflow"`

	SuppressPointRecording bool `yaml:"suppress_point_recording" json:"suppress_point_recording"`

	// AutoCollect truncates logs after every command.
	AutoCollect bool `yaml:"auto_collect" json:"auto_collect"`

	// MemoryLimit is a heap ceiling in bytes checked before each
	// boundary allocation. Zero disables the check.
	MemoryLimit int64 `yaml:"memory_limit" json:"memory_limit"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// ScriptsConfig lists the Lua scripts to load.
type ScriptsConfig struct {
	Paths   []string      `yaml:"paths,omitempty" json:"paths,omitempty"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Undo: UndoConfig{
			SoftLimit:   undo.DefaultSoftLimit,
			StrongLimit: undo.DefaultStrongLimit,
			OuterLimit:  undo.DefaultOuterLimit,
			Overflow:    OverflowDiscard,
			AutoCollect: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scripts: ScriptsConfig{
			Timeout: 2 * time.Second,
		},
	}
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	nonNegative := func(path string, v int64) {
		if v < 0 {
			errs = append(errs, &ValidationError{Path: path, Message: "must not be negative", Value: v})
		}
	}
	oneOf := func(path, v string, allowed ...string) {
		for _, a := range allowed {
			if v == a {
				return
			}
		}
		errs = append(errs, &ValidationError{Path: path, Message: fmt.Sprintf("must be one of %v", allowed), Value: v})
	}

	nonNegative("undo.soft_limit", int64(c.Undo.SoftLimit))
	nonNegative("undo.strong_limit", int64(c.Undo.StrongLimit))
	nonNegative("undo.outer_limit", int64(c.Undo.OuterLimit))
	nonNegative("undo.memory_limit", c.Undo.MemoryLimit)
	nonNegative("scripts.timeout", int64(c.Scripts.Timeout))
	oneOf("undo.overflow", c.Undo.Overflow, OverflowDiscard, OverflowNone)
	oneOf("logging.level", c.Logging.Level, "debug", "info", "warn", "warning", "error")
	oneOf("logging.format", c.Logging.Format, "console", "json")

	return errors.Join(errs...)
}

// UndoSession converts the undo section into session settings. scripted,
// when non-nil, is used as the overflow handler regardless of Overflow.
func (c *Config) UndoSession(scripted undo.OverflowHandler, logger *logging.Logger) undo.Config {
	cfg := undo.Config{
		SoftLimit:              c.Undo.SoftLimit,
		StrongLimit:            c.Undo.StrongLimit,
		SuppressPointRecording: c.Undo.SuppressPointRecording,
	}
	if c.Undo.OuterLimit > 0 {
		cfg.OuterLimit = undo.Limit(c.Undo.OuterLimit)
	}
	switch {
	case scripted != nil:
		cfg.OverflowHandler = scripted
	case c.Undo.Overflow == OverflowDiscard:
		cfg.OverflowHandler = undo.DiscardOverflow(logger)
	}
	return cfg
}

// Logger returns the logger configuration for the logging section.
func (c *Config) Logger() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLogLevel(c.Logging.Level)
	cfg.Format = c.Logging.Format
	return cfg
}
