package app

import (
	"io"
	"sync"

	"github.com/dshills/undolog/internal/config"
	"github.com/dshills/undolog/internal/engine"
	"github.com/dshills/undolog/internal/engine/undo"
	"github.com/dshills/undolog/internal/hook"
	"github.com/dshills/undolog/internal/logging"
	"github.com/dshills/undolog/internal/plugin/lua"
)

// Options configures application startup.
type Options struct {
	// ConfigPath is a TOML or YAML file. Empty means defaults and
	// environment only.
	ConfigPath string

	// LogLevel overrides the configured level when set.
	LogLevel string

	// LogOutput receives log lines. Defaults to stderr.
	LogOutput io.Writer

	// Scripts are Lua files loaded after the configured ones.
	Scripts []string

	// Watch reloads ConfigPath when it changes.
	Watch bool

	// ReadOnly rejects every edit.
	ReadOnly bool
}

// Application is a configured engine with its hooks and scripts.
type Application struct {
	opts Options

	mu  sync.Mutex
	cfg *config.Config

	logger   *logging.Logger
	hooks    *hook.Manager
	counter  *hook.CounterHook
	scripts  []*lua.Script
	overflow undo.OverflowHandler
	memory   *memoryGuard
	engine   *engine.Engine
	reloader *config.Reloader

	initOrder []string
}

// New loads configuration and starts every component. On failure the
// components already started are shut down again.
func New(opts Options) (*Application, error) {
	a := &Application{opts: opts}
	if err := newBootstrapper(a).bootstrap(); err != nil {
		return nil, err
	}
	return a, nil
}

// Engine returns the engine.
func (a *Application) Engine() *engine.Engine {
	return a.engine
}

// Config returns the configuration in effect.
func (a *Application) Config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Logger returns the application logger.
func (a *Application) Logger() *logging.Logger {
	return a.logger
}

// Hooks returns the first-undoable-change hook manager.
func (a *Application) Hooks() *hook.Manager {
	return a.hooks
}

// Counter returns the built-in hook counting clean intervals per buffer.
func (a *Application) Counter() *hook.CounterHook {
	return a.counter
}

// Scripts returns the loaded Lua scripts.
func (a *Application) Scripts() []*lua.Script {
	return a.scripts
}

// ApplyConfig puts cfg into effect on the running engine. Script settings
// are only read at startup.
func (a *Application) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()

	if a.opts.LogLevel == "" {
		a.logger.SetLevel(logging.ParseLogLevel(cfg.Logging.Level))
	}
	a.memory.SetLimit(cfg.Undo.MemoryLimit)
	a.engine.SetAutoCollect(cfg.Undo.AutoCollect)
	a.engine.ApplyUndoConfig(cfg.UndoSession(a.overflow, a.logger))
}

// Shutdown stops the watcher, closes scripts and flushes the log.
func (a *Application) Shutdown() {
	newBootstrapper(a).cleanup()
}
