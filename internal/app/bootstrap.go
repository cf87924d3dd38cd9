package app

import (
	"path/filepath"
	"time"

	"github.com/dshills/undolog/internal/config"
	"github.com/dshills/undolog/internal/engine"
	"github.com/dshills/undolog/internal/engine/undo"
	"github.com/dshills/undolog/internal/hook"
	"github.com/dshills/undolog/internal/logging"
	"github.com/dshills/undolog/internal/plugin/lua"
)

// reloadDebounce is the quiet period before a changed config file is read.
const reloadDebounce = 200 * time.Millisecond

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app *Application
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{app: app}
}

// bootstrap initializes all components in dependency order.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogger,
		b.initHooks,
		b.initScripts,
		b.initEngine,
		b.initReloader,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	b.app.logger.Debug("application started", "components", b.app.initOrder)
	return nil
}

func (b *bootstrapper) initConfig() error {
	cfg, err := config.Load(b.app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.cfg = cfg
	b.app.initOrder = append(b.app.initOrder, "config")
	return nil
}

func (b *bootstrapper) initLogger() error {
	logCfg := b.app.cfg.Logger()
	if b.app.opts.LogLevel != "" {
		logCfg.Level = logging.ParseLogLevel(b.app.opts.LogLevel)
	}
	if b.app.opts.LogOutput != nil {
		logCfg.Output = b.app.opts.LogOutput
	}
	b.app.logger = logging.New(logCfg)
	b.app.initOrder = append(b.app.initOrder, "logger")
	return nil
}

func (b *bootstrapper) initHooks() error {
	b.app.hooks = hook.NewManager(b.app.logger)
	b.app.counter = hook.NewCounterHook()
	b.app.hooks.Register(hook.NewAuditHook(b.app.logger.WithComponent("audit")))
	b.app.hooks.Register(b.app.counter)
	b.app.initOrder = append(b.app.initOrder, "hooks")
	return nil
}

// initScripts loads configured scripts, resolved against the config file's
// directory, then the ones given on the command line. The first script
// defining outer_limit becomes the overflow handler.
func (b *bootstrapper) initScripts() error {
	var paths []string
	for _, p := range b.app.cfg.Scripts.Paths {
		if !filepath.IsAbs(p) && b.app.opts.ConfigPath != "" {
			p = filepath.Join(filepath.Dir(b.app.opts.ConfigPath), p)
		}
		paths = append(paths, p)
	}
	paths = append(paths, b.app.opts.Scripts...)

	// Registered first so that a failed load still closes earlier scripts.
	b.app.initOrder = append(b.app.initOrder, "scripts")
	for _, path := range paths {
		s, err := lua.Load(path, b.app.logger, lua.WithExecutionTimeout(b.app.cfg.Scripts.Timeout))
		if err != nil {
			return &InitError{Component: "scripts", Err: err}
		}
		b.app.scripts = append(b.app.scripts, s)

		if h := s.Hook(); h != nil {
			b.app.hooks.Register(h)
		}
		if h := s.OverflowHandler(); h != nil {
			if b.app.overflow == nil {
				b.app.overflow = h
			} else {
				b.app.logger.Warn("outer_limit already provided by an earlier script, ignoring", "script", s.Name())
			}
		}
		b.app.logger.Debug("script loaded", "script", s.Name(), "path", path)
	}
	return nil
}

func (b *bootstrapper) initEngine() error {
	cfg := b.app.cfg
	b.app.memory = newMemoryGuard(cfg.Undo.MemoryLimit)

	opts := []engine.Option{
		engine.WithLogger(b.app.logger),
		engine.WithAutoCollect(cfg.Undo.AutoCollect),
		engine.WithSessionOptions(
			undo.WithConfig(cfg.UndoSession(b.app.overflow, b.app.logger)),
			undo.WithNotifier(b.app.hooks),
			undo.WithMemoryCheck(b.app.memory.Check),
		),
	}
	if b.app.opts.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}
	b.app.engine = engine.New(opts...)
	b.app.initOrder = append(b.app.initOrder, "engine")
	return nil
}

func (b *bootstrapper) initReloader() error {
	if !b.app.opts.Watch || b.app.opts.ConfigPath == "" {
		return nil
	}
	r, err := config.NewReloader(b.app.opts.ConfigPath, b.app.cfg, b.app.ApplyConfig, reloadDebounce,
		config.WithReloadLogger(b.app.logger))
	if err != nil {
		return &InitError{Component: "reloader", Err: err}
	}
	b.app.reloader = r
	b.app.initOrder = append(b.app.initOrder, "reloader")
	return nil
}

// cleanup shuts down initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.app.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.app.initOrder[i])
	}
	b.app.initOrder = nil
}

func (b *bootstrapper) cleanupComponent(name string) {
	switch name {
	case "reloader":
		_ = b.app.reloader.Close()
		b.app.reloader = nil
	case "scripts":
		for _, s := range b.app.scripts {
			_ = s.Close()
		}
		b.app.scripts = nil
	case "hooks":
		b.app.hooks.Clear()
	case "logger":
		_ = b.app.logger.Sync()
	}
}
