package config

import (
	"sync"
	"time"

	"github.com/dshills/undolog/internal/config/loader"
	"github.com/dshills/undolog/internal/config/watcher"
	"github.com/dshills/undolog/internal/logging"
)

// ApplyFunc receives each successfully reloaded configuration.
type ApplyFunc func(cfg *Config)

// Reloader re-reads a config file whenever it changes on disk and hands the
// new configuration to an ApplyFunc. A file that fails to load or validate
// is logged and the previous configuration stays in effect.
type Reloader struct {
	mu      sync.Mutex
	path    string
	env     loader.Loader
	apply   ApplyFunc
	current *Config
	logger  *logging.Logger
	watcher *watcher.Watcher
}

// ReloaderOption configures a Reloader.
type ReloaderOption func(*Reloader)

// WithReloadLogger sets the logger for reload results.
func WithReloadLogger(logger *logging.Logger) ReloaderOption {
	return func(r *Reloader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithEnv replaces the environment source used on reload.
func WithEnv(env loader.Loader) ReloaderOption {
	return func(r *Reloader) {
		r.env = env
	}
}

// NewReloader starts watching path. initial is the configuration already in
// effect.
func NewReloader(path string, initial *Config, apply ApplyFunc, debounce time.Duration, opts ...ReloaderOption) (*Reloader, error) {
	r := &Reloader{
		path:    path,
		env:     loader.NewEnvLoader(loader.DefaultEnvPrefix),
		apply:   apply,
		current: initial,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("config").WithField("path", path)

	w, err := watcher.New(watcher.WithDebounce(debounce), watcher.WithLogger(r.logger))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return nil, err
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			r.logger.Warn("config file went away, keeping current settings", "op", ev.Op.String())
			return
		}
		_ = r.Reload()
	})
	r.watcher = w
	return r, nil
}

// Reload loads the file now. On success the new configuration is applied
// and returned by Current.
func (r *Reloader) Reload() error {
	cfg, err := LoadFrom(r.path, r.env)
	if err != nil {
		r.logger.Error("config reload failed", "error", err)
		return err
	}

	r.mu.Lock()
	r.current = cfg
	r.mu.Unlock()

	if r.apply != nil {
		r.apply(cfg)
	}
	r.logger.Info("config reloaded",
		"soft_limit", cfg.Undo.SoftLimit,
		"strong_limit", cfg.Undo.StrongLimit,
		"outer_limit", cfg.Undo.OuterLimit)
	return nil
}

// Current returns the configuration in effect.
func (r *Reloader) Current() *Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Close stops watching.
func (r *Reloader) Close() error {
	return r.watcher.Close()
}
