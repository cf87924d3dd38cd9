package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dshills/undolog/internal/config/loader"
)

// Load builds a Config from the defaults, the file at path (skipped when
// path is empty) and UNDOLOG_* environment variables, in that order of
// precedence, and validates the result.
func Load(path string) (*Config, error) {
	return LoadFrom(path, loader.NewEnvLoader(loader.DefaultEnvPrefix))
}

// LoadFrom is Load with an explicit environment source; env may be nil.
func LoadFrom(path string, env loader.Loader) (*Config, error) {
	data, err := toMap(Default())
	if err != nil {
		return nil, err
	}

	if path != "" {
		fl, err := loader.ForPath(path)
		if err != nil {
			return nil, err
		}
		file, err := fl.Load()
		if err != nil {
			return nil, err
		}
		if file == nil {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		data = loader.DeepMerge(data, file)
	}

	if env != nil {
		vars, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		data = loader.DeepMerge(data, vars)
	}

	cfg, err := fromMap(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// toMap renders cfg as the nested map the loaders produce.
func toMap(cfg *Config) (map[string]any, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	return data, nil
}

// fromMap decodes a merged map into a Config. Unknown keys are ignored.
func fromMap(data map[string]any) (*Config, error) {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return cfg, nil
}
