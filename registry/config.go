package registry

import (
	"fmt"

	"github.com/on-the-ground/compiled_reflect/shared/logging"
)

type Config struct {
	LogLevel  string // default: "" (info), only used by NewFromConfig
	NumShards int    // default: 1
}

func NewConfig(numShards int) Config {
	if numShards <= 0 {
		numShards = 1
	}
	return Config{
		NumShards: numShards,
	}
}

// ConfigFromMap reads a Config from dotted keys such as ConfigRegistryCacheNumShards.
// Missing keys keep their defaults.
func ConfigFromMap(m map[string]any) (Config, error) {
	cfg := NewConfig(0)

	if raw, ok := m[ConfigRegistryCacheNumShards]; ok {
		n, ok := raw.(int)
		if !ok {
			return Config{}, fmt.Errorf("%s: expected int, got %T", ConfigRegistryCacheNumShards, raw)
		}
		cfg = NewConfig(n)
	}

	if raw, ok := m[ConfigRegistryLogLevel]; ok {
		lvl, ok := raw.(string)
		if !ok {
			return Config{}, fmt.Errorf("%s: expected string, got %T", ConfigRegistryLogLevel, raw)
		}
		if _, err := logging.ParseLevel(lvl); err != nil {
			return Config{}, fmt.Errorf("%s: %w", ConfigRegistryLogLevel, err)
		}
		cfg.LogLevel = lvl
	}

	return cfg, nil
}
