package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	DataDir   string         `json:"dataDir" yaml:"dataDir"`
	LogLevel  string         `json:"logLevel" yaml:"logLevel"`
	LogFormat string         `json:"logFormat" yaml:"logFormat"`
	Replay    ReplayDefaults `json:"replay" yaml:"replay"`
}

// ReplayDefaults captures the baseline retry policy for replay engines.
type ReplayDefaults struct {
	MaxRetries        int     `json:"maxRetries" yaml:"maxRetries"`
	InitialDelayMs    int     `json:"initialDelayMs" yaml:"initialDelayMs"`
	MaxDelayMs        int     `json:"maxDelayMs" yaml:"maxDelayMs"`
	BackoffMultiplier float64 `json:"backoffMultiplier" yaml:"backoffMultiplier"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Replay: ReplayDefaults{
			MaxRetries:        3,
			InitialDelayMs:    100,
			MaxDelayMs:        5000,
			BackoffMultiplier: 2,
		},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
