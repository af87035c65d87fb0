package config

import (
	"os"
	"strconv"
)

// FromEnv overlays RELOG_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("RELOG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("RELOG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("RELOG_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("RELOG_REPLAY_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Replay.MaxRetries = n
		}
	}
	if v := os.Getenv("RELOG_REPLAY_INITIAL_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Replay.InitialDelayMs = n
		}
	}
	if v := os.Getenv("RELOG_REPLAY_MAX_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Replay.MaxDelayMs = n
		}
	}
	if v := os.Getenv("RELOG_REPLAY_BACKOFF_MULTIPLIER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 1 {
			cfg.Replay.BackoffMultiplier = f
		}
	}
}
