package config

import (
	"fmt"
	"os"
	"strconv"
)

// loadFromEnv overrides config from BLOOM_* environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	atoi := func(name, v string) (int, error) {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid integer %q", name, v)
		}
		return n, nil
	}

	if v := os.Getenv("BLOOM_DIR"); v != "" {
		cfg.StoreDir = v
		set("store_dir")
	}
	if v := os.Getenv("BLOOM_BACKEND"); v != "" {
		cfg.Backend = v
		set("backend")
	}
	if v := os.Getenv("BLOOM_KEY"); v != "" {
		cfg.StoreKey = v
		set("store_key")
	}
	if v := os.Getenv("BLOOM_QUOTA"); v != "" {
		n, err := atoi("BLOOM_QUOTA", v)
		if err != nil {
			return err
		}
		cfg.QuotaBytes = n
		set("quota_bytes")
	}
	if v := os.Getenv("BLOOM_DELETE_DELAY_MS"); v != "" {
		n, err := atoi("BLOOM_DELETE_DELAY_MS", v)
		if err != nil {
			return err
		}
		cfg.DeleteDelayMS = n
		set("delete_delay_ms")
	}

	if v := os.Getenv("BLOOM_LOG_DIR"); v != "" {
		cfg.LogDir = v
		set("log_dir")
	}
	if v := os.Getenv("BLOOM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv("BLOOM_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv("BLOOM_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv("BLOOM_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
	return nil
}
