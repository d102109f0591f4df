package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/bloom-go/internal/bloomdir"
)

// ConfigSource names where a config value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user config"
	SourceProjFile ConfigSource = "project config"
	SourceEnv      ConfigSource = "env"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources pairs a loaded config with the source of each field,
// keyed by TOML field name.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultStoreDir      = bloomdir.Dir
	DefaultBackend       = "file"
	DefaultStoreKey      = "bloomGrowTasks"
	DefaultQuotaBytes    = 5 << 20
	DefaultDeleteDelayMS = 300
	DefaultLogDir        = "~/.bloom/logs"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

var validBackends = []string{"file", "memory", "sqlite"}

// Config holds all bloom configuration.
type Config struct {
	// Storage
	StoreDir   string `toml:"store_dir"`
	Backend    string `toml:"backend"`
	StoreKey   string `toml:"store_key"`
	QuotaBytes int    `toml:"quota_bytes"`

	// Interface
	DeleteDelayMS int `toml:"delete_delay_ms"`

	// Logging
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// ProjectRoot is the directory bloom was started in.
	ProjectRoot string `toml:"-"`
}

// DeleteDelay returns the delete animation delay.
func (c *Config) DeleteDelay() time.Duration {
	return time.Duration(c.DeleteDelayMS) * time.Millisecond
}

// Load builds the configuration from all sources and parses args into fs.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources is Load, also reporting which source set each field.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cfg := &Config{}
	setDefaults(cfg)

	sources := make(map[string]ConfigSource)
	for _, name := range configFields() {
		sources[name] = SourceDefault
	}
	cws := &ConfigWithSources{Config: cfg, Sources: sources}

	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceUserFile); err != nil {
			return nil, err
		}
		cws.Files = append(cws.Files, path)
	}
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceProjFile); err != nil {
			return nil, err
		}
		cws.Files = append(cws.Files, path)
	}

	if err := loadFromEnv(cfg, sources); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, err
	}
	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}
	return cws, nil
}

// SortedFields returns the tracked field names in stable order.
func (cws *ConfigWithSources) SortedFields() []string {
	names := make([]string, 0, len(cws.Sources))
	for name := range cws.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value returns the current value of the field with the given TOML name.
func (c *Config) Value(name string) (any, bool) {
	switch name {
	case "store_dir":
		return c.StoreDir, true
	case "backend":
		return c.Backend, true
	case "store_key":
		return c.StoreKey, true
	case "quota_bytes":
		return c.QuotaBytes, true
	case "delete_delay_ms":
		return c.DeleteDelayMS, true
	case "log_dir":
		return c.LogDir, true
	case "log_level":
		return c.LogLevel, true
	case "log_format":
		return c.LogFormat, true
	case "log_timestamps":
		return c.LogTimestamps, true
	case "log_caller":
		return c.LogCaller, true
	}
	return nil, false
}

func configFields() []string {
	return []string{
		"store_dir", "backend", "store_key", "quota_bytes",
		"delete_delay_ms",
		"log_dir", "log_level", "log_format", "log_timestamps", "log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.StoreDir = DefaultStoreDir
	cfg.Backend = DefaultBackend
	cfg.StoreKey = DefaultStoreKey
	cfg.QuotaBytes = DefaultQuotaBytes
	cfg.DeleteDelayMS = DefaultDeleteDelayMS
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = true
}

// loadConfigFile decodes a TOML file over cfg. Keys present in the file are
// recorded as coming from source.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	for _, key := range md.Keys() {
		if sources != nil {
			sources[key.String()] = source
		}
	}
	return nil
}

// finalizeConfig normalizes and validates the merged config.
func finalizeConfig(cfg *Config) error {
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if !isValidBackend(cfg.Backend) {
		return fmt.Errorf("invalid backend %q (want one of %s)", cfg.Backend, strings.Join(validBackends, ", "))
	}
	cfg.StoreKey = strings.TrimSpace(cfg.StoreKey)
	if cfg.StoreKey == "" {
		return fmt.Errorf("store_key must not be empty")
	}
	if cfg.QuotaBytes < 0 {
		return fmt.Errorf("quota_bytes must not be negative: %d", cfg.QuotaBytes)
	}
	if cfg.DeleteDelayMS < 0 {
		return fmt.Errorf("delete_delay_ms must not be negative: %d", cfg.DeleteDelayMS)
	}

	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	cfg.StoreDir = expandPath(cfg.StoreDir)
	if cfg.StoreDir == "" {
		cfg.StoreDir = bloomdir.DirPath(cfg.ProjectRoot)
	}
	if !filepath.IsAbs(cfg.StoreDir) {
		cfg.StoreDir = filepath.Join(cfg.ProjectRoot, cfg.StoreDir)
	}
	cfg.LogDir = expandPath(cfg.LogDir)
	return nil
}

func isValidBackend(name string) bool {
	for _, b := range validBackends {
		if b == name {
			return true
		}
	}
	return false
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
