package config

import (
	"flag"
)

// flagFields maps global flag names to the config field they set.
var flagFields = map[string]string{
	"dir":          "store_dir",
	"backend":      "backend",
	"key":          "store_key",
	"quota":        "quota_bytes",
	"delete-delay": "delete_delay_ms",
	"log-dir":      "log_dir",
	"log-level":    "log_level",
	"log-format":   "log_format",
}

// parseFlags binds the global flags to cfg and parses args. Flags that were
// set explicitly are recorded in sources.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("bloom", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.StoreDir, "dir", cfg.StoreDir, "State directory")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Storage backend (file, sqlite, memory)")
	fs.StringVar(&cfg.StoreKey, "key", cfg.StoreKey, "Storage slot key")
	fs.IntVar(&cfg.QuotaBytes, "quota", cfg.QuotaBytes, "Storage quota in bytes (0 disables)")
	fs.IntVar(&cfg.DeleteDelayMS, "delete-delay", cfg.DeleteDelayMS, "Delete animation delay in milliseconds")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
