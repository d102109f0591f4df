// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.bloom/bloom.toml or OS-specific config directory)
// 3. Project config file (bloom.toml or .bloom.toml in the project root)
// 4. Environment variables (BLOOM_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.bloom/bloom.toml (preferred)
// - Windows: %APPDATA%\bloom\bloom.toml
// - macOS: ~/Library/Application Support/bloom/bloom.toml
// - Linux/BSD: $XDG_CONFIG_HOME/bloom/bloom.toml or ~/.config/bloom/bloom.toml
//
// Project-level config locations (overrides user config):
// - ./bloom.toml (preferred)
// - ./.bloom.toml
package config
