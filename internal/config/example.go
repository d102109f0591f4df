package config

// ExampleConfig returns a commented bloom.toml with every setting at its
// default value.
func ExampleConfig() string {
	return `# bloom configuration
# Place at ./bloom.toml (project) or ~/.bloom/bloom.toml (user).

# Directory holding the task store, relative to the project root.
store_dir = ".bloom"

# Storage backend: "file", "sqlite" or "memory".
backend = "file"

# Slot key the task list is saved under.
store_key = "bloomGrowTasks"

# Maximum stored size in bytes. 0 disables the limit.
quota_bytes = 5242880

# How long a deleted row is shown before it is removed.
delete_delay_ms = 300

# Logging
log_dir = "~/.bloom/logs"
log_level = "info"       # debug, info, warn, error
log_format = "text"      # text, json, logfmt
log_timestamps = true
log_caller = false
`
}
