// Package bloomdir provides constants and utilities for the .bloom directory structure.
package bloomdir

import "path/filepath"

const (
	// Dir is the name of the per-project state directory.
	Dir = ".bloom"

	// DefaultStoreFile is the file-backed key-value store (inside .bloom).
	DefaultStoreFile = "storage.json"

	// DefaultDBFile is the SQLite-backed key-value store (inside .bloom).
	DefaultDBFile = "storage.db"

	// DefaultConfigFile is the config file name (inside ~/.bloom or the project root).
	DefaultConfigFile = "bloom.toml"

	// DefaultExportFile is the file name used by export when no -o is given.
	DefaultExportFile = "tasks.html"
)

// StorePath returns the path of the JSON store file within a state directory.
func StorePath(stateDir string) string {
	return joinPath(stateDir, DefaultStoreFile)
}

// DBPath returns the path of the SQLite store within a state directory.
func DBPath(stateDir string) string {
	return joinPath(stateDir, DefaultDBFile)
}

// DirPath returns the .bloom directory within a project root.
func DirPath(projectRoot string) string {
	if projectRoot == "." || projectRoot == "" {
		return Dir
	}
	return filepath.Join(projectRoot, Dir)
}

func joinPath(stateDir, file string) string {
	if stateDir == "" {
		stateDir = Dir
	}
	return filepath.Join(stateDir, file)
}
