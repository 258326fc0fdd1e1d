// Package appdir provides names and paths for tasklink's files and directories.
package appdir

import "path/filepath"

const (
	// Name is the application name used for OS config directories.
	Name = "tasklink"

	// Dir is the per-user state directory name (inside the home directory).
	Dir = ".tasklink"

	// ConfigFile is the config file name, looked up in the user directory
	// and the working directory.
	ConfigFile = "tasklink.toml"

	// StoreFile is the default task file name.
	StoreFile = "tasks.json"
)

// UserDir returns the per-user state directory under home.
func UserDir(home string) string {
	return filepath.Join(home, Dir)
}

// StorePath returns the default task file path within a work directory.
func StorePath(workDir string) string {
	if workDir == "" {
		workDir = "."
	}
	return filepath.Join(workDir, StoreFile)
}
