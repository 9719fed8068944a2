package config

import (
	"path/filepath"
)

// AppName is used in generating file system paths.
const AppName = "pxtract"

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/pxtract by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files, including the
// persistent ontology term cache.
// Returns ~/.cache/pxtract by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// ConfigFilePath returns the full path to the pxtract.yaml file.
// Returns ~/.config/pxtract/pxtract.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "pxtract.yaml")
}
