package ioconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/phenotools/pxtract/pkg/config"
	"github.com/phenotools/pxtract/pkg/templates"
	"gopkg.in/yaml.v3"
)

// GetConfigDir returns the configuration directory for pxtract.
// Uses ~/.config/pxtract/ on all platforms for consistency.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return config.ConfigDir(homeDir), nil
}

// GetCacheDir returns the cache directory for pxtract, including the default
// location of the persistent ontology term cache.
// Uses ~/.cache/pxtract/ on all platforms for consistency.
func GetCacheDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return config.CacheDir(homeDir), nil
}

// GetDefaultConfigPath returns the full path to the default config file.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "pxtract.yaml"), nil
}

// GetDefaultMappingPath returns the full path to the starter mapping file.
func GetDefaultMappingPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "mapping.yaml"), nil
}

// GenerateDefaultConfig creates documented default config and mapping files
// at the per-user location. Returns the config path where files were created,
// or error if generation fails. Does NOT overwrite existing files.
func GenerateDefaultConfig() (string, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}

	mappingPath, err := GetDefaultMappingPath()
	if err != nil {
		return "", err
	}

	configExists := false
	if _, err := os.Stat(configPath); err == nil {
		configExists = true
	}

	mappingExists := false
	if _, err := os.Stat(mappingPath); err == nil {
		mappingExists = true
	}

	if configExists && mappingExists {
		return "", fmt.Errorf("config files already exist at %s", filepath.Dir(configPath))
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if !configExists {
		if err := os.WriteFile(configPath, []byte(templates.ConfigYAML), 0644); err != nil {
			return "", fmt.Errorf("failed to write config file: %w", err)
		}
	}

	if !mappingExists {
		if err := os.WriteFile(mappingPath, []byte(templates.MappingYAML), 0644); err != nil {
			return "", fmt.Errorf("failed to write mapping file: %w", err)
		}
	}

	return configPath, nil
}

// ConfigFileExists checks if a config file exists at the default location.
func ConfigFileExists() (bool, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return false, err
	}

	_, err = os.Stat(configPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ValidateGeneratedConfig reads and parses a generated config file.
// Used for testing to ensure generated YAML is valid.
func ValidateGeneratedConfig(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	return nil
}
