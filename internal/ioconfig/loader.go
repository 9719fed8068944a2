// Package ioconfig provides I/O operations for loading configuration from files and flags.
// This is an impure package that handles file system and flag operations.
package ioconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/phenotools/pxtract/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// LoadResult contains the loaded configuration and metadata about the source.
type LoadResult struct {
	Config     *config.Config
	SourcePath string // Path to config file used, or empty if using defaults
	Source     string // "file", "defaults", or "defaults+env"
}

// Load reads configuration from a YAML file and returns a Config with source
// info. If configPath is empty, it searches default locations:
//   - ./pxtract.yaml
//   - ~/.config/pxtract/pxtract.yaml
//
// Returns error if the file is malformed.
func Load(configPath string) (*LoadResult, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	// Precedence: flags > env vars > config file > defaults
	v.SetEnvPrefix("PXTRACT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults BEFORE reading config so env vars work with
	// AutomaticEnv() even when the key is absent from the file.
	defaults := config.New()
	v.SetDefault("mapping_path", defaults.MappingPath)
	v.SetDefault("strategies", defaults.Strategies)
	v.SetDefault("ontologies", defaults.Ontologies)
	v.SetDefault("ontology.base_url", defaults.Ontology.BaseURL)
	v.SetDefault("ontology.api_token", defaults.Ontology.APIToken)
	v.SetDefault("ontology.timeout_sec", defaults.Ontology.TimeoutSec)
	v.SetDefault("ontology.cache_path", defaults.Ontology.CachePath)
	v.SetDefault("loader.kind", defaults.Loader.Kind)
	v.SetDefault("loader.out_dir", defaults.Loader.OutDir)
	v.SetDefault("loader.create_dir", defaults.Loader.CreateDir)
	v.SetDefault("loader.dsn", defaults.Loader.DSN)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("jobs_number", defaults.JobsNumber)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if path, ok := findDefaultConfig(); ok {
		v.SetConfigFile(path)
	}

	configFileRead := false
	usedConfigPath := ""

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if configPath != "" {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
			// no config file in default locations, use defaults + env vars
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileRead = true
		usedConfigPath = v.ConfigFileUsed()
	}

	cfg := config.New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	source := "defaults"
	if configFileRead {
		source = "file"
	} else if hasEnvVars() {
		source = "defaults+env"
	}

	return &LoadResult{
		Config:     cfg,
		SourcePath: usedConfigPath,
		Source:     source,
	}, nil
}

// findDefaultConfig checks the working directory first, then the per-user
// config directory.
func findDefaultConfig() (string, bool) {
	if _, err := os.Stat("pxtract.yaml"); err == nil {
		return "pxtract.yaml", true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	path := config.ConfigFilePath(home)
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	return "", false
}

// hasEnvVars checks if any PXTRACT_* environment variables are set.
func hasEnvVars() bool {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "PXTRACT_") {
			return true
		}
	}
	return false
}

// BindFlags overrides config values with flags that were changed on the
// command line. CLI flags take precedence over config file values.
func BindFlags(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	v := viper.New()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	var opts []config.Option
	if cmd.Flags().Changed("mapping") {
		opts = append(opts, config.OptMappingPath(v.GetString("mapping")))
	}
	if cmd.Flags().Changed("strategies") {
		opts = append(opts, config.OptStrategies(v.GetStringSlice("strategies")))
	}
	if cmd.Flags().Changed("ontologies") {
		opts = append(opts, config.OptOntologies(v.GetStringSlice("ontologies")))
	}
	if cmd.Flags().Changed("loader") {
		opts = append(opts, config.OptLoaderKind(v.GetString("loader")))
	}
	if cmd.Flags().Changed("out-dir") {
		opts = append(opts, config.OptLoaderOutDir(v.GetString("out-dir")))
	}
	if cmd.Flags().Changed("jobs") {
		opts = append(opts, config.OptJobsNumber(v.GetInt("jobs")))
	}
	if cmd.Flags().Changed("log-level") {
		opts = append(opts, config.OptLogLevel(v.GetString("log-level")))
	}
	cfg.Update(opts)

	return cfg, nil
}
