// Package config provides configuration management for pxtract.
//
// This package has no I/O dependencies (no file operations, no network
// calls). File loading and environment overrides live in internal/ioconfig;
// the declarative column mapping files in internal/iomapping.
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > pxtract.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with a warning - config remains valid
// - Environment variables use the PXTRACT_ prefix with underscores for
//   nesting (ontology.base_url -> PXTRACT_ONTOLOGY_BASE_URL)
package config

import "runtime"

// Config is the ambient configuration of a pipeline run. The declarative
// column mappings are not part of it; they live in the mapping file
// referenced by MappingPath.
type Config struct {
	// MappingPath locates the YAML file declaring data sources and their
	// table contexts.
	MappingPath string `mapstructure:"mapping_path" yaml:"mapping_path"`

	// Strategies is the ordered list of transform strategies to run.
	// Empty means the default order.
	Strategies []string `mapstructure:"strategies" yaml:"strategies"`

	// Ontologies lists references whose caches are warmed before the run,
	// e.g. "HP" or "MONDO:2024-08-07".
	Ontologies []string `mapstructure:"ontologies" yaml:"ontologies"`

	// Ontology contains backing provider settings for term lookups.
	Ontology OntologyConfig `mapstructure:"ontology" yaml:"ontology"`

	// Loader determines where finalized records go.
	Loader LoaderConfig `mapstructure:"loader" yaml:"loader"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of tables processed concurrently.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`
}

// OntologyConfig contains term lookup provider settings.
type OntologyConfig struct {
	// BaseURL is the root of the HTTP term lookup API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// APIToken authenticates against the lookup API; empty means
	// anonymous access. Usually supplied via PXTRACT_ONTOLOGY_API_TOKEN
	// rather than the config file.
	APIToken string `mapstructure:"api_token" yaml:"api_token"`

	// TimeoutSec bounds a single backing lookup. A timeout surfaces as a
	// lookup error scoped to the requested key, never a hung pipeline.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// CachePath is the SQLite file that persists fetched terms across
	// runs. Empty disables the persistent cache.
	CachePath string `mapstructure:"cache_path" yaml:"cache_path"`
}

// LoaderConfig determines the destination of finalized records.
type LoaderConfig struct {
	// Kind is "dir" (one JSON file per record) or "postgres".
	Kind string `mapstructure:"kind" yaml:"kind"`

	// OutDir receives record files when Kind is "dir".
	OutDir string `mapstructure:"out_dir" yaml:"out_dir"`

	// CreateDir creates OutDir when it does not exist.
	CreateDir bool `mapstructure:"create_dir" yaml:"create_dir"`

	// DSN is the PostgreSQL connection string when Kind is "postgres".
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format" yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level" yaml:"level"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	return &Config{
		Ontology: OntologyConfig{
			BaseURL:    "https://ontology.jax.org/api",
			TimeoutSec: 30,
		},
		Loader: LoaderConfig{
			Kind:      "dir",
			OutDir:    "records",
			CreateDir: true,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
		},
		JobsNumber: runtime.NumCPU(),
	}
}
