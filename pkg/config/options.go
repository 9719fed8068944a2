package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptMappingPath sets the path to the mapping file declaring data sources.
func OptMappingPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Mapping Path", s) {
			c.MappingPath = s
		}
	}
}

// OptStrategies sets the ordered list of transform strategies.
func OptStrategies(names []string) Option {
	return func(c *Config) {
		if len(names) > 0 {
			c.Strategies = names
		}
	}
}

// OptOntologies sets the ontology references warmed before the run.
func OptOntologies(refs []string) Option {
	return func(c *Config) {
		if len(refs) > 0 {
			c.Ontologies = refs
		}
	}
}

// OptOntologyBaseURL sets the root of the HTTP term lookup API.
func OptOntologyBaseURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Ontology BaseURL", s) {
			c.Ontology.BaseURL = s
		}
	}
}

// OptOntologyAPIToken sets the lookup API credential.
func OptOntologyAPIToken(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		// empty token means anonymous access, not an error
		c.Ontology.APIToken = s
	}
}

// OptOntologyTimeoutSec bounds a single backing lookup.
func OptOntologyTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidInt("Ontology Timeout", i) {
			c.Ontology.TimeoutSec = i
		}
	}
}

// OptOntologyCachePath sets the SQLite term cache location.
func OptOntologyCachePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		c.Ontology.CachePath = s
	}
}

// OptLoaderKind selects the record destination.
// Valid values: "dir", "postgres".
func OptLoaderKind(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Loader.Kind", s) {
			c.Loader.Kind = s
		}
	}
}

// OptLoaderOutDir sets the output directory of the dir loader.
func OptLoaderOutDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Loader OutDir", s) {
			c.Loader.OutDir = s
		}
	}
}

// OptLoaderCreateDir controls creation of a missing output directory.
func OptLoaderCreateDir(b bool) Option {
	return func(c *Config) {
		c.Loader.CreateDir = b
	}
}

// OptLoaderDSN sets the PostgreSQL connection string.
func OptLoaderDSN(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Loader DSN", s) {
			c.Loader.DSN = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the logging format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptJobsNumber sets the number of concurrent table workers.
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}
