package config

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Used for round-tripping pxtract.yaml <-> Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option

	if s := c.MappingPath; s != "" {
		res = append(res, OptMappingPath(s))
	}
	if len(c.Strategies) > 0 {
		res = append(res, OptStrategies(c.Strategies))
	}
	if len(c.Ontologies) > 0 {
		res = append(res, OptOntologies(c.Ontologies))
	}
	if s := c.Ontology.BaseURL; s != "" {
		res = append(res, OptOntologyBaseURL(s))
	}
	if s := c.Ontology.APIToken; s != "" {
		res = append(res, OptOntologyAPIToken(s))
	}
	if i := c.Ontology.TimeoutSec; i > 0 {
		res = append(res, OptOntologyTimeoutSec(i))
	}
	if s := c.Ontology.CachePath; s != "" {
		res = append(res, OptOntologyCachePath(s))
	}
	if s := c.Loader.Kind; s != "" {
		res = append(res, OptLoaderKind(s))
	}
	if s := c.Loader.OutDir; s != "" {
		res = append(res, OptLoaderOutDir(s))
	}
	if s := c.Loader.DSN; s != "" {
		res = append(res, OptLoaderDSN(s))
	}
	if s := c.Log.Format; s != "" {
		res = append(res, OptLogFormat(s))
	}
	if s := c.Log.Level; s != "" {
		res = append(res, OptLogLevel(s))
	}
	if i := c.JobsNumber; i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		slog.Warn("option cannot be empty, ignoring", "option", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		slog.Warn("option has to be a positive number, ignoring",
			"option", name, "value", i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Loader.Kind": {"dir": s, "postgres": s},
		"Log.Level":   {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":  {"json": s, "text": s},
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	slog.Warn(fmt.Sprintf(
		"%s does not support %q as a value. Valid values are: %s. Ignoring",
		name, val, strings.Join(vals, ", "),
	))
	return false
}
