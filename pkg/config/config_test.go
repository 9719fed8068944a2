package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/phenotools/pxtract/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "pxtract"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "pxtract"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "pxtract", "pxtract.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, "https://ontology.jax.org/api", cfg.Ontology.BaseURL)
	assert.Equal(t, 30, cfg.Ontology.TimeoutSec)
	assert.Empty(t, cfg.Ontology.APIToken)
	assert.Empty(t, cfg.Ontology.CachePath)

	assert.Equal(t, "dir", cfg.Loader.Kind)
	assert.Equal(t, "records", cfg.Loader.OutDir)
	assert.True(t, cfg.Loader.CreateDir)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
}

func TestUpdate(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptMappingPath("study.yaml"),
		config.OptStrategies([]string{"string_correction", "alias_map"}),
		config.OptOntologies([]string{"HP", "MONDO:2024-08-07"}),
		config.OptLoaderKind("postgres"),
		config.OptLoaderDSN("postgres://localhost/pxtract"),
		config.OptJobsNumber(4),
		config.OptLogLevel("debug"),
	})

	assert.Equal(t, "study.yaml", cfg.MappingPath)
	assert.Equal(t, []string{"string_correction", "alias_map"}, cfg.Strategies)
	assert.Equal(t, []string{"HP", "MONDO:2024-08-07"}, cfg.Ontologies)
	assert.Equal(t, "postgres", cfg.Loader.Kind)
	assert.Equal(t, "postgres://localhost/pxtract", cfg.Loader.DSN)
	assert.Equal(t, 4, cfg.JobsNumber)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestUpdateRejectsInvalid(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptMappingPath("   "),
		config.OptLoaderKind("s3"),
		config.OptLogLevel("verbose"),
		config.OptLogFormat("xml"),
		config.OptJobsNumber(-1),
		config.OptOntologyTimeoutSec(0),
	})

	// invalid options are ignored, the config stays at its defaults
	assert.Empty(t, cfg.MappingPath)
	assert.Equal(t, "dir", cfg.Loader.Kind)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
	assert.Equal(t, 30, cfg.Ontology.TimeoutSec)
}

func TestToOptionsRoundTrip(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptMappingPath("study.yaml"),
		config.OptOntologyCachePath("/tmp/terms.db"),
		config.OptLoaderOutDir("out"),
	})

	clone := config.New()
	clone.Update(cfg.ToOptions())
	assert.Equal(t, cfg, clone)
}
