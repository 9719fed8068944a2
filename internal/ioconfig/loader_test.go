package ioconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phenotools/pxtract/internal/ioconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate the test from the developer's real config and env
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadDefaults(t *testing.T) {
	isolateHome(t)

	res, err := ioconfig.Load("")
	require.NoError(t, err)
	assert.Equal(t, "defaults", res.Source)
	assert.Empty(t, res.SourcePath)

	cfg := res.Config
	assert.Equal(t, "https://ontology.jax.org/api", cfg.Ontology.BaseURL)
	assert.Equal(t, "dir", cfg.Loader.Kind)
	assert.Equal(t, "records", cfg.Loader.OutDir)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "pxtract.yaml")
	doc := `
mapping_path: study/mapping.yaml
ontologies:
  - HP
  - MONDO:2024-08-07
ontology:
  timeout_sec: 10
loader:
  kind: postgres
  dsn: postgres://localhost/pxtract
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	res, err := ioconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file", res.Source)
	assert.Equal(t, path, res.SourcePath)

	cfg := res.Config
	assert.Equal(t, "study/mapping.yaml", cfg.MappingPath)
	assert.Equal(t, []string{"HP", "MONDO:2024-08-07"}, cfg.Ontologies)
	assert.Equal(t, 10, cfg.Ontology.TimeoutSec)
	assert.Equal(t, "postgres", cfg.Loader.Kind)
	assert.Equal(t, "postgres://localhost/pxtract", cfg.Loader.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)

	// keys absent from the file keep their defaults
	assert.Equal(t, "https://ontology.jax.org/api", cfg.Ontology.BaseURL)
	assert.Equal(t, "records", cfg.Loader.OutDir)
}

func TestLoadEnvOverride(t *testing.T) {
	isolateHome(t)
	t.Setenv("PXTRACT_LOG_LEVEL", "debug")
	t.Setenv("PXTRACT_ONTOLOGY_API_TOKEN", "s3cret")

	res, err := ioconfig.Load("")
	require.NoError(t, err)
	assert.Equal(t, "defaults+env", res.Source)
	assert.Equal(t, "debug", res.Config.Log.Level)
	assert.Equal(t, "s3cret", res.Config.Ontology.APIToken)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolateHome(t)
	_, err := ioconfig.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "pxtract.yaml")
	require.NoError(t, os.WriteFile(path, []byte("loader: [not a map\n"), 0644))

	_, err := ioconfig.Load(path)
	assert.Error(t, err)
}
