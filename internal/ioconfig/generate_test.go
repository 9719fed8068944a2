package ioconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phenotools/pxtract/internal/ioconfig"
	"github.com/phenotools/pxtract/internal/iomapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDefaultConfig(t *testing.T) {
	home := isolateHome(t)

	path, err := ioconfig.GenerateDefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "pxtract", "pxtract.yaml"), path)

	exists, err := ioconfig.ConfigFileExists()
	require.NoError(t, err)
	assert.True(t, exists)

	// the generated config parses back into the config model
	require.NoError(t, ioconfig.ValidateGeneratedConfig(path))

	// the starter mapping file is a loadable mapping declaration
	mappingPath, err := ioconfig.GetDefaultMappingPath()
	require.NoError(t, err)
	_, err = iomapping.Load(mappingPath)
	require.NoError(t, err)

	// both files already exist, generation refuses to overwrite
	_, err = ioconfig.GenerateDefaultConfig()
	assert.Error(t, err)
}

func TestGenerateKeepsExistingConfig(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".config", "pxtract")
	require.NoError(t, os.MkdirAll(dir, 0755))

	custom := "log:\n  level: debug\n"
	configPath := filepath.Join(dir, "pxtract.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(custom), 0644))

	// the mapping file is still missing, so generation proceeds
	_, err := ioconfig.GenerateDefaultConfig()
	require.NoError(t, err)

	raw, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, custom, string(raw))

	mappingPath, err := ioconfig.GetDefaultMappingPath()
	require.NoError(t, err)
	_, err = os.Stat(mappingPath)
	assert.NoError(t, err)
}

func TestConfigFileExistsWhenAbsent(t *testing.T) {
	isolateHome(t)
	exists, err := ioconfig.ConfigFileExists()
	require.NoError(t, err)
	assert.False(t, exists)
}
