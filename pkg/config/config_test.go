package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./catalog", config.Catalog.Dir)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Bind)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "text", config.Logging.Format)
	assert.Equal(t, runtime.NumCPU(), config.Scan.Workers)
	assert.False(t, config.Scan.Strict)
	assert.Zero(t, config.Scan.MaxSamples)
	assert.NoError(t, config.Validate())
	assert.Equal(t, "127.0.0.1:8080", config.Addr())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty catalog dir", func(c *Config) { c.Catalog.Dir = "" }, "catalog.dir"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"no workers", func(c *Config) { c.Scan.Workers = 0 }, "scan.workers"},
		{"negative max samples", func(c *Config) { c.Scan.MaxSamples = -1 }, "scan.max_samples"},
		{"bad level", func(c *Config) { c.Logging.Level = "chatty" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		tmpDir, err := os.MkdirTemp("", "xh_config_test")
		require.NoError(t, err)
		defer os.RemoveAll(tmpDir)

		configPath := filepath.Join(tmpDir, "config.yaml")
		expectedConfig := &Config{
			Catalog: Catalog{Dir: "/custom/catalog"},
			Server:  Server{Bind: "0.0.0.0", Port: 9000},
			Logging: Logging{Level: "debug", Format: "json"},
			Scan:    Scan{Workers: 3, Strict: true, MaxSamples: 1 << 20},
		}

		err = SaveConfig(expectedConfig, configPath)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "partial.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("scan:\n  strict: true\n"), 0644))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.True(t, loadedConfig.Scan.Strict)
		assert.Equal(t, runtime.NumCPU(), loadedConfig.Scan.Workers)
		assert.Equal(t, "./catalog", loadedConfig.Catalog.Dir)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		tmpDir, err := os.MkdirTemp("", "xh_config_test")
		require.NoError(t, err)
		defer os.RemoveAll(tmpDir)

		configPath := filepath.Join(tmpDir, "invalid.yaml")
		err = os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestSaveConfig(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "xh_config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "nested", "config.yaml")
	config := DefaultConfig()

	err = SaveConfig(config, configPath)
	require.NoError(t, err)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestBootstrapConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	config, err := BootstrapConfig(configPath, "/custom/catalog")
	require.NoError(t, err)
	assert.Equal(t, "/custom/catalog", config.Catalog.Dir)
	assert.True(t, ConfigExists(configPath))

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "xh")
	assert.Contains(t, path, ".yaml")
}

func TestConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingPath := filepath.Join(tmpDir, "exists.yaml")
	require.NoError(t, os.WriteFile(existingPath, []byte("test"), 0644))

	assert.True(t, ConfigExists(existingPath))
	assert.False(t, ConfigExists(filepath.Join(tmpDir, "does-not-exist.yaml")))
}

func TestConfigYAMLKeys(t *testing.T) {
	data, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)

	for _, key := range []string{"catalog:", "dir:", "server:", "bind:", "logging:", "format:", "scan:", "max_samples:"} {
		assert.Contains(t, string(data), key)
	}
}

func TestSaveConfigErrorHandling(t *testing.T) {
	invalidPath := "/invalid/path/that/cannot/be/created/config.yaml"
	if os.Geteuid() == 0 {
		t.Skip("root can create any directory")
	}

	err := SaveConfig(DefaultConfig(), invalidPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}
