/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/xhfile/pkg/logging"
)

// Config represents the xh toolkit configuration
type Config struct {
	Catalog Catalog `yaml:"catalog"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
	Scan    Scan    `yaml:"scan"`
}

// Catalog locates the trace catalog database
type Catalog struct {
	Dir string `yaml:"dir"`
}

// Server contains HTTP API settings
type Server struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Scan controls how files are decoded during ingest
type Scan struct {
	Workers    int   `yaml:"workers"`
	Strict     bool  `yaml:"strict"`
	MaxSamples int64 `yaml:"max_samples"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: Catalog{
			Dir: "./catalog",
		},
		Server: Server{
			Bind: "127.0.0.1",
			Port: 8080,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Scan: Scan{
			Workers: runtime.NumCPU(),
		},
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.Catalog.Dir == "" {
		return errors.New("catalog.dir must be set")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1, got %d", c.Scan.Workers)
	}
	if c.Scan.MaxSamples < 0 {
		return fmt.Errorf("scan.max_samples must not be negative, got %d", c.Scan.MaxSamples)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}
	return nil
}

// Addr returns the listen address for the HTTP API
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// LoadConfig loads configuration from the specified path. Settings missing
// from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes a default configuration, optionally pointing the
// catalog at catalogDir
func BootstrapConfig(configPath string, catalogDir string) (*Config, error) {
	config := DefaultConfig()
	if catalogDir != "" {
		config.Catalog.Dir = catalogDir
	}

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./xh.yaml"
	}

	// ~/.config/xh/config.yaml
	return filepath.Join(homeDir, ".config", "xh", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
