/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/xhfile/pkg/catalog"
	"github.com/ssargent/xhfile/pkg/config"
	"github.com/ssargent/xhfile/pkg/di"
	"github.com/ssargent/xhfile/pkg/logging"
)

var container *di.Container

// SetContainer injects the dependency container
func SetContainer(c *di.Container) {
	container = c
}

type envKey struct{}

// env is what PersistentPreRunE hands to every subcommand
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func envFrom(cmd *cobra.Command) *env {
	if e, ok := cmd.Context().Value(envKey{}).(*env); ok {
		return e
	}
	return &env{cfg: config.DefaultConfig(), logger: logging.Discard()}
}

// openCatalog opens the configured catalog, creating its directory
func (e *env) openCatalog() (*catalog.Catalog, error) {
	if container == nil {
		return nil, errors.New("dependency container not initialized")
	}
	if err := os.MkdirAll(e.cfg.Catalog.Dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create catalog dir: %w", err)
	}
	return container.OpenCatalog(e.cfg.Catalog.Dir)
}

// NewRootCmd builds the xh command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xh",
		Short: "xh - XH waveform file toolkit",
		Long: `xh reads XH v0.98 seismic waveform files.

It can inspect files, index their traces into a local catalog, watch a
directory for new files and serve the catalog over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Writer: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, &env{cfg: cfg, logger: logger}))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Config file (default "+config.GetDefaultConfigPath()+")")
	flags.StringP("catalog-dir", "d", "", "Catalog directory")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		newInspectCmd(),
		newScanCmd(),
		newListCmd(),
		newServeCmd(),
		newWatchCmd(),
		newInitCmd(),
		newConvertCmd(),
	)
	return rootCmd
}

// loadConfig reads the config file, when there is one, and applies the
// persistent flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if explicit || config.ConfigExists(path) {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.Changed("catalog-dir") {
		cfg.Catalog.Dir, _ = flags.GetString("catalog-dir")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format, _ = flags.GetString("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
