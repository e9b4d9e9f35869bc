/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/xhfile/pkg/config"
)

func newInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a default configuration file to --config, or to the default location.

Examples:
  xh init
  xh init --config ./xh.yaml --catalog-dir ./catalog --force`,
		Args: cobra.NoArgs,
		// the config file may not exist yet, so skip loading it
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.GetDefaultConfigPath()
			}
			catalogDir, _ := cmd.Flags().GetString("catalog-dir")
			force, _ := cmd.Flags().GetBool("force")

			if config.ConfigExists(path) && !force {
				return fmt.Errorf("config already exists at %s, use --force to overwrite", path)
			}

			cfg, err := config.BootstrapConfig(path, catalogDir)
			if err != nil {
				return err
			}

			cmd.Printf("Wrote %s\n", path)
			cmd.Printf("Catalog directory: %s\n", cfg.Catalog.Dir)
			return nil
		},
	}

	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return initCmd
}
