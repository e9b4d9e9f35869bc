package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/xhfile/pkg/catalog"
)

func newListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		Long: `List the traces recorded in the catalog, optionally filtered.

Examples:
  xh list
  xh list --network IU --channel Z --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var filter catalog.Filter
			filter.Network, _ = flags.GetString("network")
			filter.Station, _ = flags.GetString("station")
			filter.Location, _ = flags.GetString("location")
			filter.Channel, _ = flags.GetString("channel")
			filter.Path, _ = flags.GetString("path")
			asJSON, _ := flags.GetBool("json")

			cat, err := envFrom(cmd).openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			entries, err := cat.List(filter)
			if err != nil {
				return err
			}
			if asJSON {
				if entries == nil {
					entries = []*catalog.Entry{}
				}
				return outputJSON(cmd.OutOrStdout(), entries)
			}
			return outputEntriesTable(cmd.OutOrStdout(), entries)
		},
	}

	listCmd.Flags().String("network", "", "Only entries of this network")
	listCmd.Flags().String("station", "", "Only entries of this station")
	listCmd.Flags().String("location", "", "Only entries with this location code")
	listCmd.Flags().String("channel", "", "Only entries with this channel label")
	listCmd.Flags().String("path", "", "Only entries of this file (absolute path)")
	listCmd.Flags().Bool("json", false, "Print entries as JSON")
	return listCmd
}
