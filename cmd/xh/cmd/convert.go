package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/xhfile/pkg/stream"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Write records to a new XH file (not implemented)",
		Long: `Read every record of <in> and write them to <out>.

Writing XH files is not implemented: the command always fails and <out> is
never created or modified.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := stream.ReadFile(args[0])
			if err != nil {
				return err
			}
			return stream.WriteFile(args[1], records)
		},
	}
}
