package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/xhfile/pkg/assemble"
	"github.com/ssargent/xhfile/pkg/stream"
)

func newInspectCmd() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Describe the records of XH files",
		Long: `Print the byte order, version and a summary of every record in each file.

Examples:
  xh inspect event.xh
  xh inspect --json --samples *.xh`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			withSamples, _ := cmd.Flags().GetBool("samples")
			cfg := envFrom(cmd).cfg

			out := cmd.OutOrStdout()
			reports := make([]*fileReport, 0, len(args))
			failed := 0
			for _, path := range args {
				report := inspectFile(stream.ReaderConfig{
					FilePath:   path,
					Strict:     cfg.Scan.Strict,
					MaxSamples: cfg.Scan.MaxSamples,
				}, withSamples)
				if report.Error != "" {
					failed++
				}
				if asJSON {
					reports = append(reports, report)
					continue
				}
				if err := outputFileReport(out, report); err != nil {
					return err
				}
			}

			if asJSON {
				if err := outputJSON(out, reports); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	inspectCmd.Flags().Bool("json", false, "Print reports as JSON")
	inspectCmd.Flags().Bool("samples", false, "Include sample statistics")
	return inspectCmd
}

// inspectFile decodes every record of a file. Records decoded before an
// error are kept in the report.
func inspectFile(cfg stream.ReaderConfig, withSamples bool) *fileReport {
	report := &fileReport{Path: cfg.FilePath, Traces: []traceReport{}}

	r, err := stream.Open(cfg)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	defer r.Close()

	info := r.Info()
	report.ByteOrder = info.ByteOrder.String()
	report.Version = info.Version

	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return report
		}
		if err != nil {
			report.Error = err.Error()
			return report
		}

		tr, err := assemble.Assemble(rec)
		if err != nil {
			report.Error = fmt.Sprintf("record %d: %v", len(report.Traces), err)
			return report
		}

		item := traceReport{
			Index:  len(report.Traces),
			Offset: rec.Offset,
			ID:     tr.Stats.ID(),
			Stats:  tr.Stats,
		}
		if withSamples {
			s := assemble.ComputeStats(tr.Samples)
			item.Samples = &s
		}
		report.Traces = append(report.Traces, item)
	}
}
