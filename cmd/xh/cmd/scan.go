package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssargent/xhfile/pkg/ingest"
)

func newScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan <file|dir>...",
		Short: "Index XH files into the catalog",
		Long: `Decode XH files and record their traces in the catalog. Directories are
walked recursively; files that are not XH are skipped. Scanning a file again
replaces its previous entries.

Examples:
  xh scan ./data
  xh scan --workers 8 --strict event1.xh event2.xh`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd)
			applyScanFlags(cmd, e)

			paths, err := ingest.Expand(args)
			if err != nil {
				return err
			}

			cat, err := e.openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			ing := ingest.New(cat, ingest.Config{
				Workers:    e.cfg.Scan.Workers,
				Strict:     e.cfg.Scan.Strict,
				MaxSamples: e.cfg.Scan.MaxSamples,
			}, e.logger, nil)

			start := time.Now()
			results, err := ing.IngestFiles(cmd.Context(), paths)
			if err != nil {
				return err
			}

			var indexed, skipped, failed, records int
			out := cmd.OutOrStdout()
			for _, res := range results {
				switch {
				case res.Err != nil:
					failed++
					fmt.Fprintf(out, "FAILED %s: %v\n", res.Path, res.Err)
				case res.Skipped:
					skipped++
				default:
					indexed++
					records += res.Records
				}
			}
			fmt.Fprintf(out, "indexed %d files (%d records), skipped %d, failed %d in %s\n",
				indexed, records, skipped, failed, formatDuration(time.Since(start)))

			if failed > 0 {
				return fmt.Errorf("%d files failed", failed)
			}
			return nil
		},
	}

	addScanFlags(scanCmd)
	return scanCmd
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("workers", "w", 0, "Files decoded in parallel (default from config)")
	cmd.Flags().Bool("strict", false, "Reject headers whose byte-order markers disagree")
	cmd.Flags().Int64("max-samples", 0, "Reject records declaring more samples than this (0 means no limit)")
}

func applyScanFlags(cmd *cobra.Command, e *env) {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		e.cfg.Scan.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("strict") {
		e.cfg.Scan.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("max-samples") {
		e.cfg.Scan.MaxSamples, _ = flags.GetInt64("max-samples")
	}
}
