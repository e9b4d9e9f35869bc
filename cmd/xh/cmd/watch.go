package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ssargent/xhfile/pkg/ingest"
)

func newWatchCmd() *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Index XH files as they are written",
		Long: `Watch a directory and index each file once writes to it have settled.
Removing or renaming a file drops its entries. Existing files are indexed
first unless --initial=false.

Examples:
  xh watch ./incoming
  xh watch --serve --port 8080 ./incoming`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd)
			applyScanFlags(cmd, e)
			applyServerFlags(cmd, e)
			dir := args[0]
			initial, _ := cmd.Flags().GetBool("initial")
			quiet, _ := cmd.Flags().GetDuration("quiet")
			serve, _ := cmd.Flags().GetBool("serve")

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

			w, err := ingest.Watch(ing, dir, quiet, e.logger)
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			if initial {
				paths, err := ingest.Expand([]string{dir})
				if err != nil {
					w.Close()
					return err
				}
				if _, err := ing.IngestFiles(ctx, paths); err != nil {
					w.Close()
					return err
				}
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return w.Run(gctx) })
			if serve {
				g.Go(func() error { return startServer(gctx, e, cat) })
			}
			return g.Wait()
		},
	}

	addScanFlags(watchCmd)
	addServerFlags(watchCmd)
	watchCmd.Flags().Bool("initial", true, "Index files already in the directory")
	watchCmd.Flags().Duration("quiet", ingest.DefaultQuiet, "How long a file must go unwritten before it is indexed")
	watchCmd.Flags().Bool("serve", false, "Also serve the catalog over HTTP")
	return watchCmd
}
