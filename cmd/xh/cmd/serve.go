/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/xhfile/pkg/api"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		Long: `Start the REST API over the trace catalog. Prometheus metrics are served
at /metrics.

Examples:
  xh serve --port 8080
  xh serve --bind 0.0.0.0 --catalog-dir ./catalog`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd)
			applyServerFlags(cmd, e)

			cat, err := e.openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			return startServer(ctx, e, cat)
		},
	}

	addServerFlags(serveCmd)
	return serveCmd
}

func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().String("bind", "", "Address to listen on (default from config)")
	cmd.Flags().IntP("port", "p", 0, "Port to listen on (default from config)")
}

func applyServerFlags(cmd *cobra.Command, e *env) {
	if cmd.Flags().Changed("bind") {
		e.cfg.Server.Bind, _ = cmd.Flags().GetString("bind")
	}
	if cmd.Flags().Changed("port") {
		e.cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
}

func startServer(ctx context.Context, e *env, store api.TraceStore) error {
	starter := container.GetServerFactory().CreateServerStarter()
	return starter.StartServer(ctx, store, api.ServerConfig{
		Bind: e.cfg.Server.Bind,
		Port: e.cfg.Server.Port,
	}, e.logger)
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
