package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sitescout/internal/server"
)

// newServeCmd creates the 'serve' subcommand, which runs the HTTP service
// exposing the SSE stream and the aggregation endpoint.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Runs the discovery HTTP service",
		Long: `Starts the HTTP server. Every GET /api/data request performs its own
walk of the configured repository tree and streams discovered sites to the
client as server-sent events; GET /api/sites returns one aggregated result.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			app, err := server.Build(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("build application: %w", err)
			}

			if err := app.Run(cmd.Context()); err != nil {
				return fmt.Errorf("run application: %w", err)
			}
			return nil
		},
	}
}
