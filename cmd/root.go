// Package cmd defines and implements the CLI commands for the sitescout
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sitescout/internal/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitescout",
		Short: "Discovers site directories and their hostnames in a Gitea-hosted tree.",
		Long: `sitescout walks a Gitea-hosted repository tree concurrently, finds
directories containing bare-metal node definition files, extracts the
hostname annotation from each one, and reports every site as soon as it
is discovered.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); SITESCOUT_* env vars apply either way")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newDiscoverCmd())

	return cmd
}

// loadConfig resolves the configuration for a subcommand run.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
