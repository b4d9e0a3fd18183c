package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"sitescout/internal/server"
	"sitescout/internal/site"
)

// Output formats for the discover command.
const (
	formatNDJSON = "ndjson"
	formatYAML   = "yaml"
	formatTable  = "table"
)

// newDiscoverCmd creates the 'discover' subcommand, which performs one walk
// and prints every discovered site to stdout.
func newDiscoverCmd() *cobra.Command {
	var (
		ref    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Walks the repository tree once and prints discovered sites",
		Long: `Performs a single discovery walk against the configured repository and
prints each site record. With --format ndjson (the default) records are
printed as they are discovered; yaml and table render after the walk
completes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatNDJSON && format != formatYAML && format != formatTable {
				return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatNDJSON, formatYAML, formatTable)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			app, err := server.Build(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("build application: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			defer func() {
				if cerr := app.Close(context.Background()); cerr != nil {
					app.Logger().Warn("close failed", zap.Error(cerr))
				}
			}()

			return renderRecords(ctx, app, ref, format)
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "tree reference to walk (defaults to repo.ref)")
	cmd.Flags().StringVar(&format, "format", formatNDJSON, "output format: ndjson, yaml or table")

	return cmd
}

func renderRecords(ctx context.Context, app *server.App, ref, format string) error {
	stream := app.Walker().Stream(ctx, ref, app.AuxSinks()...)
	if err := renderStream(os.Stdout, stream, format); err != nil {
		return err
	}
	return ctx.Err()
}

// renderStream consumes the record stream and writes it in the requested
// format. NDJSON is written record by record; yaml and table render once the
// stream has closed.
func renderStream(out io.Writer, stream <-chan site.Record, format string) error {
	if format == formatNDJSON {
		enc := json.NewEncoder(out)
		for rec := range stream {
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("encode record: %w", err)
			}
		}
		return nil
	}

	records := []site.Record{}
	for rec := range stream {
		records = append(records, rec)
	}

	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode records: %w", err)
		}
	case formatTable:
		renderTable(out, records)
	}
	return nil
}

func renderTable(out io.Writer, records []site.Record) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SITE PATH\tHOSTNAMES\tNODE FILES\tERRORS")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n",
			rec.Path,
			strings.Join(rec.Hostnames, ","),
			len(rec.NodeFiles),
			len(rec.Errors),
		)
	}
	w.Flush()
}
