package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MosaabBleik/catalog-service/internal/database"
	"github.com/MosaabBleik/catalog-service/internal/ingest"
)

func newIngestCommand(opts *globalOptions) *cobra.Command {
	var (
		dir       string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load the CSV archive into the store",
		Long: `Load distribution_centers, users, products, orders, inventory_items and
order_items from <dir>/<table>.csv, in that order. Rows that cannot be parsed
or are rejected by the store are logged and skipped.

Examples:
  catalogctl ingest --dir ./archive
  catalogctl ingest --dir ./archive --batch-size 1000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, logger, err := opts.connect()
			if err != nil {
				return err
			}
			defer database.Close(db)
			defer logger.Sync()

			ctx := cmd.Context()
			if err := database.VerifySchema(ctx, db); err != nil {
				return fmt.Errorf("%w (run `catalogctl migrate up` first)", err)
			}

			loader := ingest.NewLoader(ingest.NewGormSink(db), logger, ingest.WithBatchSize(batchSize))
			summaries, loadErr := loader.LoadDir(ctx, dir)

			if opts.jsonOutput {
				if err := writeJSONOutput(cmd.OutOrStdout(), summaries); err != nil {
					return err
				}
			} else {
				renderIngestSummary(cmd.OutOrStdout(), summaries)
			}
			return loadErr
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "./archive", "Directory containing the CSV files")
	cmd.Flags().IntVar(&batchSize, "batch-size", ingest.DefaultBatchSize, "Rows per insert statement")
	return cmd
}

func renderIngestSummary(w io.Writer, summaries []ingest.Summary) {
	out := printer{w}
	out.Section("Ingestion summary")

	rows := make([][]string, 0, len(summaries))
	var skipped int
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Table,
			strconv.Itoa(s.Read),
			strconv.Itoa(s.Loaded),
			strconv.Itoa(s.Duplicates),
			strconv.Itoa(s.Skipped),
		})
		skipped += s.Skipped
	}
	out.Table([]string{"TABLE", "READ", "LOADED", "DUPLICATES", "SKIPPED"}, rows)
	fmt.Fprintln(w)

	if skipped == 0 {
		out.Success("All rows loaded")
		return
	}
	out.Warning("%d rows skipped", skipped)
	for _, s := range summaries {
		for _, rowErr := range s.Errors {
			out.Muted("  %s", rowErr.Error())
		}
	}
}
